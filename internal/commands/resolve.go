package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newResolveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve NAME",
		Short: "Resolve a storage name and show where the backend came from",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			source := "default"
			pattern, ok, err := a.resolver.Route(name)
			if err != nil {
				return err
			}
			if ok {
				source = "pattern " + pattern.String()
			}

			b, err := a.resolver.Resolve(name)
			if err != nil {
				return err
			}
			defer b.Close()

			a.printf(cmd, "%s\t%T\t%s\n", name, b, source)
			return nil
		},
	}
}

func newPatternsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List configured patterns in priority order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tPATTERN\tSYNTAX\tBACKEND\tPREFIX")
			for i, s := range a.config.Storages {
				syntax := s.Syntax
				if syntax == "" {
					syntax = "regexp"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, s.Pattern, syntax, s.Kind, s.Prefix)
			}
			return w.Flush()
		},
	}
}
