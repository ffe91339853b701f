package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ajiwo/dynstore/backends"
)

// withBackend resolves name, runs fn and closes the backend.
func (a *app) withBackend(name string, fn func(b backends.Backend) error) error {
	b, err := a.resolver.Resolve(name)
	if err != nil {
		return err
	}
	defer b.Close()
	return fn(b)
}

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME KEY",
		Short: "Print the value of a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(args[0], func(b backends.Backend) error {
				value, err := b.Get(cmd.Context(), args[1])
				if err != nil {
					return err
				}
				a.printf(cmd, "%s\n", value)
				return nil
			})
		},
	}
}

func newSetCommand(a *app) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "set NAME KEY VALUE",
		Short: "Store a value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(args[0], func(b backends.Backend) error {
				if err := b.Set(cmd.Context(), args[1], args[2], ttl); err != nil {
					return err
				}
				a.logger.Debug().Str("name", args[0]).Str("key", args[1]).Dur("ttl", ttl).Msg("value stored")
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "Expiration of the value, 0 for none")

	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME KEY",
		Short: "Delete a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackend(args[0], func(b backends.Backend) error {
				return b.Delete(cmd.Context(), args[1])
			})
		},
	}
}
