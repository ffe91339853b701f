package postgres

import (
	"fmt"

	"github.com/ajiwo/dynstore/backends"
)

func init() {
	backends.Register("postgres", func(config any) (backends.Backend, error) {
		var cfg Config
		switch c := config.(type) {
		case Config:
			cfg = c
		case *Config:
			if c == nil {
				return nil, fmt.Errorf("%w, got nil", ErrInvalidConfig)
			}
			cfg = *c
		default:
			return nil, fmt.Errorf("%w, got %T", ErrInvalidConfig, config)
		}

		b, err := New(cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}
