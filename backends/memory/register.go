package memory

import (
	"fmt"

	"github.com/ajiwo/dynstore/backends"
)

func init() {
	backends.Register("memory", func(config any) (backends.Backend, error) {
		var cfg Config
		switch c := config.(type) {
		case nil:
		case Config:
			cfg = c
		case *Config:
			if c != nil {
				cfg = *c
			}
		default:
			return nil, fmt.Errorf("%w, got %T", ErrInvalidConfig, config)
		}

		b, err := NewWithConfig(cfg)
		if err != nil {
			return nil, err
		}
		return b, nil
	})
}
