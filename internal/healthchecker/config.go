package healthchecker

import "time"

const (
	DefaultInterval = 10 * time.Second
	DefaultTimeout  = 2 * time.Second
)

// Config holds configuration for health checking
type Config struct {
	Interval time.Duration // Probe period; zero means DefaultInterval, negative disables probing
	Timeout  time.Duration // Per-probe timeout; zero means DefaultTimeout
	TestKey  string        // Key read by the probe; empty means a random per-checker key
}

func (c Config) withDefaults() Config {
	if c.Interval == 0 {
		c.Interval = DefaultInterval
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}
