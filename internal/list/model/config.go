package model

import (
	"fmt"
	"time"
)

// ================ Config ================
type ListConfig struct {
	// StartupDelay debounces the first reload after the session resolves.
	// Kept as a workaround for the session provider racing the first load,
	// not a correctness mechanism.
	StartupDelay string `envconfig:"LIST_STARTUP_DELAY" default:"100ms"`
	Notify       struct {
		Added   string `envconfig:"NOTIFY_ADDED_TTL" default:"2s"`
		Edited  string `envconfig:"NOTIFY_EDITED_TTL" default:"2s"`
		Removed string `envconfig:"NOTIFY_REMOVED_TTL" default:"1s"`
		Bought  string `envconfig:"NOTIFY_BOUGHT_TTL" default:"1500ms"`
		Error   string `envconfig:"NOTIFY_ERROR_TTL" default:"3s"`
	}
}

// Timings is ListConfig with every duration parsed.
type Timings struct {
	StartupDelay time.Duration
	Added        time.Duration
	Edited       time.Duration
	Removed      time.Duration
	Bought       time.Duration
	Error        time.Duration
}

// Timings parses the raw duration strings, failing on the first bad value.
func (c ListConfig) Timings() (Timings, error) {
	var (
		t   Timings
		err error
	)
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"LIST_STARTUP_DELAY", c.StartupDelay, &t.StartupDelay},
		{"NOTIFY_ADDED_TTL", c.Notify.Added, &t.Added},
		{"NOTIFY_EDITED_TTL", c.Notify.Edited, &t.Edited},
		{"NOTIFY_REMOVED_TTL", c.Notify.Removed, &t.Removed},
		{"NOTIFY_BOUGHT_TTL", c.Notify.Bought, &t.Bought},
		{"NOTIFY_ERROR_TTL", c.Notify.Error, &t.Error},
	}
	for _, f := range fields {
		if *f.dst, err = time.ParseDuration(f.raw); err != nil {
			return Timings{}, fmt.Errorf("invalid %s %q: %w", f.name, f.raw, err)
		}
	}
	return t, nil
}
