package canopy

import (
	"log/slog"

	"github.com/petrijr/canopy/pkg/api"
)

// Option configures a Builder.
type Option func(*config)

type config struct {
	name      string
	observers []api.Observer
}

// WithName names the tree. The name appears in observer callbacks,
// traces and error messages.
func WithName(name string) Option {
	return func(c *config) {
		c.name = name
	}
}

// WithObserver adds an observer notified on every evaluation call. Several
// observers may be added; they are called in order.
func WithObserver(obs api.Observer) Option {
	return func(c *config) {
		if obs != nil {
			c.observers = append(c.observers, obs)
		}
	}
}

// WithLogger is shorthand for WithObserver(NewLoggingObserver(logger)).
func WithLogger(logger *slog.Logger) Option {
	return WithObserver(api.NewLoggingObserver(logger))
}

func (c *config) observer() api.Observer {
	if len(c.observers) == 0 {
		return nil
	}
	return api.NewCompositeObserver(c.observers...)
}
