package repository

import "time"

type options struct {
	metricsUpdateInterval time.Duration
	connectTimeout        time.Duration
}

func defaultOptions() options {
	return options{
		metricsUpdateInterval: 5 * time.Second,
		connectTimeout:        10 * time.Second,
	}
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithMetricsUpdateInterval sets the interval for background collection size
// metrics.
func WithMetricsUpdateInterval(interval time.Duration) Option {
	return func(o *options) {
		if interval > 0 {
			o.metricsUpdateInterval = interval
		}
	}
}

// WithConnectTimeout bounds the initial connection of network backends.
func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.connectTimeout = d
		}
	}
}
