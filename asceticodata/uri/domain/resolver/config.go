package resolver

import "github.com/go-logr/logr"

type Option func(*Resolver)

// WithLogger installs the logger resolution passes trace to at V(1).
func WithLogger(logger logr.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMaxExpandDepth limits how deep $expand options may nest. Zero means
// unlimited.
func WithMaxExpandDepth(depth int) Option {
	return func(r *Resolver) {
		r.maxExpandDepth = depth
	}
}
