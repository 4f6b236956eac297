package services

import "time"

// DefaultTokenSymbol is used when a bounty is created without a token symbol.
const DefaultTokenSymbol = "HOSICO"

type options struct {
	now                func() time.Time
	defaultTokenSymbol string
}

// Option customises a service.
type Option func(*options)

// WithClock replaces time.Now, letting tests pin the deadline checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithDefaultTokenSymbol sets the symbol stored when a create request omits one.
func WithDefaultTokenSymbol(symbol string) Option {
	return func(o *options) {
		if symbol != "" {
			o.defaultTokenSymbol = symbol
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		now:                time.Now,
		defaultTokenSymbol: DefaultTokenSymbol,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
