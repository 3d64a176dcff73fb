package service

import "time"

// Option configures a service.
type Option func(*options)

type options struct {
	now      func() time.Time
	observer UseCaseObserver
}

// WithClock replaces time.Now as the service's source of the current time.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithObserver reports each use case to obs.
func WithObserver(obs UseCaseObserver) Option {
	return func(o *options) {
		o.observer = useCaseObserverOrNoop([]UseCaseObserver{obs})
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now, observer: NoopUseCaseObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
