package repository

const defaultCapacity = 30

type settings struct {
	capacity int
}

// Option configures a store.
type Option func(*settings)

// WithCapacity bounds how many samples are kept per series.
func WithCapacity(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.capacity = n
		}
	}
}

func apply(opts []Option) settings {
	s := settings{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
