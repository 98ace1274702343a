package repository

// Option applies a configuration option to the MemoryResultStore.
type Option func(*MemoryResultStore)

// WithRetention bounds how many results are kept; the oldest are evicted first.
func WithRetention(n int) Option {
	return func(s *MemoryResultStore) {
		if n > 0 {
			s.retention = n
		}
	}
}
