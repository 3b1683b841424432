package bloombroom

// config holds the construction-time settings shared by all filter
// constructors. It is immutable once a filter is built.
type config struct {
	hasher Hasher
}

// Option customizes a filter at construction time.
type Option func(*config)

// WithHasher selects the digest used to derive bucket positions. The default
// is XXH3. Changing the hasher changes every position set, so a filter only
// ever sees keys through the hasher it was built with.
func WithHasher(h Hasher) Option {
	return func(cfg *config) {
		cfg.hasher = h
	}
}

func newConfig(opts ...Option) config {
	cfg := config{hasher: XXH3()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
