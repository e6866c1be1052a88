package sheet

// Option configures a Loader.
type Option func(*Loader)

// WithIDGenerator sets the function that names rows without an id.
func WithIDGenerator(gen func() string) Option {
	return func(l *Loader) {
		if gen != nil {
			l.newID = gen
		}
	}
}
