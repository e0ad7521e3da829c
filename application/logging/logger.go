package logging

// Logger is the only logging surface the application layer depends on.
type Logger interface {
	Printf(format string, v ...any)
	// Debugf is emitted only when verbose output is enabled.
	Debugf(format string, v ...any)
}
