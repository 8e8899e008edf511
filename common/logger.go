package common

// Logger is the structured, key-value logger used across the module.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type noopLogger struct{}

func (n *noopLogger) Debug(msg string, kv ...interface{}) {}
func (n *noopLogger) Info(msg string, kv ...interface{})  {}
func (n *noopLogger) Warn(msg string, kv ...interface{})  {}
func (n *noopLogger) Error(msg string, kv ...interface{}) {}

// NopLogger returns a Logger that discards everything.
func NopLogger() Logger {
	return &noopLogger{}
}

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return &noopLogger{}
	}
	return l
}
