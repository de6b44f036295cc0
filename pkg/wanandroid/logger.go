package wanandroid

// Logger defines the logging surface the client relies on.
type Logger interface {
	DebugObj(msg, key string, obj any)
	WarnObj(msg, key string, obj any)
}

type noopLogger struct{}

func (noopLogger) DebugObj(string, string, any) {}
func (noopLogger) WarnObj(string, string, any)  {}
