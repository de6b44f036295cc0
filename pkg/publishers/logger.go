package publishers

import "github.com/Adda-Baaj/wanreader/internal/logger"

// Logger is the harvester's object logger; publishers log deliveries at debug and
// failures at error.
type Logger = logger.Logger

func ensureLogger(log Logger) Logger {
	if log == nil {
		return logger.NopLogger{}
	}
	return log
}
