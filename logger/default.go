package logger

import "os"

// The package default logger. Its level is read from LOG_LEVEL, Info when unset.
var defLogger Logger = NewSlog(levelFromEnv(), false)

func levelFromEnv() Level {
	if lv, err := ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		return lv
	}

	return InfoLevel
}

// SetDefault replaces the package default logger. It must be called before the
// loggers returned by GetLogger are handed out.
func SetDefault(l Logger) {
	if l != nil {
		defLogger = l
	}
}

func Debug(msg string, keysAndValues ...any) {
	defLogger.Debug(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	defLogger.Info(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	defLogger.Warn(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	defLogger.Error(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	defLogger.Fatal(msg, keysAndValues...)
}

// SetLevel sets the level of the package default logger.
func SetLevel(level Level) {
	defLogger.SetLevel(level)
}

// GetLogger returns the package default logger. Connections use it unless
// xbee.WithLogger is given.
func GetLogger() Logger {
	return defLogger
}

func With(keyValues ...any) Logger {
	return defLogger.With(keyValues...)
}
