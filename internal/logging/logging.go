package logging

import "go.uber.org/zap"

// New creates the process logger. Development mode uses the
// human-readable encoder.
func New(debug bool) *zap.SugaredLogger {
	var logger *zap.Logger
	if debug {
		logger, _ = zap.NewDevelopment()
	} else {
		logger, _ = zap.NewProduction()
	}
	return logger.Sugar()
}
