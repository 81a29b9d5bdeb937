// Package logger provides structured logging with zap.
package logger

import "go.uber.org/zap"

// New creates a zap.Logger appropriate for the environment: JSON output in
// production, console output everywhere else.
func New(env string) *zap.Logger {
	if env == "production" {
		logger, _ := zap.NewProduction()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}

// Named returns a child logger scoped to a component name.
func Named(log *zap.Logger, name string) *zap.Logger {
	return log.Named(name)
}
