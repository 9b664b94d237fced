// Package logging hands out component loggers derived from the global zap
// logger installed by config.New.
package logging

import "go.uber.org/zap"

// For returns the global sugared logger named after component
func For(component string) *zap.SugaredLogger {
	return zap.S().Named(component)
}

// New creates a standalone production logger for tools that run without
// config.New, such as the CLI.
func New(debug bool) *zap.SugaredLogger {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		logger = zap.NewExample()
	}
	return logger.Sugar()
}
