// Package logger provides structured logging for podscribe on top of zerolog.
//
// It supports JSON and console output, level configuration and
// component-scoped loggers. Fields are passed as plain maps so callers do not
// depend on zerolog directly.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.Get("alignment")
//	log.Info("segments aligned", logger.Fields(logger.FieldSegments, 42))
package logger
