// Package logger provides structured logging utilities built on the
// standard slog package: a factory with environment presets and a set of
// nil-safe attribute helpers.
//
//	log := logger.New(logger.WithDevelopment("myapp"))
//	log.Info("server starting", logger.Component("server"), logger.Event("startup"))
//
// Production services typically use JSON output:
//
//	log := logger.New(
//		logger.WithProduction("myapp"),
//		logger.WithLevel(slog.LevelWarn),
//	)
package logger
