// Package logger builds the zap logger shared by the server, the CLI and the
// table views.
//
// Level "debug" uses zap's development preset with ISO8601 timestamps; other
// levels use the production preset. Format "console" switches to colored
// human-readable output, which the CLI uses for errors.
//
// Handlers log through WithRayID so every line of one request carries the
// same ray_id:
//
//	l := logger.WithRayID(h.service.logger, c)
//	l.Error("Failed to create list", zap.Error(err))
package logger
