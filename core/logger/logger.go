package logger

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a zap logger. The debug level selects zap's development preset,
// any other level the production one.
func New(cfg *Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Level == "debug" {
		zc = zap.NewDevelopmentConfig()
	} else if cfg.Level != "" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}

	zc.Encoding = "json"
	if cfg.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zc.DisableStacktrace = true
	}
	zc.EncoderConfig.TimeKey = "time"
	zc.EncoderConfig.LevelKey = "level"
	zc.EncoderConfig.MessageKey = "message"

	return zc.Build()
}

// WithRayID adds the request's ray id, set by the rayid middleware, to l.
func WithRayID(l *zap.Logger, c *fiber.Ctx) *zap.Logger {
	if rid, ok := c.Locals("ray_id").(string); ok && rid != "" {
		return l.With(zap.String("ray_id", rid))
	}
	return l
}
