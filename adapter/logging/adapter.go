package logging

import (
	"time"

	"go.uber.org/zap"

	"http-logger/domain/port"
)

// ZapLoggerAdapter adapts a zap.Logger to the port.Logger interface.
type ZapLoggerAdapter struct {
	logger *zap.Logger
}

// NewZapLoggerAdapter wraps logger. A nil logger discards everything.
func NewZapLoggerAdapter(logger *zap.Logger) *ZapLoggerAdapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLoggerAdapter{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

func (z *ZapLoggerAdapter) Debug(msg string, fields ...port.Field) {
	z.logger.Debug(msg, toZapFields(fields)...)
}

func (z *ZapLoggerAdapter) Info(msg string, fields ...port.Field) {
	z.logger.Info(msg, toZapFields(fields)...)
}

func (z *ZapLoggerAdapter) Warn(msg string, fields ...port.Field) {
	z.logger.Warn(msg, toZapFields(fields)...)
}

func (z *ZapLoggerAdapter) Error(msg string, fields ...port.Field) {
	z.logger.Error(msg, toZapFields(fields)...)
}

// With returns a logger that adds fields to every entry.
func (z *ZapLoggerAdapter) With(fields ...port.Field) port.Logger {
	if len(fields) == 0 {
		return z
	}
	return &ZapLoggerAdapter{logger: z.logger.With(toZapFields(fields)...)}
}

// toZapFields converts port fields to typed zap fields.
func toZapFields(fields []port.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, toZapField(f))
	}
	return out
}

func toZapField(f port.Field) zap.Field {
	switch v := f.Value.(type) {
	case string:
		return zap.String(f.Key, v)
	case int:
		return zap.Int(f.Key, v)
	case int64:
		return zap.Int64(f.Key, v)
	case bool:
		return zap.Bool(f.Key, v)
	case time.Duration:
		return zap.Int64(f.Key, v.Milliseconds())
	case error:
		return zap.String(f.Key, v.Error())
	default:
		return zap.Any(f.Key, v)
	}
}
