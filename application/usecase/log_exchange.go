package usecase

import (
	"time"

	"http-logger/domain/entity"
	"http-logger/domain/port"
	"http-logger/domain/service"
)

// LogExchangeUseCase turns a finished exchange into one sink entry in the
// configured style.
type LogExchangeUseCase struct {
	builder *service.RecordBuilder
	style   port.RecordStyle
	sink    port.HTTPLogSink
}

// NewLogExchangeUseCase creates a new log exchange use case.
func NewLogExchangeUseCase(builder *service.RecordBuilder, style port.RecordStyle, sink port.HTTPLogSink) *LogExchangeUseCase {
	return &LogExchangeUseCase{
		builder: builder,
		style:   style,
		sink:    sink,
	}
}

// Excluded reports whether exchanges on path are never logged.
func (uc *LogExchangeUseCase) Excluded(path string) bool {
	return uc.builder.IsExcluded(path)
}

// Execute builds the record for req/resp and writes it. It reports whether
// anything reached the sink.
func (uc *LogExchangeUseCase) Execute(req entity.RequestSnapshot, resp entity.ResponseSnapshot, elapsed time.Duration) bool {
	duration := port.Duration(port.FieldDurationMS, elapsed)

	if uc.style == port.RecordStyleText {
		block, ok := uc.builder.BuildText(req, resp)
		if !ok {
			return false
		}
		uc.sink.LogText(block,
			port.String(port.FieldMethod, req.Method),
			port.String(port.FieldPath, req.Path),
			port.Int(port.FieldStatusCode, resp.StatusCode),
			duration,
		)
		return true
	}

	record := uc.builder.Build(req, resp)
	if record == nil {
		return false
	}
	uc.sink.LogRecord(record, duration)
	return true
}
