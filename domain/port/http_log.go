package port

import "http-logger/domain/entity"

// Field names shared by every HTTP log entry.
const (
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDurationMS = "duration_ms"
	FieldBytesSent  = "bytes_sent"
)

// RecordStyle selects how an exchange is written to the sink.
type RecordStyle string

const (
	// RecordStyleJSON emits one structured entry carrying entity.HTTPLog.
	RecordStyleJSON RecordStyle = "json"
	// RecordStyleText emits a multi-line block with REQUEST/RESPONSE sections.
	RecordStyleText RecordStyle = "text"
)

// HTTPLogSink receives finished records. Implementations must be safe for
// concurrent use; every request goroutine writes to the same sink.
type HTTPLogSink interface {
	// LogRecord writes a structured record.
	LogRecord(record *entity.HTTPLog, fields ...Field)
	// LogText writes a pre-rendered multi-line block.
	LogText(block string, fields ...Field)
}
