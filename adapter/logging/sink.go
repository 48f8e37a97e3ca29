package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"http-logger/domain/entity"
	"http-logger/domain/port"
)

// HTTPExchangeMessage is the message of every entry written by ZapHTTPLogSink.
const HTTPExchangeMessage = "http exchange"

// ZapHTTPLogSink writes HTTP records to a zap logger at info level.
//
// JSON-style records are inlined into the entry, so the file encoder emits
// ip, method, url, ... as top-level keys next to timestamp and level.
type ZapHTTPLogSink struct {
	logger *zap.Logger
}

// NewZapHTTPLogSink creates a sink. A nil logger discards everything.
func NewZapHTTPLogSink(logger *zap.Logger) *ZapHTTPLogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapHTTPLogSink{logger: logger}
}

func (s *ZapHTTPLogSink) LogRecord(record *entity.HTTPLog, fields ...port.Field) {
	if record == nil {
		return
	}
	zf := make([]zap.Field, 0, len(fields)+1)
	zf = append(zf, zap.Inline(httpLogObject{record}))
	zf = append(zf, toZapFields(fields)...)
	s.logger.Info(HTTPExchangeMessage, zf...)
}

// LogText writes the block as the entry message.
func (s *ZapHTTPLogSink) LogText(block string, fields ...port.Field) {
	s.logger.Info(block, toZapFields(fields)...)
}

type httpLogObject struct {
	*entity.HTTPLog
}

func (o httpLogObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("ip", o.IP)
	enc.AddString("method", o.Method)
	enc.AddString("url", o.URL)
	enc.AddString("status_code", o.StatusCode)
	if err := enc.AddObject("request_headers", headersObject(o.RequestHeaders)); err != nil {
		return err
	}
	enc.AddString("request_body", o.RequestBody)
	enc.AddString("request_params", o.RequestParams)
	if err := enc.AddObject("response_headers", headersObject(o.ResponseHeaders)); err != nil {
		return err
	}
	enc.AddString("response_body", o.ResponseBody)
	return nil
}

type headersObject entity.Headers

func (h headersObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, e := range h {
		enc.AddString(e.Name, e.Value)
	}
	return nil
}
