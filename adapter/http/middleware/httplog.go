package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/felixge/httpsnoop"

	"http-logger/application/usecase"
	"http-logger/domain/port"
	"http-logger/domain/service"
	infrahttp "http-logger/infrastructure/http"
)

type dispatchKey struct{}

// HTTPLogging logs one record per request: method, url, headers, bodies and
// status, with credentials masked. Register it outermost so every route and
// every inner middleware sits inside the captured exchange.
type HTTPLogging struct {
	exchange *usecase.LogExchangeUseCase
	logger   port.Logger
	enabled  atomic.Bool
}

// NewHTTPLogging builds the middleware from cfg. Exclude patterns and style
// are fixed for the lifetime of the value; only the enabled flag follows
// config reloads.
func NewHTTPLogging(cfg port.HTTPLoggingConfig, sink port.HTTPLogSink, logger port.Logger) (*HTTPLogging, error) {
	if sink == nil {
		return nil, fmt.Errorf("http logging: sink is required")
	}
	if logger == nil {
		logger = &port.NopLogger{}
	}

	style := cfg.Style
	if style == "" {
		style = port.RecordStyleJSON
	}
	if style != port.RecordStyleJSON && style != port.RecordStyleText {
		return nil, fmt.Errorf("http logging: unknown style %q", style)
	}

	excludes, err := service.NewURLMatcher(cfg.ExcludeURLPatterns)
	if err != nil {
		return nil, fmt.Errorf("http logging: %w", err)
	}
	classifier := service.NewContentClassifier()
	builder := service.NewRecordBuilder(
		excludes,
		service.NewRedactor(cfg.ExcludeHeaders),
		service.NewBodyRenderer(classifier),
	)

	h := &HTTPLogging{
		exchange: usecase.NewLogExchangeUseCase(builder, style, sink),
		logger:   logger,
	}
	h.enabled.Store(cfg.Enabled)
	return h, nil
}

// SetEnabled switches logging on or off for requests that start afterwards.
func (h *HTTPLogging) SetEnabled(enabled bool) {
	if h.enabled.Swap(enabled) != enabled {
		h.logger.Info("http logging toggled", port.Bool("enabled", enabled))
	}
}

func (h *HTTPLogging) Enabled() bool {
	return h.enabled.Load()
}

// WatchConfig applies the enabled flag from provider on every change
// notification until ctx is done.
func (h *HTTPLogging) WatchConfig(ctx context.Context, provider port.ConfigProvider) {
	changes := provider.Watch()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			h.SetEnabled(provider.HTTPLogging().Enabled)
		}
	}
}

func (h *HTTPLogging) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.enabled.Load() || r.Context().Value(dispatchKey{}) != nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		m := httpsnoop.CaptureMetricsFn(w, func(out http.ResponseWriter) {
			req := infrahttp.WrapRequest(r.WithContext(context.WithValue(r.Context(), dispatchKey{}, h)))
			resp := infrahttp.WrapResponse(out)
			returned := false
			defer func() { h.finalize(req, resp, start, !returned) }()

			next.ServeHTTP(resp, req.Request())
			returned = true
		})

		h.logger.Debug("request completed",
			port.String(port.FieldMethod, r.Method),
			port.String(port.FieldPath, r.URL.Path),
			port.Int(port.FieldStatusCode, m.Code),
			port.Int64(port.FieldBytesSent, m.Written),
			port.Duration(port.FieldDurationMS, m.Duration),
		)
	})
}

// finalize runs on every exit path of the downstream chain, panics included.
// The record is emitted before any buffered byte reaches the client. When the
// handler panicked, net/http closes the connection without flushing its own
// buffer, so the real writer is flushed here.
func (h *HTTPLogging) finalize(req *infrahttp.CachingRequest, resp *infrahttp.CachingResponseWriter, start time.Time, panicking bool) {
	h.emit(req, resp, time.Since(start))

	if err := resp.CopyBodyToResponse(); err != nil {
		h.logger.Warn("failed to copy buffered response",
			port.String(port.FieldPath, req.Path()),
			port.Error(err),
		)
	}
	if panicking {
		resp.Flush()
	}
}

func (h *HTTPLogging) emit(req *infrahttp.CachingRequest, resp *infrahttp.CachingResponseWriter, elapsed time.Duration) {
	defer func() {
		if p := recover(); p != nil {
			h.logger.Error("failed to build http log record",
				port.String(port.FieldPath, req.Path()),
				port.String("panic", fmt.Sprint(p)),
			)
		}
	}()

	if h.exchange.Excluded(req.Path()) {
		return
	}
	h.exchange.Execute(req.Snapshot(), resp.Snapshot(), elapsed)
}
