package http

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"http-logger/domain/port"
	apierrors "http-logger/errors"
)

// RecoveryMiddleware turns handler panics into a JSON 500. It sits inside
// the HTTP logging middleware so the error response is captured too.
type RecoveryMiddleware struct {
	logger port.Logger
}

func NewRecoveryMiddleware(logger port.Logger) *RecoveryMiddleware {
	if logger == nil {
		logger = &port.NopLogger{}
	}
	return &RecoveryMiddleware{logger: logger}
}

func (rm *RecoveryMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err == nil {
				return
			}
			if err == http.ErrAbortHandler {
				panic(err)
			}

			stackStr := string(debug.Stack())
			if len(stackStr) > 500 {
				stackStr = stackStr[:500] + "..."
			}
			rm.logger.Error("Panic recovered",
				port.String(port.FieldMethod, r.Method),
				port.String(port.FieldPath, r.URL.Path),
				port.String("error", fmt.Sprintf("%v", err)),
				port.String("stack", stackStr),
			)

			apierrors.WriteJSONError(w, apierrors.ErrInternal, http.StatusInternalServerError)
		}()
		next.ServeHTTP(w, r)
	})
}
