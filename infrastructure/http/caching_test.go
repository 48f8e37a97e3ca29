package http

import (
	"bufio"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWrapRequest_CachesConsumedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/login?next=%2Fhome", strings.NewReader(`{"password":"abc"}`))
	req.Header.Set("Content-Type", "application/json; charset=ISO-8859-1")
	req.RemoteAddr = "10.0.0.7:51234"

	cr := WrapRequest(req)

	if got := string(cr.ContentAsByteArray()); got != "" {
		t.Errorf("expected empty cache before reading, got %q", got)
	}

	data, err := io.ReadAll(cr.Request().Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != `{"password":"abc"}` {
		t.Errorf("handler saw %q", data)
	}
	if got := string(cr.ContentAsByteArray()); got != `{"password":"abc"}` {
		t.Errorf("cached %q", got)
	}

	if cr.RemoteAddr() != "10.0.0.7" {
		t.Errorf("RemoteAddr = %q", cr.RemoteAddr())
	}
	if cr.QueryString() != "next=%2Fhome" {
		t.Errorf("QueryString = %q", cr.QueryString())
	}
	if cr.CharacterEncoding() != "ISO-8859-1" {
		t.Errorf("CharacterEncoding = %q", cr.CharacterEncoding())
	}

	snap := cr.Snapshot()
	if snap.Method != "POST" || snap.Path != "/login" || string(snap.Body) != `{"password":"abc"}` {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestWrapRequest_PartialRead(t *testing.T) {
	req := httptest.NewRequest("POST", "/upload", strings.NewReader("0123456789"))
	cr := WrapRequest(req)

	buf := make([]byte, 4)
	if _, err := io.ReadFull(cr.Request().Body, buf); err != nil {
		t.Fatalf("read: %v", err)
	}
	if got := string(cr.ContentAsByteArray()); got != "0123" {
		t.Errorf("expected only consumed bytes, got %q", got)
	}
}

func TestWrapRequest_Idempotent(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	first := WrapRequest(req)
	second := WrapRequest(first.Request())
	if first != second {
		t.Error("wrapping a wrapped request must return the existing wrapper")
	}
	if CachingRequestFrom(req) != nil {
		t.Error("original request must not carry the wrapper")
	}
}

func TestWrapRequest_RemoteAddrWithoutPort(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "unix-socket"
	if got := WrapRequest(req).RemoteAddr(); got != "unix-socket" {
		t.Errorf("RemoteAddr = %q", got)
	}
}

func TestCachingResponseWriter_DefersUntilCopy(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := WrapResponse(rec)

	cw.Header().Set("Content-Type", "application/json")
	cw.WriteHeader(http.StatusCreated)
	cw.Write([]byte(`{"id":`))
	cw.Write([]byte(`1}`))

	if rec.Body.Len() != 0 {
		t.Errorf("body reached client before copy: %q", rec.Body.String())
	}
	if cw.Status() != http.StatusCreated {
		t.Errorf("Status = %d", cw.Status())
	}
	if string(cw.ContentAsByteArray()) != `{"id":1}` {
		t.Errorf("buffer = %q", cw.ContentAsByteArray())
	}

	if err := cw.CopyBodyToResponse(); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("client status = %d", rec.Code)
	}
	if rec.Body.String() != `{"id":1}` {
		t.Errorf("client body = %q", rec.Body.String())
	}
	if rec.Header().Get("Content-Length") != "8" {
		t.Errorf("Content-Length = %q", rec.Header().Get("Content-Length"))
	}
	if string(cw.ContentAsByteArray()) != `{"id":1}` {
		t.Error("buffer must survive the copy")
	}

	if err := cw.CopyBodyToResponse(); err != nil {
		t.Fatalf("second copy: %v", err)
	}
	if rec.Body.String() != `{"id":1}` {
		t.Errorf("second copy duplicated the body: %q", rec.Body.String())
	}
}

func TestCachingResponseWriter_DefaultStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := WrapResponse(rec)
	if cw.Status() != http.StatusOK {
		t.Errorf("Status = %d", cw.Status())
	}
	if err := cw.CopyBodyToResponse(); err != nil {
		t.Fatal(err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("client status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Length") != "" {
		t.Error("empty body must not set Content-Length")
	}
}

func TestCachingResponseWriter_NoContentLengthFor204(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := WrapResponse(rec)
	cw.WriteHeader(http.StatusNoContent)
	cw.CopyBodyToResponse()
	if rec.Code != http.StatusNoContent {
		t.Errorf("client status = %d", rec.Code)
	}
	if rec.Header().Get("Content-Length") != "" {
		t.Error("204 must not carry Content-Length")
	}
}

func TestCachingResponseWriter_FirstStatusWins(t *testing.T) {
	cw := WrapResponse(httptest.NewRecorder())
	cw.WriteHeader(http.StatusNotFound)
	cw.WriteHeader(http.StatusOK)
	if cw.Status() != http.StatusNotFound {
		t.Errorf("Status = %d", cw.Status())
	}
}

func TestCachingResponseWriter_FlushStreamsAndKeepsContent(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := WrapResponse(rec)
	cw.Header().Set("Content-Type", "text/event-stream")

	cw.Write([]byte("data: 1\n\n"))
	cw.Flush()
	if rec.Body.String() != "data: 1\n\n" {
		t.Errorf("flush did not reach client: %q", rec.Body.String())
	}
	if !rec.Flushed {
		t.Error("underlying writer was not flushed")
	}

	cw.Write([]byte("data: 2\n\n"))
	if err := cw.CopyBodyToResponse(); err != nil {
		t.Fatal(err)
	}
	if rec.Body.String() != "data: 1\n\ndata: 2\n\n" {
		t.Errorf("client body = %q", rec.Body.String())
	}
	if string(cw.ContentAsByteArray()) != "data: 1\n\ndata: 2\n\n" {
		t.Errorf("buffer = %q", cw.ContentAsByteArray())
	}
	if rec.Header().Get("Content-Length") != "" {
		t.Error("streamed response must not set Content-Length")
	}
}

func TestWrapResponse_Idempotent(t *testing.T) {
	cw := WrapResponse(httptest.NewRecorder())
	if WrapResponse(cw) != cw {
		t.Error("wrapping a caching writer must return it unchanged")
	}
	if _, ok := cw.Unwrap().(*httptest.ResponseRecorder); !ok {
		t.Error("Unwrap must expose the underlying writer")
	}
}

type hijackRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	return nil, nil, nil
}

func TestCachingResponseWriter_Hijack(t *testing.T) {
	t.Run("passthrough", func(t *testing.T) {
		rec := &hijackRecorder{ResponseRecorder: httptest.NewRecorder()}
		cw := WrapResponse(rec)

		if _, _, err := cw.Hijack(); err != nil {
			t.Fatalf("hijack: %v", err)
		}
		if !rec.hijacked {
			t.Error("hijack not delegated")
		}
		if _, err := cw.Write([]byte("x")); !errors.Is(err, http.ErrHijacked) {
			t.Errorf("write after hijack: %v", err)
		}
		if err := cw.CopyBodyToResponse(); err != nil {
			t.Errorf("copy after hijack: %v", err)
		}
		if rec.Body.Len() != 0 {
			t.Error("nothing may be written after hijack")
		}
	})

	t.Run("unsupported", func(t *testing.T) {
		cw := WrapResponse(httptest.NewRecorder())
		if _, _, err := cw.Hijack(); !errors.Is(err, http.ErrNotSupported) {
			t.Errorf("expected ErrNotSupported, got %v", err)
		}
	})
}

func TestCachingResponseWriter_Snapshot(t *testing.T) {
	cw := WrapResponse(httptest.NewRecorder())
	cw.Header().Set("Content-Type", "text/plain")
	cw.Write([]byte("hello"))

	snap := cw.Snapshot()
	if snap.StatusCode != http.StatusOK || string(snap.Body) != "hello" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.ContentType() != "text/plain" {
		t.Errorf("ContentType = %q", snap.ContentType())
	}
}
