package http

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"net/http"
	"strconv"

	"http-logger/domain/entity"
)

// CachingResponseWriter 缓存响应体的包装器
//
// 下游写入的内容先进入缓冲区，状态码延迟到 CopyBodyToResponse 时才写给客户端。
// 缓冲区始终保留完整响应体，即使中途 Flush 过，也可以完整记录日志。
type CachingResponseWriter struct {
	w         http.ResponseWriter
	content   bytes.Buffer
	flushed   int
	status    int
	committed bool
	hijacked  bool
}

// WrapResponse 包装响应；已经是 CachingResponseWriter 时原样返回
func WrapResponse(w http.ResponseWriter) *CachingResponseWriter {
	if cw, ok := w.(*CachingResponseWriter); ok {
		return cw
	}
	return &CachingResponseWriter{w: w}
}

func (c *CachingResponseWriter) Header() http.Header {
	return c.w.Header()
}

// WriteHeader 记录状态码；1xx 信息响应（101 除外）直接透传
func (c *CachingResponseWriter) WriteHeader(code int) {
	if code >= 100 && code <= 199 && code != http.StatusSwitchingProtocols {
		c.w.WriteHeader(code)
		return
	}
	if c.status == 0 {
		c.status = code
	}
}

func (c *CachingResponseWriter) Write(p []byte) (int, error) {
	if c.hijacked {
		return 0, http.ErrHijacked
	}
	if c.status == 0 {
		c.status = http.StatusOK
	}
	return c.content.Write(p)
}

// Flush 把尚未发送的缓冲内容写给客户端并刷新，用于流式响应
func (c *CachingResponseWriter) Flush() {
	if c.hijacked {
		return
	}
	c.commit()
	_ = c.writePending()
	if f, ok := c.w.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack 透传给底层连接；劫持后不再回写缓冲内容
func (c *CachingResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := c.w.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("底层 ResponseWriter 不支持 Hijack: %w", http.ErrNotSupported)
	}
	conn, rw, err := hj.Hijack()
	if err == nil {
		c.hijacked = true
	}
	return conn, rw, err
}

// Unwrap 供 http.ResponseController 访问底层 ResponseWriter
func (c *CachingResponseWriter) Unwrap() http.ResponseWriter {
	return c.w
}

// Status 返回下游设置的状态码，未设置时为 200
func (c *CachingResponseWriter) Status() int {
	if c.status == 0 {
		return http.StatusOK
	}
	return c.status
}

// ContentAsByteArray 返回完整的响应体缓冲
func (c *CachingResponseWriter) ContentAsByteArray() []byte {
	return c.content.Bytes()
}

// CopyBodyToResponse 把状态码和未发送的缓冲内容写给真实客户端
// 必须在日志记录完成后调用，重复调用不会重复写出
func (c *CachingResponseWriter) CopyBodyToResponse() error {
	if c.hijacked {
		return nil
	}
	if !c.committed {
		h := c.w.Header()
		if c.flushed == 0 && c.content.Len() > 0 && bodyAllowed(c.Status()) &&
			h.Get("Content-Length") == "" && h.Get("Transfer-Encoding") == "" {
			h.Set("Content-Length", strconv.Itoa(c.content.Len()))
		}
		c.commit()
	}
	if err := c.writePending(); err != nil {
		return fmt.Errorf("回写响应体失败: %w", err)
	}
	return nil
}

// Snapshot 生成响应快照
func (c *CachingResponseWriter) Snapshot() entity.ResponseSnapshot {
	return entity.ResponseSnapshot{
		StatusCode: c.Status(),
		Header:     c.w.Header().Clone(),
		Body:       bytes.Clone(c.content.Bytes()),
	}
}

func (c *CachingResponseWriter) commit() {
	if c.committed {
		return
	}
	c.committed = true
	c.w.WriteHeader(c.Status())
}

func (c *CachingResponseWriter) writePending() error {
	pending := c.content.Bytes()[c.flushed:]
	if len(pending) == 0 {
		return nil
	}
	n, err := c.w.Write(pending)
	c.flushed += n
	return err
}

func bodyAllowed(status int) bool {
	switch {
	case status >= 100 && status <= 199:
		return false
	case status == http.StatusNoContent, status == http.StatusNotModified:
		return false
	}
	return true
}
