package http

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"

	"http-logger/domain/entity"
)

type cachingRequestKey struct{}

// cachingBody 透传读取，同时把读到的每个字节复制进缓冲区
type cachingBody struct {
	rc  io.ReadCloser
	buf bytes.Buffer
}

func (b *cachingBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	if n > 0 {
		b.buf.Write(p[:n])
	}
	return n, err
}

func (b *cachingBody) Close() error {
	return b.rc.Close()
}

// CachingRequest 缓存请求体的包装器
// 下游处理器读取请求体时，读到的字节会被原样保留，供日志使用
type CachingRequest struct {
	request *http.Request
	body    *cachingBody
}

// WrapRequest 包装请求；如果请求已经被包装过，返回同一个实例
func WrapRequest(r *http.Request) *CachingRequest {
	if cr := CachingRequestFrom(r); cr != nil {
		return cr
	}

	src := r.Body
	if src == nil {
		src = http.NoBody
	}

	cr := &CachingRequest{body: &cachingBody{rc: src}}
	req := r.WithContext(context.WithValue(r.Context(), cachingRequestKey{}, cr))
	req.Body = cr.body
	cr.request = req
	return cr
}

// CachingRequestFrom 返回请求上下文中已有的包装器，没有则返回 nil
func CachingRequestFrom(r *http.Request) *CachingRequest {
	cr, _ := r.Context().Value(cachingRequestKey{}).(*CachingRequest)
	return cr
}

// Request 返回传给下游的请求
func (c *CachingRequest) Request() *http.Request {
	return c.request
}

func (c *CachingRequest) Method() string {
	return c.request.Method
}

func (c *CachingRequest) Path() string {
	return c.request.URL.Path
}

func (c *CachingRequest) QueryString() string {
	return c.request.URL.RawQuery
}

func (c *CachingRequest) Header() http.Header {
	return c.request.Header
}

// RemoteAddr 返回客户端地址（不含端口）
func (c *CachingRequest) RemoteAddr() string {
	addr := c.request.RemoteAddr
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// CharacterEncoding 返回 Content-Type 中声明的字符集
func (c *CachingRequest) CharacterEncoding() string {
	return entity.CharsetOf(c.request.Header.Get("Content-Type"))
}

// ContentAsByteArray 返回目前为止下游已读取的请求体
func (c *CachingRequest) ContentAsByteArray() []byte {
	return c.body.buf.Bytes()
}

// Snapshot 生成请求快照
func (c *CachingRequest) Snapshot() entity.RequestSnapshot {
	return entity.RequestSnapshot{
		RemoteAddr: c.RemoteAddr(),
		Method:     c.Method(),
		Path:       c.Path(),
		RawQuery:   c.QueryString(),
		Header:     c.Header().Clone(),
		Body:       bytes.Clone(c.ContentAsByteArray()),
	}
}
