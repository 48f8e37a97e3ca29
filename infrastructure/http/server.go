package http

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"http-logger/domain/port"
)

// Server 封装 HTTP 服务器，提供优雅关闭功能
type Server struct {
	server *http.Server
	logger port.Logger
	errCh  chan error
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Addr         string
	Handler      http.Handler
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer 创建新的 HTTP 服务器
func NewServer(cfg ServerConfig, logger port.Logger) *Server {
	if logger == nil {
		logger = &port.NopLogger{}
	}
	return &Server{
		server: &http.Server{
			Addr:         cfg.Addr,
			Handler:      cfg.Handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		logger: logger,
		errCh:  make(chan error, 1),
	}
}

// Start 监听端口并在后台提供服务（非阻塞）
// 端口监听失败会直接返回错误
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve 在给定的 listener 上后台提供服务
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("HTTP 服务已启动", port.String("addr", ln.Addr().String()))
	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP 服务异常退出", port.Error(err))
			s.errCh <- err
		}
		close(s.errCh)
	}()
	return nil
}

// Errors 服务异常退出时收到错误，正常关闭时通道关闭
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
