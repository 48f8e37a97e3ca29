package logging

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"http-logger/infrastructure/config"
)

// asyncWriter 异步日志写入器
type asyncWriter struct {
	buffer     chan []byte
	dropOnFull bool
	dropped    atomic.Int64
	writer     zapcore.WriteSyncer
	stopCh     chan struct{}
	wg         sync.WaitGroup
	mu         sync.RWMutex
	stopped    bool
}

// newAsyncWriter 创建异步写入器
func newAsyncWriter(writer zapcore.WriteSyncer, bufferSize int, dropOnFull bool) *asyncWriter {
	if bufferSize <= 0 {
		bufferSize = 10000
	}

	aw := &asyncWriter{
		buffer:     make(chan []byte, bufferSize),
		dropOnFull: dropOnFull,
		stopCh:     make(chan struct{}),
		writer:     writer,
	}

	aw.wg.Add(1)
	go aw.run()

	return aw
}

func (aw *asyncWriter) run() {
	defer aw.wg.Done()

	for {
		select {
		case data := <-aw.buffer:
			_, _ = aw.writer.Write(data)
		case <-aw.stopCh:
			// 刷新剩余数据
			aw.drain()
			return
		}
	}
}

func (aw *asyncWriter) drain() {
	for {
		select {
		case data := <-aw.buffer:
			_, _ = aw.writer.Write(data)
		default:
			return
		}
	}
}

// Write 复制数据后放入缓冲；zap 会复用传入的切片
func (aw *asyncWriter) Write(p []byte) (int, error) {
	aw.mu.RLock()
	defer aw.mu.RUnlock()

	if aw.stopped {
		return aw.writer.Write(p)
	}

	data := append([]byte(nil), p...)
	select {
	case aw.buffer <- data:
		return len(p), nil
	default:
		if aw.dropOnFull {
			aw.dropped.Add(1)
			return len(p), nil
		}
		// 阻塞等待
		aw.buffer <- data
		return len(p), nil
	}
}

func (aw *asyncWriter) Sync() error {
	aw.drain()
	return aw.writer.Sync()
}

// Dropped 返回因缓冲区满而丢弃的条数
func (aw *asyncWriter) Dropped() int64 {
	return aw.dropped.Load()
}

func (aw *asyncWriter) Stop() {
	aw.mu.Lock()
	if aw.stopped {
		aw.mu.Unlock()
		return
	}
	aw.stopped = true
	aw.mu.Unlock()

	close(aw.stopCh)
	aw.wg.Wait()
}

// rotateLogger 在 lumberjack 按大小轮转的基础上增加按时间轮转
type rotateLogger struct {
	*lumberjack.Logger
	strategy string
	mu       sync.Mutex
	period   string
	now      func() time.Time
}

// newRotateLogger 根据配置创建日志文件写入器
func newRotateLogger(filename string, cfg *config.Logging) *rotateLogger {
	rl := &rotateLogger{
		Logger: &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    cfg.GetMaxFileSizeMB(), // MB
			MaxAge:     cfg.GetMaxAgeDays(),    // days
			MaxBackups: cfg.GetMaxBackups(),
			Compress:   cfg.Compress,
			LocalTime:  true,
		},
		strategy: cfg.TimeRotation,
		now:      time.Now,
	}
	rl.period = rl.periodOf(rl.now())
	return rl
}

func (rl *rotateLogger) periodOf(t time.Time) string {
	switch rl.strategy {
	case "daily":
		return t.Format("2006-01-02")
	case "hourly":
		return t.Format("2006-01-02T15")
	default:
		return ""
	}
}

// dueForRotation 进入新的时间周期时返回 true，每个周期只返回一次
func (rl *rotateLogger) dueForRotation() bool {
	if rl.strategy == "" {
		return false
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	p := rl.periodOf(rl.now())
	if p == rl.period {
		return false
	}
	rl.period = p
	return true
}

func (rl *rotateLogger) Write(p []byte) (int, error) {
	if rl.dueForRotation() {
		// 轮转失败不影响写入
		_ = rl.Logger.Rotate()
	}
	return rl.Logger.Write(p)
}

func (rl *rotateLogger) Sync() error {
	return nil
}

func (rl *rotateLogger) Stop() {
	_ = rl.Logger.Close()
}
