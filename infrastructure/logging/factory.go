package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"http-logger/infrastructure/config"
)

// 日志分类
const (
	CategoryGeneral = "general"
	CategoryHTTP    = "http"
)

// 全局日志变量
var (
	GeneralLogger = zap.NewNop()
	HTTPLogger    = zap.NewNop()

	fileLevel    = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	consoleLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	mu            sync.Mutex
	asyncWriters  []*asyncWriter
	rotateLoggers []*rotateLogger
)

// InitTestLoggers 把所有分类日志替换为 no-op
func InitTestLoggers() {
	mu.Lock()
	defer mu.Unlock()
	GeneralLogger = zap.NewNop()
	HTTPLogger = zap.NewNop()
}

// Init 初始化日志系统
func Init(cfg *config.Config) error {
	mu.Lock()
	defer mu.Unlock()

	lc := &cfg.Logging
	if lc.FileEnabled() {
		if err := os.MkdirAll(lc.GetBaseDir(), 0755); err != nil {
			return fmt.Errorf("创建日志根目录失败 %s: %w", lc.GetBaseDir(), err)
		}
	}

	applyLevelsLocked(lc)
	colored := shouldUseColor(lc.GetColorize())

	general, err := createCategoryLogger(lc, CategoryGeneral, lc.GetGeneralFile(), colored)
	if err != nil {
		return fmt.Errorf("初始化 %s 日志失败: %w", CategoryGeneral, err)
	}
	httpLogger, err := createCategoryLogger(lc, CategoryHTTP, lc.GetHTTPFile(), colored)
	if err != nil {
		return fmt.Errorf("初始化 %s 日志失败: %w", CategoryHTTP, err)
	}

	GeneralLogger = general
	HTTPLogger = httpLogger.WithOptions(zap.WithCaller(false))
	return nil
}

// ApplyLevels 热更新日志级别，不重建输出
func ApplyLevels(lc *config.Logging) {
	mu.Lock()
	defer mu.Unlock()
	applyLevelsLocked(lc)
}

func applyLevelsLocked(lc *config.Logging) {
	fileLevel.SetLevel(parseLevel(lc.GetLevel()))
	consoleLevel.SetLevel(parseLevel(lc.GetConsoleLevel()))
}

func createCategoryLogger(lc *config.Logging, category, file string, colored bool) (*zap.Logger, error) {
	// 文件编码器配置
	fileEncoderCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var cores []zapcore.Core

	// 文件输出
	if lc.FileEnabled() {
		filePath := filepath.Join(lc.GetBaseDir(), file)
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return nil, fmt.Errorf("创建日志目录失败: %w", err)
		}

		rl := newRotateLogger(filePath, lc)
		rotateLoggers = append(rotateLoggers, rl)

		var writer zapcore.WriteSyncer = rl

		// 异步写入
		if lc.Async {
			aw := newAsyncWriter(writer, lc.GetBufferSize(), lc.DropOnFull)
			asyncWriters = append(asyncWriters, aw)
			writer = aw
		}

		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderCfg), writer, fileLevel))
	}

	// 控制台输出
	if lc.ConsoleEnabled() {
		cores = append(cores, zapcore.NewCore(newConsoleEncoder(colored), zapcore.Lock(os.Stdout), consoleLevel))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}

	logger := zap.New(zapcore.NewTee(cores...),
		zap.AddCaller(),
		zap.AddStacktrace(zap.ErrorLevel),
		zap.Fields(zap.String("category", category)),
	)
	return logger, nil
}

func parseLevel(levelStr string) zapcore.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Shutdown 刷新并关闭所有日志输出
func Shutdown() error {
	mu.Lock()
	defer mu.Unlock()

	// 停止后异步写入器直接写底层文件，丢弃统计可以落盘
	var dropped int64
	for _, aw := range asyncWriters {
		aw.Stop()
		dropped += aw.Dropped()
	}
	if dropped > 0 {
		GeneralLogger.Warn("异步日志缓冲区已满，部分日志被丢弃", zap.Int64("dropped", dropped))
	}

	var firstErr error
	for _, logger := range []*zap.Logger{GeneralLogger, HTTPLogger} {
		if err := logger.Sync(); err != nil && !isIgnorableSyncError(err) && firstErr == nil {
			firstErr = err
		}
	}

	for _, rl := range rotateLoggers {
		rl.Stop()
	}
	asyncWriters = nil
	rotateLoggers = nil

	return firstErr
}

// 标准输出为终端或管道时 Sync 会返回这些错误
func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "sync /dev/stdout") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl")
}
