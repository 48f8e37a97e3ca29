package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"http-logger/domain/service"
)

type Config struct {
	Listen      string      `yaml:"listen"`
	Logging     Logging     `yaml:"logging"`
	HTTPLogging HTTPLogging `yaml:"http_logging"`
	Server      Server      `yaml:"server"`
}

// HTTPLogging 请求/响应日志中间件配置
type HTTPLogging struct {
	Enabled            *bool    `yaml:"enabled,omitempty"` // 默认 false
	ExcludeURLPatterns []string `yaml:"exclude_url_patterns"`
	ExcludeHeaders     []string `yaml:"exclude_headers"`
	Style              string   `yaml:"style,omitempty"` // json/text，默认 json
}

// IsEnabled 未配置时默认关闭，需显式开启才会记录请求/响应体
func (h *HTTPLogging) IsEnabled() bool {
	return h.Enabled != nil && *h.Enabled
}

func (h *HTTPLogging) GetStyle() string {
	if h.Style == "" {
		return "json"
	}
	return strings.ToLower(h.Style)
}

type Logging struct {
	Level         string `yaml:"level"`
	ConsoleLevel  string `yaml:"console_level"`
	BaseDir       string `yaml:"base_dir"`
	GeneralFile   string `yaml:"general_file"`
	HTTPFile      string `yaml:"http_file"`
	MaxFileSizeMB int    `yaml:"max_file_size_mb"`
	MaxAgeDays    int    `yaml:"max_age_days,omitempty"`
	MaxBackups    int    `yaml:"max_backups,omitempty"`
	Compress      bool   `yaml:"compress,omitempty"`
	Colorize      *bool  `yaml:"colorize,omitempty"`
	Console       *bool  `yaml:"console,omitempty"`       // 是否输出到控制台，默认开启
	File          *bool  `yaml:"file,omitempty"`          // 是否输出到文件，默认开启
	Async         bool   `yaml:"async"`                   // 异步写文件
	BufferSize    int    `yaml:"buffer_size"`             // 异步缓冲条数
	DropOnFull    bool   `yaml:"drop_on_full"`            // 缓冲满时丢弃而不是阻塞
	TimeRotation  string `yaml:"time_rotation,omitempty"` // hourly/daily，为空时只按大小轮转
}

func (l *Logging) GetLevel() string {
	if l.Level == "" {
		return "info"
	}
	return l.Level
}

func (l *Logging) GetConsoleLevel() string {
	if l.ConsoleLevel == "" {
		return l.GetLevel()
	}
	return l.ConsoleLevel
}

func (l *Logging) GetBaseDir() string {
	if l.BaseDir == "" {
		return "./logs"
	}
	return l.BaseDir
}

func (l *Logging) GetGeneralFile() string {
	if l.GeneralFile == "" {
		return "general.log"
	}
	return l.GeneralFile
}

func (l *Logging) GetHTTPFile() string {
	if l.HTTPFile == "" {
		return "http.log"
	}
	return l.HTTPFile
}

func (l *Logging) GetMaxFileSizeMB() int {
	if l.MaxFileSizeMB <= 0 {
		return 100
	}
	return l.MaxFileSizeMB
}

func (l *Logging) GetMaxAgeDays() int {
	if l.MaxAgeDays <= 0 {
		return 7
	}
	return l.MaxAgeDays
}

func (l *Logging) GetMaxBackups() int {
	if l.MaxBackups <= 0 {
		return 10
	}
	return l.MaxBackups
}

func (l *Logging) GetColorize() bool {
	return l.Colorize == nil || *l.Colorize
}

func (l *Logging) ConsoleEnabled() bool {
	return l.Console == nil || *l.Console
}

func (l *Logging) FileEnabled() bool {
	return l.File == nil || *l.File
}

func (l *Logging) GetBufferSize() int {
	if l.BufferSize <= 0 {
		return 10000
	}
	return l.BufferSize
}

type Server struct {
	ReadTimeout     int `yaml:"read_timeout"`     // 秒
	WriteTimeout    int `yaml:"write_timeout"`    // 秒
	IdleTimeout     int `yaml:"idle_timeout"`     // 秒
	ShutdownTimeout int `yaml:"shutdown_timeout"` // 秒
}

func (s *Server) GetReadTimeout() time.Duration {
	if s.ReadTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.ReadTimeout) * time.Second
}

func (s *Server) GetWriteTimeout() time.Duration {
	if s.WriteTimeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.WriteTimeout) * time.Second
}

func (s *Server) GetIdleTimeout() time.Duration {
	if s.IdleTimeout <= 0 {
		return 120 * time.Second
	}
	return time.Duration(s.IdleTimeout) * time.Second
}

func (s *Server) GetShutdownTimeout() time.Duration {
	if s.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.ShutdownTimeout) * time.Second
}

func (c *Config) GetListen() string {
	if c.Listen == "" {
		return ":8080"
	}
	return c.Listen
}

type Manager struct {
	config     *Config
	configPath string
	lastMod    time.Time
	lastErr    error
	mu         sync.RWMutex
	notifyChan chan struct{}
	stopChan   chan struct{}
	onReload   []func(*Config)
}

// NewManagerForTest 创建不关联文件的 Manager
func NewManagerForTest(cfg *Config) *Manager {
	return &Manager{config: cfg}
}

func NewManager(path string) (*Manager, error) {
	cm := &Manager{configPath: path}
	if err := cm.load(); err != nil {
		return nil, err
	}
	return cm, nil
}

func (cm *Manager) load() error {
	cfg, err := LoadFile(cm.configPath)
	if err != nil {
		return err
	}
	stat, err := os.Stat(cm.configPath)
	if err != nil {
		return err
	}
	cm.config = cfg
	cm.lastMod = stat.ModTime()
	return nil
}

func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	cfg := cm.config
	path := cm.configPath
	lastMod := cm.lastMod
	cm.mu.RUnlock()

	if path == "" {
		return cfg
	}
	stat, err := os.Stat(path)
	if err != nil {
		return cfg
	}
	// 使用 After 而不是 Equal，兼容不同文件系统的时间精度
	if !stat.ModTime().After(lastMod) {
		return cfg
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.tryReloadLocked()
	return cm.config
}

// LastError 返回最近一次热加载失败的原因
func (cm *Manager) LastError() error {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.lastErr
}

// OnReload 注册配置重新加载后的回调，回调在持有锁时执行，不能再调用 Get
func (cm *Manager) OnReload(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.onReload = append(cm.onReload, fn)
}

func (cm *Manager) tryReloadLocked() {
	if cm.configPath == "" {
		return
	}
	stat, err := os.Stat(cm.configPath)
	if err != nil || !stat.ModTime().After(cm.lastMod) {
		return
	}
	// 无论成功与否都记录 mtime，避免对同一份错误配置反复解析
	cm.lastMod = stat.ModTime()

	cfg, err := LoadFile(cm.configPath)
	if err != nil {
		// 保留旧配置
		cm.lastErr = err
		return
	}
	cm.config = cfg
	cm.lastErr = nil

	for _, fn := range cm.onReload {
		fn(cfg)
	}

	// 通知配置已变更
	if cm.notifyChan != nil {
		select {
		case cm.notifyChan <- struct{}{}:
		default:
			// 通道已满，跳过
		}
	}
}

// Watch 启动配置文件的监控 goroutine。
// 返回一个通道，当配置文件发生变更时会发送信号。
// 调用 StopWatch() 来停止监控。
func (cm *Manager) Watch() <-chan struct{} {
	return cm.WatchInterval(2 * time.Second)
}

// WatchInterval 同 Watch，可指定轮询间隔
func (cm *Manager) WatchInterval(interval time.Duration) <-chan struct{} {
	cm.mu.Lock()
	if cm.notifyChan != nil {
		ch := cm.notifyChan
		cm.mu.Unlock()
		return ch
	}
	cm.notifyChan = make(chan struct{}, 1)
	cm.stopChan = make(chan struct{})
	notify, stop := cm.notifyChan, cm.stopChan
	cm.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				cm.mu.Lock()
				cm.tryReloadLocked()
				cm.mu.Unlock()
			}
		}
	}()

	return notify
}

// StopWatch 停止配置文件的监控。
func (cm *Manager) StopWatch() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	if cm.stopChan != nil {
		close(cm.stopChan)
		cm.stopChan = nil
		cm.notifyChan = nil
	}
}

var validLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

func Validate(cfg *Config) []error {
	var errors []error

	if s := cfg.HTTPLogging.GetStyle(); s != "json" && s != "text" {
		errors = append(errors, fmt.Errorf("http_logging.style 必须是 json 或 text，当前为 %q", cfg.HTTPLogging.Style))
	}
	for i, p := range cfg.HTTPLogging.ExcludeURLPatterns {
		if err := service.ValidateURLPattern(p); err != nil {
			errors = append(errors, fmt.Errorf("http_logging.exclude_url_patterns[%d]: %w", i, err))
		}
	}
	for i, h := range cfg.HTTPLogging.ExcludeHeaders {
		if strings.TrimSpace(h) == "" {
			errors = append(errors, fmt.Errorf("http_logging.exclude_headers[%d] 不能为空", i))
		}
	}

	if !validLevels[strings.ToLower(cfg.Logging.GetLevel())] {
		errors = append(errors, fmt.Errorf("logging.level 无效: %q", cfg.Logging.Level))
	}
	if !validLevels[strings.ToLower(cfg.Logging.GetConsoleLevel())] {
		errors = append(errors, fmt.Errorf("logging.console_level 无效: %q", cfg.Logging.ConsoleLevel))
	}
	switch cfg.Logging.TimeRotation {
	case "", "hourly", "daily":
	default:
		errors = append(errors, fmt.Errorf("logging.time_rotation 必须是 hourly 或 daily，当前为 %q", cfg.Logging.TimeRotation))
	}

	return errors
}
