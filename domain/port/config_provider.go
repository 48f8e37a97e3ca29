package port

// HTTPLoggingConfig is the middleware's view of its configuration.
type HTTPLoggingConfig struct {
	Enabled            bool
	ExcludeURLPatterns []string
	ExcludeHeaders     []string
	Style              RecordStyle
}

// ConfigProvider exposes the current configuration and change notifications.
type ConfigProvider interface {
	HTTPLogging() HTTPLoggingConfig
	Listen() string
	Watch() <-chan struct{}
}
