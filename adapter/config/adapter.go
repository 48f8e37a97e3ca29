package config

import (
	"http-logger/domain/port"
	"http-logger/infrastructure/config"
)

// ConfigAdapter adapts config.Manager to the port.ConfigProvider interface.
type ConfigAdapter struct {
	manager *config.Manager
}

// NewConfigAdapter creates a new config adapter.
func NewConfigAdapter(manager *config.Manager) *ConfigAdapter {
	return &ConfigAdapter{manager: manager}
}

// HTTPLogging returns the current middleware settings.
func (a *ConfigAdapter) HTTPLogging() port.HTTPLoggingConfig {
	return ToHTTPLoggingConfig(&a.manager.Get().HTTPLogging)
}

// Listen returns the listen address.
func (a *ConfigAdapter) Listen() string {
	return a.manager.Get().GetListen()
}

// Watch starts polling the config file and returns its change channel.
func (a *ConfigAdapter) Watch() <-chan struct{} {
	return a.manager.Watch()
}

// ToHTTPLoggingConfig converts the YAML section to the port view.
func ToHTTPLoggingConfig(h *config.HTTPLogging) port.HTTPLoggingConfig {
	return port.HTTPLoggingConfig{
		Enabled:            h.IsEnabled(),
		ExcludeURLPatterns: append([]string(nil), h.ExcludeURLPatterns...),
		ExcludeHeaders:     append([]string(nil), h.ExcludeHeaders...),
		Style:              port.RecordStyle(h.GetStyle()),
	}
}
