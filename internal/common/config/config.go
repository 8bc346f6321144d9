// internal/common/config/config.go
package config

import "time"

// Build modes decide where bundled resources are looked up.
const (
	BuildModeDevelopment = "development"
	BuildModePackaged    = "packaged"
)

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Grist         GristConfig         `mapstructure:"grist"`
	Resources     ResourcesConfig     `mapstructure:"resources"`
	Server        ServerConfig        `mapstructure:"server"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	BuildMode   string `mapstructure:"build_mode"`
}

// GristConfig is the remote document the kiosk reads workers and hours from.
// All three identity fields are required.
type GristConfig struct {
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	DocumentID string `mapstructure:"document_id"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds, 0 keeps the HTTP client default
}

// ResourcesConfig controls where public/images and public/message.txt live.
type ResourcesConfig struct {
	Dir       string `mapstructure:"dir"`
	DevSubdir string `mapstructure:"dev_subdir"`
}

type ServerConfig struct {
	Address         string `mapstructure:"address"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// IsPackaged reports whether resources come from the installed bundle.
func (a AppConfig) IsPackaged() bool {
	return a.BuildMode == BuildModePackaged
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
