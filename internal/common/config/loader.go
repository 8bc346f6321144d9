// internal/common/config/loader.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "timeclock-kiosk/internal/common/errors"
)

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"app.environment":               "APP_ENVIRONMENT",
	"app.build_mode":                "APP_BUILD_MODE",
	"grist.api_key":                 "GRIST_API_KEY",
	"grist.base_url":                "GRIST_BASE_URL",
	"grist.document_id":             "GRIST_DOCUMENT_ID",
	"grist.timeout":                 "GRIST_TIMEOUT",
	"resources.dir":                 "TIMECLOCK_RESOURCE_DIR",
	"resources.dev_subdir":          "TIMECLOCK_DEV_SUBDIR",
	"server.address":                "SERVER_ADDRESS",
	"logging.level":                 "LOGGING_LEVEL",
	"logging.format":                "LOGGING_FORMAT",
	"logging.output":                "LOGGING_OUTPUT",
	"observability.jaeger_endpoint": "OBSERVABILITY_JAEGER_ENDPOINT",
	"observability.service_name":    "OBSERVABILITY_SERVICE_NAME",
	"server.shutdown_timeout":       "SERVER_SHUTDOWN_TIMEOUT",
}

// Loader resolves configuration from an optional .env file, optional YAML
// files and the process environment, in increasing priority.
type Loader struct {
	// EnvFiles are tried in order; the first one that exists is loaded.
	EnvFiles []string
	// ConfigPaths are searched for config.yaml and config.<environment>.yaml.
	ConfigPaths []string

	// LoadedEnvFile is the .env file that was applied, if any.
	LoadedEnvFile string
}

// NewLoader returns a Loader with the default search locations.
func NewLoader() *Loader {
	return &Loader{
		EnvFiles:    defaultEnvFiles(),
		ConfigPaths: []string{"./configs", "."},
	}
}

// Load reads configuration using the default search locations.
func Load() (*Config, error) {
	return NewLoader().Load()
}

func (l *Loader) Load() (*Config, error) {
	l.LoadedEnvFile = loadEnvFile(l.EnvFiles)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if len(l.ConfigPaths) > 0 {
		for _, p := range l.ConfigPaths {
			v.AddConfigPath(p)
		}

		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading base config: %w", err)
			}
		}

		v.SetConfigName(fmt.Sprintf("config.%s", env))
		_ = v.MergeInConfig() // environment overlay is optional
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file; environment
// variables still take priority over the file.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile(defaultEnvFiles())

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaultEnvFiles() []string {
	paths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		paths = append(paths, filepath.Join(rootDir, ".env"))
	}
	return paths
}

// loadEnvFile applies the first readable .env file. Variables already set in
// the process environment win over the file.
func loadEnvFile(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			return path
		}
	}
	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders left in YAML values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "timeclock-kiosk"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.BuildMode == "" {
		cfg.App.BuildMode = BuildModeDevelopment
	}

	cfg.Grist.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Grist.BaseURL), "/")
	cfg.Grist.APIKey = strings.TrimSpace(cfg.Grist.APIKey)
	cfg.Grist.DocumentID = strings.TrimSpace(cfg.Grist.DocumentID)

	if cfg.Resources.DevSubdir == "" {
		cfg.Resources.DevSubdir = "src-tauri"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = "127.0.0.1:1420"
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
}

// validateConfig validates critical configuration fields. Failures carry
// the CONFIG_INVALID code.
func validateConfig(cfg *Config) error {
	if cfg.Grist.APIKey == "" {
		return apperrors.NewConfigInvalidError("GRIST_API_KEY is required")
	}
	if cfg.Grist.BaseURL == "" {
		return apperrors.NewConfigInvalidError("GRIST_BASE_URL is required")
	}
	if cfg.Grist.DocumentID == "" {
		return apperrors.NewConfigInvalidError("GRIST_DOCUMENT_ID is required")
	}

	switch cfg.App.BuildMode {
	case BuildModeDevelopment, BuildModePackaged:
	default:
		return apperrors.NewConfigInvalidError(fmt.Sprintf("app.build_mode must be %q or %q, got %q",
			BuildModeDevelopment, BuildModePackaged, cfg.App.BuildMode))
	}

	if cfg.Grist.Timeout < 0 {
		return apperrors.NewConfigInvalidError("grist.timeout must not be negative")
	}

	return nil
}
