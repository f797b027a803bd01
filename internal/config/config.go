package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when neither --config nor ARBEITSZEIT_CONFIG is set.
const DefaultPath = "configs/config.yaml"

// EnvPath names the environment variable that overrides DefaultPath.
const EnvPath = "ARBEITSZEIT_CONFIG"

const (
	BackendSheets   = "sheets"
	BackendWorkbook = "workbook"
	BackendMemory   = "memory"
)

type BackupConfig struct {
	Enabled       bool   `yaml:"enabled"`
	IntervalHours int    `yaml:"interval_hours"`
	Path          string `yaml:"path"`
	RetentionDays int    `yaml:"retention_days"`
}

type Config struct {
	Server struct {
		Address        string   `yaml:"address"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Store struct {
		Backend string `yaml:"backend"`
	} `yaml:"store"`

	Google struct {
		CredentialsFile   string `yaml:"credentials_file"`
		SpreadsheetID     string `yaml:"spreadsheet_id"`
		Worksheet         string `yaml:"worksheet"`
		RequestsPerMinute int    `yaml:"requests_per_minute"`
	} `yaml:"google"`

	Workbook struct {
		Path  string `yaml:"path"`
		Sheet string `yaml:"sheet"`
	} `yaml:"workbook"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
		SessionTTLHours int    `yaml:"session_ttl_hours"`
	} `yaml:"redis"`

	Backup BackupConfig `yaml:"backup"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Logging struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"logging"`
}

// ResolvePath picks the config file: explicit flag, then environment, then default.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultPath
}

func Load(path string) (*Config, error) {
	// A missing .env is fine.
	_ = godotenv.Load()

	data, err := os.ReadFile(ResolvePath(path))
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Store.Backend == BackendWorkbook {
		if err = os.MkdirAll(filepath.Dir(cfg.Workbook.Path), 0o755); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = BackendSheets
	}
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}
	if c.Google.Worksheet == "" {
		c.Google.Worksheet = "Tabelle1"
	}
	if c.Workbook.Path == "" {
		c.Workbook.Path = "data/arbeitszeit.xlsx"
	}
	if c.Workbook.Sheet == "" {
		c.Workbook.Sheet = "Tabelle1"
	}
	if c.Backup.Path == "" {
		c.Backup.Path = "backups"
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks that the selected backend is fully configured.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSheets:
		if c.Google.CredentialsFile == "" || c.Google.SpreadsheetID == "" {
			return errors.New("google.credentials_file and google.spreadsheet_id are required for the sheets backend")
		}
	case BackendWorkbook, BackendMemory:
	default:
		return fmt.Errorf("unknown store.backend %q", c.Store.Backend)
	}
	return nil
}

func (c *Config) CacheTTL() time.Duration {
	if c.Redis.CacheTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

func (c *Config) SessionTTL() time.Duration {
	if c.Redis.SessionTTLHours <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.Redis.SessionTTLHours) * time.Hour
}

func (c *BackupConfig) Interval() time.Duration {
	if c.IntervalHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.IntervalHours) * time.Hour
}
