package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the main config struct
type Config struct {
	Environment string         `yaml:"environment" env:"ENVIRONMENT" env-default:"production" env-description:"Environment name"`
	Secret      string         `yaml:"secret" env:"SECRET" env-default:"" env-description:"Bearer token required by the admin API"`
	Verbose     string         `yaml:"verbose" env:"VERBOSE" env-default:"info" env-description:"Verbose mode for debug output"`
	Database    DatabaseConfig `yaml:"database"`
	Ban         BanConfig      `yaml:"ban"`
	API         APIConfig      `yaml:"api"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}

// Ban engine config
type BanConfig struct {
	CacheTTL     time.Duration `yaml:"cache_ttl" env:"BAN_CACHE_TTL" env-default:"1h" env-description:"TTL of the cached ban snapshot"`
	TidyInterval time.Duration `yaml:"tidy_interval" env:"BAN_TIDY_INTERVAL" env-default:"1h" env-description:"Interval between expired-ban sweeps"`
}

// API config
type APIConfig struct {
	Host         string        `yaml:"host" env:"API_HOST" env-default:"localhost" env-description:"API host address to bind to"`
	Port         int           `yaml:"port" env:"API_PORT" env-default:"8080" env-description:"API port to bind to"`
	Timeout      time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"30s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"API_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"API_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"API_IDLE_TIMEOUT" env-default:"15s"`
}

// SQLite, PostgreSQL or MySQL config
type DatabaseConfig struct {
	// Driver is the database driver to use. Supported drivers are "sqlite3", "postgres" and "mysql".
	Driver     string `yaml:"driver" env:"DATABASE_DRIVER" env-default:"sqlite3" env-description:"Database driver to use"`
	Connection string `yaml:"connection" env:"DATABASE_CONNECTION" env-default:":memory:" env-description:"Database connection string"`
}

// InfluxDB metrics config, disabled unless a URL is set
type MetricsConfig struct {
	URL    string `yaml:"url" env:"METRICS_URL" env-default:"" env-description:"InfluxDB URL, empty disables metrics"`
	Token  string `yaml:"token" env:"METRICS_TOKEN" env-default:""`
	Org    string `yaml:"org" env:"METRICS_ORG" env-default:""`
	Bucket string `yaml:"bucket" env:"METRICS_BUCKET" env-default:""`
}

// Enabled - whether a metrics sink is configured
func (c *MetricsConfig) Enabled() bool {
	return c.URL != ""
}

// ConfigError - config loading error
type ConfigError struct {
	Message string
}

// Error - implement the error interface
func (e *ConfigError) Error() string {
	return e.Message
}

func MustLoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yml"
	}

	var config Config

	// Without a config file the environment alone has to be enough
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cleanenv.ReadEnv(&config); err != nil {
			return nil, &ConfigError{
				Message: fmt.Sprintf("Cannot read environment: %s", err),
			}
		}

		return &config, nil
	}

	if err := cleanenv.ReadConfig(configPath, &config); err != nil {
		return nil, &ConfigError{
			Message: fmt.Sprintf("Cannot read config file: %s", err),
		}
	}

	return &config, nil
}
