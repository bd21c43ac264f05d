package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env    string `mapstructure:"env"`      // current application environment (local, dev, prod etc)
	HTTP   HTTP   `mapstructure:"http"`     // HTTP server configuration section
	DB     DB     `mapstructure:"database"` // database configuration section
	Redis  Redis  `mapstructure:"redis"`    // cache configuration section
	OpenAI OpenAI `mapstructure:"openai"`   // language model client configuration section
	Quiz   Quiz   `mapstructure:"quiz"`     // quiz pipeline defaults
}

// HTTP contains HTTP server configuration parameters.
type HTTP struct {
	Port           string        `mapstructure:"port"`             // listen port
	AllowedOrigins []string      `mapstructure:"allowed_origins"`  // CORS origins
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`     // request read timeout
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`    // response write timeout
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"` // course upload size cap
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // database connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// DSN returns the database connection string if it is configured.
func (db DB) DSN() (string, error) {
	if db.URL == "" {
		return "", ErrMissingEnvironmentVariables
	}
	return db.URL, nil
}

// Redis contains cache configuration parameters.
type Redis struct {
	Addr     string        `mapstructure:"addr"` // host:port of the Redis server
	Password string        `mapstructure:"-"`    // password loaded from environment
	DB       int           `mapstructure:"db"`   // logical database index
	TTL      time.Duration `mapstructure:"ttl"`  // default entry lifetime
}

// OpenAI contains language model client configuration parameters.
type OpenAI struct {
	BaseURL     string        `mapstructure:"base_url"`    // API base URL
	APIKey      string        `mapstructure:"-"`           // API key loaded from environment
	Model       string        `mapstructure:"model"`       // model identifier
	MaxTokens   int           `mapstructure:"max_tokens"`  // completion token cap
	Temperature float64       `mapstructure:"temperature"` // sampling temperature
	Timeout     time.Duration `mapstructure:"timeout"`     // request timeout
}

// Quiz contains quiz pipeline defaults.
type Quiz struct {
	SessionMaxAge time.Duration `mapstructure:"session_max_age"` // inactivity before a session is abandoned
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Initialize Viper instance and base config options.
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("http.port", "8080")
	v.SetDefault("http.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("http.read_timeout", "30s")
	v.SetDefault("http.write_timeout", "90s")
	v.SetDefault("http.max_upload_bytes", 20<<20)
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "2h")
	v.SetDefault("openai.base_url", "https://api.openai.com")
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 800)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.timeout", "60s")
	v.SetDefault("quiz.session_max_age", "2h")

	// Configure environment variable handling and key mapping.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // map nested keys to ENV style names
	v.AutomaticEnv()

	// Bind explicit environment variables to configuration keys.
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("redis_password", "REDIS_PASSWORD")
	_ = v.BindEnv("env", "APP_ENV")

	// Try to read configuration file if present.
	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	// Unmarshal configuration into strongly typed struct.
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	// Load sensitive values from environment variables.
	cfg.OpenAI.APIKey = v.GetString("openai_api_key")
	if cfg.OpenAI.APIKey == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.Redis.Password = v.GetString("redis_password")

	return &cfg, nil
}
