package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the top-level doglog configuration.
type Config struct {
	Storage Storage `mapstructure:"storage"`
	LLM     LLM     `mapstructure:"llm"`
	Cache   Cache   `mapstructure:"cache"`
	Server  Server  `mapstructure:"server"`
	Log     Log     `mapstructure:"log"`
	Output  Output  `mapstructure:"output"`
}

// Storage selects the journal repository.
type Storage struct {
	Driver string `mapstructure:"driver" validate:"oneof=sqlite postgres memory"`
	Path   string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	DSN    string `mapstructure:"dsn" validate:"required_if=Driver postgres"`
}

// LLM configures the remote analysis API.
type LLM struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Model   string        `mapstructure:"model" validate:"required"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// Cache selects where analyses are cached. "store" keeps them in the
// journal database; the memory driver always caches in memory.
type Cache struct {
	Backend string        `mapstructure:"backend" validate:"oneof=store memory"`
	TTL     time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// Server configures the HTTP API.
type Server struct {
	Addr           string   `mapstructure:"addr" validate:"required"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Log configures structured logging.
type Log struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn warning error"`
	Format string `mapstructure:"format" validate:"oneof=text json"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

var validate = validator.New()

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location),
// then applies .env and environment overrides, and returns a validated
// Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", DefaultEnvFile, err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// OPENAI_API_KEY is honored for compatibility with other tools.
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		v.AddConfigPath(expandPath(DefaultConfigDir))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// A missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.Storage.Path = expandPath(cfg.Storage.Path)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Log.Format = strings.ToLower(cfg.Log.Format)

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.driver", DefaultStorage.Driver)
	v.SetDefault("storage.path", DefaultStorage.Path)
	v.SetDefault("storage.dsn", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", DefaultLLM.BaseURL)
	v.SetDefault("llm.model", DefaultLLM.Model)
	v.SetDefault("llm.timeout", DefaultLLM.Timeout)
	v.SetDefault("cache.backend", DefaultCache.Backend)
	v.SetDefault("cache.ttl", DefaultCache.TTL)
	v.SetDefault("server.addr", DefaultServer.Addr)
	v.SetDefault("server.allowed_origins", DefaultServer.AllowedOrigins)
	v.SetDefault("log.level", DefaultLog.Level)
	v.SetDefault("log.format", DefaultLog.Format)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)
}

// DBPath returns the full path to the default SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}
