// Package config provides configuration loading and defaults for doglog.
package config

import "time"

// DefaultConfigDir is the default location for doglog configuration.
const DefaultConfigDir = "~/.config/doglog"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "doglog.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultEnvFile is loaded from the working directory before the
// environment is read.
const DefaultEnvFile = ".env"

// EnvPrefix prefixes every environment override, e.g. DOGLOG_SERVER_ADDR.
const EnvPrefix = "DOGLOG"

// DefaultStorage stores journals in SQLite under the config directory.
var DefaultStorage = Storage{
	Driver: "sqlite",
	Path:   DefaultConfigDir + "/" + DefaultDBName,
}

// DefaultLLM holds the remote analysis defaults.
var DefaultLLM = LLM{
	BaseURL: "https://api.openai.com/v1/chat/completions",
	Model:   "gpt-4o-mini",
	Timeout: 60 * time.Second,
}

// DefaultCache keeps analyses next to the journal for 24 hours.
var DefaultCache = Cache{
	Backend: "store",
	TTL:     24 * time.Hour,
}

// DefaultServer holds the HTTP API defaults.
var DefaultServer = Server{
	Addr:           ":3001",
	AllowedOrigins: []string{"*"},
}

// DefaultLog holds the logging defaults.
var DefaultLog = Log{
	Level:  "info",
	Format: "text",
}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
