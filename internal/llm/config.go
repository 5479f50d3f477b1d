// Package llm is the gateway to the remote chat-completion API that produces
// behaviorist analyses and weekly training plans, with a 24-hour cache of
// analyses keyed by dog and time range.
package llm

import (
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the OpenAI chat-completions endpoint.
	DefaultBaseURL = "https://api.openai.com/v1/chat/completions"

	// DefaultModel is the model used for both request kinds.
	DefaultModel = "gpt-4o-mini"

	// DefaultTimeout bounds one HTTP round trip.
	DefaultTimeout = 60 * time.Second

	// DefaultCacheTTL is how long an analysis stays fresh.
	DefaultCacheTTL = 24 * time.Hour
)

const (
	analysisTemperature = 0.3
	analysisMaxTokens   = 1500
	planTemperature     = 0.4
	planMaxTokens       = 2000
)

// Config holds everything the gateway needs to reach the remote API. It is
// passed in explicitly; there is no package-level credential.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration
	CacheTTL time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = DefaultCacheTTL
	}
	return c
}

// HasCredential reports whether an API key is configured.
func (c Config) HasCredential() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// LooksLikeAPIKey reports whether key has the shape of an OpenAI secret key
// ("sk-" prefix, longer than 20 characters). It is a hint for users, not a
// gate: the remote API is the authority.
func LooksLikeAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	return strings.HasPrefix(key, "sk-") && len(key) > 20
}
