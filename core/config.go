package core

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultWebhookPath = "/webhooks/teamwork"

	// EventHeader carries the event type on every Teamwork webhook delivery.
	EventHeader = "x-projects-event"

	defaultAPIHost = "teamwork.com"
)

type Config struct {
	APIKey      string `koanf:"api_key" mapstructure:"api_key" yaml:"api_key" json:"api_key"`
	Subdomain   string `koanf:"subdomain" mapstructure:"subdomain" yaml:"subdomain" json:"subdomain"`
	WebhookPath string `koanf:"webhook_path" mapstructure:"webhook_path" yaml:"webhook_path" json:"webhook_path"`
	APIBaseURL  string `koanf:"api_base_url" mapstructure:"api_base_url" yaml:"api_base_url" json:"api_base_url"`
}

func DefaultConfig() Config {
	return Config{
		WebhookPath: DefaultWebhookPath,
	}
}

// Validate only checks the API base URL override. Credentials are not checked
// here; a bad api key or subdomain shows up as a failure from the API client.
// The webhook path is checked by the host when Start registers it.
func (c Config) Validate() error {
	if base := strings.TrimSpace(c.APIBaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("core: api_base_url is invalid: %q", base)
		}
	}
	return nil
}

// EffectiveWebhookPath returns the configured path or the default one.
func (c Config) EffectiveWebhookPath() string {
	if path := strings.TrimSpace(c.WebhookPath); path != "" {
		return path
	}
	return DefaultWebhookPath
}

// BaseURL resolves the tenant API root, https://<subdomain>.teamwork.com
// unless APIBaseURL overrides it.
func (c Config) BaseURL() string {
	if base := strings.TrimSpace(c.APIBaseURL); base != "" {
		return strings.TrimRight(base, "/")
	}
	subdomain := strings.TrimSpace(c.Subdomain)
	if subdomain == "" {
		return "https://" + defaultAPIHost
	}
	return "https://" + subdomain + "." + defaultAPIHost
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	out := c
	out.APIKey = maskSecret(c.APIKey)
	return out
}
