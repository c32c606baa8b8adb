package main

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	envFiles   []string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "teamwork-webhooks",
	Short: "Receive Teamwork webhooks and route them to handlers",
	Long: `teamwork-webhooks runs the Teamwork connector inside a small HTTP host.

Configuration is read from a YAML file, .env files, and TEAMWORK_* environment
variables, in that order of precedence (environment wins):

  TEAMWORK_API_KEY        API key used for basic auth against the Teamwork API
  TEAMWORK_SUBDOMAIN      account subdomain, <subdomain>.teamwork.com
  TEAMWORK_WEBHOOK_PATH   path webhooks are delivered to (default /webhooks/teamwork)
  TEAMWORK_API_BASE_URL   override for the API root`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "teamwork.yaml", "YAML config file (optional)")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, ".env files to read (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")
}
