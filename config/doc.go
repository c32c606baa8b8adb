// Package config supplies raw configuration maps for the connector. YAML
// files, environment variables, and .env files are read into the flat
// api_key/subdomain/webhook_path/api_base_url shape core.Config decodes.
package config
