package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-services-teamwork/core"
)

func TestFileLoader_ReadsFlatAndSectionedYAML(t *testing.T) {
	dir := t.TempDir()
	flat := filepath.Join(dir, "flat.yaml")
	writeFile(t, flat, "api_key: key-1\nsubdomain: acme\nunrelated: true\n")
	sectioned := filepath.Join(dir, "sectioned.yaml")
	writeFile(t, sectioned, "server:\n  port: 8080\nteamwork:\n  subdomain: beta\n  webhook_path: /hooks/tw\n")

	raw, err := FileLoader{Path: flat}.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load flat: %v", err)
	}
	if raw["api_key"] != "key-1" || raw["subdomain"] != "acme" {
		t.Fatalf("unexpected flat values %#v", raw)
	}
	if _, ok := raw["unrelated"]; ok {
		t.Fatalf("expected unknown keys to be dropped")
	}

	raw, err = FileLoader{Path: sectioned}.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load sectioned: %v", err)
	}
	if raw["subdomain"] != "beta" || raw["webhook_path"] != "/hooks/tw" {
		t.Fatalf("unexpected sectioned values %#v", raw)
	}
}

func TestFileLoader_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := (FileLoader{Path: path}).LoadRaw(context.Background()); err == nil {
		t.Fatalf("expected missing file error")
	}
	raw, err := FileLoader{Path: path, Optional: true}.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("expected optional file to be skipped: %v", err)
	}
	if len(raw) != 0 {
		t.Fatalf("expected empty map, got %#v", raw)
	}
}

func TestFileLoader_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "api_key: [unclosed\n")
	if _, err := (FileLoader{Path: path}).LoadRaw(context.Background()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEnvLoader_EnvironmentWinsOverDotEnv(t *testing.T) {
	dotenv := filepath.Join(t.TempDir(), ".env")
	writeFile(t, dotenv, "TEAMWORK_API_KEY=from-dotenv\nTEAMWORK_SUBDOMAIN=dotenv-sub\n")
	env := map[string]string{"TEAMWORK_SUBDOMAIN": "env-sub"}

	raw, err := EnvLoader{
		DotEnvFiles: []string{dotenv, filepath.Join(t.TempDir(), "absent.env")},
		Lookup: func(key string) (string, bool) {
			value, ok := env[key]
			return value, ok
		},
	}.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if raw["api_key"] != "from-dotenv" {
		t.Fatalf("expected dotenv api key, got %#v", raw["api_key"])
	}
	if raw["subdomain"] != "env-sub" {
		t.Fatalf("expected environment subdomain, got %#v", raw["subdomain"])
	}
	if _, ok := raw["webhook_path"]; ok {
		t.Fatalf("expected unset keys to be absent")
	}
}

func TestEnvLoader_CustomPrefix(t *testing.T) {
	raw, err := EnvLoader{
		Prefix: "TW_",
		Lookup: func(key string) (string, bool) {
			if key == "TW_WEBHOOK_PATH" {
				return "/custom", true
			}
			return "", false
		},
	}.LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if raw["webhook_path"] != "/custom" {
		t.Fatalf("expected prefixed key, got %#v", raw)
	}
}

func TestChainLoader_LaterLoadersWin(t *testing.T) {
	raw, err := Chain(
		core.StaticConfigLoader(map[string]any{"subdomain": "first", "api_key": "k"}),
		nil,
		core.StaticConfigLoader(map[string]any{"subdomain": "second"}),
	).LoadRaw(context.Background())
	if err != nil {
		t.Fatalf("load chain: %v", err)
	}
	if raw["subdomain"] != "second" || raw["api_key"] != "k" {
		t.Fatalf("unexpected merge %#v", raw)
	}
}

func TestProvider_BuildsConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teamwork.yaml")
	writeFile(t, path, "subdomain: acme\nwebhook_path: /hooks/teamwork\n")

	cfg, err := Provider(path).Load(context.Background(), core.DefaultConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Subdomain == "" || cfg.WebhookPath != "/hooks/teamwork" {
		t.Fatalf("unexpected config %#v", cfg)
	}
}

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
