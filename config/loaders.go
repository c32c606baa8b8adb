package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-services-teamwork/core"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultEnvPrefix = "TEAMWORK_"

	// SectionKey lets a shared YAML file keep connector settings under
	// a "teamwork:" block.
	SectionKey = "teamwork"
)

// Keys lists the raw keys understood by core.Config.
var Keys = []string{"api_key", "subdomain", "webhook_path", "api_base_url"}

// FileLoader reads a YAML file. A missing file is an error unless Optional.
type FileLoader struct {
	Path     string
	Optional bool
}

func (l FileLoader) LoadRaw(context.Context) (map[string]any, error) {
	path := strings.TrimSpace(l.Path)
	if path == "" {
		return map[string]any{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if l.Optional && errors.Is(err, fs.ErrNotExist) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if section, ok := raw[SectionKey].(map[string]any); ok {
		raw = section
	}
	return pick(raw), nil
}

// EnvLoader maps PREFIX_API_KEY style variables onto raw keys. DotEnvFiles
// are read first and never override the process environment.
type EnvLoader struct {
	Prefix      string
	DotEnvFiles []string
	Lookup      func(key string) (string, bool)
}

func (l EnvLoader) LoadRaw(context.Context) (map[string]any, error) {
	prefix := l.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	lookup := l.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	dotenv := map[string]string{}
	for _, file := range l.DotEnvFiles {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		for key, value := range values {
			dotenv[key] = value
		}
	}

	raw := map[string]any{}
	for _, key := range Keys {
		name := prefix + strings.ToUpper(key)
		if value, ok := lookup(name); ok && strings.TrimSpace(value) != "" {
			raw[key] = strings.TrimSpace(value)
			continue
		}
		if value, ok := dotenv[name]; ok && strings.TrimSpace(value) != "" {
			raw[key] = strings.TrimSpace(value)
		}
	}
	return raw, nil
}

// ChainLoader merges loaders in order; later loaders win per key.
type ChainLoader []core.RawConfigLoader

func Chain(loaders ...core.RawConfigLoader) ChainLoader {
	return ChainLoader(loaders)
}

func (c ChainLoader) LoadRaw(ctx context.Context) (map[string]any, error) {
	merged := map[string]any{}
	for _, loader := range c {
		if loader == nil {
			continue
		}
		raw, err := loader.LoadRaw(ctx)
		if err != nil {
			return nil, err
		}
		for key, value := range raw {
			merged[key] = value
		}
	}
	return merged, nil
}

// Provider builds the cfgx-backed provider for a YAML file plus environment.
func Provider(path string, dotEnvFiles ...string) core.ConfigProvider {
	return core.NewCfgxConfigProvider(Chain(
		FileLoader{Path: path, Optional: true},
		EnvLoader{DotEnvFiles: dotEnvFiles},
	))
}

func pick(raw map[string]any) map[string]any {
	out := map[string]any{}
	for _, key := range Keys {
		value, ok := raw[key]
		if !ok || value == nil {
			continue
		}
		out[key] = strings.TrimSpace(fmt.Sprint(value))
	}
	return out
}

var (
	_ core.RawConfigLoader = FileLoader{}
	_ core.RawConfigLoader = EnvLoader{}
	_ core.RawConfigLoader = ChainLoader{}
)
