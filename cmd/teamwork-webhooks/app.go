package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	teamwork "github.com/goliatone/go-services-teamwork"
	promadapter "github.com/goliatone/go-services-teamwork/adapters/prometheus"
	"github.com/goliatone/go-services-teamwork/config"
	"github.com/goliatone/go-services-teamwork/core"
	"github.com/goliatone/go-services-teamwork/host"
)

type app struct {
	logger    *slogLogger
	provider  loggerProvider
	metrics   *promadapter.Recorder
	runtime   *host.Runtime
	connector *teamwork.Connector
	facade    *teamwork.Facade
}

func newApp(out io.Writer, opts ...host.Option) (*app, error) {
	logger := newLogger(out, logLevel, logFormat)
	provider := loggerProvider{root: logger}
	metrics := promadapter.NewRecorder()

	hostOpts := append([]host.Option{
		host.WithLogger(logger),
		host.WithLoggerProvider(provider),
		host.WithMetricsHandler(metrics.Handler()),
	}, opts...)
	runtime := host.New(hostOpts...)

	connector, err := teamwork.NewConnector(runtime, teamwork.Config{},
		teamwork.WithLogger(logger),
		teamwork.WithLoggerProvider(provider),
		teamwork.WithMetricsRecorder(metrics),
		teamwork.WithConfigProvider(config.Provider(configPath, envFiles...)),
	)
	if err != nil {
		return nil, err
	}
	facade, err := teamwork.NewFacade(connector)
	if err != nil {
		return nil, err
	}
	runtime.Register(connector)

	return &app{
		logger:    logger,
		provider:  provider,
		metrics:   metrics,
		runtime:   runtime,
		connector: connector,
		facade:    facade,
	}, nil
}

// resolveEventTypes expands --all and validates --event values. Unknown
// types are allowed with --allow-unknown since Teamwork adds events over time.
func resolveEventTypes(values []string, all bool, allowUnknown bool) ([]core.EventType, error) {
	if all {
		return core.KnownEventTypes(), nil
	}
	out := make([]core.EventType, 0, len(values))
	seen := map[core.EventType]struct{}{}
	for _, value := range values {
		value = strings.ToUpper(strings.TrimSpace(value))
		if value == "" {
			continue
		}
		eventType, known := core.ParseEventType(value)
		if !known && !allowUnknown {
			return nil, fmt.Errorf("unknown event type %q (use --allow-unknown to subscribe anyway)", value)
		}
		if _, dup := seen[eventType]; dup {
			continue
		}
		seen[eventType] = struct{}{}
		out = append(out, eventType)
	}
	return out, nil
}

// loggingHandler writes one log line per fired event.
func loggingHandler(logger core.Logger) core.EventHandler {
	return core.EventHandlerFunc(func(_ context.Context, evt core.Event) error {
		args := []any{"event_id", evt.ID}
		if payload, ok := evt.Payload.(map[string]any); ok {
			keys := make([]string, 0, len(payload))
			for key := range payload {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			args = append(args, "payload_keys", strings.Join(keys, ","))
		}
		logger.Info("teamwork event received", args...)
		return nil
	})
}
