package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	twcommand "github.com/goliatone/go-services-teamwork/command"
	"github.com/goliatone/go-services-teamwork/core"
	"github.com/goliatone/go-services-teamwork/host"
	"github.com/spf13/cobra"
)

var (
	serveAddr         string
	serveEvents       []string
	serveAll          bool
	serveAllowUnknown bool
	serveShutdown     time.Duration
	serveMaxBody      int64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the webhook host",
	Long: `Start an HTTP server that accepts Teamwork webhook deliveries on the
configured webhook path. Every subscribed event is logged. /health/live and
/metrics are served alongside.`,
	Example: `  teamwork-webhooks serve --event TASK.CREATED --event TASK.UPDATED
  teamwork-webhooks serve --all --addr :9090`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringSliceVarP(&serveEvents, "event", "e", nil, "event type to subscribe to (repeatable)")
	serveCmd.Flags().BoolVar(&serveAll, "all", false, "subscribe to every known event type")
	serveCmd.Flags().BoolVar(&serveAllowUnknown, "allow-unknown", false, "accept event types outside the catalog")
	serveCmd.Flags().DurationVar(&serveShutdown, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	serveCmd.Flags().Int64Var(&serveMaxBody, "max-body-bytes", 0, "request body limit in bytes (0 uses the default)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	eventTypes, err := resolveEventTypes(serveEvents, serveAll, serveAllowUnknown)
	if err != nil {
		return err
	}
	if len(eventTypes) == 0 {
		return errors.New("no event types given, pass --event or --all")
	}

	a, err := newApp(os.Stdout, hostOptions()...)
	if err != nil {
		return err
	}
	handler := loggingHandler(a.provider.GetLogger("teamwork.events"))
	for _, eventType := range eventTypes {
		err := a.facade.Commands().Subscribe.Execute(ctx, twcommand.SubscribeMessage{
			EventType: eventType,
			Handler:   handler,
		})
		if err != nil {
			return err
		}
	}
	if err := a.runtime.Start(ctx); err != nil {
		return err
	}
	a.logger.Info("teamwork webhooks ready",
		"addr", serveAddr,
		"webhook_path", a.connector.WebhookPath(),
		"subscriptions", len(eventTypes),
		"config", redactedConfig(a.connector.Config()),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.runtime.ListenAndServe(serveAddr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), serveShutdown)
	defer cancel()
	if err := a.runtime.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("server shutdown error", "error", err)
		return err
	}
	return <-errCh
}

func hostOptions() []host.Option {
	if serveMaxBody <= 0 {
		return nil
	}
	return []host.Option{host.WithMaxBodyBytes(serveMaxBody)}
}

func redactedConfig(cfg core.Config) map[string]string {
	redacted := cfg.Redacted()
	return map[string]string{
		"api_key":      redacted.APIKey,
		"subdomain":    redacted.Subdomain,
		"webhook_path": redacted.WebhookPath,
		"api_base_url": redacted.BaseURL(),
	}
}
