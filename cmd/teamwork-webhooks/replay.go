package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	gocmd "github.com/goliatone/go-command"
	twcommand "github.com/goliatone/go-services-teamwork/command"
	"github.com/goliatone/go-services-teamwork/core"
	"github.com/spf13/cobra"
)

var (
	replayEvent string
	replayFile  string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Dispatch a captured webhook payload through the connector",
	Long: `Replay reads a JSON payload from a file (or - for stdin), subscribes a
logging handler to the given event type, and dispatches the payload as if
Teamwork had delivered it. The resulting status code is printed.`,
	Example: `  teamwork-webhooks replay --event TASK.CREATED --file task.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := readPayload(replayFile)
		if err != nil {
			return err
		}
		status, err := runReplay(cmd, replayEvent, body)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(cmd.OutOrStdout(), "status %d\n", status)
		return err
	},
}

func init() {
	replayCmd.Flags().StringVarP(&replayEvent, "event", "e", "", "event type sent in the x-projects-event header")
	replayCmd.Flags().StringVarP(&replayFile, "file", "f", "-", "payload file, - for stdin")
	_ = replayCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(replayCmd)
}

func runReplay(cmd *cobra.Command, event string, body []byte) (int, error) {
	event = strings.TrimSpace(event)
	if event == "" {
		return 0, fmt.Errorf("--event is required")
	}
	a, err := newApp(cmd.ErrOrStderr())
	if err != nil {
		return 0, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	err = a.facade.Commands().Subscribe.Execute(ctx, twcommand.SubscribeMessage{
		EventType: core.EventType(event),
		Handler:   loggingHandler(a.provider.GetLogger("teamwork.events")),
	})
	if err != nil {
		return 0, err
	}
	if err := a.runtime.Start(ctx); err != nil {
		return 0, err
	}

	collector := gocmd.NewResult[core.InboundResult]()
	err = a.facade.Commands().DispatchWebhook.Execute(gocmd.ContextWithResult(ctx, collector), twcommand.DispatchWebhookMessage{
		Request: core.InboundRequest{
			Method:  "POST",
			Path:    a.connector.WebhookPath(),
			Headers: map[string]string{core.EventHeader: event},
			Body:    body,
		},
	})
	result, _ := collector.Load()
	return result.StatusCode, err
}

func readPayload(path string) ([]byte, error) {
	if strings.TrimSpace(path) == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
