package main

import (
	"context"
	"fmt"
	"io"
	"os"

	twquery "github.com/goliatone/go-services-teamwork/query"
	"github.com/spf13/cobra"
)

var eventsEntity string

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the Teamwork webhook event types",
	Example: `  teamwork-webhooks events
  teamwork-webhooks events --entity tasklist`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printEvents(cmd.Context(), cmd.OutOrStdout(), eventsEntity)
	},
}

func init() {
	eventsCmd.Flags().StringVar(&eventsEntity, "entity", "", "only list events for one entity, e.g. TASK")
	rootCmd.AddCommand(eventsCmd)
}

func printEvents(ctx context.Context, w io.Writer, entity string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if w == nil {
		w = os.Stdout
	}
	eventTypes, err := twquery.NewListEventTypesQuery().Query(ctx, twquery.ListEventTypesMessage{Entity: entity})
	if err != nil {
		return err
	}
	if len(eventTypes) == 0 {
		return fmt.Errorf("no event types for entity %q", entity)
	}
	for _, eventType := range eventTypes {
		if _, err := fmt.Fprintln(w, eventType); err != nil {
			return err
		}
	}
	return nil
}
