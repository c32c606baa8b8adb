package teamwork

import (
	"fmt"

	"github.com/goliatone/go-services-teamwork/adapters/gocommand"
	twcommand "github.com/goliatone/go-services-teamwork/command"
	"github.com/goliatone/go-services-teamwork/core"
	twquery "github.com/goliatone/go-services-teamwork/query"
)

type CommandQueryService interface {
	twcommand.ConnectorService
	twquery.SubscriptionReader
	twquery.ClientReader
}

type Commands struct {
	Subscribe       *twcommand.SubscribeCommand
	Start           *twcommand.StartCommand
	DispatchWebhook *twcommand.DispatchWebhookCommand
}

type Queries struct {
	ListSubscriptions *twquery.ListSubscriptionsQuery
	GetClient         *twquery.GetClientQuery
	ListEventTypes    *twquery.ListEventTypesQuery
}

type Facade struct {
	service  CommandQueryService
	commands Commands
	queries  Queries
}

func NewFacade(service CommandQueryService) (*Facade, error) {
	if service == nil {
		return nil, fmt.Errorf("teamwork: command/query service is required")
	}
	return &Facade{
		service: service,
		commands: Commands{
			Subscribe:       twcommand.NewSubscribeCommand(service),
			Start:           twcommand.NewStartCommand(service),
			DispatchWebhook: twcommand.NewDispatchWebhookCommand(service),
		},
		queries: Queries{
			ListSubscriptions: twquery.NewListSubscriptionsQuery(service),
			GetClient:         twquery.NewGetClientQuery(service),
			ListEventTypes:    twquery.NewListEventTypesQuery(),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Service() CommandQueryService {
	if f == nil {
		return nil
	}
	return f.service
}

// Register subscribes every command and query on the go-command dispatcher.
// adapter.Close removes them again.
func (f *Facade) Register(adapter *gocommand.RegistryAdapter) error {
	if f == nil {
		return fmt.Errorf("teamwork: facade is nil")
	}
	if err := gocommand.RegisterCommand[twcommand.SubscribeMessage](adapter, f.commands.Subscribe); err != nil {
		return err
	}
	if err := gocommand.RegisterCommand[twcommand.StartMessage](adapter, f.commands.Start); err != nil {
		return err
	}
	if err := gocommand.RegisterCommand[twcommand.DispatchWebhookMessage](adapter, f.commands.DispatchWebhook); err != nil {
		return err
	}
	if err := gocommand.RegisterQuery[twquery.ListSubscriptionsMessage, []core.EventConfiguration](adapter, f.queries.ListSubscriptions); err != nil {
		return err
	}
	if err := gocommand.RegisterQuery[twquery.GetClientMessage, core.Client](adapter, f.queries.GetClient); err != nil {
		return err
	}
	return gocommand.RegisterQuery[twquery.ListEventTypesMessage, []core.EventType](adapter, f.queries.ListEventTypes)
}
