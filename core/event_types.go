package core

import (
	"sort"
	"strings"
)

// EventType is the value Teamwork sends in the x-projects-event header.
type EventType string

const (
	EventCalendarEventCreated  EventType = "CALENDAREVENT.CREATED"
	EventCalendarEventDeleted  EventType = "CALENDAREVENT.DELETED"
	EventCalendarEventReminder EventType = "CALENDAREVENT.REMINDER"
	EventCalendarEventUpdated  EventType = "CALENDAREVENT.UPDATED"

	EventCardCreated EventType = "CARD.CREATED"
	EventCardDeleted EventType = "CARD.DELETED"
	EventCardUpdated EventType = "CARD.UPDATED"

	EventColumnCreated EventType = "COLUMN.CREATED"
	EventColumnDeleted EventType = "COLUMN.DELETED"
	EventColumnUpdated EventType = "COLUMN.UPDATED"

	EventCommentCreated EventType = "COMMENT.CREATED"
	EventCommentDeleted EventType = "COMMENT.DELETED"
	EventCommentUpdated EventType = "COMMENT.UPDATED"

	EventCompanyCreated EventType = "COMPANY.CREATED"
	EventCompanyDeleted EventType = "COMPANY.DELETED"
	EventCompanyUpdated EventType = "COMPANY.UPDATED"

	EventExpenseCreated EventType = "EXPENSE.CREATED"
	EventExpenseDeleted EventType = "EXPENSE.DELETED"
	EventExpenseUpdated EventType = "EXPENSE.UPDATED"

	EventFileCreated    EventType = "FILE.CREATED"
	EventFileDeleted    EventType = "FILE.DELETED"
	EventFileDownloaded EventType = "FILE.DOWNLOADED"
	EventFileTagged     EventType = "FILE.TAGGED"
	EventFileUntagged   EventType = "FILE.UNTAGGED"
	EventFileUpdated    EventType = "FILE.UPDATED"

	EventInvoiceCompleted EventType = "INVOICE.COMPLETED"
	EventInvoiceCreated   EventType = "INVOICE.CREATED"
	EventInvoiceDeleted   EventType = "INVOICE.DELETED"
	EventInvoiceReopened  EventType = "INVOICE.REOPENED"
	EventInvoiceUpdated   EventType = "INVOICE.UPDATED"

	EventLinkCreated  EventType = "LINK.CREATED"
	EventLinkDeleted  EventType = "LINK.DELETED"
	EventLinkTagged   EventType = "LINK.TAGGED"
	EventLinkUntagged EventType = "LINK.UNTAGGED"
	EventLinkUpdated  EventType = "LINK.UPDATED"

	EventMessageCreated  EventType = "MESSAGE.CREATED"
	EventMessageDeleted  EventType = "MESSAGE.DELETED"
	EventMessageTagged   EventType = "MESSAGE.TAGGED"
	EventMessageUntagged EventType = "MESSAGE.UNTAGGED"
	EventMessageUpdated  EventType = "MESSAGE.UPDATED"

	EventMessageReplyCreated EventType = "MESSAGEREPLY.CREATED"
	EventMessageReplyDeleted EventType = "MESSAGEREPLY.DELETED"
	EventMessageReplyUpdated EventType = "MESSAGEREPLY.UPDATED"

	EventMilestoneCompleted EventType = "MILESTONE.COMPLETED"
	EventMilestoneCreated   EventType = "MILESTONE.CREATED"
	EventMilestoneDeleted   EventType = "MILESTONE.DELETED"
	EventMilestoneReminder  EventType = "MILESTONE.REMINDER"
	EventMilestoneReopened  EventType = "MILESTONE.REOPENED"
	EventMilestoneTagged    EventType = "MILESTONE.TAGGED"
	EventMilestoneUntagged  EventType = "MILESTONE.UNTAGGED"
	EventMilestoneUpdated   EventType = "MILESTONE.UPDATED"

	EventNotebookCreated  EventType = "NOTEBOOK.CREATED"
	EventNotebookDeleted  EventType = "NOTEBOOK.DELETED"
	EventNotebookTagged   EventType = "NOTEBOOK.TAGGED"
	EventNotebookUntagged EventType = "NOTEBOOK.UNTAGGED"
	EventNotebookUpdated  EventType = "NOTEBOOK.UPDATED"

	EventPortfolioBoardCreated EventType = "PORTFOLIOBOARD.CREATED"
	EventPortfolioBoardDeleted EventType = "PORTFOLIOBOARD.DELETED"
	EventPortfolioBoardUpdated EventType = "PORTFOLIOBOARD.UPDATED"

	EventPortfolioCardCreated  EventType = "PORTFOLIOCARD.CREATED"
	EventPortfolioCardDeleted  EventType = "PORTFOLIOCARD.DELETED"
	EventPortfolioCardMoved    EventType = "PORTFOLIOCARD.MOVED"
	EventPortfolioCardReopened EventType = "PORTFOLIOCARD.REOPENED"
	EventPortfolioCardUpdated  EventType = "PORTFOLIOCARD.UPDATED"

	EventPortfolioColumnCreated EventType = "PORTFOLIOCOLUMN.CREATED"
	EventPortfolioColumnDeleted EventType = "PORTFOLIOCOLUMN.DELETED"
	EventPortfolioColumnUpdated EventType = "PORTFOLIOCOLUMN.UPDATED"

	EventProjectArchived  EventType = "PROJECT.ARCHIVED"
	EventProjectCompleted EventType = "PROJECT.COMPLETED"
	EventProjectCopied    EventType = "PROJECT.COPIED"
	EventProjectCreated   EventType = "PROJECT.CREATED"
	EventProjectDeleted   EventType = "PROJECT.DELETED"
	EventProjectReopened  EventType = "PROJECT.REOPENED"
	EventProjectTagged    EventType = "PROJECT.TAGGED"
	EventProjectUntagged  EventType = "PROJECT.UNTAGGED"
	EventProjectUpdated   EventType = "PROJECT.UPDATED"

	EventProjectUpdateCreated EventType = "PROJECTUPDATE.CREATED"
	EventProjectUpdateDeleted EventType = "PROJECTUPDATE.DELETED"
	EventProjectUpdateUpdated EventType = "PROJECTUPDATE.UPDATED"

	EventRiskCreated EventType = "RISK.CREATED"
	EventRiskDeleted EventType = "RISK.DELETED"
	EventRiskUpdated EventType = "RISK.UPDATED"

	EventRoleCreated EventType = "ROLE.CREATED"
	EventRoleDeleted EventType = "ROLE.DELETED"
	EventRoleUpdated EventType = "ROLE.UPDATED"

	EventStatusCreated EventType = "STATUS.CREATED"
	EventStatusDeleted EventType = "STATUS.DELETED"
	EventStatusUpdated EventType = "STATUS.UPDATED"

	EventTaskCompleted EventType = "TASK.COMPLETED"
	EventTaskCreated   EventType = "TASK.CREATED"
	EventTaskDeleted   EventType = "TASK.DELETED"
	EventTaskMoved     EventType = "TASK.MOVED"
	EventTaskReminder  EventType = "TASK.REMINDER"
	EventTaskReopened  EventType = "TASK.REOPENED"
	EventTaskTagged    EventType = "TASK.TAGGED"
	EventTaskUntagged  EventType = "TASK.UNTAGGED"
	EventTaskUpdated   EventType = "TASK.UPDATED"

	EventTaskListCompleted           EventType = "TASKLIST.COMPLETED"
	EventTaskListCreated             EventType = "TASKLIST.CREATED"
	EventTaskListCreatedFromTemplate EventType = "TASKLIST.CREATEDFROMTEMPLATE"
	EventTaskListDeleted             EventType = "TASKLIST.DELETED"
	EventTaskListReopened            EventType = "TASKLIST.REOPENED"
	EventTaskListUpdated             EventType = "TASKLIST.UPDATED"

	EventTimeCreated  EventType = "TIME.CREATED"
	EventTimeDeleted  EventType = "TIME.DELETED"
	EventTimeTagged   EventType = "TIME.TAGGED"
	EventTimeUntagged EventType = "TIME.UNTAGGED"
	EventTimeUpdated  EventType = "TIME.UPDATED"

	EventUserCreated EventType = "USER.CREATED"
	EventUserDeleted EventType = "USER.DELETED"
	EventUserUpdated EventType = "USER.UPDATED"
)

var knownEventTypes = map[EventType]struct{}{
	EventCalendarEventCreated:        {},
	EventCalendarEventDeleted:        {},
	EventCalendarEventReminder:       {},
	EventCalendarEventUpdated:        {},
	EventCardCreated:                 {},
	EventCardDeleted:                 {},
	EventCardUpdated:                 {},
	EventColumnCreated:               {},
	EventColumnDeleted:               {},
	EventColumnUpdated:               {},
	EventCommentCreated:              {},
	EventCommentDeleted:              {},
	EventCommentUpdated:              {},
	EventCompanyCreated:              {},
	EventCompanyDeleted:              {},
	EventCompanyUpdated:              {},
	EventExpenseCreated:              {},
	EventExpenseDeleted:              {},
	EventExpenseUpdated:              {},
	EventFileCreated:                 {},
	EventFileDeleted:                 {},
	EventFileDownloaded:              {},
	EventFileTagged:                  {},
	EventFileUntagged:                {},
	EventFileUpdated:                 {},
	EventInvoiceCompleted:            {},
	EventInvoiceCreated:              {},
	EventInvoiceDeleted:              {},
	EventInvoiceReopened:             {},
	EventInvoiceUpdated:              {},
	EventLinkCreated:                 {},
	EventLinkDeleted:                 {},
	EventLinkTagged:                  {},
	EventLinkUntagged:                {},
	EventLinkUpdated:                 {},
	EventMessageCreated:              {},
	EventMessageDeleted:              {},
	EventMessageTagged:               {},
	EventMessageUntagged:             {},
	EventMessageUpdated:              {},
	EventMessageReplyCreated:         {},
	EventMessageReplyDeleted:         {},
	EventMessageReplyUpdated:         {},
	EventMilestoneCompleted:          {},
	EventMilestoneCreated:            {},
	EventMilestoneDeleted:            {},
	EventMilestoneReminder:           {},
	EventMilestoneReopened:           {},
	EventMilestoneTagged:             {},
	EventMilestoneUntagged:           {},
	EventMilestoneUpdated:            {},
	EventNotebookCreated:             {},
	EventNotebookDeleted:             {},
	EventNotebookTagged:              {},
	EventNotebookUntagged:            {},
	EventNotebookUpdated:             {},
	EventPortfolioBoardCreated:       {},
	EventPortfolioBoardDeleted:       {},
	EventPortfolioBoardUpdated:       {},
	EventPortfolioCardCreated:        {},
	EventPortfolioCardDeleted:        {},
	EventPortfolioCardMoved:          {},
	EventPortfolioCardReopened:       {},
	EventPortfolioCardUpdated:        {},
	EventPortfolioColumnCreated:      {},
	EventPortfolioColumnDeleted:      {},
	EventPortfolioColumnUpdated:      {},
	EventProjectArchived:             {},
	EventProjectCompleted:            {},
	EventProjectCopied:               {},
	EventProjectCreated:              {},
	EventProjectDeleted:              {},
	EventProjectReopened:             {},
	EventProjectTagged:               {},
	EventProjectUntagged:             {},
	EventProjectUpdated:              {},
	EventProjectUpdateCreated:        {},
	EventProjectUpdateDeleted:        {},
	EventProjectUpdateUpdated:        {},
	EventRiskCreated:                 {},
	EventRiskDeleted:                 {},
	EventRiskUpdated:                 {},
	EventRoleCreated:                 {},
	EventRoleDeleted:                 {},
	EventRoleUpdated:                 {},
	EventStatusCreated:               {},
	EventStatusDeleted:               {},
	EventStatusUpdated:               {},
	EventTaskCompleted:               {},
	EventTaskCreated:                 {},
	EventTaskDeleted:                 {},
	EventTaskMoved:                   {},
	EventTaskReminder:                {},
	EventTaskReopened:                {},
	EventTaskTagged:                  {},
	EventTaskUntagged:                {},
	EventTaskUpdated:                 {},
	EventTaskListCompleted:           {},
	EventTaskListCreated:             {},
	EventTaskListCreatedFromTemplate: {},
	EventTaskListDeleted:             {},
	EventTaskListReopened:            {},
	EventTaskListUpdated:             {},
	EventTimeCreated:                 {},
	EventTimeDeleted:                 {},
	EventTimeTagged:                  {},
	EventTimeUntagged:                {},
	EventTimeUpdated:                 {},
	EventUserCreated:                 {},
	EventUserDeleted:                 {},
	EventUserUpdated:                 {},
}

func (t EventType) String() string { return string(t) }

// Entity returns the part before the dot, e.g. TASK for TASK.CREATED.
func (t EventType) Entity() string {
	entity, _ := splitEventType(t)
	return entity
}

// Action returns the part after the dot, e.g. CREATED for TASK.CREATED.
func (t EventType) Action() string {
	_, action := splitEventType(t)
	return action
}

// IsKnownEventType reports whether t is part of the Teamwork catalog.
// Subscriptions never require it; it exists for callers and tooling.
func IsKnownEventType(t EventType) bool {
	_, ok := knownEventTypes[t]
	return ok
}

// ParseEventType converts a header value and reports whether it is a catalog
// member.
func ParseEventType(value string) (EventType, bool) {
	t := EventType(value)
	return t, IsKnownEventType(t)
}

// KnownEventTypes returns the catalog sorted alphabetically.
func KnownEventTypes() []EventType {
	out := make([]EventType, 0, len(knownEventTypes))
	for t := range knownEventTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// EventTypesForEntity returns the catalog entries for one entity, sorted.
func EventTypesForEntity(entity string) []EventType {
	entity = strings.ToUpper(strings.TrimSpace(entity))
	out := []EventType{}
	for _, t := range KnownEventTypes() {
		if t.Entity() == entity {
			out = append(out, t)
		}
	}
	return out
}

func splitEventType(t EventType) (string, string) {
	entity, action, found := strings.Cut(string(t), ".")
	if !found {
		return string(t), ""
	}
	return entity, action
}
