package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/events"
	"github.com/opsdesk/helpdesk/internal/repository"
	"github.com/opsdesk/helpdesk/pkg/util"
)

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Dispatcher events.Dispatcher
}

// TicketCreateInput describes ticket creation payload. Status is not part of
// the input: every new ticket starts open regardless of what the client sent.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    domain.TicketCategory
	Priority    domain.TicketPriority
}

// TicketUpdateInput describes a partial update of triage fields.
type TicketUpdateInput struct {
	Status   *domain.TicketStatus
	Category *domain.TicketCategory
	Priority *domain.TicketPriority
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket validates and persists a new ticket with status open.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)

	details := map[string]any{}
	if title == "" {
		details["title"] = "must not be empty"
	} else if utf8.RuneCountInString(title) > domain.TitleMaxLen {
		details["title"] = fmt.Sprintf("must be at most %d characters", domain.TitleMaxLen)
	}
	if description == "" {
		details["description"] = "must not be empty"
	}
	if !input.Category.Valid() {
		details["category"] = fmt.Sprintf("must be one of %v", domain.Categories())
	}
	if !input.Priority.Valid() {
		details["priority"] = fmt.Sprintf("must be one of %v", domain.Priorities())
	}
	if len(details) > 0 {
		return nil, util.NewValidationError("ticket validation failed", details)
	}

	ticket := &domain.Ticket{
		Title:       title,
		Description: description,
		Category:    input.Category,
		Priority:    input.Priority,
		Status:      domain.TicketStatusOpen,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			Title:    ticket.Title,
			Category: ticket.Category,
			Priority: ticket.Priority,
		},
	})
	return ticket, nil
}

// GetTicket fetches a single ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, util.MapError(err)
	}
	return ticket, nil
}

// ListTickets returns tickets matching the filter, newest first. Filter
// values are passed through as-is; an unrecognized value simply matches
// nothing.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.List(ctx, filter)
}

// UpdateTicket applies the supplied subset of status/category/priority.
func (s *TicketService) UpdateTicket(ctx context.Context, id int64, input TicketUpdateInput) (*domain.Ticket, error) {
	details := map[string]any{}
	if input.Status != nil && !input.Status.Valid() {
		details["status"] = fmt.Sprintf("must be one of %v", domain.Statuses())
	}
	if input.Category != nil && !input.Category.Valid() {
		details["category"] = fmt.Sprintf("must be one of %v", domain.Categories())
	}
	if input.Priority != nil && !input.Priority.Valid() {
		details["priority"] = fmt.Sprintf("must be one of %v", domain.Priorities())
	}
	if len(details) > 0 {
		return nil, util.NewValidationError("ticket validation failed", details)
	}

	update := repository.TicketUpdate{
		Status:   input.Status,
		Category: input.Category,
		Priority: input.Priority,
	}
	ticket, err := s.tickets.UpdateFields(ctx, id, update)
	if err != nil {
		return nil, util.MapError(err)
	}

	if input.Status != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: ticket.ID,
			Payload:  events.TicketStatusChangedPayload{NewStatus: ticket.Status},
		})
	}
	if input.Category != nil || input.Priority != nil {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketTriageChanged,
			TicketID: ticket.ID,
			Payload: events.TicketTriageChangedPayload{
				Category: ticket.Category,
				Priority: ticket.Priority,
			},
		})
	}
	return ticket, nil
}

// StatsSnapshot returns the aggregate snapshot, with every enum member
// present in the breakdowns so absent values report an explicit zero.
func (s *TicketService) StatsSnapshot(ctx context.Context) (*domain.TicketStats, error) {
	stats, err := s.tickets.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if stats.PriorityBreakdown == nil {
		stats.PriorityBreakdown = make(map[domain.TicketPriority]int64)
	}
	if stats.CategoryBreakdown == nil {
		stats.CategoryBreakdown = make(map[domain.TicketCategory]int64)
	}
	for _, priority := range domain.Priorities() {
		if _, ok := stats.PriorityBreakdown[priority]; !ok {
			stats.PriorityBreakdown[priority] = 0
		}
	}
	for _, category := range domain.Categories() {
		if _, ok := stats.CategoryBreakdown[category]; !ok {
			stats.CategoryBreakdown[category] = 0
		}
	}
	return stats, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
