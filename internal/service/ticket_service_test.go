package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/opsdesk/helpdesk/internal/domain"
	"github.com/opsdesk/helpdesk/internal/events"
	"github.com/opsdesk/helpdesk/internal/repository"
	"github.com/opsdesk/helpdesk/pkg/util"
)

// fakeTicketRepo records calls and serves canned rows.
type fakeTicketRepo struct {
	created    []*domain.Ticket
	tickets    map[int64]*domain.Ticket
	stats      *domain.TicketStats
	nextID     int64
	updateErr  error
	lastUpdate repository.TicketUpdate
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*domain.Ticket{}}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *domain.Ticket) error {
	f.nextID++
	ticket.ID = f.nextID
	ticket.CreatedAt = time.Now()
	f.created = append(f.created, ticket)
	copied := *ticket
	f.tickets[ticket.ID] = &copied
	return nil
}

func (f *fakeTicketRepo) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) List(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var out []domain.Ticket
	for _, t := range f.tickets {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeTicketRepo) UpdateFields(ctx context.Context, id int64, update repository.TicketUpdate) (*domain.Ticket, error) {
	f.lastUpdate = update
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Status != nil {
		ticket.Status = *update.Status
	}
	if update.Category != nil {
		ticket.Category = *update.Category
	}
	if update.Priority != nil {
		ticket.Priority = *update.Priority
	}
	copied := *ticket
	return &copied, nil
}

func (f *fakeTicketRepo) Stats(ctx context.Context) (*domain.TicketStats, error) {
	if f.stats == nil {
		return nil, errors.New("no stats configured")
	}
	return f.stats, nil
}

// recordingDispatcher captures published events.
type recordingDispatcher struct {
	published []events.Event
}

func (r *recordingDispatcher) Publish(ctx context.Context, event events.Event) error {
	r.published = append(r.published, event)
	return nil
}

func (r *recordingDispatcher) Subscribe(eventType events.EventType, handler events.EventHandler) {}

func newServiceUnderTest() (*TicketService, *fakeTicketRepo, *recordingDispatcher) {
	repo := newFakeTicketRepo()
	dispatcher := &recordingDispatcher{}
	svc := NewTicketService(TicketDependencies{TicketRepo: repo, Dispatcher: dispatcher})
	return svc, repo, dispatcher
}

func TestCreateTicketForcesOpenAndTrims(t *testing.T) {
	svc, repo, dispatcher := newServiceUnderTest()

	ticket, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Title:       "  Cannot log in  ",
		Description: "\tPassword reset email never arrives\n",
		Category:    domain.TicketCategoryGeneral,
		Priority:    domain.TicketPriorityMedium,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if ticket.Status != domain.TicketStatusOpen {
		t.Fatalf("expected status open, got %s", ticket.Status)
	}
	if ticket.Title != "Cannot log in" {
		t.Fatalf("expected trimmed title, got %q", ticket.Title)
	}
	if ticket.Description != "Password reset email never arrives" {
		t.Fatalf("expected trimmed description, got %q", ticket.Description)
	}
	if ticket.ID == 0 || ticket.CreatedAt.IsZero() {
		t.Fatal("expected server-assigned id and created_at")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one insert, got %d", len(repo.created))
	}
	if len(dispatcher.published) != 1 || dispatcher.published[0].Type != events.EventTicketCreated {
		t.Fatalf("expected one ticket_created event, got %+v", dispatcher.published)
	}
	if dispatcher.published[0].ID == "" || dispatcher.published[0].Timestamp.IsZero() {
		t.Fatal("expected event id and timestamp assigned")
	}
}

func TestCreateTicketValidation(t *testing.T) {
	valid := TicketCreateInput{
		Title:       "Printer on fire",
		Description: "It is actually on fire",
		Category:    domain.TicketCategoryTechnical,
		Priority:    domain.TicketPriorityHigh,
	}

	tests := []struct {
		name   string
		mutate func(*TicketCreateInput)
		field  string
	}{
		{"empty title", func(in *TicketCreateInput) { in.Title = "" }, "title"},
		{"whitespace title", func(in *TicketCreateInput) { in.Title = "   " }, "title"},
		{"title too long", func(in *TicketCreateInput) { in.Title = strings.Repeat("x", domain.TitleMaxLen+1) }, "title"},
		{"whitespace description", func(in *TicketCreateInput) { in.Description = " \t " }, "description"},
		{"unknown category", func(in *TicketCreateInput) { in.Category = "spam" }, "category"},
		{"empty category", func(in *TicketCreateInput) { in.Category = "" }, "category"},
		{"unknown priority", func(in *TicketCreateInput) { in.Priority = "urgent" }, "priority"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newServiceUnderTest()
			input := valid
			tc.mutate(&input)

			_, err := svc.CreateTicket(context.Background(), input)
			var domainErr *util.DomainError
			if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := domainErr.Details[tc.field]; !ok {
				t.Fatalf("expected detail for field %q, got %v", tc.field, domainErr.Details)
			}
			if len(repo.created) != 0 {
				t.Fatal("invalid input must not reach the store")
			}
		})
	}
}

func TestCreateTicketBoundaryTitleLength(t *testing.T) {
	svc, _, _ := newServiceUnderTest()
	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Title:       strings.Repeat("x", domain.TitleMaxLen),
		Description: "boundary title",
		Category:    domain.TicketCategoryGeneral,
		Priority:    domain.TicketPriorityLow,
	})
	if err != nil {
		t.Fatalf("title of exactly %d characters should pass, got %v", domain.TitleMaxLen, err)
	}
}

func TestUpdateTicketUnknownID(t *testing.T) {
	svc, _, dispatcher := newServiceUnderTest()

	status := domain.TicketStatusResolved
	_, err := svc.UpdateTicket(context.Background(), 42, TicketUpdateInput{Status: &status})
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "NOT_FOUND" {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(dispatcher.published) != 0 {
		t.Fatal("failed update must not publish events")
	}
}

func TestUpdateTicketInvalidEnum(t *testing.T) {
	svc, repo, _ := newServiceUnderTest()
	seedTicket(t, svc)

	bad := domain.TicketStatus("cancelled")
	_, err := svc.UpdateTicket(context.Background(), 1, TicketUpdateInput{Status: &bad})
	var domainErr *util.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.tickets[1].Status != domain.TicketStatusOpen {
		t.Fatal("ticket must stay unmodified after an invalid update")
	}
}

func TestUpdateTicketPartialFieldsAndEvents(t *testing.T) {
	svc, repo, dispatcher := newServiceUnderTest()
	seedTicket(t, svc)
	dispatcher.published = nil

	status := domain.TicketStatusInProgress
	updated, err := svc.UpdateTicket(context.Background(), 1, TicketUpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != domain.TicketStatusInProgress {
		t.Fatalf("expected in_progress, got %s", updated.Status)
	}
	if updated.Category != domain.TicketCategoryGeneral || updated.Priority != domain.TicketPriorityMedium {
		t.Fatal("untouched fields must keep their values")
	}
	if repo.lastUpdate.Category != nil || repo.lastUpdate.Priority != nil {
		t.Fatal("only the supplied field may reach the store")
	}
	if len(dispatcher.published) != 1 || dispatcher.published[0].Type != events.EventTicketStatusChanged {
		t.Fatalf("expected one status event, got %+v", dispatcher.published)
	}

	dispatcher.published = nil
	priority := domain.TicketPriorityCritical
	if _, err := svc.UpdateTicket(context.Background(), 1, TicketUpdateInput{Priority: &priority}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if len(dispatcher.published) != 1 || dispatcher.published[0].Type != events.EventTicketTriageChanged {
		t.Fatalf("expected one triage event, got %+v", dispatcher.published)
	}
}

func TestStatsSnapshotZeroFillsBreakdowns(t *testing.T) {
	svc, repo, _ := newServiceUnderTest()
	repo.stats = &domain.TicketStats{
		TotalTickets:     3,
		OpenTickets:      2,
		AvgTicketsPerDay: 1.5,
		PriorityBreakdown: map[domain.TicketPriority]int64{
			domain.TicketPriorityHigh: 3,
		},
		CategoryBreakdown: map[domain.TicketCategory]int64{
			domain.TicketCategoryBilling: 3,
		},
	}

	stats, err := svc.StatsSnapshot(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if len(stats.PriorityBreakdown) != 4 || len(stats.CategoryBreakdown) != 4 {
		t.Fatalf("expected all enum members present, got %+v", stats)
	}
	if stats.PriorityBreakdown[domain.TicketPriorityLow] != 0 {
		t.Fatal("absent priority must report zero")
	}
	var prioritySum, categorySum int64
	for _, n := range stats.PriorityBreakdown {
		prioritySum += n
	}
	for _, n := range stats.CategoryBreakdown {
		categorySum += n
	}
	if prioritySum != stats.TotalTickets || categorySum != stats.TotalTickets {
		t.Fatalf("breakdowns must sum to total: priority=%d category=%d total=%d",
			prioritySum, categorySum, stats.TotalTickets)
	}
}

func TestStatsSnapshotEmptyStore(t *testing.T) {
	svc, repo, _ := newServiceUnderTest()
	repo.stats = &domain.TicketStats{}

	stats, err := svc.StatsSnapshot(context.Background())
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.AvgTicketsPerDay != 0 {
		t.Fatalf("expected 0 average on empty store, got %f", stats.AvgTicketsPerDay)
	}
	if len(stats.PriorityBreakdown) != 4 {
		t.Fatal("breakdowns must still carry every enum member")
	}
}

func seedTicket(t *testing.T, svc *TicketService) {
	t.Helper()
	_, err := svc.CreateTicket(context.Background(), TicketCreateInput{
		Title:       "Cannot log in",
		Description: "Password reset email never arrives",
		Category:    domain.TicketCategoryGeneral,
		Priority:    domain.TicketPriorityMedium,
	})
	if err != nil {
		t.Fatalf("seed create failed: %v", err)
	}
}
