package dto

import (
	"time"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// CreateTicketRequest payload. Status is deliberately not accepted; new
// tickets always start open.
type CreateTicketRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// UpdateTicketRequest payload; only supplied fields are applied.
type UpdateTicketRequest struct {
	Status   *string `json:"status"`
	Category *string `json:"category"`
	Priority *string `json:"priority"`
}

// TicketResponse is the wire shape of a ticket.
type TicketResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// StatsResponse is the aggregate snapshot.
type StatsResponse struct {
	TotalTickets      int64            `json:"total_tickets"`
	OpenTickets       int64            `json:"open_tickets"`
	AvgTicketsPerDay  float64          `json:"avg_tickets_per_day"`
	PriorityBreakdown map[string]int64 `json:"priority_breakdown"`
	CategoryBreakdown map[string]int64 `json:"category_breakdown"`
}

// ClassifyRequest payload.
type ClassifyRequest struct {
	Description string `json:"description"`
}

// ClassifyResponse carries nullable suggestions.
type ClassifyResponse struct {
	SuggestedCategory *string `json:"suggested_category"`
	SuggestedPriority *string `json:"suggested_priority"`
}

// FromTicket maps a domain ticket to its response shape.
func FromTicket(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          ticket.ID,
		Title:       ticket.Title,
		Description: ticket.Description,
		Category:    string(ticket.Category),
		Priority:    string(ticket.Priority),
		Status:      string(ticket.Status),
		CreatedAt:   ticket.CreatedAt,
	}
}

// FromStats maps the stats snapshot to its response shape.
func FromStats(stats *domain.TicketStats) StatsResponse {
	priorities := make(map[string]int64, len(stats.PriorityBreakdown))
	for priority, count := range stats.PriorityBreakdown {
		priorities[string(priority)] = count
	}
	categories := make(map[string]int64, len(stats.CategoryBreakdown))
	for category, count := range stats.CategoryBreakdown {
		categories[string(category)] = count
	}
	return StatsResponse{
		TotalTickets:      stats.TotalTickets,
		OpenTickets:       stats.OpenTickets,
		AvgTicketsPerDay:  stats.AvgTicketsPerDay,
		PriorityBreakdown: priorities,
		CategoryBreakdown: categories,
	}
}
