package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// TicketCategory enumerates support areas.
type TicketCategory string

const (
	TicketCategoryBilling   TicketCategory = "billing"
	TicketCategoryTechnical TicketCategory = "technical"
	TicketCategoryAccount   TicketCategory = "account"
	TicketCategoryGeneral   TicketCategory = "general"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow      TicketPriority = "low"
	TicketPriorityMedium   TicketPriority = "medium"
	TicketPriorityHigh     TicketPriority = "high"
	TicketPriorityCritical TicketPriority = "critical"
)

// TitleMaxLen is the maximum ticket title length in characters.
const TitleMaxLen = 200

// Valid reports whether the status is a recognized member.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// Valid reports whether the category is a recognized member.
func (c TicketCategory) Valid() bool {
	switch c {
	case TicketCategoryBilling, TicketCategoryTechnical, TicketCategoryAccount, TicketCategoryGeneral:
		return true
	}
	return false
}

// Valid reports whether the priority is a recognized member.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical:
		return true
	}
	return false
}

// Statuses returns every recognized status.
func Statuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed}
}

// Categories returns every recognized category.
func Categories() []TicketCategory {
	return []TicketCategory{TicketCategoryBilling, TicketCategoryTechnical, TicketCategoryAccount, TicketCategoryGeneral}
}

// Priorities returns every recognized priority.
func Priorities() []TicketPriority {
	return []TicketPriority{TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityCritical}
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Category    TicketCategory
	Priority    TicketPriority
	Status      TicketStatus
	CreatedAt   time.Time
}

// TicketStats is a point-in-time aggregate snapshot over all tickets.
type TicketStats struct {
	TotalTickets      int64
	OpenTickets       int64
	AvgTicketsPerDay  float64
	PriorityBreakdown map[TicketPriority]int64
	CategoryBreakdown map[TicketCategory]int64
}
