package repository

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/opsdesk/helpdesk/internal/domain"
)

// TicketFilter captures triage list parameters. Nil fields are not applied;
// all supplied fields are combined with AND.
type TicketFilter struct {
	Category *domain.TicketCategory
	Priority *domain.TicketPriority
	Status   *domain.TicketStatus
	Search   *string
}

// TicketUpdate describes a partial mutation. Nil fields are left untouched.
// Title, description and created_at are immutable and deliberately absent.
type TicketUpdate struct {
	Status   *domain.TicketStatus
	Category *domain.TicketCategory
	Priority *domain.TicketPriority
}

// Empty reports whether the update mutates nothing.
func (u TicketUpdate) Empty() bool {
	return u.Status == nil && u.Category == nil && u.Priority == nil
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	UpdateFields(ctx context.Context, id int64, update TicketUpdate) (*domain.Ticket, error)
	Stats(ctx context.Context) (*domain.TicketStats, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = "id, title, description, category, priority, status, created_at"

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, category, priority, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + escapeLike(strings.ToLower(strings.TrimSpace(*filter.Search))) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf(`(LOWER(title) LIKE %s ESCAPE '\' OR LOWER(description) LIKE %s ESCAPE '\')`, placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY created_at DESC, id DESC`,
		ticketColumns, strings.Join(clauses, " AND "))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) UpdateFields(ctx context.Context, id int64, update TicketUpdate) (*domain.Ticket, error) {
	if update.Empty() {
		return r.GetByID(ctx, id)
	}

	sets := []string{}
	args := []any{}
	if update.Status != nil {
		args = append(args, *update.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if update.Category != nil {
		args = append(args, *update.Category)
		sets = append(sets, fmt.Sprintf("category=$%d", len(args)))
	}
	if update.Priority != nil {
		args = append(args, *update.Priority)
		sets = append(sets, fmt.Sprintf("priority=$%d", len(args)))
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), ticketColumns)

	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status,
		&ticket.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Stats aggregates inside the database. The grouped queries read the store's
// committed state, so concurrent inserts cannot be half-counted the way an
// application-side row scan could.
func (r *ticketRepository) Stats(ctx context.Context) (*domain.TicketStats, error) {
	const totalsQuery = `
        SELECT COUNT(*),
               COUNT(*) FILTER (WHERE status = 'open'),
               COUNT(DISTINCT created_at::date)
        FROM tickets`

	var total, open, activeDays int64
	if err := r.pool.QueryRow(ctx, totalsQuery).Scan(&total, &open, &activeDays); err != nil {
		return nil, err
	}

	stats := &domain.TicketStats{
		TotalTickets:      total,
		OpenTickets:       open,
		AvgTicketsPerDay:  averagePerDay(total, activeDays),
		PriorityBreakdown: make(map[domain.TicketPriority]int64),
		CategoryBreakdown: make(map[domain.TicketCategory]int64),
	}

	rows, err := r.pool.Query(ctx, `SELECT priority, COUNT(*) FROM tickets GROUP BY priority`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var priority domain.TicketPriority
		var count int64
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		stats.PriorityBreakdown[priority] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = r.pool.Query(ctx, `SELECT category, COUNT(*) FROM tickets GROUP BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var category domain.TicketCategory
		var count int64
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		stats.CategoryBreakdown[category] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

// averagePerDay divides total tickets by the number of distinct calendar
// dates carrying at least one ticket, rounded to one decimal. Zero tickets
// means zero active days, defined as 0 rather than a division error.
func averagePerDay(total, activeDays int64) float64 {
	if activeDays == 0 {
		return 0
	}
	return math.Round(float64(total)/float64(activeDays)*10) / 10
}

// escapeLike neutralizes LIKE metacharacters so a search term matches as
// literal text rather than as a pattern.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Title,
			&ticket.Description,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
