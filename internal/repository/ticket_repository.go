package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/internal/lifecycle"
)

const ticketColumns = `id, title, description, priority, category, department, estimated_time,
               state, requester_email, campaign, assignee_group, assignee, created_at, updated_at`

// TicketRepository is the authoritative ticket persistence. It satisfies
// lifecycle.Backend and the poller's Lister.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	TransitionState(ctx context.Context, id string, from, to domain.TicketState, assignee *string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (id, title, description, priority, category, department, estimated_time,
                             state, requester_email, campaign, assignee_group, assignee)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.Title,
		ticket.Description,
		ticket.Priority,
		ticket.Category,
		ticket.Department,
		ticket.EstimatedTime,
		ticket.State,
		ticket.RequesterEmail,
		ticket.Campaign,
		ticket.AssigneeGroup,
		ticket.Assignee,
	).Scan(&ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, lifecycle.ErrTicketNotFound
		}
		return nil, err
	}
	return ticket, nil
}

// TransitionState is the compare-and-set behind exactly-once assignment:
// the UPDATE matches on the expected source state, so a concurrent claim
// that got there first leaves zero rows and surfaces ErrStateConflict.
func (r *ticketRepository) TransitionState(ctx context.Context, id string, from, to domain.TicketState, assignee *string) (*domain.Ticket, error) {
	const query = `
        UPDATE tickets
        SET state=$1, assignee=COALESCE($2, assignee), updated_at=NOW()
        WHERE id=$3 AND state=$4
        RETURNING ` + ticketColumns
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, to, assignee, id, from))
	if err == nil {
		return ticket, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Distinguish a lost race from a missing ticket.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, lifecycle.ErrStateConflict
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `SELECT ` + ticketColumns + ` FROM tickets ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Title,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Category,
		&ticket.Department,
		&ticket.EstimatedTime,
		&ticket.State,
		&ticket.RequesterEmail,
		&ticket.Campaign,
		&ticket.AssigneeGroup,
		&ticket.Assignee,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
