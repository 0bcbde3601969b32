package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type pgTicketRepository struct {
	db *sql.DB
}

func NewPgTicketRepository(db *sql.DB) repository.TicketRepository {
	return &pgTicketRepository{db: db}
}

const ticketColumns = `id, type, zone_id, gate_id, subscription_id, checkin_at, checkout_at, billing_type, total_amount`

func scanTicket(row interface{ Scan(...any) error }) (*domain.Ticket, error) {
	ticket := &domain.Ticket{}
	err := row.Scan(
		&ticket.ID, &ticket.Type, &ticket.ZoneID, &ticket.GateID,
		&ticket.SubscriptionID, &ticket.CheckinAt, &ticket.CheckoutAt,
		&ticket.BillingType, &ticket.TotalAmount)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *pgTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (*domain.Ticket, error) {
	query := `INSERT INTO tickets (id, type, zone_id, gate_id, subscription_id, checkin_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		ticket.ID, ticket.Type, ticket.ZoneID, ticket.GateID,
		ticket.SubscriptionID, ticket.CheckinAt)
	if err != nil {
		return nil, fmt.Errorf("TicketRepository.Create: %w", err)
	}
	return ticket, nil
}

func (r *pgTicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1`
	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("TicketRepository.FindByID: %w", err)
	}
	return ticket, nil
}

func (r *pgTicketRepository) CountOpenByZoneAndType(ctx context.Context, zoneID string, ticketType domain.TicketType) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM tickets WHERE zone_id = $1 AND type = $2 AND checkout_at IS NULL`
	if err := r.db.QueryRowContext(ctx, query, zoneID, ticketType).Scan(&count); err != nil {
		return 0, fmt.Errorf("TicketRepository.CountOpenByZoneAndType: %w", err)
	}
	return count, nil
}

// Close is conditional on the ticket still being open, so a concurrent
// second checkout loses the race and reports ErrTicketClosed.
func (r *pgTicketRepository) Close(ctx context.Context, id string, checkoutAt time.Time, billingType domain.TicketType, amount decimal.Decimal) (*domain.Ticket, error) {
	query := `UPDATE tickets
	          SET checkout_at = $2, billing_type = $3, total_amount = $4
	          WHERE id = $1 AND checkout_at IS NULL
	          RETURNING ` + ticketColumns
	ticket, err := scanTicket(r.db.QueryRowContext(ctx, query, id, checkoutAt, billingType, amount))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, repository.ErrTicketClosed
		}
		return nil, fmt.Errorf("TicketRepository.Close: %w", err)
	}
	return ticket, nil
}

func (r *pgTicketRepository) Find(ctx context.Context, filter domain.TicketFilterDTO) ([]domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE 1=1`
	var args []any
	switch filter.Status {
	case "open":
		query += ` AND checkout_at IS NULL`
	case "closed":
		query += ` AND checkout_at IS NOT NULL`
	}
	if filter.ZoneID != "" {
		args = append(args, filter.ZoneID)
		query += fmt.Sprintf(` AND zone_id = $%d`, len(args))
	}
	query += ` ORDER BY checkin_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("TicketRepository.Find: %w", err)
	}
	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("TicketRepository.Find scan: %w", err)
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}
