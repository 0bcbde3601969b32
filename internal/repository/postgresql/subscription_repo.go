package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type pgSubscriptionRepository struct {
	db *sql.DB
}

func NewPgSubscriptionRepository(db *sql.DB) repository.SubscriptionRepository {
	return &pgSubscriptionRepository{db: db}
}

// Cars ride along as a jsonb column; open check-ins live in their own table
// so appending and removing them stays a row operation.
func (r *pgSubscriptionRepository) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	sub := &domain.Subscription{}
	var carsJSON []byte
	query := `SELECT id, holder_name, category_id, active, cars, starts_at, expires_at
	          FROM subscriptions WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.HolderName, &sub.CategoryID, &sub.Active,
		&carsJSON, &sub.StartsAt, &sub.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("SubscriptionRepository.FindByID: %w", err)
	}
	if err := json.Unmarshal(carsJSON, &sub.Cars); err != nil {
		return nil, fmt.Errorf("SubscriptionRepository.FindByID cars: %w", err)
	}
	if err := r.loadCheckins(ctx, sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (r *pgSubscriptionRepository) FindActiveByCategory(ctx context.Context, categoryID string) ([]domain.Subscription, error) {
	query := `SELECT id, holder_name, category_id, active, cars, starts_at, expires_at
	          FROM subscriptions WHERE category_id = $1 AND active ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("SubscriptionRepository.FindActiveByCategory: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		var carsJSON []byte
		if err := rows.Scan(
			&sub.ID, &sub.HolderName, &sub.CategoryID, &sub.Active,
			&carsJSON, &sub.StartsAt, &sub.ExpiresAt); err != nil {
			return nil, fmt.Errorf("SubscriptionRepository.FindActiveByCategory scan: %w", err)
		}
		if err := json.Unmarshal(carsJSON, &sub.Cars); err != nil {
			return nil, fmt.Errorf("SubscriptionRepository.FindActiveByCategory cars: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range subs {
		if err := r.loadCheckins(ctx, &subs[i]); err != nil {
			return nil, err
		}
	}
	return subs, nil
}

func (r *pgSubscriptionRepository) AppendCheckin(ctx context.Context, subscriptionID string, ref domain.CheckinRef) error {
	query := `INSERT INTO subscription_checkins (subscription_id, ticket_id, zone_id, checkin_at)
	          VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, subscriptionID, ref.TicketID, ref.ZoneID, ref.CheckinAt); err != nil {
		return fmt.Errorf("SubscriptionRepository.AppendCheckin: %w", err)
	}
	return nil
}

func (r *pgSubscriptionRepository) RemoveCheckin(ctx context.Context, subscriptionID, ticketID string) error {
	query := `DELETE FROM subscription_checkins WHERE subscription_id = $1 AND ticket_id = $2`
	res, err := r.db.ExecContext(ctx, query, subscriptionID, ticketID)
	if err != nil {
		return fmt.Errorf("SubscriptionRepository.RemoveCheckin: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("SubscriptionRepository.RemoveCheckin: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *pgSubscriptionRepository) loadCheckins(ctx context.Context, sub *domain.Subscription) error {
	query := `SELECT ticket_id, zone_id, checkin_at FROM subscription_checkins
	          WHERE subscription_id = $1 ORDER BY checkin_at`
	rows, err := r.db.QueryContext(ctx, query, sub.ID)
	if err != nil {
		return fmt.Errorf("SubscriptionRepository checkins: %w", err)
	}
	defer rows.Close()

	sub.CurrentCheckins = nil
	for rows.Next() {
		var ref domain.CheckinRef
		if err := rows.Scan(&ref.TicketID, &ref.ZoneID, &ref.CheckinAt); err != nil {
			return fmt.Errorf("SubscriptionRepository checkins scan: %w", err)
		}
		sub.CurrentCheckins = append(sub.CurrentCheckins, ref)
	}
	return rows.Err()
}
