package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type pgZoneRepository struct {
	db *sql.DB
}

func NewPgZoneRepository(db *sql.DB) repository.ZoneRepository {
	return &pgZoneRepository{db: db}
}

const zoneColumns = `id, name, category_id, total_slots, occupied, open, gate_ids, created_at, updated_at`

func scanZone(row interface{ Scan(...any) error }) (*domain.Zone, error) {
	zone := &domain.Zone{}
	err := row.Scan(
		&zone.ID, &zone.Name, &zone.CategoryID,
		&zone.TotalSlots, &zone.Occupied, &zone.Open,
		pq.Array(&zone.GateIDs),
		&zone.CreatedAt, &zone.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return zone, nil
}

func (r *pgZoneRepository) FindByID(ctx context.Context, id string) (*domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE id = $1`
	zone, err := scanZone(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ZoneRepository.FindByID: %w", err)
	}
	return zone, nil
}

func (r *pgZoneRepository) FindAll(ctx context.Context) ([]domain.Zone, error) {
	return r.findWhere(ctx, ``, nil)
}

func (r *pgZoneRepository) FindByGateID(ctx context.Context, gateID string) ([]domain.Zone, error) {
	return r.findWhere(ctx, `WHERE $1 = ANY(gate_ids)`, []any{gateID})
}

func (r *pgZoneRepository) FindByCategoryID(ctx context.Context, categoryID string) ([]domain.Zone, error) {
	return r.findWhere(ctx, `WHERE category_id = $1`, []any{categoryID})
}

func (r *pgZoneRepository) findWhere(ctx context.Context, where string, args []any) ([]domain.Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones ` + where + ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ZoneRepository query: %w", err)
	}
	defer rows.Close()

	var zones []domain.Zone
	for rows.Next() {
		zone, err := scanZone(rows)
		if err != nil {
			return nil, fmt.Errorf("ZoneRepository scan: %w", err)
		}
		zones = append(zones, *zone)
	}
	return zones, rows.Err()
}

func (r *pgZoneRepository) SetOpen(ctx context.Context, id string, open bool) (*domain.Zone, error) {
	query := `UPDATE zones SET open = $2, updated_at = CURRENT_TIMESTAMP WHERE id = $1
	          RETURNING ` + zoneColumns
	zone, err := scanZone(r.db.QueryRowContext(ctx, query, id, open))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ZoneRepository.SetOpen: %w", err)
	}
	return zone, nil
}

// IncrementOccupied commits the slot atomically: the WHERE clause makes the
// database reject an increment past capacity, so even without the service's
// zone lock the count can never overcommit.
func (r *pgZoneRepository) IncrementOccupied(ctx context.Context, id string) error {
	query := `UPDATE zones SET occupied = occupied + 1, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $1 AND occupied < total_slots`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ZoneRepository.IncrementOccupied: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ZoneRepository.IncrementOccupied: %w", err)
	}
	if affected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return repository.ErrCapacityExceeded
	}
	return nil
}

func (r *pgZoneRepository) DecrementOccupied(ctx context.Context, id string) error {
	query := `UPDATE zones SET occupied = GREATEST(occupied - 1, 0), updated_at = CURRENT_TIMESTAMP
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ZoneRepository.DecrementOccupied: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ZoneRepository.DecrementOccupied: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
