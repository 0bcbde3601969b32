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

type pgGateRepository struct {
	db *sql.DB
}

func NewPgGateRepository(db *sql.DB) repository.GateRepository {
	return &pgGateRepository{db: db}
}

func (r *pgGateRepository) FindByID(ctx context.Context, id string) (*domain.Gate, error) {
	gate := &domain.Gate{}
	query := `SELECT id, name, location, zone_ids FROM gates WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&gate.ID, &gate.Name, &gate.Location, pq.Array(&gate.ZoneIDs))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("GateRepository.FindByID: %w", err)
	}
	return gate, nil
}

func (r *pgGateRepository) FindAll(ctx context.Context) ([]domain.Gate, error) {
	query := `SELECT id, name, location, zone_ids FROM gates ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("GateRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var gates []domain.Gate
	for rows.Next() {
		var gate domain.Gate
		if err := rows.Scan(&gate.ID, &gate.Name, &gate.Location, pq.Array(&gate.ZoneIDs)); err != nil {
			return nil, fmt.Errorf("GateRepository.FindAll scan: %w", err)
		}
		gates = append(gates, gate)
	}
	return gates, rows.Err()
}
