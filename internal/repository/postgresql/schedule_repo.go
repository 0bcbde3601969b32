package postgresql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type pgScheduleRepository struct {
	db *sql.DB
}

func NewPgScheduleRepository(db *sql.DB) repository.ScheduleRepository {
	return &pgScheduleRepository{db: db}
}

// position preserves declaration order, which breaks evaluation ties.
func (r *pgScheduleRepository) ListRushWindows(ctx context.Context) ([]domain.RushHourWindow, error) {
	query := `SELECT id, weekday, from_time, to_time FROM rush_windows ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ScheduleRepository.ListRushWindows: %w", err)
	}
	defer rows.Close()

	var windows []domain.RushHourWindow
	for rows.Next() {
		var w domain.RushHourWindow
		if err := rows.Scan(&w.ID, &w.Weekday, &w.From, &w.To); err != nil {
			return nil, fmt.Errorf("ScheduleRepository.ListRushWindows scan: %w", err)
		}
		windows = append(windows, w)
	}
	return windows, rows.Err()
}

func (r *pgScheduleRepository) ListVacations(ctx context.Context) ([]domain.Vacation, error) {
	query := `SELECT id, name, from_date, to_date FROM vacations ORDER BY position`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ScheduleRepository.ListVacations: %w", err)
	}
	defer rows.Close()

	var vacations []domain.Vacation
	for rows.Next() {
		var v domain.Vacation
		if err := rows.Scan(&v.ID, &v.Name, &v.From, &v.To); err != nil {
			return nil, fmt.Errorf("ScheduleRepository.ListVacations scan: %w", err)
		}
		vacations = append(vacations, v)
	}
	return vacations, rows.Err()
}

func (r *pgScheduleRepository) CreateRushWindow(ctx context.Context, w *domain.RushHourWindow) (*domain.RushHourWindow, error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	query := `INSERT INTO rush_windows (id, weekday, from_time, to_time) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, w.ID, w.Weekday, w.From, w.To); err != nil {
		return nil, fmt.Errorf("ScheduleRepository.CreateRushWindow: %w", err)
	}
	return w, nil
}

func (r *pgScheduleRepository) DeleteRushWindow(ctx context.Context, id string) error {
	return r.deleteByID(ctx, `DELETE FROM rush_windows WHERE id = $1`, id)
}

func (r *pgScheduleRepository) CreateVacation(ctx context.Context, v *domain.Vacation) (*domain.Vacation, error) {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	query := `INSERT INTO vacations (id, name, from_date, to_date) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, v.ID, v.Name, v.From, v.To); err != nil {
		return nil, fmt.Errorf("ScheduleRepository.CreateVacation: %w", err)
	}
	return v, nil
}

func (r *pgScheduleRepository) DeleteVacation(ctx context.Context, id string) error {
	return r.deleteByID(ctx, `DELETE FROM vacations WHERE id = $1`, id)
}

func (r *pgScheduleRepository) deleteByID(ctx context.Context, query, id string) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ScheduleRepository delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ScheduleRepository delete: %w", err)
	}
	if affected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
