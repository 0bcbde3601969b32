package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"parking_ops/internal/domain"
	"parking_ops/internal/repository"
)

type pgCategoryRepository struct {
	db *sql.DB
}

func NewPgCategoryRepository(db *sql.DB) repository.CategoryRepository {
	return &pgCategoryRepository{db: db}
}

func (r *pgCategoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	category := &domain.Category{}
	query := `SELECT id, name, description, rate_normal, rate_special, created_at, updated_at
	          FROM categories WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID, &category.Name, &category.Description,
		&category.RateNormal, &category.RateSpecial,
		&category.CreatedAt, &category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("CategoryRepository.FindByID: %w", err)
	}
	return category, nil
}

func (r *pgCategoryRepository) FindAll(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT id, name, description, rate_normal, rate_special, created_at, updated_at
	          FROM categories ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CategoryRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(
			&category.ID, &category.Name, &category.Description,
			&category.RateNormal, &category.RateSpecial,
			&category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, fmt.Errorf("CategoryRepository.FindAll scan: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *pgCategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `UPDATE categories
	          SET name = $2, description = $3, rate_normal = $4, rate_special = $5, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $1
	          RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query,
		category.ID, category.Name, category.Description,
		category.RateNormal, category.RateSpecial).Scan(&category.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("CategoryRepository.Update: %w", err)
	}
	return category, nil
}
