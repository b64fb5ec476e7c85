package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/wezzertop/zafinan/internal/models"
)

// PostgresCategoryRepository persists categories in PostgreSQL
type PostgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	query := `
		INSERT INTO categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, category.UserID, category.Name, category.Type).
		Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category := &models.Category{}
	query := `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&category.ID, &category.UserID, &category.Name, &category.Type, &category.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

func (r *PostgresCategoryRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, type, created_at
		FROM categories
		WHERE user_id = $1
		ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var category models.Category
		if err := rows.Scan(&category.ID, &category.UserID, &category.Name, &category.Type, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *PostgresCategoryRepository) Update(ctx context.Context, category *models.Category) error {
	query := `
		UPDATE categories
		SET name = $1, type = $2
		WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, category.Name, category.Type, category.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireAffected(res)
}

func (r *PostgresCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireAffected(res)
}
