package repositories

import (
	"context"
	"database/sql"

	"ticketing-service/internal/module/category/models/entity"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/log"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type repositories struct {
	db  *sqlx.DB
	log log.Logger
}

type Repositories interface {
	FindCategoryByName(ctx context.Context, name string) (entity.Category, error)
	InsertCategory(ctx context.Context, category *entity.Category) error
	FindCategories(ctx context.Context) ([]entity.Category, error)
	FindCategoriesByType(ctx context.Context, categoryType string) ([]entity.Category, error)
}

func New(db *sqlx.DB, log log.Logger) Repositories {
	return &repositories{
		db:  db,
		log: log,
	}
}

// FindCategoryByName implements Repositories. A missing category surfaces as
// errors.NotFound so usecases can branch on it.
func (r *repositories) FindCategoryByName(ctx context.Context, name string) (entity.Category, error) {
	query := `SELECT id, name, description, type, created_at FROM categories WHERE name = $1`
	var category entity.Category
	err := r.db.GetContext(ctx, &category, query, name)
	if err == sql.ErrNoRows {
		return entity.Category{}, errors.NotFound("category not found")
	}
	if err != nil {
		r.log.Error(ctx, "error find category by name", err)
		return entity.Category{}, errors.InternalServerError("error find category by name")
	}
	return category, nil
}

// InsertCategory implements Repositories.
func (r *repositories) InsertCategory(ctx context.Context, category *entity.Category) error {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	query := `INSERT INTO categories (id, name, description, type, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, category.ID, category.Name, category.Description, category.Type, category.CreatedAt)
	if err != nil {
		r.log.Error(ctx, "error insert category", err)
		return errors.InternalServerError("error insert category")
	}
	return nil
}

// FindCategories implements Repositories.
func (r *repositories) FindCategories(ctx context.Context) ([]entity.Category, error) {
	query := `SELECT id, name, description, type, created_at FROM categories ORDER BY name`
	var categories []entity.Category
	if err := r.db.SelectContext(ctx, &categories, query); err != nil {
		r.log.Error(ctx, "error find categories", err)
		return nil, errors.InternalServerError("error find categories")
	}
	return categories, nil
}

// FindCategoriesByType implements Repositories.
func (r *repositories) FindCategoriesByType(ctx context.Context, categoryType string) ([]entity.Category, error) {
	query := `SELECT id, name, description, type, created_at FROM categories WHERE type = $1 ORDER BY name`
	var categories []entity.Category
	if err := r.db.SelectContext(ctx, &categories, query, categoryType); err != nil {
		r.log.Error(ctx, "error find categories by type", err)
		return nil, errors.InternalServerError("error find categories by type")
	}
	return categories, nil
}
