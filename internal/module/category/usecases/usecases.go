package usecases

import (
	"context"
	"time"

	"ticketing-service/internal/module/category/models/entity"
	"ticketing-service/internal/module/category/models/request"
	"ticketing-service/internal/module/category/models/response"
	"ticketing-service/internal/module/category/repositories"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/log"
)

type usecase struct {
	repo repositories.Repositories
	log  log.Logger
}

type Usecase interface {
	AddCategory(ctx context.Context, payload *request.AddCategory) (response.Category, error)
	ListCategories(ctx context.Context) ([]response.Category, error)
	ListCategoriesByType(ctx context.Context, categoryType string) ([]response.Category, error)
}

func New(repo repositories.Repositories, log log.Logger) Usecase {
	return &usecase{
		repo: repo,
		log:  log,
	}
}

func (u *usecase) AddCategory(ctx context.Context, payload *request.AddCategory) (response.Category, error) {
	_, err := u.repo.FindCategoryByName(ctx, payload.Name)
	if err == nil {
		return response.Category{}, errors.BadRequest("category with this name already exists")
	}
	if errors.HttpCode(err) != 404 {
		return response.Category{}, err
	}

	category := entity.Category{
		Name:        payload.Name,
		Description: payload.Description,
		Type:        payload.Type,
		CreatedAt:   time.Now(),
	}

	if err := u.repo.InsertCategory(ctx, &category); err != nil {
		return response.Category{}, err
	}

	return toResponse(category), nil
}

func (u *usecase) ListCategories(ctx context.Context) ([]response.Category, error) {
	categories, err := u.repo.FindCategories(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]response.Category, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toResponse(c))
	}
	return resp, nil
}

func (u *usecase) ListCategoriesByType(ctx context.Context, categoryType string) ([]response.Category, error) {
	if !entity.ValidType(categoryType) {
		return nil, errors.BadRequest("invalid category type, must be one of: event, sports")
	}

	categories, err := u.repo.FindCategoriesByType(ctx, categoryType)
	if err != nil {
		return nil, err
	}

	resp := make([]response.Category, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, toResponse(c))
	}
	return resp, nil
}

func toResponse(c entity.Category) response.Category {
	return response.Category{
		ID:          c.ID.String(),
		Name:        c.Name,
		Description: c.Description,
		Type:        c.Type,
		CreatedAt:   c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
