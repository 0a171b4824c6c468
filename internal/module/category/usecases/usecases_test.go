package usecases_test

import (
	"context"
	"testing"
	"time"

	"ticketing-service/internal/module/category/mocks"
	"ticketing-service/internal/module/category/models/entity"
	"ticketing-service/internal/module/category/models/request"
	"ticketing-service/internal/module/category/usecases"
	"ticketing-service/internal/pkg/errors"
	"ticketing-service/internal/pkg/log"
	log_internal "ticketing-service/internal/pkg/log"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var (
	uc       usecases.Usecase
	repoMock *mocks.Repositories
	logMock  log.Logger
)

func setup() {
	repoMock = new(mocks.Repositories)
	logZap := log_internal.SetupLogger()
	log_internal.Init(logZap)
	logMock = log_internal.GetLogger()
	uc = usecases.New(repoMock, logMock)
}

func teardown() {
	repoMock = nil
	uc = nil
}

func TestAddCategory(t *testing.T) {
	setup()
	defer teardown()

	t.Run("success", func(t *testing.T) {
		ctx := context.Background()
		payload := &request.AddCategory{
			Name:        "Running",
			Description: "Road and trail running",
			Type:        entity.TypeSports,
		}

		repoMock.On("FindCategoryByName", ctx, "Running").Return(entity.Category{}, errors.NotFound("category not found"))
		repoMock.On("InsertCategory", ctx, mock.Anything).Return(nil)

		resp, err := uc.AddCategory(ctx, payload)
		assert.NoError(t, err)
		assert.Equal(t, "Running", resp.Name)
		assert.Equal(t, entity.TypeSports, resp.Type)
	})

	t.Run("duplicate name", func(t *testing.T) {
		setup()
		ctx := context.Background()

		repoMock.On("FindCategoryByName", ctx, "Running").Return(entity.Category{
			ID:   uuid.New(),
			Name: "Running",
			Type: entity.TypeSports,
		}, nil)

		_, err := uc.AddCategory(ctx, &request.AddCategory{Name: "Running", Type: entity.TypeSports})
		assert.Error(t, err)
		assert.Equal(t, 400, errors.HttpCode(err))
		assert.Contains(t, err.Error(), "already exists")
		repoMock.AssertNotCalled(t, "InsertCategory", mock.Anything, mock.Anything)
	})
}

func TestListCategoriesByType(t *testing.T) {
	setup()
	defer teardown()

	t.Run("success", func(t *testing.T) {
		ctx := context.Background()
		categories := []entity.Category{
			{ID: uuid.New(), Name: "Running", Type: entity.TypeSports, CreatedAt: time.Now()},
			{ID: uuid.New(), Name: "Swimming", Type: entity.TypeSports, CreatedAt: time.Now()},
		}

		repoMock.On("FindCategoriesByType", ctx, entity.TypeSports).Return(categories, nil)

		resp, err := uc.ListCategoriesByType(ctx, entity.TypeSports)
		assert.NoError(t, err)
		assert.Len(t, resp, 2)
	})

	t.Run("unknown type", func(t *testing.T) {
		setup()
		ctx := context.Background()

		_, err := uc.ListCategoriesByType(ctx, "music")
		assert.Error(t, err)
		assert.Equal(t, 400, errors.HttpCode(err))
		repoMock.AssertNotCalled(t, "FindCategoriesByType", mock.Anything, mock.Anything)
	})
}
