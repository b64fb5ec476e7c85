package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wezzertop/zafinan/internal/models"
	"github.com/wezzertop/zafinan/internal/repository"
)

// CategoryService handles transaction category management
type CategoryService struct {
	categories repository.CategoryRepository
	log        *logrus.Logger
}

func NewCategoryService(categories repository.CategoryRepository, log *logrus.Logger) *CategoryService {
	return &CategoryService{categories: categories, log: log}
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req models.CategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	if req.Type != models.CategoryTypeIncome && req.Type != models.CategoryTypeExpense {
		return nil, validationErr("type", "must be income or expense, got %q", req.Type)
	}

	category := &models.Category{UserID: userID, Name: req.Name, Type: req.Type}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}

	s.log.Infof("Category %s created for user %s", category.ID, userID)
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	return s.categories.ListByUser(ctx, userID)
}

func (s *CategoryService) Update(ctx context.Context, userID, categoryID uuid.UUID, req models.CategoryRequest) (*models.Category, error) {
	category, err := s.ownedCategory(ctx, userID, categoryID)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, validationErr("name", "must not be empty")
	}
	category.Name = req.Name

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, userID, categoryID uuid.UUID) error {
	if _, err := s.ownedCategory(ctx, userID, categoryID); err != nil {
		return err
	}
	return s.categories.Delete(ctx, categoryID)
}

func (s *CategoryService) ownedCategory(ctx context.Context, userID, categoryID uuid.UUID) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category.UserID != userID {
		return nil, ErrNotOwned
	}
	return category, nil
}
