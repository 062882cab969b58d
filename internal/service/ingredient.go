package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pageza/recipe-chatbot/backend/internal/model"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"gorm.io/gorm"
)

// IngredientService handles pantry ingredient operations
type IngredientService struct {
	db *gorm.DB
}

// NewIngredientService creates a new IngredientService instance
func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// Create inserts a new ingredient
func (s *IngredientService) Create(ctx context.Context, req types.CreateIngredientRequest) (*model.Ingredient, error) {
	ingredient := model.Ingredient{
		Name:     strings.TrimSpace(req.Name),
		Quantity: req.Quantity,
	}
	if req.Unit != nil {
		ingredient.Unit = model.StringPtr(*req.Unit)
	}

	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return &ingredient, nil
}

// Get retrieves an ingredient by ID
func (s *IngredientService) Get(ctx context.Context, id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIngredientNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient %d: %w", id, err)
	}
	return &ingredient, nil
}

// List returns all ingredients in insertion order
func (s *IngredientService) List(ctx context.Context) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

// Update applies a partial update
func (s *IngredientService) Update(ctx context.Context, id uint, req types.UpdateIngredientRequest) (*model.Ingredient, error) {
	ingredient, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		ingredient.Name = strings.TrimSpace(*req.Name)
	}
	if req.Quantity != nil {
		ingredient.Quantity = *req.Quantity
	}
	if req.Unit != nil {
		ingredient.Unit = model.StringPtr(*req.Unit)
	}

	if err := s.db.WithContext(ctx).Save(ingredient).Error; err != nil {
		return nil, fmt.Errorf("failed to update ingredient %d: %w", id, err)
	}
	return ingredient, nil
}

// Delete removes an ingredient by ID
func (s *IngredientService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Ingredient{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete ingredient %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrIngredientNotFound
	}
	return nil
}
