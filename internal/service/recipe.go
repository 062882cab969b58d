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

// RecipeService handles recipe catalog operations
type RecipeService struct {
	db *gorm.DB
}

// NewRecipeService creates a new RecipeService instance
func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// Create inserts a new recipe. Titles are unique.
func (s *RecipeService) Create(ctx context.Context, recipe *model.Recipe) error {
	recipe.Title = strings.TrimSpace(recipe.Title)
	if recipe.Title == "" {
		return ErrMissingTitle
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := titleTaken(tx, recipe.Title, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateTitle
		}
		if err := tx.Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", err)
		}
		return nil
	})
}

// Get retrieves a recipe by ID
func (s *RecipeService) Get(ctx context.Context, id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// List returns every recipe in insertion order
func (s *RecipeService) List(ctx context.Context) ([]model.Recipe, error) {
	var recipes []model.Recipe
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// Update applies a partial update and returns the stored recipe
func (s *RecipeService) Update(ctx context.Context, id uint, req types.UpdateRecipeRequest) (*model.Recipe, error) {
	var recipe model.Recipe
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&recipe, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return ErrMissingTitle
			}
			taken, err := titleTaken(tx, title, recipe.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateTitle
			}
			recipe.Title = title
		}
		if req.Ingredients != nil {
			recipe.Ingredients = string(*req.Ingredients)
		}
		if req.Instructions != nil {
			recipe.Instructions = string(*req.Instructions)
		}
		if req.Taste != nil {
			recipe.Taste = model.StringPtr(*req.Taste)
		}
		if req.CuisineType != nil {
			recipe.CuisineType = model.StringPtr(*req.CuisineType)
		}
		if req.PreparationTime != nil {
			recipe.PreparationTime = int(*req.PreparationTime)
		}
		if req.Reviews != nil {
			recipe.Reviews = int(*req.Reviews)
		}

		return tx.Save(&recipe).Error
	})
	if err != nil {
		if errors.Is(err, ErrRecipeNotFound) || errors.Is(err, ErrMissingTitle) || errors.Is(err, ErrDuplicateTitle) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update recipe %d: %w", id, err)
	}
	return &recipe, nil
}

// Delete removes a recipe by ID
func (s *RecipeService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Recipe{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

// FindByTaste returns recipes whose taste contains s, ignoring case, in insertion order.
// LIKE wildcards in s are matched literally. SQLite's LOWER only folds ASCII, so there the
// database only drops untagged rows and the case-insensitive match happens here.
func (s *RecipeService) FindByTaste(ctx context.Context, taste string) ([]model.Recipe, error) {
	needle := strings.ToLower(taste)

	q := s.db.WithContext(ctx).Order("id ASC")
	if s.db.Dialector.Name() == "sqlite" {
		q = q.Where("taste IS NOT NULL")
	} else {
		q = q.Where(`LOWER(taste) LIKE ? ESCAPE '\'`, "%"+escapeLike(needle)+"%")
	}

	var candidates []model.Recipe
	if err := q.Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to find recipes by taste: %w", err)
	}

	recipes := candidates[:0]
	for _, r := range candidates {
		if strings.Contains(strings.ToLower(r.TasteValue()), needle) {
			recipes = append(recipes, r)
		}
	}
	return recipes, nil
}

// Upsert creates or overwrites the recipe with the parsed record's title. created is true
// only when a new row was inserted. A concurrent insert of the same title is retried once
// as an update, so the last writer wins.
func (s *RecipeService) Upsert(ctx context.Context, parsed types.ParsedRecipe) (*model.Recipe, bool, error) {
	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		return nil, false, ErrMissingTitle
	}
	if parsed.PreparationTime < 0 || parsed.Reviews < 0 {
		return nil, false, fmt.Errorf("recipe %q: %w", title, ErrInvalidNumber)
	}

	recipe, created, err := s.upsertOnce(ctx, title, parsed)
	if err != nil && created {
		if taken, terr := titleTaken(s.db.WithContext(ctx), title, 0); terr == nil && taken {
			recipe, created, err = s.upsertOnce(ctx, title, parsed)
		}
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert recipe %q: %w", title, err)
	}
	return recipe, created, nil
}

func (s *RecipeService) upsertOnce(ctx context.Context, title string, parsed types.ParsedRecipe) (*model.Recipe, bool, error) {
	var (
		recipe  model.Recipe
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("title = ?", title).First(&recipe).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			created = true
			recipe = model.Recipe{Title: title}
		case err != nil:
			return err
		}

		recipe.Ingredients = string(parsed.Ingredients)
		recipe.Instructions = string(parsed.Instructions)
		recipe.Taste = model.StringPtr(parsed.Taste)
		recipe.CuisineType = model.StringPtr(parsed.CuisineType)
		recipe.PreparationTime = int(parsed.PreparationTime)
		recipe.Reviews = int(parsed.Reviews)

		if created {
			return tx.Create(&recipe).Error
		}
		return tx.Save(&recipe).Error
	})
	return &recipe, created, err
}

// Count returns the number of stored recipes
func (s *RecipeService) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.Recipe{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes: %w", err)
	}
	return n, nil
}

func titleTaken(tx *gorm.DB, title string, exceptID uint) (bool, error) {
	var n int64
	q := tx.Model(&model.Recipe{}).Where("title = ?", title)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// RecipeFromRequest converts a validated create request into a model
func RecipeFromRequest(req types.CreateRecipeRequest) *model.Recipe {
	r := &model.Recipe{
		Title:           strings.TrimSpace(req.Title),
		Ingredients:     string(req.Ingredients),
		Instructions:    string(req.Instructions),
		PreparationTime: int(req.PreparationTime),
		Reviews:         int(req.Reviews),
	}
	if req.Taste != nil {
		r.Taste = model.StringPtr(*req.Taste)
	}
	if req.CuisineType != nil {
		r.CuisineType = model.StringPtr(*req.CuisineType)
	}
	return r
}
