package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/recipe-chatbot/backend/internal/model"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"go.uber.org/zap"
)

// RecipeFinder is the part of the catalog the recommendation engine reads
type RecipeFinder interface {
	FindByTaste(ctx context.Context, taste string) ([]model.Recipe, error)
}

// RecommendationService selects recipes a user can cook with what they have
type RecommendationService struct {
	recipes RecipeFinder
	logger  *zap.Logger
}

// NewRecommendationService creates a new RecommendationService instance
func NewRecommendationService(recipes RecipeFinder, logger *zap.Logger) *RecommendationService {
	return &RecommendationService{recipes: recipes, logger: logger}
}

// Recommend returns every recipe whose taste contains preference and whose ingredients are
// all available. An empty result is a normal outcome.
func (s *RecommendationService) Recommend(ctx context.Context, preference string, available []string) ([]types.RecommendationResult, error) {
	preference = strings.TrimSpace(preference)
	if preference == "" {
		return nil, nil
	}

	candidates, err := s.recipes.FindByTaste(ctx, preference)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}

	results := MatchRecipes(candidates, preference, available)
	s.logger.Debug("recommendation computed",
		zap.String("preference", preference),
		zap.Int("available", len(available)),
		zap.Int("candidates", len(candidates)),
		zap.Int("matches", len(results)),
	)
	return results, nil
}

// MatchRecipes keeps, in input order, the recipes whose taste contains preference
// (case-insensitive) and whose every ingredient token is in available after trimming and
// lower-casing. Empty tokens are ignored; a recipe with no tokens at all never matches.
func MatchRecipes(recipes []model.Recipe, preference string, available []string) []types.RecommendationResult {
	pref := strings.ToLower(strings.TrimSpace(preference))
	if pref == "" {
		return nil
	}

	have := make(map[string]struct{}, len(available))
	for _, item := range available {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			have[item] = struct{}{}
		}
	}

	var results []types.RecommendationResult
	for i := range recipes {
		r := &recipes[i]
		if !strings.Contains(strings.ToLower(r.TasteValue()), pref) {
			continue
		}

		required := r.IngredientList()
		if len(required) == 0 {
			continue
		}

		satisfied := true
		for _, ing := range required {
			if _, ok := have[strings.ToLower(ing)]; !ok {
				satisfied = false
				break
			}
		}
		if !satisfied {
			continue
		}

		results = append(results, types.RecommendationResult{
			Title:           r.Title,
			Ingredients:     required,
			Instructions:    r.Instructions,
			Taste:           r.Taste,
			CuisineType:     r.CuisineType,
			PreparationTime: r.PreparationTime,
		})
	}
	return results
}
