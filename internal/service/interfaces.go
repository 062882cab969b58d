package service

import (
	"context"

	"github.com/pageza/recipe-chatbot/backend/internal/model"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
)

// IRecipeService defines the recipe catalog operations
type IRecipeService interface {
	Create(ctx context.Context, recipe *model.Recipe) error
	Get(ctx context.Context, id uint) (*model.Recipe, error)
	List(ctx context.Context) ([]model.Recipe, error)
	Update(ctx context.Context, id uint, req types.UpdateRecipeRequest) (*model.Recipe, error)
	Delete(ctx context.Context, id uint) error
	FindByTaste(ctx context.Context, taste string) ([]model.Recipe, error)
	Upsert(ctx context.Context, parsed types.ParsedRecipe) (*model.Recipe, bool, error)
}

// IIngredientService defines the pantry ingredient operations
type IIngredientService interface {
	Create(ctx context.Context, req types.CreateIngredientRequest) (*model.Ingredient, error)
	Get(ctx context.Context, id uint) (*model.Ingredient, error)
	List(ctx context.Context) ([]model.Ingredient, error)
	Update(ctx context.Context, id uint, req types.UpdateIngredientRequest) (*model.Ingredient, error)
	Delete(ctx context.Context, id uint) error
}

// IRecommendationService defines the recommendation engine
type IRecommendationService interface {
	Recommend(ctx context.Context, preference string, available []string) ([]types.RecommendationResult, error)
}

// PreferenceExtractor converts a chatbot message into a ParsedQuery
type PreferenceExtractor interface {
	Extract(ctx context.Context, text string) (types.ParsedQuery, error)
}

// RecipeParser converts unstructured recipe text into fields
type RecipeParser interface {
	ParseText(ctx context.Context, text string) (types.ParsedRecipe, error)
}

// TextRecognizer transcribes the text of a recipe image
type TextRecognizer interface {
	Recognize(ctx context.Context, image []byte, contentType string) (string, error)
}

// ImageArchive keeps a copy of uploaded recipe images
type ImageArchive interface {
	Store(ctx context.Context, name, contentType string, data []byte) (string, error)
}

// IRecipeIntake creates recipes from images and raw text
type IRecipeIntake interface {
	FromImage(ctx context.Context, filename, contentType string, data []byte) (*model.Recipe, error)
	FromText(ctx context.Context, raw string) (*model.Recipe, error)
}

// IIngestionService runs the batch ingestion commands
type IIngestionService interface {
	LoadFile(ctx context.Context, path string) (types.IngestReport, error)
	ProcessDirectory(ctx context.Context, dir string) (types.IngestReport, error)
	ProcessFile(ctx context.Context, path string) types.IngestResult
}
