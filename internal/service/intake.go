package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pageza/recipe-chatbot/backend/internal/model"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"go.uber.org/zap"
)

// RecipeCreator is the catalog operation intake needs
type RecipeCreator interface {
	Create(ctx context.Context, recipe *model.Recipe) error
}

// RecipeIntake turns uploaded images and pasted text into stored recipes
type RecipeIntake struct {
	recipes    RecipeCreator
	parser     RecipeParser
	recognizer TextRecognizer
	archive    ImageArchive
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewRecipeIntake creates a new RecipeIntake instance
func NewRecipeIntake(recipes RecipeCreator, parser RecipeParser, recognizer TextRecognizer, archive ImageArchive, logger *zap.Logger) *RecipeIntake {
	if archive == nil {
		archive = NopImageArchive{}
	}
	return &RecipeIntake{
		recipes:    recipes,
		parser:     parser,
		recognizer: recognizer,
		archive:    archive,
		validator:  types.NewValidator(),
		logger:     logger,
	}
}

// FromImage archives the image, transcribes it and stores the recipe it describes
func (i *RecipeIntake) FromImage(ctx context.Context, filename, contentType string, data []byte) (*model.Recipe, error) {
	if key, err := i.archive.Store(ctx, filename, contentType, data); err != nil {
		i.logger.Warn("failed to archive recipe image", zap.String("filename", filename), zap.Error(err))
	} else if key != "" {
		i.logger.Debug("recipe image archived", zap.String("key", key))
	}

	text, err := i.recognizer.Recognize(ctx, data, contentType)
	if err != nil {
		i.logger.Warn("could not read recipe image", zap.String("filename", filename), zap.Error(err))
		return nil, ErrUnparsableImage
	}

	parsed := i.parse(ctx, text)
	if !parsed.HasTitle() {
		return nil, ErrUnparsableImage
	}
	return i.create(ctx, parsed)
}

// FromText stores the recipe described by raw
func (i *RecipeIntake) FromText(ctx context.Context, raw string) (*model.Recipe, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrMissingRawText
	}

	parsed := i.parse(ctx, raw)
	if !parsed.HasTitle() {
		return nil, ErrUnparsableText
	}
	return i.create(ctx, parsed)
}

// parse prefers the first structured record and falls back to the model. Parser errors
// are logged and produce an empty record.
func (i *RecipeIntake) parse(ctx context.Context, text string) types.ParsedRecipe {
	if recipes := ParseStructuredText(text); len(recipes) > 0 && recipes[0].HasTitle() {
		return recipes[0]
	}

	parsed, err := i.parser.ParseText(ctx, text)
	if err != nil {
		i.logger.Warn("failed to parse recipe text", zap.Error(err))
		return types.ParsedRecipe{}
	}
	return parsed
}

// create applies the same field rules as a JSON create. A violation is returned as
// validator.ValidationErrors and nothing is stored.
func (i *RecipeIntake) create(ctx context.Context, parsed types.ParsedRecipe) (*model.Recipe, error) {
	req := parsed.CreateRequest()
	if err := i.validator.Struct(req); err != nil {
		i.logger.Warn("parsed recipe failed validation", zap.String("title", req.Title), zap.Error(err))
		return nil, err
	}

	recipe := RecipeFromRequest(req)
	if err := i.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	i.logger.Info("recipe created from upload", zap.Uint("id", recipe.ID), zap.String("title", recipe.Title))
	return recipe, nil
}
