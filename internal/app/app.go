// Package app builds the process-wide dependency graph shared by the API server and the
// ingest commands.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-chatbot/backend/config"
	"github.com/pageza/recipe-chatbot/backend/internal/api"
	"github.com/pageza/recipe-chatbot/backend/internal/database"
	"github.com/pageza/recipe-chatbot/backend/internal/service"
)

// App holds the database handles, the shared LLM client and every service built on them
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	LLM    *service.LLMClient

	Recipes     *service.RecipeService
	Ingredients *service.IngredientService
	Recommender *service.RecommendationService
	Extractor   service.PreferenceExtractor
	Parser      *service.LLMRecipeParser
	Recognizer  *service.VisionRecognizer
	Archive     service.ImageArchive
	Intake      *service.RecipeIntake
	Ingestion   *service.IngestionService

	logger *zap.Logger
}

// New connects to the database, applies migrations and wires the services. Redis and S3
// are optional: when enabled but unreachable the app starts without them.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.New(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.RunMigrations(db, cfg.Database.Migrations, log); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	a := &App{
		Config: cfg,
		DB:     db,
		LLM:    service.NewLLMClient(cfg.LLM, log),
		logger: log,
	}
	if cfg.LLM.APIKey == "" {
		log.Warn("llm api key not set; extraction, parsing and OCR will fail")
	}

	a.Recipes = service.NewRecipeService(db)
	a.Ingredients = service.NewIngredientService(db)
	a.Recommender = service.NewRecommendationService(a.Recipes, log)
	a.Parser = service.NewLLMRecipeParser(a.LLM, log)
	a.Recognizer = service.NewVisionRecognizer(a.LLM, log)
	a.Extractor = a.extractor(ctx)
	a.Archive = a.archive(ctx)
	a.Intake = service.NewRecipeIntake(a.Recipes, a.Parser, a.Recognizer, a.Archive, log)
	a.Ingestion = service.NewIngestionService(a.Recipes, a.Parser, a.Recognizer, cfg.Ingest.Workers, log)

	return a, nil
}

func (a *App) extractor(ctx context.Context) service.PreferenceExtractor {
	var extractor service.PreferenceExtractor = service.NewLLMExtractor(a.LLM, a.logger)
	if !a.Config.Redis.Enabled {
		return extractor
	}

	client, err := database.NewRedisClient(ctx, a.Config.Redis, a.logger)
	if err != nil {
		a.logger.Warn("extraction cache disabled", zap.Error(err))
		return extractor
	}
	a.Redis = client
	cache := service.NewRedisExtractionCache(client, a.Config.Redis.ExtractionTTL)
	return service.NewCachedExtractor(extractor, cache, a.logger)
}

func (a *App) archive(ctx context.Context) service.ImageArchive {
	if !a.Config.Storage.Enabled {
		return service.NopImageArchive{}
	}

	s3Config, err := config.NewS3Config(ctx, a.Config.Storage)
	if err != nil {
		a.logger.Warn("image archive disabled", zap.Error(err))
		return service.NopImageArchive{}
	}
	return service.NewS3ImageArchive(s3Config, a.logger)
}

// Services returns the collaborators used by the HTTP handlers
func (a *App) Services() api.Services {
	return api.Services{
		Recipes:     a.Recipes,
		Ingredients: a.Ingredients,
		Recommender: a.Recommender,
		Extractor:   a.Extractor,
		Intake:      a.Intake,
	}
}

// Close releases the database and Redis connections
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
	}
	if err := database.Close(a.DB); err != nil {
		errs = append(errs, fmt.Errorf("failed to close database: %w", err))
	}
	return errors.Join(errs...)
}
