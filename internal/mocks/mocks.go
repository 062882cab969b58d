package mocks

import (
	"context"

	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockExtractor is a mock implementation of the preference extractor
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, text string) (types.ParsedQuery, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(types.ParsedQuery), args.Error(1)
}

// MockRecommendationService is a mock implementation of the recommendation engine
type MockRecommendationService struct {
	mock.Mock
}

func (m *MockRecommendationService) Recommend(ctx context.Context, preference string, available []string) ([]types.RecommendationResult, error) {
	args := m.Called(ctx, preference, available)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.RecommendationResult), args.Error(1)
}

// MockRecipeParser is a mock implementation of the model-backed recipe parser
type MockRecipeParser struct {
	mock.Mock
}

func (m *MockRecipeParser) ParseText(ctx context.Context, text string) (types.ParsedRecipe, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(types.ParsedRecipe), args.Error(1)
}

// MockTextRecognizer is a mock implementation of the image text recognizer
type MockTextRecognizer struct {
	mock.Mock
}

func (m *MockTextRecognizer) Recognize(ctx context.Context, image []byte, contentType string) (string, error) {
	args := m.Called(ctx, image, contentType)
	return args.String(0), args.Error(1)
}

// MockImageArchive is a mock implementation of the image archive
type MockImageArchive struct {
	mock.Mock
}

func (m *MockImageArchive) Store(ctx context.Context, name, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, name, contentType, data)
	return args.String(0), args.Error(1)
}

// MockIngestionService is a mock implementation of the ingestion pipeline
type MockIngestionService struct {
	mock.Mock
}

func (m *MockIngestionService) LoadFile(ctx context.Context, path string) (types.IngestReport, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(types.IngestReport), args.Error(1)
}

func (m *MockIngestionService) ProcessDirectory(ctx context.Context, dir string) (types.IngestReport, error) {
	args := m.Called(ctx, dir)
	return args.Get(0).(types.IngestReport), args.Error(1)
}

func (m *MockIngestionService) ProcessFile(ctx context.Context, path string) types.IngestResult {
	args := m.Called(ctx, path)
	return args.Get(0).(types.IngestResult)
}
