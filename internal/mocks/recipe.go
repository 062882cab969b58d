package mocks

import (
	"context"

	"github.com/pageza/recipe-chatbot/backend/internal/model"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// Create mocks the Create method
func (m *MockRecipeService) Create(ctx context.Context, recipe *model.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

// Get mocks the Get method
func (m *MockRecipeService) Get(ctx context.Context, id uint) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// List mocks the List method
func (m *MockRecipeService) List(ctx context.Context) ([]model.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// Update mocks the Update method
func (m *MockRecipeService) Update(ctx context.Context, id uint, req types.UpdateRecipeRequest) (*model.Recipe, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// Delete mocks the Delete method
func (m *MockRecipeService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// FindByTaste mocks the FindByTaste method
func (m *MockRecipeService) FindByTaste(ctx context.Context, taste string) ([]model.Recipe, error) {
	args := m.Called(ctx, taste)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Recipe), args.Error(1)
}

// Upsert mocks the Upsert method
func (m *MockRecipeService) Upsert(ctx context.Context, parsed types.ParsedRecipe) (*model.Recipe, bool, error) {
	args := m.Called(ctx, parsed)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*model.Recipe), args.Bool(1), args.Error(2)
}

// MockRecipeIntake is a mock implementation of the recipe intake
type MockRecipeIntake struct {
	mock.Mock
}

// FromImage mocks the FromImage method
func (m *MockRecipeIntake) FromImage(ctx context.Context, filename, contentType string, data []byte) (*model.Recipe, error) {
	args := m.Called(ctx, filename, contentType, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// FromText mocks the FromText method
func (m *MockRecipeIntake) FromText(ctx context.Context, raw string) (*model.Recipe, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}
