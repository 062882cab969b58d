package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipe-chatbot/backend/internal/mocks"
	"github.com/pageza/recipe-chatbot/backend/internal/model"
	"github.com/pageza/recipe-chatbot/backend/internal/service"
	"github.com/pageza/recipe-chatbot/backend/internal/testhelpers"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// testServer wires the real catalog services over SQLite with mocked model collaborators
type testServer struct {
	router     *gin.Engine
	db         *gorm.DB
	recipes    *service.RecipeService
	extractor  *mocks.MockExtractor
	parser     *mocks.MockRecipeParser
	recognizer *mocks.MockTextRecognizer
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db := testhelpers.NewSQLiteDB(t)
	log := zap.NewNop()
	ts := &testServer{
		router:     gin.New(),
		db:         db,
		recipes:    service.NewRecipeService(db),
		extractor:  new(mocks.MockExtractor),
		parser:     new(mocks.MockRecipeParser),
		recognizer: new(mocks.MockTextRecognizer),
	}

	RegisterRoutes(ts.router, db, Services{
		Recipes:     ts.recipes,
		Ingredients: service.NewIngredientService(db),
		Recommender: service.NewRecommendationService(ts.recipes, log),
		Extractor:   ts.extractor,
		Intake:      service.NewRecipeIntake(ts.recipes, ts.parser, ts.recognizer, service.NopImageArchive{}, log),
	}, log)
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) seedRecipe(t *testing.T, title, ingredients, taste string) *model.Recipe {
	t.Helper()
	r := &model.Recipe{
		Title:        title,
		Ingredients:  ingredients,
		Instructions: "Cook it.",
		Taste:        model.StringPtr(taste),
	}
	require.NoError(t, ts.recipes.Create(context.Background(), r))
	return r
}

func (ts *testServer) recipeCount(t *testing.T) int64 {
	t.Helper()
	n, err := ts.recipes.Count(context.Background())
	require.NoError(t, err)
	return n
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
