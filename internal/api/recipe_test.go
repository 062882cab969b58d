package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateRecipe(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/recipes/", map[string]interface{}{
		"title":            "Pancakes",
		"ingredients":      "flour, milk, egg, sugar",
		"instructions":     "Mix and fry.",
		"taste":            "sweet",
		"cuisine_type":     "American",
		"preparation_time": 20,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Pancakes", body["title"])
	assert.Equal(t, "sweet", body["taste"])
	assert.Equal(t, 20.0, body["preparation_time"])
	assert.Equal(t, 0.0, body["reviews"])
	assert.NotZero(t, body["id"])
}

func TestCreateRecipeStructuredKeys(t *testing.T) {
	ts := setupTestServer(t)

	w := ts.do(t, http.MethodPost, "/recipes/", map[string]interface{}{
		"Title:":            "Salsa",
		"title":             "ignored",
		"Ingredients:":      []string{"tomato", "onion", "chili"},
		"Instructions:":     "Chop.",
		"Taste:":            "spicy",
		"Cuisine Type:":     "Mexican",
		"Preparation Time:": "10 minutes",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Salsa", body["title"])
	assert.Equal(t, "tomato, onion, chili", body["ingredients"])
	assert.Equal(t, "Mexican", body["cuisine_type"])
	assert.Equal(t, 10.0, body["preparation_time"])
}

func TestCreateRecipeValidation(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedRecipe(t, "Pancakes", "flour", "sweet")

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{"missing ingredients", map[string]interface{}{"title": "Toast", "instructions": "x"}, "ingredients"},
		{"blank title", map[string]interface{}{"title": "", "ingredients": "x", "instructions": "x"}, "title"},
		{"long title", map[string]interface{}{"title": string(long), "ingredients": "x", "instructions": "x"}, "title"},
		{"negative reviews", map[string]interface{}{"title": "Toast", "ingredients": "x", "instructions": "x", "reviews": -1}, "reviews"},
		{"duplicate title", map[string]interface{}{"title": "Pancakes", "ingredients": "x", "instructions": "x"}, "title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.do(t, http.MethodPost, "/recipes/", tt.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeBody(t, w)
			assert.Equal(t, "validation failed", body["error"])
			assert.Contains(t, body["fields"], tt.field)
		})
	}
	assert.Equal(t, int64(1), ts.recipeCount(t))
}

func TestCreateRecipeDuplicateMessage(t *testing.T) {
	ts := setupTestServer(t)
	ts.seedRecipe(t, "Pancakes", "flour", "sweet")

	w := ts.do(t, http.MethodPost, "/recipes/", map[string]interface{}{
		"title": "Pancakes", "ingredients": "x", "instructions": "x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"validation failed","fields":{"title":"recipe with this title already exists"}}`, w.Body.String())
}

func TestCreateRecipeFromRawText(t *testing.T) {
	ts := setupTestServer(t)
	raw := "grandma's scones with flour and butter"
	ts.parser.On("ParseText", mock.Anything, raw).Return(types.ParsedRecipe{
		Title:        "Scones",
		Ingredients:  "flour, butter",
		Instructions: "Bake 12 minutes.",
		Taste:        "sweet",
	}, nil)

	w := ts.do(t, http.MethodPost, "/recipes/", map[string]interface{}{"raw_text": raw})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Scones", decodeBody(t, w)["title"])
}

func TestCreateRecipeFromRawTextValidation(t *testing.T) {
	long := strings.Repeat("t", 300)
	tests := []struct {
		name   string
		parsed types.ParsedRecipe
		field  string
	}{
		{"long title", types.ParsedRecipe{Title: long, Ingredients: "x", Instructions: "y"}, "title"},
		{"missing ingredients", types.ParsedRecipe{Title: "Bare", Instructions: "y", Taste: "sweet"}, "ingredients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t)
			ts.parser.On("ParseText", mock.Anything, "some recipe").Return(tt.parsed, nil)

			w := ts.do(t, http.MethodPost, "/recipes/", map[string]interface{}{"raw_text": "some recipe"})
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeBody(t, w)
			assert.Equal(t, "validation failed", body["error"])
			assert.Contains(t, body["fields"], tt.field)
			assert.Zero(t, ts.recipeCount(t))
		})
	}

	t.Run("structured text", func(t *testing.T) {
		ts := setupTestServer(t)

		w := ts.do(t, http.MethodPost, "/recipes/", map[string]interface{}{"raw_text": "Title: Bare\nTaste: sweet"})
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.JSONEq(t, `{"error":"validation failed","fields":{"ingredients":"This field is required.","instructions":"This field is required."}}`, w.Body.String())
		assert.Zero(t, ts.recipeCount(t))
	})

	t.Run("structured text with fractional preparation time", func(t *testing.T) {
		ts := setupTestServer(t)

		raw := "Title: Stew\nIngredients: beef\nInstructions: Simmer.\nPreparation Time: 1.5 hours"
		w := ts.do(t, http.MethodPost, "/recipes/", map[string]interface{}{"raw_text": raw})
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Contains(t, decodeBody(t, w)["fields"], "preparation_time")
		assert.Zero(t, ts.recipeCount(t))
	})
}

func TestCreateRecipeRejectsUnstorableNumbers(t *testing.T) {
	for _, value := range []interface{}{20.5, 1e12, "99999999999 minutes"} {
		ts := setupTestServer(t)
		w := ts.do(t, http.MethodPost, "/recipes/", map[string]interface{}{
			"title":            "Stew",
			"ingredients":      "beef",
			"instructions":     "Simmer.",
			"preparation_time": value,
		})
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		assert.Contains(t, decodeBody(t, w)["fields"], nonFieldErrors)
		assert.Zero(t, ts.recipeCount(t))
	}
}

func TestCreateRecipeUnparsableText(t *testing.T) {
	ts := setupTestServer(t)
	ts.parser.On("ParseText", mock.Anything, "gibberish").Return(types.ParsedRecipe{}, nil)

	w := ts.do(t, http.MethodPost, "/recipes/", map[string]interface{}{"raw_text": "gibberish"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Could not parse recipe details from the provided text."}`, w.Body.String())
	assert.Zero(t, ts.recipeCount(t))
}

func TestCreateRecipeWithoutContent(t *testing.T) {
	ts := setupTestServer(t)

	for _, body := range []interface{}{map[string]interface{}{}, map[string]interface{}{"raw_text": "  "}, ""} {
		w := ts.do(t, http.MethodPost, "/recipes/", body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"No raw_text provided for unstructured recipe."}`, w.Body.String())
	}
}

func multipartUpload(t *testing.T, filename, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/recipes/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestCreateRecipeFromImage(t *testing.T) {
	ts := setupTestServer(t)
	img := []byte("fake-jpeg")
	ts.recognizer.On("Recognize", mock.Anything, img, "image/jpeg").
		Return("Title: Pancakes\nIngredients: flour, milk\nInstructions: Fry.\nTaste: sweet", nil)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, multipartUpload(t, "card.jpg", "image/jpeg", img))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Pancakes", decodeBody(t, w)["title"])
}

func TestCreateRecipeFromImageValidation(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		field string
	}{
		{"long title", "Title: " + strings.Repeat("t", 300) + "\nIngredients: flour\nInstructions: Fry.", "title"},
		{"missing ingredients", "Title: Bare\nInstructions: Fry.\nTaste: sweet", "ingredients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := setupTestServer(t)
			img := []byte("fake-jpeg")
			ts.recognizer.On("Recognize", mock.Anything, img, "image/jpeg").Return(tt.text, nil)

			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, multipartUpload(t, "card.jpg", "image/jpeg", img))

			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			body := decodeBody(t, w)
			assert.Equal(t, "validation failed", body["error"])
			assert.Contains(t, body["fields"], tt.field)
			assert.Zero(t, ts.recipeCount(t))
		})
	}
}

func TestCreateRecipeFromUnparsableImage(t *testing.T) {
	ts := setupTestServer(t)
	img := []byte("blurry")
	ts.recognizer.On("Recognize", mock.Anything, img, "image/png").Return("????", nil)
	ts.parser.On("ParseText", mock.Anything, "????").Return(types.ParsedRecipe{}, nil)

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, multipartUpload(t, "card.png", "image/png", img))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Could not parse recipe title from image."}`, w.Body.String())
	assert.Zero(t, ts.recipeCount(t))
}

func TestGetAndListRecipes(t *testing.T) {
	ts := setupTestServer(t)
	r := ts.seedRecipe(t, "Pancakes", "flour", "sweet")
	ts.seedRecipe(t, "Salsa", "tomato", "spicy")

	w := ts.do(t, http.MethodGet, "/recipes/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "Pancakes", list[0]["title"])

	w = ts.do(t, http.MethodGet, fmt.Sprintf("/recipes/%d/", r.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Pancakes", decodeBody(t, w)["title"])

	for _, path := range []string{"/recipes/999/", "/recipes/abc/", "/recipes/0/"} {
		w = ts.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"Recipe not found"}`, w.Body.String())
	}
}

func TestUpdateRecipe(t *testing.T) {
	ts := setupTestServer(t)
	r := ts.seedRecipe(t, "Pancakes", "flour", "sweet")
	ts.seedRecipe(t, "Salsa", "tomato", "spicy")
	path := fmt.Sprintf("/recipes/%d/", r.ID)

	w := ts.do(t, http.MethodPut, path, map[string]interface{}{"reviews": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, 4.0, body["reviews"])
	assert.Equal(t, "flour", body["ingredients"])

	w = ts.do(t, http.MethodPut, path, map[string]interface{}{"title": "Salsa"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPut, path, map[string]interface{}{"preparation_time": -5})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPut, "/recipes/999/", map[string]interface{}{"reviews": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteRecipe(t *testing.T) {
	ts := setupTestServer(t)
	r := ts.seedRecipe(t, "Pancakes", "flour", "sweet")
	path := fmt.Sprintf("/recipes/%d/", r.ID)

	w := ts.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, ts.recipeCount(t))

	w = ts.do(t, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRespondErrorInternal(t *testing.T) {
	ts := setupTestServer(t)

	sqlDB, err := ts.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	w := ts.do(t, http.MethodGet, "/recipes/", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())

	w = ts.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
