package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pageza/recipe-chatbot/backend/internal/mocks"
	"github.com/pageza/recipe-chatbot/backend/internal/testhelpers"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

type ingestFixture struct {
	recipes    *RecipeService
	parser     *mocks.MockRecipeParser
	recognizer *mocks.MockTextRecognizer
	svc        *IngestionService
}

func newIngestFixture(t *testing.T, workers int) *ingestFixture {
	f := &ingestFixture{
		recipes:    NewRecipeService(testhelpers.NewSQLiteDB(t)),
		parser:     new(mocks.MockRecipeParser),
		recognizer: new(mocks.MockTextRecognizer),
	}
	f.svc = NewIngestionService(f.recipes, f.parser, f.recognizer, workers, zap.NewNop())
	return f
}

func TestIngestionService_LoadFile(t *testing.T) {
	f := newIngestFixture(t, 1)
	path := writeFile(t, t.TempDir(), "my_fav_recipes.txt", favRecipes+"\nTitle:\nIngredients: nothing\n")

	report, err := f.svc.LoadFile(testContext(), path)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Count(types.IngestCreated))
	assert.Equal(t, 1, report.Count(types.IngestSkipped))

	// Loading again overwrites instead of duplicating
	report, err = f.svc.LoadFile(testContext(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Count(types.IngestUpdated))

	n, err := f.recipes.Count(testContext())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	f.parser.AssertNotCalled(t, "ParseText", mock.Anything, mock.Anything)
}

func TestIngestionService_LoadFileFallsBackToModel(t *testing.T) {
	f := newIngestFixture(t, 1)
	path := writeFile(t, t.TempDir(), "notes.txt", "grandma's cookies with butter")
	f.parser.On("ParseText", mock.Anything, "grandma's cookies with butter").
		Return(types.ParsedRecipe{Title: "Cookies", Ingredients: "butter"}, nil)

	report, err := f.svc.LoadFile(testContext(), path)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, types.IngestCreated, report.Results[0].Outcome)
	assert.Equal(t, "Cookies", report.Results[0].Title)
}

func TestIngestionService_LoadFileErrors(t *testing.T) {
	f := newIngestFixture(t, 1)

	_, err := f.svc.LoadFile(testContext(), filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	path := writeFile(t, t.TempDir(), "notes.txt", "free text")
	f.parser.On("ParseText", mock.Anything, "free text").
		Return(types.ParsedRecipe{}, extractionFailure(ExtractionUnavailable, errors.New("down")))
	_, err = f.svc.LoadFile(testContext(), path)
	assert.True(t, IsExtractionFailure(err))
}

func TestIngestionService_ProcessDirectory(t *testing.T) {
	f := newIngestFixture(t, 3)
	dir := t.TempDir()

	writeFile(t, dir, "a_toast.txt", "Title: Toast\nIngredients: bread")
	writeFile(t, dir, "b_card.JPG", "jpeg")
	writeFile(t, dir, "c_broken.png", "png")
	writeFile(t, dir, "d_notes.txt", "scones with flour")
	writeFile(t, dir, "e_untitled.txt", "just words")
	writeFile(t, dir, ".hidden.txt", "Title: Hidden")
	writeFile(t, dir, "readme.md", "Title: Readme")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.txt"), 0o755))

	f.recognizer.On("Recognize", mock.Anything, []byte("jpeg"), "image/jpeg").Return("Title: Pancakes\nIngredients: flour", nil)
	f.recognizer.On("Recognize", mock.Anything, []byte("png"), "image/png").Return("", errors.New("unreadable"))
	f.parser.On("ParseText", mock.Anything, "scones with flour").Return(types.ParsedRecipe{Title: "Scones"}, nil)
	f.parser.On("ParseText", mock.Anything, "just words").Return(types.ParsedRecipe{}, nil)

	report, err := f.svc.ProcessDirectory(testContext(), dir)
	require.NoError(t, err)

	var got []types.IngestOutcome
	var sources []string
	for _, r := range report.Results {
		got = append(got, r.Outcome)
		sources = append(sources, filepath.Base(r.Source))
	}
	assert.Equal(t, []string{"a_toast.txt", "b_card.JPG", "c_broken.png", "d_notes.txt", "e_untitled.txt"}, sources)
	assert.Equal(t, []types.IngestOutcome{
		types.IngestCreated,
		types.IngestCreated,
		types.IngestFailed,
		types.IngestCreated,
		types.IngestSkipped,
	}, got)
	assert.Contains(t, report.Results[2].Error, "unreadable")

	n, err := f.recipes.Count(testContext())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestIngestionService_ProcessDirectoryMissing(t *testing.T) {
	f := newIngestFixture(t, 1)
	_, err := f.svc.ProcessDirectory(testContext(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestIngestionService_ProcessDirectoryCancelled(t *testing.T) {
	f := newIngestFixture(t, 1)
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "Title: A")

	ctx, cancel := context.WithCancel(testContext())
	cancel()

	report, err := f.svc.ProcessDirectory(ctx, dir)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, types.IngestFailed, report.Results[0].Outcome)
}

func TestIsSupportedFile(t *testing.T) {
	tests := map[string]bool{
		"recipe.txt":      true,
		"card.jpg":        true,
		"card.JPEG":       true,
		"photo.png":       true,
		"photo.gif":       false,
		".recipe.txt":     false,
		"/tmp/x/notes.md": false,
		"/tmp/x/card.png": true,
	}
	for name, want := range tests {
		assert.Equal(t, want, IsSupportedFile(name), name)
	}
}
