package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pageza/recipe-chatbot/backend/internal/mocks"
	"github.com/pageza/recipe-chatbot/backend/internal/testhelpers"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type intakeFixture struct {
	recipes    *RecipeService
	parser     *mocks.MockRecipeParser
	recognizer *mocks.MockTextRecognizer
	archive    *mocks.MockImageArchive
	intake     *RecipeIntake
}

func newIntakeFixture(t *testing.T) *intakeFixture {
	f := &intakeFixture{
		recipes:    NewRecipeService(testhelpers.NewSQLiteDB(t)),
		parser:     new(mocks.MockRecipeParser),
		recognizer: new(mocks.MockTextRecognizer),
		archive:    new(mocks.MockImageArchive),
	}
	f.intake = NewRecipeIntake(f.recipes, f.parser, f.recognizer, f.archive, zap.NewNop())
	return f
}

func (f *intakeFixture) count(t *testing.T) int64 {
	n, err := f.recipes.Count(testContext())
	require.NoError(t, err)
	return n
}

func TestRecipeIntake_FromTextStructured(t *testing.T) {
	f := newIntakeFixture(t)

	r, err := f.intake.FromText(testContext(), "Title: Toast\nIngredients: bread, butter\nInstructions: Toast the bread.\nTaste: savory")
	require.NoError(t, err)
	assert.Equal(t, "Toast", r.Title)
	assert.Equal(t, "bread, butter", r.Ingredients)
	f.parser.AssertNotCalled(t, "ParseText", mock.Anything, mock.Anything)
}

func TestRecipeIntake_FromTextUsesModel(t *testing.T) {
	f := newIntakeFixture(t)
	raw := "my nan's scones, flour and butter, bake 12 min"
	f.parser.On("ParseText", mock.Anything, raw).Return(types.ParsedRecipe{
		Title:        "Scones",
		Ingredients:  "flour, butter",
		Instructions: "Bake 12 minutes.",
		Taste:        "sweet",
	}, nil)

	r, err := f.intake.FromText(testContext(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Scones", r.Title)
	assert.Equal(t, "sweet", r.TasteValue())
}

func TestRecipeIntake_FromTextFailures(t *testing.T) {
	t.Run("empty text", func(t *testing.T) {
		f := newIntakeFixture(t)
		_, err := f.intake.FromText(testContext(), "  ")
		assert.ErrorIs(t, err, ErrMissingRawText)
	})

	t.Run("untitled parse", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.parser.On("ParseText", mock.Anything, "gibberish").Return(types.ParsedRecipe{Ingredients: "x"}, nil)
		_, err := f.intake.FromText(testContext(), "gibberish")
		assert.ErrorIs(t, err, ErrUnparsableText)
		assert.Zero(t, f.count(t))
	})

	t.Run("parser error", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.parser.On("ParseText", mock.Anything, "gibberish").
			Return(types.ParsedRecipe{}, extractionFailure(ExtractionMalformed, nil))
		_, err := f.intake.FromText(testContext(), "gibberish")
		assert.ErrorIs(t, err, ErrUnparsableText)
		assert.Zero(t, f.count(t))
	})

	t.Run("duplicate title", func(t *testing.T) {
		f := newIntakeFixture(t)
		_, err := f.intake.FromText(testContext(), "Title: Toast\nIngredients: bread\nInstructions: Toast.")
		require.NoError(t, err)
		_, err = f.intake.FromText(testContext(), "Title: Toast\nIngredients: rye\nInstructions: Toast.")
		assert.ErrorIs(t, err, ErrDuplicateTitle)
		assert.Equal(t, int64(1), f.count(t))
	})
}

func TestRecipeIntake_Validation(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		parsed types.ParsedRecipe
		field  string
	}{
		{"long title", "long", types.ParsedRecipe{Title: strings.Repeat("t", 201), Ingredients: "x", Instructions: "y"}, "title"},
		{"no ingredients", "bare", types.ParsedRecipe{Title: "Bare", Instructions: "y", Taste: "sweet"}, "ingredients"},
		{"no instructions", "bare", types.ParsedRecipe{Title: "Bare", Ingredients: "x"}, "instructions"},
		{"long taste", "taste", types.ParsedRecipe{Title: "Bare", Ingredients: "x", Instructions: "y", Taste: strings.Repeat("s", 101)}, "taste"},
		{"negative reviews", "reviews", types.ParsedRecipe{Title: "Bare", Ingredients: "x", Instructions: "y", Reviews: -1}, "reviews"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIntakeFixture(t)
			f.parser.On("ParseText", mock.Anything, tt.raw).Return(tt.parsed, nil)

			_, err := f.intake.FromText(testContext(), tt.raw)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.field, verrs[0].Field())
			assert.Zero(t, f.count(t))
		})
	}

	t.Run("structured text without ingredients", func(t *testing.T) {
		f := newIntakeFixture(t)
		_, err := f.intake.FromText(testContext(), "Title: Bare\nTaste: sweet")
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Zero(t, f.count(t))
	})

	t.Run("structured text with fractional preparation time", func(t *testing.T) {
		f := newIntakeFixture(t)
		_, err := f.intake.FromText(testContext(), "Title: Stew\nIngredients: beef\nInstructions: Simmer.\nPreparation Time: 1.5 hours")
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "preparation_time", verrs[0].Field())
		assert.Zero(t, f.count(t))
	})
}

func TestRecipeIntake_FromImage(t *testing.T) {
	f := newIntakeFixture(t)
	img := []byte("jpeg")
	f.archive.On("Store", mock.Anything, "card.jpg", "image/jpeg", img).Return("recipes/uploads/x.jpg", nil)
	f.recognizer.On("Recognize", mock.Anything, img, "image/jpeg").Return("Title: Pancakes\nIngredients: flour\nInstructions: Fry.", nil)

	r, err := f.intake.FromImage(testContext(), "card.jpg", "image/jpeg", img)
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", r.Title)
	f.archive.AssertExpectations(t)
}

func TestRecipeIntake_FromImageArchiveFailureIsIgnored(t *testing.T) {
	f := newIntakeFixture(t)
	img := []byte("jpeg")
	f.archive.On("Store", mock.Anything, "card.jpg", "image/jpeg", img).Return("", errors.New("s3 down"))
	f.recognizer.On("Recognize", mock.Anything, img, "image/jpeg").Return("Title: Pancakes\nIngredients: flour\nInstructions: Fry.", nil)

	_, err := f.intake.FromImage(testContext(), "card.jpg", "image/jpeg", img)
	assert.NoError(t, err)
}

func TestRecipeIntake_FromImageUnparsable(t *testing.T) {
	t.Run("no title", func(t *testing.T) {
		f := newIntakeFixture(t)
		img := []byte("jpeg")
		f.archive.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", nil)
		f.recognizer.On("Recognize", mock.Anything, img, "image/jpeg").Return("smudged", nil)
		f.parser.On("ParseText", mock.Anything, "smudged").Return(types.ParsedRecipe{}, nil)

		_, err := f.intake.FromImage(testContext(), "card.jpg", "image/jpeg", img)
		assert.ErrorIs(t, err, ErrUnparsableImage)
		assert.Zero(t, f.count(t))
	})

	t.Run("recognizer failure", func(t *testing.T) {
		f := newIntakeFixture(t)
		f.archive.On("Store", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", nil)
		f.recognizer.On("Recognize", mock.Anything, mock.Anything, mock.Anything).
			Return("", extractionFailure(ExtractionUnavailable, errors.New("timeout")))

		_, err := f.intake.FromImage(testContext(), "card.jpg", "image/jpeg", []byte("jpeg"))
		assert.ErrorIs(t, err, ErrUnparsableImage)
		f.parser.AssertNotCalled(t, "ParseText", mock.Anything, mock.Anything)
	})
}
