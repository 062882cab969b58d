package service

import (
	"bufio"
	"context"
	"strings"

	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"go.uber.org/zap"
)

const recipePrompt = `You are an assistant that extracts recipe details from free text.
Respond ONLY with a JSON object with the keys "title", "ingredients" (a list of strings),
"instructions", "taste", "cuisine_type" and "preparation_time" (minutes, as a number).
Use an empty string for any field that is not present in the text.`

type recipeField int

const (
	fieldNone recipeField = iota
	fieldTitle
	fieldIngredients
	fieldInstructions
	fieldTaste
	fieldCuisine
	fieldPrepTime
	fieldReviews
)

// recipeKeys maps the lowercased "Key:" labels of structured recipe files to fields
var recipeKeys = map[string]recipeField{
	"title":            fieldTitle,
	"ingredients":      fieldIngredients,
	"instructions":     fieldInstructions,
	"taste":            fieldTaste,
	"cuisine type":     fieldCuisine,
	"cuisine":          fieldCuisine,
	"preparation time": fieldPrepTime,
	"reviews":          fieldReviews,
}

// splitKeyLine returns the field named by a "Key: value" line
func splitKeyLine(line string) (recipeField, string, bool) {
	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return fieldNone, "", false
	}
	field, ok := recipeKeys[strings.ToLower(strings.TrimSpace(line[:idx]))]
	if !ok {
		return fieldNone, "", false
	}
	return field, strings.TrimSpace(line[idx+1:]), true
}

type recipeBlock struct {
	values map[recipeField][]string
}

func (b *recipeBlock) add(f recipeField, v string) {
	if v == "" {
		return
	}
	b.values[f] = append(b.values[f], v)
}

func (b *recipeBlock) parsed() types.ParsedRecipe {
	join := func(f recipeField, sep string) string {
		return strings.Join(b.values[f], sep)
	}
	return types.ParsedRecipe{
		Title:           join(fieldTitle, " "),
		Ingredients:     types.IngredientText(join(fieldIngredients, ", ")),
		Instructions:    types.InstructionText(join(fieldInstructions, "\n")),
		Taste:           join(fieldTaste, " "),
		CuisineType:     join(fieldCuisine, " "),
		PreparationTime: leadingNumber(join(fieldPrepTime, " ")),
		Reviews:         leadingNumber(join(fieldReviews, " ")),
	}
}

// invalidNumber stands in for a value that reads as a number but cannot be stored, so
// the min=0 rule on the create request rejects the record instead of saving a wrong count.
const invalidNumber types.FlexibleInt = -1

func leadingNumber(s string) types.FlexibleInt {
	v, err := types.LeadingInt(s)
	if err != nil {
		return invalidNumber
	}
	return types.FlexibleInt(v)
}

// ParseStructuredText reads recipes laid out as "Key: value" lines. Every "Title:" line
// starts a new record; lines without a known key continue the previous field. Text with no
// "Title:" line yields no records.
func ParseStructuredText(text string) []types.ParsedRecipe {
	var (
		recipes []types.ParsedRecipe
		current *recipeBlock
		last    = fieldNone
	)

	flush := func() {
		if current != nil {
			recipes = append(recipes, current.parsed())
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		field, value, ok := splitKeyLine(line)
		if ok && field == fieldTitle {
			flush()
			current = &recipeBlock{values: make(map[recipeField][]string)}
		}
		if current == nil {
			continue
		}

		if ok {
			current.add(field, value)
			last = field
			continue
		}
		if last != fieldNone {
			current.add(last, line)
		}
	}
	flush()

	return recipes
}

// LLMRecipeParser extracts recipe fields from unstructured text with the language model
type LLMRecipeParser struct {
	llm    Completer
	logger *zap.Logger
}

// NewLLMRecipeParser creates a new LLMRecipeParser instance
func NewLLMRecipeParser(llm Completer, logger *zap.Logger) *LLMRecipeParser {
	return &LLMRecipeParser{llm: llm, logger: logger}
}

// ParseText implements RecipeParser. A record without a title is returned as is; callers
// decide whether it can be stored.
func (p *LLMRecipeParser) ParseText(ctx context.Context, text string) (types.ParsedRecipe, error) {
	content, err := p.llm.CompleteJSON(ctx, recipePrompt, "Recipe Text:\n"+text)
	if err != nil {
		p.logger.Error("recipe parsing request failed", zap.Error(err))
		return types.ParsedRecipe{}, extractionFailure(ExtractionUnavailable, err)
	}
	p.logger.Debug("recipe parsing response", zap.String("content", content))

	var recipe types.ParsedRecipe
	if err := decodeModelJSON(content, &recipe); err != nil {
		p.logger.Warn("recipe parsing returned malformed output", zap.Error(err))
		return types.ParsedRecipe{}, err
	}
	recipe.Title = strings.TrimSpace(recipe.Title)
	recipe.Taste = strings.TrimSpace(recipe.Taste)
	recipe.CuisineType = strings.TrimSpace(recipe.CuisineType)
	return recipe, nil
}
