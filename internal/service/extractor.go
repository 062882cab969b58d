package service

import (
	"context"
	"errors"
	"strings"

	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"go.uber.org/zap"
)

const preferencePrompt = `You are an assistant that extracts food preferences and available ingredients from user messages.
Respond ONLY with a JSON object containing "preference" (a string) and "available_ingredients" (a list of strings).
Example input:
"I want something sweet today and I have flour, sugar, eggs, butter."
Example output:
{"preference": "sweet", "available_ingredients": ["flour", "sugar", "eggs", "butter"]}`

// Completer is the chat capability the extractors need from LLMClient
type Completer interface {
	CompleteJSON(ctx context.Context, system, user string) (string, error)
}

// LLMExtractor turns a chatbot message into a ParsedQuery using the language model
type LLMExtractor struct {
	llm    Completer
	logger *zap.Logger
}

// NewLLMExtractor creates a new LLMExtractor instance
func NewLLMExtractor(llm Completer, logger *zap.Logger) *LLMExtractor {
	return &LLMExtractor{llm: llm, logger: logger}
}

// Extract asks the model for the preference and ingredients in text. Any failure is
// returned as *ExtractionFailure.
func (e *LLMExtractor) Extract(ctx context.Context, text string) (types.ParsedQuery, error) {
	content, err := e.llm.CompleteJSON(ctx, preferencePrompt, "User Message:\n"+text)
	if err != nil {
		e.logger.Error("preference extraction request failed", zap.Error(err))
		return types.ParsedQuery{}, extractionFailure(ExtractionUnavailable, err)
	}
	e.logger.Debug("preference extraction response", zap.String("content", content))

	var raw struct {
		Preference           *string  `json:"preference"`
		AvailableIngredients []string `json:"available_ingredients"`
	}
	if err := decodeModelJSON(content, &raw); err != nil {
		e.logger.Warn("preference extraction returned malformed output", zap.Error(err))
		return types.ParsedQuery{}, err
	}

	query := types.ParsedQuery{AvailableIngredients: make([]string, 0, len(raw.AvailableIngredients))}
	if raw.Preference != nil {
		query.Preference = strings.TrimSpace(*raw.Preference)
	}
	for _, ing := range raw.AvailableIngredients {
		if ing = strings.TrimSpace(ing); ing != "" {
			query.AvailableIngredients = append(query.AvailableIngredients, ing)
		}
	}

	if query.Preference == "" || len(query.AvailableIngredients) == 0 {
		return types.ParsedQuery{}, extractionFailure(ExtractionIncomplete,
			errors.New("preference or available_ingredients missing"))
	}
	return query, nil
}
