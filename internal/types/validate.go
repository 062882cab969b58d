package types

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// CreateRequest maps a parsed record onto the request the JSON create path validates.
// Blank taste and cuisine become nil.
func (p ParsedRecipe) CreateRequest() CreateRecipeRequest {
	req := CreateRecipeRequest{
		Title:           strings.TrimSpace(p.Title),
		Ingredients:     p.Ingredients,
		Instructions:    p.Instructions,
		PreparationTime: p.PreparationTime,
		Reviews:         p.Reviews,
	}
	if taste := strings.TrimSpace(p.Taste); taste != "" {
		req.Taste = &taste
	}
	if cuisine := strings.TrimSpace(p.CuisineType); cuisine != "" {
		req.CuisineType = &cuisine
	}
	return req
}
