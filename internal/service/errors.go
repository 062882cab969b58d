package service

import (
	"errors"
	"fmt"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrDuplicateTitle     = errors.New("recipe with this title already exists")
	ErrMissingTitle       = errors.New("title must not be empty")
	ErrInvalidNumber      = errors.New("preparation time and reviews must be whole non-negative numbers")

	ErrMissingRawText  = errors.New("No raw_text provided for unstructured recipe.")
	ErrUnparsableText  = errors.New("Could not parse recipe details from the provided text.")
	ErrUnparsableImage = errors.New("Could not parse recipe title from image.")

	ErrLLMNotConfigured    = errors.New("llm api key is not configured")
	ErrVisionNotConfigured = errors.New("llm vision model is not configured")
)

// ExtractionKind classifies why an external extraction call produced no usable result
type ExtractionKind int

const (
	// ExtractionMalformed means the provider answered with something that is not JSON
	ExtractionMalformed ExtractionKind = iota + 1
	// ExtractionIncomplete means the JSON lacked required keys or they were empty
	ExtractionIncomplete
	// ExtractionUnavailable covers transport errors, provider errors and timeouts
	ExtractionUnavailable
)

func (k ExtractionKind) String() string {
	switch k {
	case ExtractionMalformed:
		return "malformed"
	case ExtractionIncomplete:
		return "incomplete"
	case ExtractionUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// ExtractionFailure is returned by every component that asks the language model for
// structured data. It never carries a partial result.
type ExtractionFailure struct {
	Kind ExtractionKind
	Err  error
}

func (e *ExtractionFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extraction %s", e.Kind)
	}
	return fmt.Sprintf("extraction %s: %v", e.Kind, e.Err)
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Err
}

func extractionFailure(kind ExtractionKind, err error) *ExtractionFailure {
	return &ExtractionFailure{Kind: kind, Err: err}
}

// IsExtractionFailure reports whether err is or wraps an *ExtractionFailure
func IsExtractionFailure(err error) bool {
	var ef *ExtractionFailure
	return errors.As(err, &ef)
}
