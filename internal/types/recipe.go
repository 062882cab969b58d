package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParsedQuery is the structured form of a chatbot message
type ParsedQuery struct {
	Preference           string   `json:"preference"`
	AvailableIngredients []string `json:"available_ingredients"`
}

// RecommendationResult is one recipe returned by the chatbot
type RecommendationResult struct {
	Title           string   `json:"title"`
	Ingredients     []string `json:"ingredients"`
	Instructions    string   `json:"instructions"`
	Taste           *string  `json:"taste"`
	CuisineType     *string  `json:"cuisine_type"`
	PreparationTime int      `json:"preparation_time"`
}

// ParsedRecipe holds recipe fields extracted from free text, an image transcription or a
// structured file. Field types tolerate the shapes language models tend to return.
type ParsedRecipe struct {
	Title           string          `json:"title"`
	Ingredients     IngredientText  `json:"ingredients"`
	Instructions    InstructionText `json:"instructions"`
	Taste           string          `json:"taste"`
	CuisineType     string          `json:"cuisine_type"`
	PreparationTime FlexibleInt     `json:"preparation_time"`
	Reviews         FlexibleInt     `json:"reviews"`
}

// HasTitle reports whether the record can be persisted
func (p ParsedRecipe) HasTitle() bool {
	return strings.TrimSpace(p.Title) != ""
}

// IngredientText accepts either a comma-separated string or a JSON array of strings
type IngredientText string

func (t *IngredientText) UnmarshalJSON(data []byte) error {
	s, err := unmarshalTextOrList(data, ", ")
	if err != nil {
		return fmt.Errorf("ingredients: %w", err)
	}
	*t = IngredientText(s)
	return nil
}

// InstructionText accepts either a string or a JSON array of steps
type InstructionText string

func (t *InstructionText) UnmarshalJSON(data []byte) error {
	s, err := unmarshalTextOrList(data, "\n")
	if err != nil {
		return fmt.Errorf("instructions: %w", err)
	}
	*t = InstructionText(s)
	return nil
}

func unmarshalTextOrList(data []byte, sep string) (string, error) {
	if string(data) == "null" {
		return "", nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		return strings.TrimSpace(str), nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		cleaned := make([]string, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				cleaned = append(cleaned, item)
			}
		}
		return strings.Join(cleaned, sep), nil
	}

	return "", fmt.Errorf("expected string or list of strings, got %s", string(data))
}

// FlexibleInt can handle both string and number values, e.g. 20, "20" or "20 minutes".
// Strings without a leading number decode to zero. Fractions and values outside the
// 32-bit range are rejected.
type FlexibleInt int

func (n *FlexibleInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = 0
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		if num != math.Trunc(num) {
			return fmt.Errorf("expected a whole number, got %s", string(data))
		}
		if num < math.MinInt32 || num > math.MaxInt32 {
			return fmt.Errorf("number %s is out of range", string(data))
		}
		*n = FlexibleInt(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		v, err := LeadingInt(str)
		if err != nil {
			return err
		}
		*n = FlexibleInt(v)
		return nil
	}

	return fmt.Errorf("expected number, got %s", string(data))
}

// LeadingInt parses the optionally signed integer at the start of s and ignores the text
// after it, so "20 minutes" is 20. Text that does not start with a number is 0. A
// fractional number, non-ASCII digits and values outside the 32-bit range are errors.
func LeadingInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	start := 0
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		start = 1
	}

	end := start
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		if r, _ := utf8.DecodeRuneInString(s[start:]); unicode.IsDigit(r) {
			return 0, fmt.Errorf("unsupported digits in %q", s)
		}
		return 0, nil
	}
	if end+1 < len(s) && s[end] == '.' && s[end+1] >= '0' && s[end+1] <= '9' {
		return 0, fmt.Errorf("expected a whole number, got %q", s)
	}

	v, err := strconv.ParseInt(s[:end], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("number %q is out of range", s)
	}
	return int(v), nil
}
