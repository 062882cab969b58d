package model

import (
	"strings"
	"time"
)

// Recipe is a catalog entry. Ingredients are stored as comma-joined text in their original order.
type Recipe struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"size:200;not null;uniqueIndex" json:"title"`
	Ingredients     string    `gorm:"type:text;not null" json:"ingredients"`
	Instructions    string    `gorm:"type:text;not null" json:"instructions"`
	Taste           *string   `gorm:"size:100" json:"taste"`
	CuisineType     *string   `gorm:"size:100" json:"cuisine_type"`
	PreparationTime int       `gorm:"not null;default:0" json:"preparation_time"`
	Reviews         int       `gorm:"not null;default:0" json:"reviews"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IngredientList splits the stored ingredient text on commas, trimming each entry and
// dropping empty ones left by stray or trailing commas.
func (r *Recipe) IngredientList() []string {
	parts := strings.Split(r.Ingredients, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			list = append(list, p)
		}
	}
	return list
}

// TasteValue returns the taste tag or an empty string
func (r *Recipe) TasteValue() string {
	if r.Taste == nil {
		return ""
	}
	return *r.Taste
}

// CuisineTypeValue returns the cuisine tag or an empty string
func (r *Recipe) CuisineTypeValue() string {
	if r.CuisineType == nil {
		return ""
	}
	return *r.CuisineType
}

// JoinIngredients is the inverse of IngredientList
func JoinIngredients(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return strings.Join(cleaned, ", ")
}

// StringPtr returns nil for blank values so optional tags are stored as NULL
func StringPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
