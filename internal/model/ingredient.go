package model

import "time"

// Ingredient is a pantry entry maintained independently of Recipe.Ingredients.
type Ingredient struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Quantity    float64   `gorm:"not null;default:0" json:"quantity"`
	Unit        *string   `gorm:"size:30" json:"unit"`
	LastUpdated time.Time `gorm:"autoUpdateTime" json:"last_updated"`
}
