package types

// CreateRecipeRequest represents the request body for creating a recipe
type CreateRecipeRequest struct {
	Title           string          `json:"title" validate:"required,max=200"`
	Ingredients     IngredientText  `json:"ingredients" validate:"required"`
	Instructions    InstructionText `json:"instructions" validate:"required"`
	Taste           *string         `json:"taste" validate:"omitnil,max=100"`
	CuisineType     *string         `json:"cuisine_type" validate:"omitnil,max=100"`
	PreparationTime FlexibleInt     `json:"preparation_time" validate:"min=0"`
	Reviews         FlexibleInt     `json:"reviews" validate:"min=0"`
}

// UpdateRecipeRequest represents a partial recipe update; nil fields are left unchanged
type UpdateRecipeRequest struct {
	Title           *string          `json:"title" validate:"omitnil,max=200"`
	Ingredients     *IngredientText  `json:"ingredients"`
	Instructions    *InstructionText `json:"instructions"`
	Taste           *string          `json:"taste" validate:"omitnil,max=100"`
	CuisineType     *string          `json:"cuisine_type" validate:"omitnil,max=100"`
	PreparationTime *FlexibleInt     `json:"preparation_time" validate:"omitnil,min=0"`
	Reviews         *FlexibleInt     `json:"reviews" validate:"omitnil,min=0"`
}

// RawRecipeRequest carries unstructured recipe text for LLM parsing
type RawRecipeRequest struct {
	RawText string `json:"raw_text"`
}

// CreateIngredientRequest represents the request body for creating an ingredient
type CreateIngredientRequest struct {
	Name     string  `json:"name" validate:"required,max=100"`
	Quantity float64 `json:"quantity" validate:"min=0"`
	Unit     *string `json:"unit" validate:"omitnil,max=30"`
}

// UpdateIngredientRequest represents a partial ingredient update
type UpdateIngredientRequest struct {
	Name     *string  `json:"name" validate:"omitnil,min=1,max=100"`
	Quantity *float64 `json:"quantity" validate:"omitnil,min=0"`
	Unit     *string  `json:"unit" validate:"omitnil,max=30"`
}

// ChatbotRequest is either a free-form message or an explicit preference with ingredients
type ChatbotRequest struct {
	Message              string   `json:"message" validate:"max=1000"`
	Preference           string   `json:"preference" validate:"max=200"`
	AvailableIngredients []string `json:"available_ingredients" validate:"dive,max=100"`
}
