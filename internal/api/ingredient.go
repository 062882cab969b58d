package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pageza/recipe-chatbot/backend/internal/service"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"go.uber.org/zap"
)

const ingredientNotFound = "Ingredient not found"

// IngredientHandler serves the pantry ingredient endpoints
type IngredientHandler struct {
	ingredients service.IIngredientService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewIngredientHandler creates a new IngredientHandler instance
func NewIngredientHandler(ingredients service.IIngredientService, logger *zap.Logger) *IngredientHandler {
	return &IngredientHandler{
		ingredients: ingredients,
		validator:   newValidator(),
		logger:      logger,
	}
}

func (h *IngredientHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/ingredients/", h.ListIngredients)
	router.POST("/ingredients/", h.CreateIngredient)
	router.GET("/ingredients/:id/", h.GetIngredient)
	router.PUT("/ingredients/:id/", h.UpdateIngredient)
	router.DELETE("/ingredients/:id/", h.DeleteIngredient)
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, ingredientNotFound)
		return
	}
	c.JSON(http.StatusOK, ingredients)
}

func (h *IngredientHandler) CreateIngredient(c *gin.Context) {
	var req types.CreateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, bindError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, validationFields(err))
		return
	}

	ingredient, err := h.ingredients.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err, ingredientNotFound)
		return
	}
	c.JSON(http.StatusCreated, ingredient)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ingredientNotFound})
		return
	}

	ingredient, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, ingredientNotFound)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ingredientNotFound})
		return
	}

	var req types.UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, bindError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, validationFields(err))
		return
	}

	ingredient, err := h.ingredients.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err, ingredientNotFound)
		return
	}
	c.JSON(http.StatusOK, ingredient)
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": ingredientNotFound})
		return
	}

	if err := h.ingredients.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, ingredientNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}
