package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pageza/recipe-chatbot/backend/internal/service"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"go.uber.org/zap"
)

const recipeNotFound = "Recipe not found"

// structuredKeys maps the labels of a pasted structured recipe onto request fields.
// They win over the plain field names when both are present.
var structuredKeys = []struct {
	label string
	field string
}{
	{"Title:", "title"},
	{"Ingredients:", "ingredients"},
	{"Instructions:", "instructions"},
	{"Taste:", "taste"},
	{"Cuisine:", "cuisine_type"},
	{"Cuisine Type:", "cuisine_type"},
	{"Preparation Time:", "preparation_time"},
	{"Reviews:", "reviews"},
}

// RecipeHandler serves the recipe catalog endpoints
type RecipeHandler struct {
	recipes   service.IRecipeService
	intake    service.IRecipeIntake
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes service.IRecipeService, intake service.IRecipeIntake, logger *zap.Logger) *RecipeHandler {
	return &RecipeHandler{
		recipes:   recipes,
		intake:    intake,
		validator: newValidator(),
		logger:    logger,
	}
}

func (h *RecipeHandler) RegisterRoutes(router gin.IRoutes) {
	router.GET("/recipes/", h.ListRecipes)
	router.POST("/recipes/", h.CreateRecipe)
	router.GET("/recipes/:id/", h.GetRecipe)
	router.PUT("/recipes/:id/", h.UpdateRecipe)
	router.DELETE("/recipes/:id/", h.DeleteRecipe)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, recipeNotFound)
		return
	}
	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": recipeNotFound})
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, recipeNotFound)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// CreateRecipe accepts a multipart image upload, a JSON body using the structured
// "Title:" style keys, a JSON body with raw_text, or a plain JSON recipe, checked in
// that order.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	if c.ContentType() == gin.MIMEMultipartPOSTForm {
		h.createFromUpload(c)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondValidation(c, bindError(err))
		return
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		if len(strings.TrimSpace(string(body))) == 0 {
			respondError(c, h.logger, service.ErrMissingRawText, recipeNotFound)
			return
		}
		respondValidation(c, bindError(err))
		return
	}

	switch {
	case hasStructuredKeys(fields):
		h.createFromFields(c, mapStructuredKeys(fields))
	case rawText(fields) != "":
		recipe, err := h.intake.FromText(c.Request.Context(), rawText(fields))
		if err != nil {
			respondError(c, h.logger, err, recipeNotFound)
			return
		}
		c.JSON(http.StatusCreated, recipe)
	case fields["title"] != nil:
		h.createFromFields(c, fields)
	default:
		respondError(c, h.logger, service.ErrMissingRawText, recipeNotFound)
	}
}

func (h *RecipeHandler) createFromUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		if raw := strings.TrimSpace(c.PostForm("raw_text")); raw != "" {
			recipe, err := h.intake.FromText(c.Request.Context(), raw)
			if err != nil {
				respondError(c, h.logger, err, recipeNotFound)
				return
			}
			c.JSON(http.StatusCreated, recipe)
			return
		}
		respondError(c, h.logger, service.ErrMissingRawText, recipeNotFound)
		return
	}

	f, err := file.Open()
	if err != nil {
		respondValidation(c, map[string]string{"file": "Could not read the uploaded file."})
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Request body too large"})
			return
		}
		respondValidation(c, map[string]string{"file": "Could not read the uploaded file."})
		return
	}
	if len(data) == 0 {
		respondValidation(c, map[string]string{"file": "The submitted file is empty."})
		return
	}

	recipe, err := h.intake.FromImage(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), data)
	if err != nil {
		respondError(c, h.logger, err, recipeNotFound)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) createFromFields(c *gin.Context, fields map[string]json.RawMessage) {
	body, err := json.Marshal(fields)
	if err != nil {
		respondValidation(c, bindError(err))
		return
	}

	var req types.CreateRecipeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondValidation(c, bindError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, validationFields(err))
		return
	}

	recipe := service.RecipeFromRequest(req)
	if err := h.recipes.Create(c.Request.Context(), recipe); err != nil {
		respondError(c, h.logger, err, recipeNotFound)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": recipeNotFound})
		return
	}

	var req types.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, bindError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, validationFields(err))
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, err, recipeNotFound)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": recipeNotFound})
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, recipeNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

func hasStructuredKeys(fields map[string]json.RawMessage) bool {
	for _, k := range []string{"Title:", "Ingredients:", "Instructions:"} {
		if _, ok := fields[k]; ok {
			return true
		}
	}
	return false
}

func mapStructuredKeys(fields map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		if !strings.HasSuffix(k, ":") {
			out[k] = v
		}
	}
	for _, sk := range structuredKeys {
		if v, ok := fields[sk.label]; ok {
			out[sk.field] = v
		}
	}
	return out
}

func rawText(fields map[string]json.RawMessage) string {
	raw, ok := fields["raw_text"]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}
