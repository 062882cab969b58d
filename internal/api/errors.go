package api

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pageza/recipe-chatbot/backend/internal/service"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"go.uber.org/zap"
)

const nonFieldErrors = "non_field_errors"

// fieldError is a request problem that belongs to one input field
type fieldError struct {
	field   string
	message string
}

func (e *fieldError) Error() string {
	return e.field + ": " + e.message
}

func newFieldError(field, message string) error {
	return &fieldError{field: field, message: message}
}

// newValidator returns a validator that reports fields by their JSON names
func newValidator() *validator.Validate {
	return types.NewValidator()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}

// fieldKey turns a validator namespace such as "ChatbotRequest.available_ingredients[2]"
// into "available_ingredients"
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i != -1 {
		ns = ns[i+1:]
	}
	if i := strings.IndexByte(ns, '['); i != -1 {
		ns = ns[:i]
	}
	return ns
}

// validationFields returns the per-field messages for err, or nil if err is not a
// validation problem
func validationFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			key := fieldKey(fe)
			if _, seen := fields[key]; !seen {
				fields[key] = validationMessage(fe)
			}
		}
		return fields
	}

	var ferr *fieldError
	if errors.As(err, &ferr) {
		return map[string]string{ferr.field: ferr.message}
	}

	switch {
	case errors.Is(err, service.ErrDuplicateTitle):
		return map[string]string{"title": service.ErrDuplicateTitle.Error()}
	case errors.Is(err, service.ErrMissingTitle):
		return map[string]string{"title": "This field may not be blank."}
	}
	return nil
}

func respondValidation(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":  "validation failed",
		"fields": fields,
	})
}

// respondError maps a service error onto the HTTP error taxonomy. notFound is the message
// used for a missing resource.
func respondError(c *gin.Context, log *zap.Logger, err error, notFound string) {
	if fields := validationFields(err); fields != nil {
		respondValidation(c, fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrRecipeNotFound), errors.Is(err, service.ErrIngredientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFound})
	case errors.Is(err, service.ErrMissingRawText),
		errors.Is(err, service.ErrUnparsableText),
		errors.Is(err, service.ErrUnparsableImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case service.IsExtractionFailure(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not extract the requested details."})
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

// parseID reads a positive numeric :id path parameter
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// bindError reports a body that could not be decoded at all
func bindError(err error) map[string]string {
	return map[string]string{nonFieldErrors: "Invalid request body: " + err.Error()}
}
