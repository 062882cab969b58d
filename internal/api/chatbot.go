package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/pageza/recipe-chatbot/backend/internal/metrics"
	"github.com/pageza/recipe-chatbot/backend/internal/service"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"go.uber.org/zap"
)

const (
	msgEitherRequired   = "Either 'message' or both 'preference' and 'available_ingredients' must be provided."
	msgExtractionFailed = "Could not extract preference or available ingredients from the message."
	msgNoMatch          = "No matching recipes found."
)

// ChatbotHandler answers recipe recommendation requests
type ChatbotHandler struct {
	extractor   service.PreferenceExtractor
	recommender service.IRecommendationService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewChatbotHandler creates a new ChatbotHandler instance
func NewChatbotHandler(extractor service.PreferenceExtractor, recommender service.IRecommendationService, logger *zap.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		extractor:   extractor,
		recommender: recommender,
		validator:   newValidator(),
		logger:      logger,
	}
}

func (h *ChatbotHandler) RegisterRoutes(router gin.IRoutes) {
	router.POST("/chatbot/", h.Chat)
}

// Chat recommends recipes for either a free-form message or an explicit preference and
// ingredient list. A non-blank message takes precedence.
func (h *ChatbotHandler) Chat(c *gin.Context) {
	var req types.ChatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, bindError(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		respondValidation(c, validationFields(err))
		return
	}

	message := strings.TrimSpace(req.Message)
	preference := strings.TrimSpace(req.Preference)
	if message == "" && (preference == "" || len(req.AvailableIngredients) == 0) {
		respondValidation(c, map[string]string{nonFieldErrors: msgEitherRequired})
		return
	}

	available := req.AvailableIngredients
	if message != "" {
		query, ok := h.extract(c, message)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgExtractionFailed})
			return
		}
		preference, available = query.Preference, query.AvailableIngredients
	}

	results, err := h.recommender.Recommend(c.Request.Context(), preference, available)
	if err != nil {
		respondError(c, h.logger, err, msgNoMatch)
		return
	}

	if len(results) == 0 {
		metrics.Recommendations.WithLabelValues("no_match").Inc()
		c.JSON(http.StatusNotFound, gin.H{"message": msgNoMatch})
		return
	}

	metrics.Recommendations.WithLabelValues("matched").Inc()
	c.JSON(http.StatusOK, gin.H{"recommendations": results})
}

func (h *ChatbotHandler) extract(c *gin.Context, message string) (types.ParsedQuery, bool) {
	normalized := service.NormalizeMessage(message)
	if normalized == "" {
		metrics.ExtractionFailures.WithLabelValues(service.ExtractionIncomplete.String()).Inc()
		return types.ParsedQuery{}, false
	}

	query, err := h.extractor.Extract(c.Request.Context(), normalized)
	if err != nil {
		kind := "error"
		var ef *service.ExtractionFailure
		if errors.As(err, &ef) {
			kind = ef.Kind.String()
		}
		metrics.ExtractionFailures.WithLabelValues(kind).Inc()
		h.logger.Warn("preference extraction failed", zap.String("kind", kind), zap.Error(err))
		return types.ParsedQuery{}, false
	}

	if strings.TrimSpace(query.Preference) == "" || len(query.AvailableIngredients) == 0 {
		metrics.ExtractionFailures.WithLabelValues(service.ExtractionIncomplete.String()).Inc()
		return types.ParsedQuery{}, false
	}
	return query, true
}
