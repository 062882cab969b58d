package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pageza/recipe-chatbot/backend/internal/database"
	"github.com/pageza/recipe-chatbot/backend/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services are the collaborators the HTTP handlers depend on
type Services struct {
	Recipes     service.IRecipeService
	Ingredients service.IIngredientService
	Recommender service.IRecommendationService
	Extractor   service.PreferenceExtractor
	Intake      service.IRecipeIntake
}

// HealthCheck returns the health status of the API and its database
func HealthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "ok",
		})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, db *gorm.DB, svc Services, log *zap.Logger) {
	router.GET("/health", HealthCheck(db))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	NewIngredientHandler(svc.Ingredients, log).RegisterRoutes(router)
	NewRecipeHandler(svc.Recipes, svc.Intake, log).RegisterRoutes(router)
	NewChatbotHandler(svc.Extractor, svc.Recommender, log).RegisterRoutes(router)
}
