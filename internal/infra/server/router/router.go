// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/spendwise/backend/internal/integration/entrypoint/controller"
	"github.com/spendwise/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine              *gin.Engine
	healthController    *controller.HealthController
	categoryController  *controller.CategoryController
	expenseController   *controller.ExpenseController
	analyticsController *controller.AnalyticsController
	profileController   *controller.ProfileController
	budgetController    *controller.BudgetController
	rateLimiter         *middleware.RateLimiter
	authMiddleware      *middleware.AuthMiddleware
	frontendURL         string
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	categoryController *controller.CategoryController,
	expenseController *controller.ExpenseController,
	analyticsController *controller.AnalyticsController,
	profileController *controller.ProfileController,
	budgetController *controller.BudgetController,
	rateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
	frontendURL string,
) *Router {
	return &Router{
		healthController:    healthController,
		categoryController:  categoryController,
		expenseController:   expenseController,
		analyticsController: analyticsController,
		profileController:   profileController,
		budgetController:    budgetController,
		rateLimiter:         rateLimiter,
		authMiddleware:      authMiddleware,
		frontendURL:         frontendURL,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()
	r.engine.Use(middleware.CORS(r.frontendURL))

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		// The category table is static and public
		v1.GET("/categories", r.categoryController.List)

		protected := v1.Group("")
		protected.Use(r.authMiddleware.Authenticate())
		if r.rateLimiter != nil {
			protected.Use(r.rateLimiter.Middleware())
		}

		expenses := protected.Group("/expenses")
		{
			expenses.GET("", r.expenseController.List)
			expenses.POST("", r.expenseController.Create)
			expenses.DELETE("", r.expenseController.Clear)
			expenses.PATCH("/:id", r.expenseController.Update)
			expenses.DELETE("/:id", r.expenseController.Delete)
		}

		analytics := protected.Group("/analytics")
		{
			analytics.GET("", r.analyticsController.Get)
			analytics.GET("/stream", r.analyticsController.Stream)
			analytics.GET("/range", r.analyticsController.DataRange)
		}

		profile := protected.Group("/profile")
		{
			profile.GET("", r.profileController.Get)
			profile.PATCH("", r.profileController.Update)
		}

		protected.GET("/budget", r.budgetController.Status)
	}
}

// Engine returns the underlying Gin engine.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
