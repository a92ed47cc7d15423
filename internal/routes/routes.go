package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/cache"
	handler "github.com/bagaichadharanadm/bagaicha-dharan/internal/handlers"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/middleware"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/repository"
	authservice "github.com/bagaichadharanadm/bagaicha-dharan/internal/services/auth"
	service "github.com/bagaichadharanadm/bagaicha-dharan/internal/services/expense"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, rdb *redis.Client, jwtSecret []byte, log *zap.Logger) {
	expenseRepo := repository.NewExpenseRepository(db)
	supplierExpenseRepo := repository.NewSupplierExpenseRepository(db)
	userRepo := repository.NewUserRepository(db)
	referenceRepo := repository.NewReferenceRepository(db)

	dailyCache := cache.NewDailyCache(rdb, log)

	expenseService := service.NewService(expenseRepo, supplierExpenseRepo, dailyCache, log)
	authService := authservice.NewService(userRepo, jwtSecret, log)

	expenseHandler := handler.NewExpenseHandler(expenseService)
	authHandler := handler.NewAuthHandler(authService)
	referenceHandler := handler.NewReferenceHandler(referenceRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Credential auth
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)

	// Expense lifecycle. Edit is behind Auth only: the service owns the
	// admin check so the authorization failure is a typed error.
	expenses := api.Group("/expenses", middleware.Auth(authService))
	expenses.POST("", expenseHandler.Create)
	expenses.PUT("", expenseHandler.Edit)
	expenses.GET("/daily/:tranDate", expenseHandler.Daily)

	// Admin review workflow
	review := expenses.Group("", middleware.RequireAdmin())
	review.GET("/unreviewed", expenseHandler.Unreviewed)
	review.POST("/accept-all", expenseHandler.AcceptAll)
	review.POST("/reject-all", expenseHandler.RejectAll)
	review.POST("/accept/:id", expenseHandler.Accept)
	review.POST("/reject/:id", expenseHandler.Reject)

	// Supplier bills
	supplierExpenses := api.Group("/supplier-expenses", middleware.Auth(authService))
	supplierExpenses.POST("", expenseHandler.CreateSupplierExpense)
	supplierExpenses.GET("/daily/:tranDate", expenseHandler.DailySupplierExpenses)

	// Master data
	refs := api.Group("", middleware.Auth(authService))
	refs.GET("/suppliers", referenceHandler.Suppliers)
	refs.GET("/items", referenceHandler.Items)
	refs.GET("/employees", referenceHandler.Employees)
}
