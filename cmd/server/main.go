package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/config"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/logging"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/models"
	"github.com/bagaichadharanadm/bagaicha-dharan/internal/routes"
)

func main() {
	log := logging.Logger()
	defer log.Sync()

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, relying on system env")
	}

	db := config.InitDB(log)

	db.AutoMigrate(
		&models.User{},
		&models.Supplier{},
		&models.Item{},
		&models.Employee{},
		&models.Expense{},
		&models.SupplierExpense{},
		&models.SupplierExpenseDetail{},
		&models.ReviewAuditLog{},
	)

	rdb := config.InitRedis(log)
	jwtSecret := config.JWTSecret(log)

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, rdb, jwtSecret, log)

	addr := ":" + config.Port()
	log.Info("starting server", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
