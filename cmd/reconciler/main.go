// cmd/reconciler/main.go
package main

import (
	"log"

	"reconciler-service/internal/api/handlers"
	"reconciler-service/internal/api/responses"
	"reconciler-service/internal/config"
	"reconciler-service/internal/core/inspector"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := cfg.Build()
	if err != nil {
		logger = zap.NewNop()
	}
	return logger
}

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	defer logger.Sync()

	responses.InitLogger(logger)

	inspectorService := inspector.NewService(logger)
	reconcilerHandler := handlers.NewReconcilerHandler(inspectorService, logger, cfg.FuzzyThreshold)

	router := gin.Default()

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/reconcile", reconcilerHandler.HandleReconcile)
		apiV1.POST("/reconcile/preview", reconcilerHandler.HandlePreview)
		apiV1.POST("/workbook/inspect", reconcilerHandler.HandleInspect)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP", "service": "reconciler-service"})
	})

	log.Printf("🚀 Reconciler Service (Go) iniciado e escutando na porta %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Falha ao iniciar o servidor de reconciliação: ", err)
	}
}
