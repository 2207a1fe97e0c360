package main

import (
	"context"
	"strings"

	"marketplace-service/controllers"
	"marketplace-service/database"
	"marketplace-service/events"
	"marketplace-service/logger"
	"marketplace-service/models"
	"marketplace-service/repository"
	"marketplace-service/routes"
	"marketplace-service/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := LoadConfig()
	logger.Initialize(cfg.Environment)
	defer logger.Log.Sync()

	db, err := database.ConnectPostgres(logger.Log,
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderStatusHistory{},
		&models.ProductApprovalHistory{},
	)
	if err != nil {
		logger.Log.Fatal("Error connecting to database", zap.Error(err))
	}
	defer database.Close(db)

	var producer *events.Producer
	if cfg.KafkaBrokers != "" {
		producer = events.NewProducer(strings.Split(cfg.KafkaBrokers, ","), cfg.KafkaTopic, logger.Log)
		defer producer.Close()
	}

	var snsClient *events.SNSPublisher
	if cfg.SNSTopicArn != "" {
		snsClient, err = events.NewSNSPublisher(context.Background())
		if err != nil {
			logger.Log.Warn("SNS publisher unavailable", zap.Error(err))
			snsClient = nil
		}
	}

	var publisher events.Publisher
	if producer != nil || snsClient != nil {
		publisher = events.NewFanout(producer, snsClient, cfg.SNSTopicArn, logger.Log)
	}

	store := repository.NewGormStore(db)
	orderService := services.NewOrderService(store, services.NewOrderNumberGenerator(), publisher, logger.Log)
	approvalService := services.NewApprovalService(store, publisher, logger.Log)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logger.RequestLogger())

	routes.RegisterRoutes(r,
		controllers.NewOrderController(orderService),
		controllers.NewProductController(approvalService),
	)

	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Log.Fatal("Error starting server", zap.Error(err))
	}
}
