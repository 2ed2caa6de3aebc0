// File: santai/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"santai/config"
	"santai/cron"
	"santai/database"
	auditRepo "santai/database/repository/audit"
	commissionRepo "santai/database/repository/commission"
	notificationRepo "santai/database/repository/notification"
	providerRepo "santai/database/repository/provider"
	"santai/handlers"
	"santai/routes"
	"santai/services/channel"
	"santai/services/commission"
	"santai/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.FirebaseInit()

	cloudinaryStorageService, err := utils.Cloudinary()
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize cloudinary storage service: %v", err)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	commRepo := commissionRepo.NewMongoCommissionRepo()
	notifRepo := notificationRepo.NewMongoNotificationRepo()
	audRepo := auditRepo.NewMongoAuditRepo()
	provRepo := providerRepo.NewMongoProviderRepo()

	for name, ensure := range map[string]func() error{
		"commissions":         commRepo.EnsureIndexes,
		"admin_notifications": notifRepo.EnsureIndexes,
		"audit_entries":       audRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure %s indexes: %v", name, err)
		}
	}

	// outbound alert channels.
	fcmChannel, err := channel.NewFCMChannel(utils.FCMClient, config.AppConfig.OpsAlertTopic)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize FCM alert channel: %v", err)
	}
	redisChannel, err := channel.NewRedisChannel(utils.GetCacheClient(), "ops:alerts")
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Redis alert channel: %v", err)
	}

	// services.
	gate := &commission.DefaultAccountGate{
		Providers: provRepo,
		Logger:    logger,
	}

	notifier := &commission.DefaultAdminNotifier{
		Repo:     notifRepo,
		Audit:    audRepo,
		Channels: []channel.Channel{fcmChannel, redisChannel},
		Retry:    commission.DefaultRetryPolicy,
		Logger:   logger,
	}

	lifecycle := &commission.DefaultLifecycleService{
		Repo:          commRepo,
		Gate:          gate,
		Notifier:      notifier,
		Logger:        logger,
		RatePercent:   config.AppConfig.CommissionRatePercent,
		PaymentWindow: config.AppConfig.PaymentWindow,
		LateFee:       config.AppConfig.LateFee,
	}

	sweeper := &commission.Sweeper{
		Repo:      commRepo,
		Lifecycle: lifecycle,
		Audit:     audRepo,
		Logger:    logger,
	}

	tracker := &commission.DefaultAcceptanceTracker{
		Lifecycle:   lifecycle,
		Notifier:    notifier,
		Audit:       audRepo,
		Logger:      logger,
		RatePercent: config.AppConfig.CommissionRatePercent,
	}

	// Start the background sweep worker.
	cron.InitSweepWorker(sweeper)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Commission: handlers.NewCommissionHandler(lifecycle, cloudinaryStorageService, logger),
		Acceptance: handlers.NewAcceptanceHandler(tracker, lifecycle, logger),
		Admin:      handlers.NewAdminHandler(notifRepo, audRepo, logger),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
