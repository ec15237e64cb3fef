package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"crowdship/cmd"
	httpin "crowdship/internal/adapters/in/http"
	"crowdship/internal/adapters/out/postgres/announcementrepo"
	"crowdship/internal/adapters/out/postgres/applicationrepo"
	"crowdship/internal/adapters/out/postgres/deliveryrepo"
	"crowdship/internal/adapters/out/postgres/ratingrepo"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// .env is optional; real deployments configure the environment directly.
	_ = godotenv.Load(".env")

	config, err := cmd.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	gormDB, err := gorm.Open(postgres.Open(config.DatabaseDSN()), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := migrate(gormDB); err != nil {
		logger.Error("Failed to migrate database schema", "error", err)
		os.Exit(1)
	}

	root, err := cmd.NewCompositionRoot(config, gormDB, logger)
	if err != nil {
		logger.Error("Failed to assemble application", "error", err)
		os.Exit(1)
	}

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		logger.Error("Failed to start background jobs", "error", err)
		os.Exit(1)
	}
	defer jobManager.StopAll()

	e := buildEcho(&root)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", config.HTTPPort)); err != nil {
			logger.Info("HTTP server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&announcementrepo.AnnouncementDTO{},
		&applicationrepo.ApplicationDTO{},
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.CheckpointDTO{},
		&deliveryrepo.PositionDTO{},
		&ratingrepo.RatingDTO{},
	)
}

func buildEcho(root *cmd.CompositionRoot) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "Healthy")
	})

	server := httpin.NewServer(
		root.CreateCreateAnnouncementCommandHandler(),
		root.CreatePublishAnnouncementCommandHandler(),
		root.CreateUpdateAnnouncementCommandHandler(),
		root.CreateDeleteAnnouncementCommandHandler(),
		root.CreateApplyToAnnouncementCommandHandler(),
		root.CreateAcceptApplicationCommandHandler(),
		root.CreateRejectApplicationCommandHandler(),
		root.CreateUpdateDeliveryStatusCommandHandler(),
		root.CreateRecordCheckpointCommandHandler(),
		root.CreateRecordLocationCommandHandler(),
		root.CreateGenerateConfirmationCodeCommandHandler(),
		root.CreateConfirmDeliveryCommandHandler(),
		root.CreateRateDeliveryCommandHandler(),
		root.CreateSearchAnnouncementsQueryHandler(),
		root.CreateGetAnnouncementQueryHandler(),
		root.CreateGetDeliveryTrackingQueryHandler(),
	)
	server.RegisterRoutes(e)

	return e
}
