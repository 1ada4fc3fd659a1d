package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barangay/internal/certificate"
	"barangay/internal/db"
	"barangay/internal/lifecycle"
	"barangay/internal/notify"
	"barangay/internal/server"
	"barangay/internal/storage"
	"barangay/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP server",
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	config, err := loadConfig()
	if err != nil {
		return err
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	applicationRepo := store.NewApplicationRepository(pool)
	userRepo := store.NewUserRepository(pool)
	serviceRepo := store.NewServiceRepository(pool)
	eventRepo := store.NewApplicationEventRepository(pool)

	var sender lifecycle.NotificationSender = notify.NewLogSender(logger)
	if config.EmailEnabled {
		sender = notify.NewSESSender(ses.NewFromConfig(awsConfig), config.SESFromEmail)
	}

	renderer := certificate.NewRenderer(certificate.Options{
		Office:                config.Office,
		FreezeDatesAtApproval: config.FreezeDatesAtApproval,
	})

	engine := lifecycle.New(lifecycle.Dependencies{
		Applications: applicationRepo,
		Residents:    userRepo,
		Services:     serviceRepo,
		Notifier:     sender,
		Events:       eventRepo,
		Renderer:     renderer,
		Logger:       logger,
	}, lifecycle.Options{
		LegacyRemarksSignal: config.LegacyRemarksSignal,
		EnforceOrdering:     config.EnforceOrdering,
		DedupePickupNotice:  config.DedupePickupNotice,
		NotifyTimeout:       time.Duration(config.NotifyTimeoutSec) * time.Second,
	})

	files := storage.NewRequirementFiles(
		s3.NewPresignClient(s3.NewFromConfig(awsConfig)),
		config.S3BucketName,
		time.Duration(config.PresignExpirySec)*time.Second,
	)

	srv, err := server.New(config, logger, engine, eventRepo, files)
	if err != nil {
		return err
	}

	go func() {
		logger.WithFields(logrus.Fields{
			"port":          config.ServerPort,
			"email_enabled": config.EmailEnabled,
		}).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
