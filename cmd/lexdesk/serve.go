package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lexdesk/internal/cleanup"
	"lexdesk/internal/db"
	"lexdesk/internal/mailer"
	"lexdesk/internal/server"
	"lexdesk/internal/storage"
	"lexdesk/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:   "serve",
	Usage:  "Start the HTTP API server",
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

	if config.S3BucketName == "" {
		return fmt.Errorf("set S3_BUCKET_NAME")
	}

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	s3Client := s3.NewFromConfig(awsConfig)
	objects := storage.NewS3Store(s3Client, config.S3BucketName)

	pool, err := db.Connect(ctx, config)
	if err != nil {
		return err
	}
	defer pool.Close()

	userRepo := store.NewUserRepository(pool)
	clientRepo := store.NewClientRepository(pool)
	caseRepo := store.NewCaseRepository(pool)
	documentRepo := store.NewDocumentRepository(pool)
	hearingRepo := store.NewHearingRepository(pool)

	purger := cleanup.New(objects, logger)
	notifier := mailer.New(config, logger)

	srv, err := server.New(
		config,
		logger,
		userRepo,
		clientRepo,
		caseRepo,
		documentRepo,
		hearingRepo,
		objects,
		purger,
		notifier,
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
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
