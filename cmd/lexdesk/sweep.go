package main

import (
	"context"
	"fmt"
	"time"

	"lexdesk/internal/cleanup"
	"lexdesk/internal/db"
	"lexdesk/internal/storage"
	"lexdesk/internal/store"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var sweepCommand = &cli.Command{
	Name:  "sweep",
	Usage: "Reclaim orphaned remote objects no database row references",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "min-age-days",
			Usage: "Only reclaim objects at least this old (0 uses SWEEP_MIN_AGE_DAYS)",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cfg.S3BucketName == "" {
			return fmt.Errorf("set S3_BUCKET_NAME")
		}

		minAgeDays := c.Int("min-age-days")
		if minAgeDays == 0 {
			minAgeDays = cfg.SweepMinAgeDays
		}

		ctx := context.Background()

		logger := logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})

		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		objects := storage.NewS3Store(s3.NewFromConfig(awsConfig), cfg.S3BucketName)
		coordinator := cleanup.New(objects, logger)
		refs := store.NewReferences(pool)

		res, err := coordinator.SweepOrphans(ctx, refs, time.Duration(minAgeDays)*24*time.Hour)
		if err != nil {
			return fmt.Errorf("sweep failed: %w", err)
		}

		logger.WithFields(logrus.Fields{
			"reclaimed": res.DeletedCount,
			"errors":    len(res.Errors),
		}).Info("sweep finished")

		return nil
	},
}
