package main

import (
	"context"
	"fmt"

	"lexdesk/internal/db"
	"lexdesk/internal/seed"
	"lexdesk/internal/store"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with a demo tenant",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()

		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		logrus.Info("Connected to database")

		userRepo := store.NewUserRepository(pool)
		caseRepo := store.NewCaseRepository(pool)
		hearingRepo := store.NewHearingRepository(pool)

		logrus.Info("Seeding demo tenant...")
		summary, err := seed.Demo(ctx, userRepo, caseRepo, hearingRepo)
		if err != nil {
			return fmt.Errorf("failed to seed demo tenant: %w", err)
		}

		pp.Println(summary)
		logrus.WithField("demo_password", seed.DemoPassword).Info("Demo tenant seeded")

		return nil
	},
}
