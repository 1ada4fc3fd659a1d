package main

import (
	"context"
	"fmt"

	"barangay/internal/db"
	"barangay/internal/seed"
	"barangay/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with the service catalog and demo data",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "fake",
			Usage: "Also create demo residents and applications",
		},
	},
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

		logrus.Info("Seeding services...")
		services, err := seed.SeedServices(ctx, store.NewServiceRepository(pool))
		if err != nil {
			return err
		}

		if !c.Bool("fake") {
			return nil
		}

		logrus.Info("Seeding demo residents...")
		residents, err := seed.SeedFakeResidents(ctx, store.NewUserRepository(pool))
		if err != nil {
			return err
		}

		logrus.Info("Seeding demo applications...")
		return seed.SeedFakeApplications(ctx, store.NewApplicationRepository(pool), residents, services)
	},
}
