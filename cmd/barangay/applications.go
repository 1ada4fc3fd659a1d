package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"barangay/internal/db"
	"barangay/internal/lifecycle"
	"barangay/internal/numbering"
	"barangay/internal/store"
	"barangay/pkg/types"

	"github.com/urfave/cli/v2"
)

var applicationsCommand = &cli.Command{
	Name:  "applications",
	Usage: "List applications, optionally filtered by status",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "status",
			Aliases: []string{"s"},
			Usage:   "pending, processing, approved, rejected or claimed",
		},
	},
	Action: func(c *cli.Context) error {
		var status types.ApplicationStatus
		if raw := c.String("status"); raw != "" {
			parsed, err := types.ParseApplicationStatus(raw)
			if err != nil {
				return err
			}
			status = parsed
		}

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

		applications, err := store.NewApplicationRepository(pool).ApplicationsByStatus(ctx, status)
		if err != nil {
			return err
		}

		names, err := serviceNames(ctx, store.NewServiceRepository(pool))
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "REFERENCE\tSERVICE\tSTATE\tUPDATED")
		for _, app := range applications {
			name, ok := names[serviceKey{app.ServiceType, app.ServiceID}]
			if !ok {
				name = fmt.Sprintf("%s/%d", app.ServiceType, app.ServiceID)
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				numbering.ReferenceNumber(app.ID, app.ReferenceYear(app.UpdatedAt)),
				name,
				lifecycle.DisplayState(app, cfg.LegacyRemarksSignal),
				app.UpdatedAt.Format("2006-01-02 15:04"),
			)
		}

		return w.Flush()
	},
}

type serviceKey struct {
	serviceType types.ServiceType
	id          int64
}

func serviceNames(ctx context.Context, repo *store.ServiceRepository) (map[serviceKey]string, error) {
	names := make(map[serviceKey]string)
	for _, serviceType := range []types.ServiceType{types.ServiceTypeBarangay, types.ServiceTypeHealth} {
		services, err := repo.AllServices(ctx, serviceType)
		if err != nil {
			return nil, err
		}
		for _, service := range services {
			names[serviceKey{serviceType, service.ID}] = service.Name
		}
	}
	return names, nil
}
