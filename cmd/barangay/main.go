package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "barangay",
		Usage: "Barangay application processing and certificate service",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			applicationsCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
