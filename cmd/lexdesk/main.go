package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "lexdesk",
		Usage: "Multi-tenant legal practice management server",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			sweepCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
