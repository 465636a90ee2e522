package main

import (
	"context"
	"os"

	"github.com/annuaire-qc/directory/internal/cli"
	"github.com/annuaire-qc/directory/internal/config"
	"github.com/annuaire-qc/directory/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	deps := cli.Dependencies{
		Version: Version + " (" + Commit + ")",
		Serve: func(context.Context) error {
			entrypoint.Run(config.NewConfig(), Version)
			return nil
		},
		Open: func(ctx context.Context) (*cli.Runtime, error) {
			app, err := entrypoint.Build(ctx, config.NewConfig())
			if err != nil {
				return nil, err
			}
			return &cli.Runtime{
				Importer: app.Importer,
				Quota:    app.Tracker,
				Close:    app.Close,
			}, nil
		},
	}

	os.Exit(cli.Execute(context.Background(), os.Args[1:], deps, os.Stdout, os.Stderr))
}
