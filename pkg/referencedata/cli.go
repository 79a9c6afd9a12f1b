package referencedata

import (
	"github.com/trainboard/trainboard/pkg/config"
	"github.com/trainboard/trainboard/pkg/fetch"
	"github.com/urfave/cli/v2"
)

// NewUpdater builds an Updater from the service configuration.
func NewUpdater(cfg config.Config) *Updater {
	return &Updater{
		BaseURL:       cfg.FeedBaseURL,
		AssetsDir:     cfg.AssetsDir,
		CheckInterval: cfg.AssetsCheckInterval,
		Fetcher:       fetch.New(cfg.HTTPTimeout),
	}
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "assets",
		Usage: "Manage the mirrored reference data files",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "check the published version and download reference files",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "download even if the version was checked recently",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					return NewUpdater(cfg).UpdateIfNeeded(c.Context, c.Bool("force"))
				},
			},
		},
	}
}
