package api

import (
	"github.com/trainboard/trainboard/pkg/arrivals"
	"github.com/trainboard/trainboard/pkg/config"
	"github.com/urfave/cli/v2"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the train information web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Value: ":8080",
						Usage: "listen target for the web server",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					engine, store, err := arrivals.Setup(c.Context, cfg)
					if err != nil {
						return err
					}

					go store.Run(c.Context, cfg.ReferenceReloadInterval)

					return SetupServer(c.String("listen"), Services{
						Trains:           engine,
						Stations:         engine,
						Assets:           store,
						RequestTimeout:   cfg.RequestTimeout,
						CORSAllowOrigins: cfg.CORSAllowOrigins,
					})
				},
			},
		},
	}
}
