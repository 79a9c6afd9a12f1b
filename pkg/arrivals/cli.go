package arrivals

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/kr/pretty"
	"github.com/trainboard/trainboard/pkg/config"
	"github.com/urfave/cli/v2"
)

func printResult(c *cli.Context, result any) error {
	if c.Bool("pretty") {
		_, err := pretty.Println(result)
		return err
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func setupFromCLI(c *cli.Context) (*Engine, context.Context, context.CancelFunc, error) {
	if c.NArg() != 1 {
		return nil, nil, nil, fmt.Errorf("expected exactly one station identifier or name")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	engine, _, err := Setup(c.Context, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(c.Context, cfg.RequestTimeout)
	return engine, ctx, cancel, nil
}

func RegisterCLI() *cli.Command {
	prettyFlag := &cli.BoolFlag{
		Name:  "pretty",
		Usage: "print Go values instead of JSON",
	}

	return &cli.Command{
		Name:  "arrivals",
		Usage: "Query the arrival prediction engine from the command line",
		Subcommands: []*cli.Command{
			{
				Name:      "predict",
				Usage:     "predict upcoming arrivals at a station",
				ArgsUsage: "<station id or name>",
				Flags:     []cli.Flag{prettyFlag},
				Action: func(c *cli.Context) error {
					engine, ctx, cancel, err := setupFromCLI(c)
					if err != nil {
						return err
					}
					defer cancel()

					result, err := engine.PredictArrivals(ctx, c.Args().First())
					if err != nil {
						return err
					}

					return printResult(c, result)
				},
			},
			{
				Name:      "at",
				Usage:     "list trains currently at a station or section",
				ArgsUsage: "<station or section id or name>",
				Flags:     []cli.Flag{prettyFlag},
				Action: func(c *cli.Context) error {
					engine, ctx, cancel, err := setupFromCLI(c)
					if err != nil {
						return err
					}
					defer cancel()

					result, err := engine.TrainsAtLocation(ctx, c.Args().First())
					if err != nil {
						return err
					}

					return printResult(c, result)
				},
			},
		},
	}
}
