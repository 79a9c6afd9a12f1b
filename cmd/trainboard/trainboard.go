package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/trainboard/trainboard/pkg/api"
	"github.com/trainboard/trainboard/pkg/arrivals"
	"github.com/trainboard/trainboard/pkg/referencedata"
	"github.com/trainboard/trainboard/pkg/stations"
	"github.com/trainboard/trainboard/pkg/util"
	"github.com/urfave/cli/v2"

	_ "time/tzdata"
)

func main() {
	if os.Getenv("TRAINBOARD_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("TRAINBOARD_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	// Schedule clock times are local to the operator.
	timezone := util.EnvironmentOrDefault(util.GetEnvironmentVariables(), "TRAINBOARD_TIMEZONE", "Asia/Tokyo")
	if location, err := time.LoadLocation(timezone); err == nil {
		time.Local = location
	} else {
		log.Fatal().Err(err).Str("timezone", timezone).Msg("Failed to load timezone")
	}

	app := &cli.App{
		Name:        "trainboard",
		Description: "Live train positions and arrival predictions",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			arrivals.RegisterCLI(),
			referencedata.RegisterCLI(),
			stations.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
