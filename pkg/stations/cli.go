package stations

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/trainboard/trainboard/pkg/config"
	"github.com/trainboard/trainboard/pkg/referencedata"
	"github.com/urfave/cli/v2"
)

type StationRow struct {
	ID         string `csv:"id"`
	Name       string `csv:"name"`
	Kind       string `csv:"kind"`
	LineCode   string `csv:"line_code"`
	ScheduleID string `csv:"schedule_id"`
}

// ExportRows flattens the resolver's locations into CSV rows.
func (r *Resolver) ExportRows(includeSections bool) []StationRow {
	locations := r.Stations()
	if includeSections {
		locations = r.Registry.StationRegistry()
	}

	rows := make([]StationRow, 0, len(locations))
	for _, location := range locations {
		rows = append(rows, StationRow{
			ID:         location.ID,
			Name:       location.Name,
			Kind:       string(location.Kind),
			LineCode:   r.DeriveLineCode(location.ID),
			ScheduleID: NormalizeStationID(location.ID),
		})
	}

	return rows
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "stations",
		Usage: "Inspect the station registry",
		Subcommands: []*cli.Command{
			{
				Name:  "export",
				Usage: "write every station with its derived line code and timetable identifier as CSV",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "sections",
						Usage: "include track sections",
					},
				},
				Action: func(c *cli.Context) error {
					cfg, err := config.Load()
					if err != nil {
						return err
					}

					registry, err := referencedata.LoadFromDir(cfg.AssetsDir)
					if err != nil {
						return err
					}

					lineTable, err := LoadLineTable(cfg.LinesFile)
					if err != nil {
						return err
					}

					output, err := gocsv.MarshalString(NewResolver(registry, lineTable).ExportRows(c.Bool("sections")))
					if err != nil {
						return err
					}

					_, err = fmt.Fprint(os.Stdout, output)
					return err
				},
			},
		},
	}
}
