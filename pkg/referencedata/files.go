package referencedata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/trainboard/trainboard/pkg/traffic"
)

const (
	PositionFile    = "position.json"
	TrainTypeFile   = "syasyu.json"
	DestinationFile = "ikisaki.json"
	LineFile        = "line.json"
	VersionFile     = "assets_version.json"
)

// AssetFiles lists every reference file mirrored from the operator's config
// directory. The live traffic feed and per-train timetables are never stored.
var AssetFiles = []string{
	"ikisaki.json",
	"line.json",
	"other_chg_app.json",
	"other_chg.json",
	"position.json",
	"railload_chg.json",
	"station_info.json",
	"syasyu.json",
}

const (
	kindStation = "駅"
	kindSection = "駅間"
)

type positionDocument struct {
	Positions []positionRecord `json:"pos"`
}

type positionRecord struct {
	ID         string `json:"ID"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	MaxDisplay string `json:"max_disp,omitempty"`
}

type trainTypeDocument struct {
	TrainTypes []trainTypeRecord `json:"syasyu"`
}

type trainTypeRecord struct {
	Code        string `json:"code"`
	Style       string `json:"style"`
	IconName    string `json:"iconname"`
	Name        string `json:"name"`
	NameEnglish string `json:"name_e"`
}

type destinationDocument struct {
	Destinations []traffic.Destination `json:"ikisaki"`
}

type lineDocument struct {
	Lines []traffic.Line `json:"line"`
}

func (p positionRecord) toStationRecord() traffic.StationRecord {
	record := traffic.StationRecord{
		ID:   strings.TrimSpace(p.ID),
		Name: p.Name,
	}

	switch {
	case p.Kind == kindStation:
		record.Kind = traffic.StationKindStation
	case p.Kind == kindSection:
		record.Kind = traffic.StationKindSection
	case strings.HasPrefix(record.ID, "E"):
		record.Kind = traffic.StationKindStation
	default:
		record.Kind = traffic.StationKindSection
	}

	if n, err := strconv.Atoi(p.MaxDisplay); err == nil {
		record.MaxDisplay = &n
	}

	return record
}

func readJSON(dir string, filename string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filename, err)
	}

	return nil
}

// LoadFromDir parses the reference files in dir into a new Registry. The
// line file is optional; the others are required.
func LoadFromDir(dir string) (*Registry, error) {
	var positions positionDocument
	if err := readJSON(dir, PositionFile, &positions); err != nil {
		return nil, err
	}

	var trainTypes trainTypeDocument
	if err := readJSON(dir, TrainTypeFile, &trainTypes); err != nil {
		return nil, err
	}

	var destinations destinationDocument
	if err := readJSON(dir, DestinationFile, &destinations); err != nil {
		return nil, err
	}

	var lines lineDocument
	if err := readJSON(dir, LineFile, &lines); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	stations := make([]traffic.StationRecord, 0, len(positions.Positions))
	for _, position := range positions.Positions {
		stations = append(stations, position.toStationRecord())
	}

	types := make([]traffic.TrainType, 0, len(trainTypes.TrainTypes))
	for _, t := range trainTypes.TrainTypes {
		types = append(types, traffic.TrainType{
			Code:        t.Code,
			Style:       t.Style,
			IconName:    t.IconName,
			Name:        t.Name,
			NameEnglish: t.NameEnglish,
		})
	}

	return NewRegistry(stations, types, destinations.Destinations, lines.Lines), nil
}
