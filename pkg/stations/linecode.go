package stations

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// UnknownLineCode is returned when a station number falls outside every
// configured range.
const UnknownLineCode = "unknown"

//go:embed lines.yaml
var defaultLinesYAML []byte

type LineRange struct {
	From int `yaml:"from"`
	To   int `yaml:"to"`
}

type LineRanges struct {
	Code   string      `yaml:"code"`
	Ranges []LineRange `yaml:"ranges"`
}

// LineTable maps station number ranges onto line codes. It is a heuristic
// over the numbering scheme and not an authoritative membership table.
type LineTable struct {
	Lines []LineRanges `yaml:"lines"`
}

func ParseLineTable(data []byte) (LineTable, error) {
	var table LineTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return LineTable{}, err
	}

	for _, line := range table.Lines {
		if line.Code == "" {
			return LineTable{}, fmt.Errorf("line table entry without code")
		}
		for _, r := range line.Ranges {
			if r.From > r.To {
				return LineTable{}, fmt.Errorf("line %s has inverted range %d-%d", line.Code, r.From, r.To)
			}
		}
	}

	return table, nil
}

func DefaultLineTable() LineTable {
	table, err := ParseLineTable(defaultLinesYAML)
	if err != nil {
		panic(err)
	}

	return table
}

// LoadLineTable reads a table from path, or returns the embedded default
// when path is empty.
func LoadLineTable(path string) (LineTable, error) {
	if path == "" {
		return DefaultLineTable(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return LineTable{}, err
	}

	return ParseLineTable(data)
}

// Derive returns the line code for a station or section identifier.
func (t LineTable) Derive(identifier string) string {
	number, ok := stationNumber(identifier)
	if !ok {
		return UnknownLineCode
	}

	for _, line := range t.Lines {
		for _, r := range line.Ranges {
			if number >= r.From && number <= r.To {
				return line.Code
			}
		}
	}

	return UnknownLineCode
}

func stationNumber(identifier string) (int, bool) {
	digits := strings.TrimLeftFunc(strings.TrimSpace(identifier), unicode.IsLetter)
	if digits == "" {
		return 0, false
	}

	number, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}

	return number, true
}
