package traffic

type StationKind string

const (
	StationKindStation StationKind = "Station"
	StationKindSection StationKind = "Section"
)

// StationRecord is a single entry of the position registry. Stations use the
// E prefix, sections use U (up) or D (down) followed by the station number
// they lead into.
type StationRecord struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Kind       StationKind `json:"kind"`
	MaxDisplay *int        `json:"maxDisplay,omitempty"`
}

func (s StationRecord) IsStation() bool {
	return s.Kind == StationKindStation
}

type TrainType struct {
	Code        string `json:"code"`
	Style       string `json:"style"`
	IconName    string `json:"iconName"`
	Name        string `json:"name"`
	NameEnglish string `json:"nameEnglish"`
}

type Destination struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type Line struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Kubun string `json:"kubun"`
	Style string `json:"style"`
}
