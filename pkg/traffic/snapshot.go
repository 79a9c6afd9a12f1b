package traffic

import "time"

type Direction string

const (
	DirectionUp   Direction = "Up"
	DirectionDown Direction = "Down"
)

// PositionFlagInStation marks a train that is standing at the platform
// rather than running in the adjoining section.
const PositionFlagInStation = "0"

type LiveSnapshot struct {
	Timestamp time.Time          `json:"timestamp"`
	Stationed []StationOccupancy `json:"stationed"`
	InTransit []StationOccupancy `json:"inTransit"`
}

type StationOccupancy struct {
	LocationID string          `json:"locationId"`
	Trains     []TrainPosition `json:"trains"`
}

type TrainPosition struct {
	Number          string    `json:"number"`
	TypeCode        string    `json:"typeCode"`
	Direction       Direction `json:"direction"`
	PositionFlag    string    `json:"positionFlag"`
	DelayMinutes    int       `json:"delayMinutes"`
	DestinationCode string    `json:"destinationCode"`
	CarCount        string    `json:"carCount,omitempty"`
	FreeTextInfo    string    `json:"freeTextInfo,omitempty"`
}

func (t TrainPosition) IsInStation() bool {
	return t.PositionFlag == PositionFlagInStation
}

// HasOccupancy reports whether the feed carried any occupancy lists at all.
// Outside operating hours the upstream omits both of them.
func (s *LiveSnapshot) HasOccupancy() bool {
	return s.Stationed != nil || s.InTransit != nil
}

// Occupancy returns the trains recorded against a location. Stations are
// looked up in the stationed list, sections in the in-transit list.
func (s *LiveSnapshot) Occupancy(location StationRecord) []TrainPosition {
	entries := s.Stationed
	if !location.IsStation() {
		entries = s.InTransit
	}

	for _, entry := range entries {
		if entry.LocationID == location.ID {
			return entry.Trains
		}
	}

	return nil
}

// FindTrain searches both occupancy lists for a train number.
func (s *LiveSnapshot) FindTrain(number string) (*TrainPosition, bool) {
	for _, entries := range [][]StationOccupancy{s.Stationed, s.InTransit} {
		for _, entry := range entries {
			for i := range entry.Trains {
				if entry.Trains[i].Number == number {
					return &entry.Trains[i], true
				}
			}
		}
	}

	return nil, false
}
