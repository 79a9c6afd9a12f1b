// Package referencedata loads the operator's static lookup tables (stations
// and sections, train types, destinations, lines) and keeps the current
// version available to readers without locking.
package referencedata

import (
	"maps"
	"time"

	"github.com/trainboard/trainboard/pkg/traffic"
	"golang.org/x/exp/slices"
)

// Registry is an immutable view over one version of the reference tables.
// Refreshes build a new Registry rather than mutating an existing one.
type Registry struct {
	LoadedAt time.Time

	stations       []traffic.StationRecord
	stationsByID   map[string]traffic.StationRecord
	stationsByName map[string]traffic.StationRecord
	trainTypes     map[string]traffic.TrainType
	destinations   map[string]traffic.Destination
	lines          []traffic.Line
}

func NewRegistry(stations []traffic.StationRecord, trainTypes []traffic.TrainType, destinations []traffic.Destination, lines []traffic.Line) *Registry {
	registry := &Registry{
		LoadedAt:       time.Now(),
		stations:       slices.Clone(stations),
		stationsByID:   make(map[string]traffic.StationRecord, len(stations)),
		stationsByName: make(map[string]traffic.StationRecord, len(stations)),
		trainTypes:     make(map[string]traffic.TrainType, len(trainTypes)),
		destinations:   make(map[string]traffic.Destination, len(destinations)),
		lines:          slices.Clone(lines),
	}

	// First record wins when the source repeats an identifier or name.
	for _, station := range stations {
		if _, exists := registry.stationsByID[station.ID]; !exists {
			registry.stationsByID[station.ID] = station
		}
		if _, exists := registry.stationsByName[station.Name]; !exists {
			registry.stationsByName[station.Name] = station
		}
	}
	for _, trainType := range trainTypes {
		if _, exists := registry.trainTypes[trainType.Code]; !exists {
			registry.trainTypes[trainType.Code] = trainType
		}
	}
	for _, destination := range destinations {
		if _, exists := registry.destinations[destination.Code]; !exists {
			registry.destinations[destination.Code] = destination
		}
	}

	return registry
}

func EmptyRegistry() *Registry {
	return NewRegistry(nil, nil, nil, nil)
}

func (r *Registry) StationByID(id string) (traffic.StationRecord, bool) {
	station, ok := r.stationsByID[id]
	return station, ok
}

func (r *Registry) StationByName(name string) (traffic.StationRecord, bool) {
	station, ok := r.stationsByName[name]
	return station, ok
}

// StationRegistry returns every station and section in source order.
func (r *Registry) StationRegistry() []traffic.StationRecord {
	return slices.Clone(r.stations)
}

func (r *Registry) TrainType(code string) (traffic.TrainType, bool) {
	trainType, ok := r.trainTypes[code]
	return trainType, ok
}

func (r *Registry) TrainTypeRegistry() map[string]traffic.TrainType {
	return maps.Clone(r.trainTypes)
}

func (r *Registry) Destination(code string) (traffic.Destination, bool) {
	destination, ok := r.destinations[code]
	return destination, ok
}

func (r *Registry) DestinationRegistry() map[string]traffic.Destination {
	return maps.Clone(r.destinations)
}

func (r *Registry) Lines() []traffic.Line {
	return slices.Clone(r.lines)
}
