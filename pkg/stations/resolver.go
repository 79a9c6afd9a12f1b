// Package stations resolves free-form station identifiers against the
// position registry and derives line membership from station numbers.
package stations

import (
	"fmt"
	"strings"

	"github.com/trainboard/trainboard/pkg/traffic"
)

// Registry is the read side of the position registry.
type Registry interface {
	StationByID(id string) (traffic.StationRecord, bool)
	StationByName(name string) (traffic.StationRecord, bool)
	StationRegistry() []traffic.StationRecord
}

type Resolver struct {
	Registry  Registry
	LineTable LineTable
}

func NewResolver(registry Registry, lineTable LineTable) *Resolver {
	return &Resolver{
		Registry:  registry,
		LineTable: lineTable,
	}
}

// Resolve finds a station or section by exact identifier, then by exact
// display name.
func (r *Resolver) Resolve(identifier string) (traffic.StationRecord, error) {
	identifier = strings.TrimSpace(identifier)

	if record, ok := r.Registry.StationByID(identifier); ok {
		return record, nil
	}
	if record, ok := r.Registry.StationByName(identifier); ok {
		return record, nil
	}

	return traffic.StationRecord{}, fmt.Errorf("station %q: %w", identifier, traffic.ErrNotFound)
}

// ResolveStation is Resolve restricted to stations; sections are rejected.
func (r *Resolver) ResolveStation(identifier string) (traffic.StationRecord, error) {
	record, err := r.Resolve(identifier)
	if err != nil {
		return record, err
	}

	if !record.IsStation() {
		return traffic.StationRecord{}, fmt.Errorf("%s is a section, not a station: %w", record.ID, traffic.ErrNotFound)
	}

	return record, nil
}

func (r *Resolver) DeriveLineCode(stationID string) string {
	return r.LineTable.Derive(stationID)
}

func (r *Resolver) Stations() []traffic.StationRecord {
	return r.filterKind(traffic.StationKindStation)
}

func (r *Resolver) Sections() []traffic.StationRecord {
	return r.filterKind(traffic.StationKindSection)
}

func (r *Resolver) filterKind(kind traffic.StationKind) []traffic.StationRecord {
	records := []traffic.StationRecord{}

	for _, record := range r.Registry.StationRegistry() {
		if record.Kind == kind {
			records = append(records, record)
		}
	}

	return records
}
