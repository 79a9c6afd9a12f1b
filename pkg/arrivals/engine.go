// Package arrivals merges the live position snapshot with per-train
// timetables to predict when trains reach a station.
package arrivals

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
	"github.com/trainboard/trainboard/pkg/descriptors"
	"github.com/trainboard/trainboard/pkg/feed"
	"github.com/trainboard/trainboard/pkg/referencedata"
	"github.com/trainboard/trainboard/pkg/schedtime"
	"github.com/trainboard/trainboard/pkg/stations"
	"github.com/trainboard/trainboard/pkg/traffic"
)

const defaultWorkers = 16

// ReferenceSource hands out the reference tables in force for one request.
type ReferenceSource interface {
	Current() *referencedata.Registry
}

type Engine struct {
	Reference ReferenceSource
	Provider  feed.Provider
	LineTable stations.LineTable

	// Workers bounds the number of schedule fetches in flight per request.
	Workers int

	// LineFilter restricts candidate trains to locations on the requested
	// station's line.
	LineFilter bool

	Clock    func() time.Time
	Location *time.Location
}

type prediction struct {
	arrival *traffic.ArrivalPrediction
	instant time.Time
}

func (e *Engine) resolver(registry *referencedata.Registry) *stations.Resolver {
	return stations.NewResolver(registry, e.LineTable)
}

// Resolver returns a station resolver over the reference tables currently in
// force.
func (e *Engine) Resolver() *stations.Resolver {
	return e.resolver(e.Reference.Current())
}

func (e *Engine) location() *time.Location {
	if e.Location != nil {
		return e.Location
	}
	return time.Local
}

// now is the reference instant for a request: the feed's own timestamp when
// it has one, otherwise the engine clock.
func (e *Engine) now(snapshot *traffic.LiveSnapshot) time.Time {
	if snapshot != nil && !snapshot.Timestamp.IsZero() {
		return snapshot.Timestamp.In(e.location())
	}

	clock := time.Now
	if e.Clock != nil {
		clock = e.Clock
	}
	return clock().In(e.location())
}

func (e *Engine) snapshot(ctx context.Context) (*traffic.LiveSnapshot, error) {
	snapshot, err := e.Provider.GetLiveSnapshot(ctx)
	if err != nil {
		if errors.Is(err, traffic.ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", traffic.ErrUpstreamUnavailable, err)
	}

	return snapshot, nil
}

// Snapshot returns the current live snapshot unchanged.
func (e *Engine) Snapshot(ctx context.Context) (*traffic.LiveSnapshot, error) {
	return e.snapshot(ctx)
}

// PredictArrivals lists the trains expected at a station, soonest first.
func (e *Engine) PredictArrivals(ctx context.Context, stationIdentifier string) (*traffic.PredictionResult, error) {
	registry := e.Reference.Current()
	resolver := e.resolver(registry)
	formatter := descriptors.NewFormatter(registry)

	station, err := resolver.ResolveStation(stationIdentifier)
	if err != nil {
		return nil, err
	}

	snapshot, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	now := e.now(snapshot)
	candidates := e.candidateTrains(snapshot, resolver, station)

	workers := e.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	p := pool.NewWithResults[*prediction]()
	p.WithMaxGoroutines(workers)

	for _, train := range candidates {
		train := train
		p.Go(func() *prediction {
			return e.predictTrain(ctx, formatter, station, train, now)
		})
	}

	predictions := []*prediction{}
	for _, result := range p.Wait() {
		if result != nil {
			predictions = append(predictions, result)
		}
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		if !predictions[i].instant.Equal(predictions[j].instant) {
			return predictions[i].instant.Before(predictions[j].instant)
		}
		return predictions[i].arrival.TrainNumber < predictions[j].arrival.TrainNumber
	})

	arrivals := make([]*traffic.ArrivalPrediction, 0, len(predictions))
	for _, result := range predictions {
		arrivals = append(arrivals, result.arrival)
	}

	return &traffic.PredictionResult{
		StationID:   station.ID,
		StationName: station.Name,
		UpdatedAt:   traffic.FormatTimestamp(snapshot.Timestamp),
		Arrivals:    arrivals,
	}, nil
}

// candidateTrains flattens both occupancy lists into one entry per train
// number. With LineFilter set only locations on the station's line are
// considered, unless the station's own line cannot be derived.
func (e *Engine) candidateTrains(snapshot *traffic.LiveSnapshot, resolver *stations.Resolver, station traffic.StationRecord) []traffic.TrainPosition {
	lineCode := resolver.DeriveLineCode(station.ID)
	filterByLine := e.LineFilter && lineCode != stations.UnknownLineCode

	seen := map[string]bool{}
	candidates := []traffic.TrainPosition{}

	for _, entries := range [][]traffic.StationOccupancy{snapshot.Stationed, snapshot.InTransit} {
		for _, entry := range entries {
			if filterByLine && resolver.DeriveLineCode(entry.LocationID) != lineCode {
				continue
			}

			for _, train := range entry.Trains {
				if train.Number == "" || seen[train.Number] {
					continue
				}
				seen[train.Number] = true

				candidates = append(candidates, train)
			}
		}
	}

	return candidates
}

// predictTrain returns nil whenever the train produces no prediction for the
// station. Schedule failures are logged and never escape.
func (e *Engine) predictTrain(ctx context.Context, formatter descriptors.Formatter, station traffic.StationRecord, train traffic.TrainPosition, now time.Time) *prediction {
	schedule, err := e.Provider.GetTrainSchedule(ctx, train.Number)
	if err != nil {
		log.Warn().Err(err).Str("train", train.Number).Msg("Failed to get train schedule")
		return nil
	}

	stop, ok := findStop(schedule, station.ID)
	if !ok {
		return nil
	}

	// Untimed stops are passes with no usable time and are not listed.
	if !stop.IsTimed() {
		return nil
	}

	estimated := schedtime.Estimate(stop.ScheduledTime, train.DelayMinutes)
	if estimated == traffic.NoTime {
		log.Debug().Str("train", train.Number).Str("time", stop.ScheduledTime).Msg("Unparsable scheduled time")
		return nil
	}

	instant, err := schedtime.ResolveCalendarDay(estimated, now)
	if err != nil {
		return nil
	}
	if instant.Before(now) {
		return nil
	}

	return &prediction{
		instant: instant,
		arrival: &traffic.ArrivalPrediction{
			TrainNumber:          train.Number,
			Type:                 formatter.DescribeType(train.TypeCode),
			Direction:            train.Direction,
			Destination:          formatter.DescribeDestination(train.DestinationCode),
			DelayMinutes:         train.DelayMinutes,
			IsCurrentlyAtStation: train.IsInStation(),
			EstimatedTime:        estimated,
			Classification:       traffic.ClassificationStop,
			FreeTextInfo:         train.FreeTextInfo,
			ScheduledTime:        stop.ScheduledTime,
		},
	}
}

func findStop(schedule *traffic.TrainSchedule, stationID string) (traffic.ScheduleStop, bool) {
	for _, stop := range schedule.Stops {
		if stations.SameStation(stationID, stop.StationID) {
			return stop, true
		}
	}

	return traffic.ScheduleStop{}, false
}

// TrainsAtLocation lists the trains currently recorded against a station or
// section.
func (e *Engine) TrainsAtLocation(ctx context.Context, identifier string) (*traffic.OccupancyResult, error) {
	registry := e.Reference.Current()
	formatter := descriptors.NewFormatter(registry)

	location, err := e.resolver(registry).Resolve(identifier)
	if err != nil {
		return nil, err
	}

	snapshot, err := e.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	result := &traffic.OccupancyResult{
		StationID:   location.ID,
		StationName: location.Name,
		StationType: location.Kind,
		UpdatedAt:   traffic.FormatTimestamp(snapshot.Timestamp),
		Trains:      []traffic.TrainDisplay{},
	}

	if !snapshot.HasOccupancy() {
		log.Warn().Str("location", location.ID).Msg("Traffic info has no occupancy lists")
		return result, nil
	}

	for _, train := range snapshot.Occupancy(location) {
		result.Trains = append(result.Trains, formatter.DescribeTrain(train))
	}

	return result, nil
}

// TrainDetail returns one train's timetable with delay-adjusted times and
// its live position when it is currently running.
func (e *Engine) TrainDetail(ctx context.Context, trainID string) (*traffic.TrainDetail, error) {
	registry := e.Reference.Current()
	formatter := descriptors.NewFormatter(registry)

	schedule, err := e.Provider.GetTrainSchedule(ctx, trainID)
	if err != nil {
		if errors.Is(err, traffic.ErrMalformedSchedule) {
			return nil, fmt.Errorf("%w: %s", traffic.ErrNotFound, err)
		}
		return nil, err
	}

	detail := &traffic.TrainDetail{
		TrainID: schedule.TrainID,
		Stops:   make([]traffic.TrainDetailStop, 0, len(schedule.Stops)),
	}

	delay := 0
	snapshot, err := e.snapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Str("train", schedule.TrainID).Msg("Train detail without live position")
	} else if train, ok := snapshot.FindTrain(schedule.TrainID); ok {
		display := formatter.DescribeTrain(*train)
		detail.Position = &display
		delay = train.DelayMinutes
	}

	for _, stop := range schedule.Stops {
		detail.Stops = append(detail.Stops, traffic.TrainDetailStop{
			StationID:     stop.StationID,
			StationName:   stop.StationName,
			ScheduledTime: stop.ScheduledTime,
			EstimatedTime: schedtime.Estimate(stop.ScheduledTime, delay),
			StopFlag:      stop.StopFlag,
		})
	}

	return detail, nil
}
