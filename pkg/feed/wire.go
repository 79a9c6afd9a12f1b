package feed

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/trainboard/trainboard/pkg/traffic"
)

const (
	wireDirectionUp = "0"
	wireStop        = "1"
)

type trafficDocument struct {
	Updates   []updateInfo    `json:"up"`
	Stationed []stationTrains `json:"TS"`
	InTransit []stationTrains `json:"TB"`
}

type updateInfo struct {
	DateTimes []wireDateTime `json:"dt"`
	Status    string         `json:"st"`
}

type wireDateTime struct {
	Year   string `json:"yy"`
	Month  string `json:"mt"`
	Day    string `json:"dy"`
	Hour   string `json:"hh"`
	Minute string `json:"mm"`
	Second string `json:"ss"`
}

type stationTrains struct {
	ID     string       `json:"id"`
	Name   string       `json:"sn"`
	Trains []trainPoint `json:"ps"`
}

type trainPoint struct {
	Number string `json:"tr"`

	// sy and ik carry internal codes; the reference tables are keyed by the
	// display codes in sy_tr and ik_tr.
	TypeCode        string `json:"sy_tr"`
	DestinationCode string `json:"ik_tr"`

	Direction    string `json:"ki"`
	PositionFlag string `json:"bs"`
	Delay        string `json:"dl"`
	CarCount     string `json:"sr"`
	Information  string `json:"inf"`
}

type scheduleDocument struct {
	Stops *[]scheduleRow `json:"dy"`
}

type scheduleRow struct {
	StationID   string `json:"st"`
	StationName string `json:"sn"`
	Time        string `json:"ht"`
	Stop        string `json:"pa"`
}

// DecodeSnapshot parses a traffic_info document. The feed timestamp is read
// in loc; a missing or unparsable timestamp leaves Timestamp zero.
func DecodeSnapshot(data []byte, loc *time.Location) (*traffic.LiveSnapshot, error) {
	var document trafficDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("decoding traffic info: %w", err)
	}

	snapshot := &traffic.LiveSnapshot{
		Stationed: decodeOccupancy(document.Stationed),
		InTransit: decodeOccupancy(document.InTransit),
	}

	if len(document.Updates) > 0 && len(document.Updates[0].DateTimes) > 0 {
		if timestamp, ok := document.Updates[0].DateTimes[0].toTime(loc); ok {
			snapshot.Timestamp = timestamp
		}
	}

	return snapshot, nil
}

func decodeOccupancy(entries []stationTrains) []traffic.StationOccupancy {
	if entries == nil {
		return nil
	}

	occupancy := make([]traffic.StationOccupancy, 0, len(entries))
	for _, entry := range entries {
		trains := make([]traffic.TrainPosition, 0, len(entry.Trains))
		for _, point := range entry.Trains {
			trains = append(trains, point.toPosition())
		}

		occupancy = append(occupancy, traffic.StationOccupancy{
			LocationID: strings.TrimSpace(entry.ID),
			Trains:     trains,
		})
	}

	return occupancy
}

func (p trainPoint) toPosition() traffic.TrainPosition {
	direction := traffic.DirectionDown
	if p.Direction == wireDirectionUp {
		direction = traffic.DirectionUp
	}

	return traffic.TrainPosition{
		Number:          strings.TrimSpace(p.Number),
		TypeCode:        p.TypeCode,
		Direction:       direction,
		PositionFlag:    p.PositionFlag,
		DelayMinutes:    parseDelay(p.Delay),
		DestinationCode: p.DestinationCode,
		CarCount:        p.CarCount,
		FreeTextInfo:    p.Information,
	}
}

// parseDelay reads the two digit delay field. Anything unparsable or
// negative counts as on schedule.
func parseDelay(delay string) int {
	minutes, err := strconv.Atoi(strings.TrimSpace(delay))
	if err != nil || minutes < 0 {
		return 0
	}

	return minutes
}

func (d wireDateTime) toTime(loc *time.Location) (time.Time, bool) {
	fields := []string{d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second}
	values := make([]int, len(fields))

	for i, field := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return time.Time{}, false
		}
		values[i] = n
	}

	year := values[0]
	if year < 100 {
		year += 2000
	}

	return time.Date(year, time.Month(values[1]), values[2], values[3], values[4], values[5], 0, loc), true
}

// DecodeSchedule parses a per-train timetable. A document without a stop
// list is reported as ErrMalformedSchedule.
func DecodeSchedule(trainID string, data []byte) (*traffic.TrainSchedule, error) {
	var document scheduleDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("train %s: %w: %s", trainID, traffic.ErrMalformedSchedule, err)
	}

	if document.Stops == nil {
		return nil, fmt.Errorf("train %s: %w", trainID, traffic.ErrMalformedSchedule)
	}

	schedule := &traffic.TrainSchedule{
		TrainID: trainID,
		Stops:   make([]traffic.ScheduleStop, 0, len(*document.Stops)),
	}

	for _, row := range *document.Stops {
		flag := traffic.StopFlagPass
		if row.Stop == wireStop {
			flag = traffic.StopFlagStop
		}

		schedule.Stops = append(schedule.Stops, traffic.ScheduleStop{
			StationID:     strings.TrimSpace(row.StationID),
			StationName:   row.StationName,
			ScheduledTime: strings.TrimSpace(row.Time),
			StopFlag:      flag,
		})
	}

	return schedule, nil
}
