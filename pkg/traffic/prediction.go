package traffic

type Classification string

const (
	ClassificationStop Classification = "Stop"
	ClassificationPass Classification = "Pass"
)

// NoTime is rendered whenever a usable clock time is not available.
const NoTime = "--:--"

// UnknownTimestamp is rendered when the feed carries no update time.
const UnknownTimestamp = "Unknown"

type TypeDescriptor struct {
	Code string `json:"code" groups:"basic,detailed"`
	Name string `json:"name" groups:"basic,detailed"`
	Icon string `json:"iconName" groups:"basic,detailed"`
}

type DestinationDescriptor struct {
	Code string `json:"code" groups:"basic,detailed"`
	Name string `json:"name" groups:"basic,detailed"`
}

type ArrivalPrediction struct {
	TrainNumber          string                `json:"trainNumber" groups:"basic,detailed"`
	Type                 TypeDescriptor        `json:"type" groups:"basic,detailed"`
	Direction            Direction             `json:"direction" groups:"basic,detailed"`
	Destination          DestinationDescriptor `json:"destination" groups:"basic,detailed"`
	DelayMinutes         int                   `json:"delay" groups:"basic,detailed"`
	IsCurrentlyAtStation bool                  `json:"isInStation" groups:"basic,detailed"`
	EstimatedTime        string                `json:"estimatedTime" groups:"basic,detailed"`
	Classification       Classification        `json:"passType" groups:"basic,detailed"`
	FreeTextInfo         string                `json:"information,omitempty" groups:"basic,detailed"`

	// ScheduledTime is the timetable time before the delay was applied.
	ScheduledTime string `json:"scheduledTime" groups:"detailed"`
}

type PredictionResult struct {
	StationID   string               `json:"stationId" groups:"basic,detailed"`
	StationName string               `json:"stationName" groups:"basic,detailed"`
	UpdatedAt   string               `json:"updatedAt" groups:"basic,detailed"`
	Arrivals    []*ArrivalPrediction `json:"arrivingTrains" groups:"basic,detailed"`
}

type TrainDisplay struct {
	TrainNumber  string                `json:"trainNumber"`
	Type         TypeDescriptor        `json:"type"`
	Direction    Direction             `json:"direction"`
	Destination  DestinationDescriptor `json:"destination"`
	DelayMinutes int                   `json:"delay"`
	CarCount     *string               `json:"carCount"`
	FreeTextInfo string                `json:"information,omitempty"`
	IsInStation  bool                  `json:"isInStation"`
	PositionCode string                `json:"positionCode"`
}

type OccupancyResult struct {
	StationID   string         `json:"stationId"`
	StationName string         `json:"stationName"`
	StationType StationKind    `json:"stationType"`
	UpdatedAt   string         `json:"updatedAt"`
	Trains      []TrainDisplay `json:"trains"`
}

type TrainDetailStop struct {
	StationID     string   `json:"stationId"`
	StationName   string   `json:"stationName"`
	ScheduledTime string   `json:"scheduledTime,omitempty"`
	EstimatedTime string   `json:"estimatedTime"`
	StopFlag      StopFlag `json:"stopFlag"`
}

type TrainDetail struct {
	TrainID  string            `json:"trainId"`
	Position *TrainDisplay     `json:"position,omitempty"`
	Stops    []TrainDetailStop `json:"stops"`
}
