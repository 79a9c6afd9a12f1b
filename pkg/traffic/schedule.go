package traffic

type StopFlag string

const (
	StopFlagStop StopFlag = "Stop"
	StopFlagPass StopFlag = "Pass"
)

type TrainSchedule struct {
	TrainID string         `json:"trainId"`
	Stops   []ScheduleStop `json:"stops"`
}

// ScheduleStop is one row of a train's timetable. StationID uses the
// timetable's numeric form without the category letter. ScheduledTime is a
// zero-padded HH:MM or empty when the train has no timed event there.
type ScheduleStop struct {
	StationID     string   `json:"stationId"`
	StationName   string   `json:"stationName"`
	ScheduledTime string   `json:"scheduledTime,omitempty"`
	StopFlag      StopFlag `json:"stopFlag"`
}

func (s ScheduleStop) IsTimed() bool {
	return s.ScheduledTime != ""
}
