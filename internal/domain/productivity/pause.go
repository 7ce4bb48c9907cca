package productivity

import "time"

type PauseLog struct {
	ID          string
	SessionID   string
	JobID       string
	ItemID      string
	InstallerID string
	StartTime   time.Time
	EndTime     *time.Time
	Reason      PauseReason
	DurationMin *int
}

func (p PauseLog) IsOpen() bool {
	return p.EndTime == nil
}

// Close sets the end time and duration and returns the duration in minutes.
func (p *PauseLog) Close(now time.Time) int {
	end := now
	minutes := WholeMinutes(now.Sub(p.StartTime))
	p.EndTime = &end
	p.DurationMin = &minutes
	return minutes
}

// TotalPauseMinutes sums the durations of closed pauses.
func TotalPauseMinutes(pauses []PauseLog) int {
	total := 0
	for _, p := range pauses {
		if p.DurationMin != nil {
			total += *p.DurationMin
		}
	}
	return total
}
