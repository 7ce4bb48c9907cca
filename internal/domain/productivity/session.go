package productivity

import "time"

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in_progress"
	SessionPaused     SessionStatus = "paused"
	SessionCompleted  SessionStatus = "completed"
)

type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  *float64
}

// WorkSession is one installer's stretch of work on a job line item. An empty
// ItemID marks a whole-job session; CreditedItemIDs then fixes the items it was
// split over at checkout.
type WorkSession struct {
	ID                 string
	JobID              string
	ItemID             string
	InstallerID        string
	CheckinAt          time.Time
	CheckoutAt         *time.Time
	CheckinLocation    *Location
	CheckoutLocation   *Location
	CheckinPhotoRef    string
	CheckoutPhotoRef   string
	InstalledAreaM2    *float64
	ComplexityLevel    *int
	HeightCategory     *HeightCategory
	ScenarioCategory   *ScenarioCategory
	GrossDurationMin   int
	NetDurationMin     int
	TotalPauseMin      int
	ProductivityM2PerH *float64
	Notes              string
	CreditedItemIDs    []string
	Status             SessionStatus
	Version            int
}

func NewWorkSession(id, jobID, itemID, installerID string, now time.Time, loc *Location, photoRef string) WorkSession {
	return WorkSession{
		ID:              id,
		JobID:           jobID,
		ItemID:          itemID,
		InstallerID:     installerID,
		CheckinAt:       now,
		CheckinLocation: loc,
		CheckinPhotoRef: photoRef,
		Status:          SessionInProgress,
	}
}

func (s WorkSession) IsWholeJob() bool {
	return s.ItemID == ""
}

func (s WorkSession) IsOpen() bool {
	return s.Status == SessionInProgress || s.Status == SessionPaused
}

// Pause moves an in-progress session to paused and returns the pause to persist.
func (s *WorkSession) Pause(pauseID string, reason PauseReason, now time.Time) (PauseLog, error) {
	if _, err := ParsePauseReason(string(reason)); err != nil {
		return PauseLog{}, err
	}
	switch s.Status {
	case SessionCompleted:
		return PauseLog{}, ErrSessionCompleted
	case SessionPaused:
		return PauseLog{}, ErrSessionAlreadyPaused
	}
	s.Status = SessionPaused
	return PauseLog{
		ID:          pauseID,
		SessionID:   s.ID,
		JobID:       s.JobID,
		ItemID:      s.ItemID,
		InstallerID: s.InstallerID,
		StartTime:   now,
		Reason:      reason,
	}, nil
}

// Resume closes the open pause and returns the session to in_progress.
func (s *WorkSession) Resume(open *PauseLog, now time.Time) (int, error) {
	switch s.Status {
	case SessionCompleted:
		return 0, ErrSessionCompleted
	case SessionInProgress:
		return 0, ErrSessionNotPaused
	}
	if open == nil || !open.IsOpen() {
		return 0, ErrNoOpenPause
	}
	minutes := open.Close(now)
	s.Status = SessionInProgress
	return minutes, nil
}

type CheckoutData struct {
	Location         *Location
	PhotoRef         string
	InstalledAreaM2  *float64
	ComplexityLevel  *int
	HeightCategory   *HeightCategory
	ScenarioCategory *ScenarioCategory
	Notes            string
	// CreditedItemIDs is ignored for item sessions.
	CreditedItemIDs []string
}

func (c CheckoutData) Validate() error {
	if c.InstalledAreaM2 != nil && *c.InstalledAreaM2 < 0 {
		return ErrInvalidArea
	}
	if c.ComplexityLevel != nil {
		if err := ValidateComplexity(*c.ComplexityLevel); err != nil {
			return err
		}
	}
	if c.HeightCategory != nil {
		if _, err := ParseHeightCategory(string(*c.HeightCategory)); err != nil {
			return err
		}
	}
	if c.ScenarioCategory != nil {
		if _, err := ParseScenarioCategory(string(*c.ScenarioCategory)); err != nil {
			return err
		}
	}
	return nil
}

// Checkout completes the session. totalPauseMin is the sum of all closed
// pauses, including one auto-closed at checkout; data.InstalledAreaM2 must
// already be resolved to the executed area credited to this session.
func (s *WorkSession) Checkout(data CheckoutData, totalPauseMin int, now time.Time) error {
	if s.Status == SessionCompleted {
		return ErrSessionCompleted
	}
	if err := data.Validate(); err != nil {
		return err
	}

	gross := WholeMinutes(now.Sub(s.CheckinAt))
	if totalPauseMin < 0 {
		totalPauseMin = 0
	}
	net := gross - totalPauseMin
	if net < 0 {
		net = 0
	}

	checkout := now
	s.CheckoutAt = &checkout
	s.CheckoutLocation = data.Location
	s.CheckoutPhotoRef = data.PhotoRef
	s.InstalledAreaM2 = data.InstalledAreaM2
	s.ComplexityLevel = data.ComplexityLevel
	s.HeightCategory = data.HeightCategory
	s.ScenarioCategory = data.ScenarioCategory
	s.Notes = data.Notes
	if s.IsWholeJob() {
		s.CreditedItemIDs = append([]string(nil), data.CreditedItemIDs...)
	}
	s.GrossDurationMin = gross
	s.TotalPauseMin = totalPauseMin
	s.NetDurationMin = net
	s.ProductivityM2PerH = Productivity(data.InstalledAreaM2, net)
	s.Status = SessionCompleted
	return nil
}

// Productivity is m² per hour, or nil unless both area and minutes are positive.
func Productivity(areaM2 *float64, netMin int) *float64 {
	if areaM2 == nil || *areaM2 <= 0 || netMin <= 0 {
		return nil
	}
	v := Round2(*areaM2 / (float64(netMin) / 60))
	return &v
}

// WholeMinutes truncates toward zero and clamps negative durations to zero.
func WholeMinutes(d time.Duration) int {
	m := int(d.Minutes())
	if m < 0 {
		return 0
	}
	return m
}
