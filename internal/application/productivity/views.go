package productivity

import (
	"time"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type LineItemView struct {
	ID                       string   `json:"id"`
	Name                     string   `json:"name"`
	RawDescription           string   `json:"raw_description"`
	Quantity                 float64  `json:"quantity"`
	WidthM                   *float64 `json:"width_m"`
	HeightM                  *float64 `json:"height_m"`
	Copies                   int      `json:"copies"`
	UnitAreaM2               *float64 `json:"unit_area_m2"`
	TotalAreaM2              *float64 `json:"total_area_m2"`
	FamilyName               string   `json:"family_name"`
	ClassificationConfidence float64  `json:"classification_confidence"`
	UnitPrice                float64  `json:"unit_price"`
	TotalValue               float64  `json:"total_value"`
}

type AssignmentView struct {
	ItemID           string    `json:"item_id"`
	InstallerID      string    `json:"installer_id"`
	AssignedAreaM2   *float64  `json:"assigned_area_m2"`
	Status           string    `json:"status"`
	DifficultyLevel  *int      `json:"difficulty_level"`
	ScenarioCategory *string   `json:"scenario_category"`
	AssignedAt       time.Time `json:"assigned_at"`
}

type JobView struct {
	ID            string           `json:"id"`
	ExternalJobID string           `json:"external_job_id"`
	Title         string           `json:"title"`
	ClientName    string           `json:"client_name"`
	Branch        string           `json:"branch"`
	Status        string           `json:"status"`
	AreaM2        float64          `json:"area_m2"`
	TotalItems    int              `json:"total_items"`
	TotalQuantity float64          `json:"total_quantity"`
	Items         []LineItemView   `json:"items"`
	Assignments   []AssignmentView `json:"item_assignments"`
	ScheduledDate *time.Time       `json:"scheduled_date"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func toJobView(j domain.Job) JobView {
	items := make([]LineItemView, 0, len(j.Items))
	for _, it := range j.Items {
		items = append(items, LineItemView{
			ID:                       it.ID,
			Name:                     it.Name,
			RawDescription:           it.RawDescription,
			Quantity:                 it.Quantity,
			WidthM:                   it.WidthM,
			HeightM:                  it.HeightM,
			Copies:                   it.Copies,
			UnitAreaM2:               it.UnitAreaM2,
			TotalAreaM2:              it.TotalAreaM2,
			FamilyName:               it.FamilyName,
			ClassificationConfidence: it.ClassificationConfidence,
			UnitPrice:                it.UnitPrice,
			TotalValue:               it.TotalValue,
		})
	}
	assignments := make([]AssignmentView, 0, len(j.Assignments))
	for _, a := range j.Assignments {
		var scenario *string
		if a.ScenarioCategory != nil {
			s := string(*a.ScenarioCategory)
			scenario = &s
		}
		assignments = append(assignments, AssignmentView{
			ItemID:           a.ItemID,
			InstallerID:      a.InstallerID,
			AssignedAreaM2:   a.AssignedAreaM2,
			Status:           string(a.Status),
			DifficultyLevel:  a.DifficultyLevel,
			ScenarioCategory: scenario,
			AssignedAt:       a.AssignedAt,
		})
	}
	return JobView{
		ID:            j.ID,
		ExternalJobID: j.ExternalJobID,
		Title:         j.Title,
		ClientName:    j.ClientName,
		Branch:        j.Branch,
		Status:        string(j.Status),
		AreaM2:        j.AreaM2,
		TotalItems:    j.TotalItems,
		TotalQuantity: j.TotalQuantity,
		Items:         items,
		Assignments:   assignments,
		ScheduledDate: j.ScheduledDate,
		CreatedAt:     j.CreatedAt,
		UpdatedAt:     j.UpdatedAt,
	}
}

type SessionView struct {
	ID                 string     `json:"id"`
	JobID              string     `json:"job_id"`
	ItemID             *string    `json:"item_id"`
	InstallerID        string     `json:"installer_id"`
	CheckinAt          time.Time  `json:"checkin_at"`
	CheckoutAt         *time.Time `json:"checkout_at"`
	CheckinLocation    *GeoPoint  `json:"checkin_location"`
	CheckoutLocation   *GeoPoint  `json:"checkout_location"`
	CheckinPhotoRef    string     `json:"checkin_photo_ref,omitempty"`
	CheckoutPhotoRef   string     `json:"checkout_photo_ref,omitempty"`
	InstalledAreaM2    *float64   `json:"installed_area_m2"`
	ComplexityLevel    *int       `json:"complexity_level"`
	HeightCategory     *string    `json:"height_category"`
	ScenarioCategory   *string    `json:"scenario_category"`
	GrossDurationMin   int        `json:"gross_duration_min"`
	NetDurationMin     int        `json:"net_duration_min"`
	TotalPauseMin      int        `json:"total_pause_min"`
	ProductivityM2PerH *float64   `json:"productivity_m2_per_h"`
	Notes              string     `json:"notes,omitempty"`
	CreditedItemIDs    []string   `json:"credited_item_ids,omitempty"`
	Status             string     `json:"status"`
}

func toGeoPoint(l *domain.Location) *GeoPoint {
	if l == nil {
		return nil
	}
	return &GeoPoint{Latitude: l.Latitude, Longitude: l.Longitude, Accuracy: l.Accuracy}
}

func toSessionView(s domain.WorkSession) SessionView {
	v := SessionView{
		ID:                 s.ID,
		JobID:              s.JobID,
		InstallerID:        s.InstallerID,
		CheckinAt:          s.CheckinAt,
		CheckoutAt:         s.CheckoutAt,
		CheckinLocation:    toGeoPoint(s.CheckinLocation),
		CheckoutLocation:   toGeoPoint(s.CheckoutLocation),
		CheckinPhotoRef:    s.CheckinPhotoRef,
		CheckoutPhotoRef:   s.CheckoutPhotoRef,
		InstalledAreaM2:    s.InstalledAreaM2,
		ComplexityLevel:    s.ComplexityLevel,
		GrossDurationMin:   s.GrossDurationMin,
		NetDurationMin:     s.NetDurationMin,
		TotalPauseMin:      s.TotalPauseMin,
		ProductivityM2PerH: s.ProductivityM2PerH,
		Notes:              s.Notes,
		CreditedItemIDs:    s.CreditedItemIDs,
		Status:             string(s.Status),
	}
	if !s.IsWholeJob() {
		id := s.ItemID
		v.ItemID = &id
	}
	if s.HeightCategory != nil {
		h := string(*s.HeightCategory)
		v.HeightCategory = &h
	}
	if s.ScenarioCategory != nil {
		sc := string(*s.ScenarioCategory)
		v.ScenarioCategory = &sc
	}
	return v
}

type PauseView struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time"`
	Reason      string     `json:"reason"`
	DurationMin *int       `json:"duration_min"`
}

func toPauseView(p domain.PauseLog) PauseView {
	return PauseView{
		ID:          p.ID,
		SessionID:   p.SessionID,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		Reason:      string(p.Reason),
		DurationMin: p.DurationMin,
	}
}

type InstalledProductView struct {
	ID                 string    `json:"id"`
	JobID              string    `json:"job_id"`
	SessionID          string    `json:"session_id,omitempty"`
	ItemID             string    `json:"item_id,omitempty"`
	ProductName        string    `json:"product_name"`
	FamilyID           *string   `json:"family_id"`
	FamilyName         string    `json:"family_name,omitempty"`
	WidthM             *float64  `json:"width_m"`
	HeightM            *float64  `json:"height_m"`
	AreaM2             *float64  `json:"area_m2"`
	ComplexityLevel    int       `json:"complexity_level"`
	HeightCategory     string    `json:"height_category"`
	ScenarioCategory   string    `json:"scenario_category"`
	EstimatedTimeMin   *int      `json:"estimated_time_min"`
	ActualTimeMin      int       `json:"actual_time_min"`
	ProductivityM2PerH *float64  `json:"productivity_m2_per_h"`
	InstallersCount    int       `json:"installers_count"`
	Notes              string    `json:"notes,omitempty"`
	CauseNotes         string    `json:"cause_notes,omitempty"`
	InstalledAt        time.Time `json:"installed_at"`
}

func toInstalledProductView(p domain.InstalledProduct) InstalledProductView {
	return InstalledProductView{
		ID:                 p.ID,
		JobID:              p.JobID,
		SessionID:          p.SessionID,
		ItemID:             p.ItemID,
		ProductName:        p.ProductName,
		FamilyID:           p.FamilyID,
		FamilyName:         p.FamilyName,
		WidthM:             p.WidthM,
		HeightM:            p.HeightM,
		AreaM2:             p.AreaM2,
		ComplexityLevel:    p.ComplexityLevel,
		HeightCategory:     string(p.HeightCategory),
		ScenarioCategory:   string(p.ScenarioCategory),
		EstimatedTimeMin:   p.EstimatedTimeMin,
		ActualTimeMin:      p.ActualTimeMin,
		ProductivityM2PerH: p.ProductivityM2PerH,
		InstallersCount:    p.InstallersCount,
		Notes:              p.Notes,
		CauseNotes:         p.CauseNotes,
		InstalledAt:        p.InstalledAt,
	}
}

type BenchmarkView struct {
	ID                    string    `json:"id"`
	FamilyID              string    `json:"family_id"`
	ComplexityLevel       int       `json:"complexity_level"`
	HeightCategory        string    `json:"height_category"`
	ScenarioCategory      string    `json:"scenario_category"`
	AvgProductivityM2PerH float64   `json:"avg_productivity_m2_per_h"`
	AvgTimePerM2Min       *float64  `json:"avg_time_per_m2_min"`
	SampleCount           int       `json:"sample_count"`
	UpdatedAt             time.Time `json:"updated_at"`
}

func toBenchmarkView(b domain.Benchmark) BenchmarkView {
	return BenchmarkView{
		ID:                    b.ID,
		FamilyID:              b.Key.FamilyID,
		ComplexityLevel:       b.Key.ComplexityLevel,
		HeightCategory:        string(b.Key.HeightCategory),
		ScenarioCategory:      string(b.Key.ScenarioCategory),
		AvgProductivityM2PerH: domain.Round2(b.AvgProductivityM2PerH),
		AvgTimePerM2Min:       b.AvgTimePerM2Min,
		SampleCount:           b.SampleCount,
		UpdatedAt:             b.UpdatedAt,
	}
}

type FamilyView struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
}

func toFamilyView(f domain.ProductFamily) FamilyView {
	return FamilyView{ID: f.ID, Name: f.Name, Description: f.Description, Color: f.Color, CreatedAt: f.CreatedAt}
}

type InstallerView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	FullName  string    `json:"full_name"`
	Branch    string    `json:"branch"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toInstallerView(i domain.Installer) InstallerView {
	return InstallerView{ID: i.ID, UserID: i.UserID, FullName: i.FullName, Branch: i.Branch, Phone: i.Phone, CreatedAt: i.CreatedAt}
}

// SessionDetailView joins a session with its job and installer. Either may
// be nil when the referenced row no longer exists.
type SessionDetailView struct {
	Session   SessionView    `json:"session"`
	Job       *JobView       `json:"job"`
	Installer *InstallerView `json:"installer"`
	Pauses    []PauseView    `json:"pauses"`
}

type DashboardView struct {
	TotalJobs         int            `json:"total_jobs"`
	JobsByStatus      map[string]int `json:"jobs_by_status"`
	TotalSessions     int            `json:"total_sessions"`
	CompletedSessions int            `json:"completed_sessions"`
	OpenSessions      int            `json:"open_sessions"`
	AvgNetDurationMin float64        `json:"avg_net_duration_min"`
	TotalInstallers   int            `json:"total_installers"`
}

func toDashboardView(d domain.Dashboard) DashboardView {
	v := DashboardView{
		TotalJobs:         d.TotalJobs,
		JobsByStatus:      make(map[string]int, len(d.JobsByStatus)),
		TotalSessions:     d.Sessions.Total,
		CompletedSessions: d.Sessions.Completed,
		OpenSessions:      d.OpenSessions,
		AvgNetDurationMin: d.Sessions.AvgNetDurationMin,
		TotalInstallers:   d.TotalInstallers,
	}
	for status, n := range d.JobsByStatus {
		v.JobsByStatus[string(status)] = n
	}
	return v
}
