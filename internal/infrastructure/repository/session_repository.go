package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db/models"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *domain.WorkSession) error {
	row := sessionToModel(session)
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrOpenSessionExists
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (*domain.WorkSession, error) {
	var row models.WorkSession
	if err := conn(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session by id: %w", err)
	}
	s := sessionFromModel(row)
	return &s, nil
}

func (r *SessionRepository) Update(ctx context.Context, session *domain.WorkSession) error {
	row := sessionToModel(session)
	row.Version = session.Version + 1

	res := conn(ctx, r.db).Model(&models.WorkSession{}).
		Where("id = ? AND version = ?", session.ID, session.Version).
		Select("*").Omit("id").
		Updates(&row)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return domain.ErrOpenSessionExists
		}
		return fmt.Errorf("update session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrStaleSession
	}
	session.Version = row.Version
	return nil
}

func (r *SessionRepository) ListByJob(ctx context.Context, jobID string) ([]domain.WorkSession, error) {
	var rows []models.WorkSession
	if err := conn(ctx, r.db).Where("job_id = ?", jobID).Order("checkin_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list sessions by job: %w", err)
	}
	return sessionsFromModels(rows), nil
}

// ListCompleted filters on check-in time; both bounds are inclusive.
func (r *SessionRepository) ListCompleted(ctx context.Context, from, to *time.Time) ([]domain.WorkSession, error) {
	q := conn(ctx, r.db).Where("status = ?", string(domain.SessionCompleted))
	if from != nil {
		q = q.Where("checkin_at >= ?", from.UTC())
	}
	if to != nil {
		q = q.Where("checkin_at <= ?", to.UTC())
	}
	var rows []models.WorkSession
	if err := q.Order("checkin_at").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list completed sessions: %w", err)
	}
	return sessionsFromModels(rows), nil
}

func (r *SessionRepository) List(ctx context.Context, filter domain.SessionFilter) ([]domain.WorkSession, error) {
	q := conn(ctx, r.db)
	if filter.JobID != "" {
		q = q.Where("job_id = ?", filter.JobID)
	}
	if filter.InstallerID != "" {
		q = q.Where("installer_id = ?", filter.InstallerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	var rows []models.WorkSession
	if err := q.Order("checkin_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessionsFromModels(rows), nil
}

// Stats averages net duration over completed sessions only.
func (r *SessionRepository) Stats(ctx context.Context) (domain.SessionStats, error) {
	var row struct {
		Total     int
		Completed int
		AvgNet    *float64
	}
	err := conn(ctx, r.db).Model(&models.WorkSession{}).
		Select("COUNT(*) AS total, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed, "+
			"AVG(CASE WHEN status = ? THEN net_duration_min END) AS avg_net",
			string(domain.SessionCompleted), string(domain.SessionCompleted)).
		Scan(&row).Error
	if err != nil {
		return domain.SessionStats{}, fmt.Errorf("session stats: %w", err)
	}
	stats := domain.SessionStats{Total: row.Total, Completed: row.Completed}
	if row.AvgNet != nil {
		stats.AvgNetDurationMin = *row.AvgNet
	}
	return stats, nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	res := conn(ctx, r.db).Where("id = ?", id).Delete(&models.WorkSession{})
	if res.Error != nil {
		return fmt.Errorf("delete session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func sessionToModel(s *domain.WorkSession) models.WorkSession {
	row := models.WorkSession{
		ID:                 s.ID,
		JobID:              s.JobID,
		ItemID:             s.ItemID,
		InstallerID:        s.InstallerID,
		CheckinAt:          s.CheckinAt.UTC(),
		CheckoutAt:         s.CheckoutAt,
		CheckinPhotoRef:    s.CheckinPhotoRef,
		CheckoutPhotoRef:   s.CheckoutPhotoRef,
		InstalledAreaM2:    s.InstalledAreaM2,
		ComplexityLevel:    s.ComplexityLevel,
		GrossDurationMin:   s.GrossDurationMin,
		NetDurationMin:     s.NetDurationMin,
		TotalPauseMin:      s.TotalPauseMin,
		ProductivityM2PerH: s.ProductivityM2PerH,
		Notes:              s.Notes,
		CreditedItemIDs:    strings.Join(s.CreditedItemIDs, ","),
		Status:             string(s.Status),
		Version:            s.Version,
	}
	if s.CheckinLocation != nil {
		row.CheckinLatitude = &s.CheckinLocation.Latitude
		row.CheckinLongitude = &s.CheckinLocation.Longitude
		row.CheckinAccuracy = s.CheckinLocation.Accuracy
	}
	if s.CheckoutLocation != nil {
		row.CheckoutLatitude = &s.CheckoutLocation.Latitude
		row.CheckoutLongitude = &s.CheckoutLocation.Longitude
		row.CheckoutAccuracy = s.CheckoutLocation.Accuracy
	}
	if s.HeightCategory != nil {
		v := string(*s.HeightCategory)
		row.HeightCategory = &v
	}
	if s.ScenarioCategory != nil {
		v := string(*s.ScenarioCategory)
		row.ScenarioCategory = &v
	}
	return row
}

func sessionFromModel(row models.WorkSession) domain.WorkSession {
	s := domain.WorkSession{
		ID:                 row.ID,
		JobID:              row.JobID,
		ItemID:             row.ItemID,
		InstallerID:        row.InstallerID,
		CheckinAt:          row.CheckinAt,
		CheckoutAt:         row.CheckoutAt,
		CheckinLocation:    locationFromColumns(row.CheckinLatitude, row.CheckinLongitude, row.CheckinAccuracy),
		CheckoutLocation:   locationFromColumns(row.CheckoutLatitude, row.CheckoutLongitude, row.CheckoutAccuracy),
		CheckinPhotoRef:    row.CheckinPhotoRef,
		CheckoutPhotoRef:   row.CheckoutPhotoRef,
		InstalledAreaM2:    row.InstalledAreaM2,
		ComplexityLevel:    row.ComplexityLevel,
		GrossDurationMin:   row.GrossDurationMin,
		NetDurationMin:     row.NetDurationMin,
		TotalPauseMin:      row.TotalPauseMin,
		ProductivityM2PerH: row.ProductivityM2PerH,
		Notes:              row.Notes,
		Status:             domain.SessionStatus(row.Status),
		Version:            row.Version,
	}
	if row.CreditedItemIDs != "" {
		s.CreditedItemIDs = strings.Split(row.CreditedItemIDs, ",")
	}
	if row.HeightCategory != nil {
		v := domain.HeightCategory(*row.HeightCategory)
		s.HeightCategory = &v
	}
	if row.ScenarioCategory != nil {
		v := domain.ScenarioCategory(*row.ScenarioCategory)
		s.ScenarioCategory = &v
	}
	return s
}

func sessionsFromModels(rows []models.WorkSession) []domain.WorkSession {
	out := make([]domain.WorkSession, 0, len(rows))
	for _, row := range rows {
		out = append(out, sessionFromModel(row))
	}
	return out
}

func locationFromColumns(lat, lng, accuracy *float64) *domain.Location {
	if lat == nil || lng == nil {
		return nil
	}
	return &domain.Location{Latitude: *lat, Longitude: *lng, Accuracy: accuracy}
}
