package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db/models"
)

type PauseLogRepository struct {
	db *gorm.DB
}

func NewPauseLogRepository(db *gorm.DB) *PauseLogRepository {
	return &PauseLogRepository{db: db}
}

func (r *PauseLogRepository) Create(ctx context.Context, pause *domain.PauseLog) error {
	row := pauseToModel(pause)
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrSessionAlreadyPaused
		}
		return fmt.Errorf("create pause: %w", err)
	}
	return nil
}

// FindOpen returns nil when the session has no open pause.
func (r *PauseLogRepository) FindOpen(ctx context.Context, sessionID string) (*domain.PauseLog, error) {
	var row models.PauseLog
	err := conn(ctx, r.db).
		Where("session_id = ? AND end_time IS NULL", sessionID).
		Order("start_time DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find open pause: %w", err)
	}
	p := pauseFromModel(row)
	return &p, nil
}

func (r *PauseLogRepository) Close(ctx context.Context, pause *domain.PauseLog) error {
	res := conn(ctx, r.db).Model(&models.PauseLog{}).
		Where("id = ? AND end_time IS NULL", pause.ID).
		Updates(map[string]any{
			"end_time":     pause.EndTime,
			"duration_min": pause.DurationMin,
		})
	if res.Error != nil {
		return fmt.Errorf("close pause: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoOpenPause
	}
	return nil
}

func (r *PauseLogRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.PauseLog, error) {
	var rows []models.PauseLog
	if err := conn(ctx, r.db).Where("session_id = ?", sessionID).Order("start_time").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list pauses: %w", err)
	}
	out := make([]domain.PauseLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, pauseFromModel(row))
	}
	return out, nil
}

func (r *PauseLogRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	if err := conn(ctx, r.db).Where("session_id = ?", sessionID).Delete(&models.PauseLog{}).Error; err != nil {
		return fmt.Errorf("delete pauses: %w", err)
	}
	return nil
}

func pauseToModel(p *domain.PauseLog) models.PauseLog {
	return models.PauseLog{
		ID:          p.ID,
		SessionID:   p.SessionID,
		JobID:       p.JobID,
		ItemID:      p.ItemID,
		InstallerID: p.InstallerID,
		StartTime:   p.StartTime.UTC(),
		EndTime:     p.EndTime,
		Reason:      string(p.Reason),
		DurationMin: p.DurationMin,
	}
}

func pauseFromModel(row models.PauseLog) domain.PauseLog {
	return domain.PauseLog{
		ID:          row.ID,
		SessionID:   row.SessionID,
		JobID:       row.JobID,
		ItemID:      row.ItemID,
		InstallerID: row.InstallerID,
		StartTime:   row.StartTime,
		EndTime:     row.EndTime,
		Reason:      domain.PauseReason(row.Reason),
		DurationMin: row.DurationMin,
	}
}
