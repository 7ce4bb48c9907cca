package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db/models"
)

const insertBatchSize = 500

type InstalledProductRepository struct {
	db *gorm.DB
}

func NewInstalledProductRepository(db *gorm.DB) *InstalledProductRepository {
	return &InstalledProductRepository{db: db}
}

func (r *InstalledProductRepository) Create(ctx context.Context, records []domain.InstalledProduct) error {
	if len(records) == 0 {
		return nil
	}
	rows := make([]models.InstalledProduct, 0, len(records))
	for _, rec := range records {
		rows = append(rows, models.InstalledProduct{
			ID:                 rec.ID,
			JobID:              rec.JobID,
			SessionID:          rec.SessionID,
			ItemID:             rec.ItemID,
			ProductName:        rec.ProductName,
			FamilyID:           rec.FamilyID,
			FamilyName:         rec.FamilyName,
			WidthM:             rec.WidthM,
			HeightM:            rec.HeightM,
			AreaM2:             rec.AreaM2,
			ComplexityLevel:    rec.ComplexityLevel,
			HeightCategory:     string(rec.HeightCategory),
			ScenarioCategory:   string(rec.ScenarioCategory),
			EstimatedTimeMin:   rec.EstimatedTimeMin,
			ActualTimeMin:      rec.ActualTimeMin,
			ProductivityM2PerH: rec.ProductivityM2PerH,
			InstallersCount:    rec.InstallersCount,
			Notes:              rec.Notes,
			CauseNotes:         rec.CauseNotes,
			InstalledAt:        rec.InstalledAt.UTC(),
		})
	}
	if err := conn(ctx, r.db).CreateInBatches(&rows, insertBatchSize).Error; err != nil {
		return fmt.Errorf("create installed products: %w", err)
	}
	return nil
}

// List returns every record when jobID is empty.
func (r *InstalledProductRepository) List(ctx context.Context, jobID string) ([]domain.InstalledProduct, error) {
	q := conn(ctx, r.db).Order("installed_at").Order("id")
	if jobID != "" {
		q = q.Where("job_id = ?", jobID)
	}
	var rows []models.InstalledProduct
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list installed products: %w", err)
	}
	out := make([]domain.InstalledProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.InstalledProduct{
			ID:                 row.ID,
			JobID:              row.JobID,
			SessionID:          row.SessionID,
			ItemID:             row.ItemID,
			ProductName:        row.ProductName,
			FamilyID:           row.FamilyID,
			FamilyName:         row.FamilyName,
			WidthM:             row.WidthM,
			HeightM:            row.HeightM,
			AreaM2:             row.AreaM2,
			ComplexityLevel:    row.ComplexityLevel,
			HeightCategory:     domain.HeightCategory(row.HeightCategory),
			ScenarioCategory:   domain.ScenarioCategory(row.ScenarioCategory),
			EstimatedTimeMin:   row.EstimatedTimeMin,
			ActualTimeMin:      row.ActualTimeMin,
			ProductivityM2PerH: row.ProductivityM2PerH,
			InstallersCount:    row.InstallersCount,
			Notes:              row.Notes,
			CauseNotes:         row.CauseNotes,
			InstalledAt:        row.InstalledAt,
		})
	}
	return out, nil
}

func (r *InstalledProductRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	if err := conn(ctx, r.db).Where("session_id = ?", sessionID).Delete(&models.InstalledProduct{}).Error; err != nil {
		return fmt.Errorf("delete installed products: %w", err)
	}
	return nil
}
