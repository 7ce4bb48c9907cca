package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db/models"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) error {
	row, err := jobToModel(job)
	if err != nil {
		return err
	}
	if err := conn(ctx, r.db).Create(&row).Error; err != nil {
		if isDuplicate(err) {
			return domain.ErrJobAlreadyImported
		}
		return fmt.Errorf("create job: %w", err)
	}
	return nil
}

func (r *JobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	return r.get(conn(ctx, r.db), id)
}

func (r *JobRepository) GetForUpdate(ctx context.Context, id string) (*domain.Job, error) {
	return r.get(lockForUpdate(conn(ctx, r.db)), id)
}

func (r *JobRepository) get(db *gorm.DB, id string) (*domain.Job, error) {
	var row models.Job
	err := db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("source_index") }).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&row, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("get job by id: %w", err)
	}
	job, err := jobFromModel(row)
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *JobRepository) GetByIDs(ctx context.Context, ids []string) (map[string]domain.Job, error) {
	out := make(map[string]domain.Job, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.Job
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("source_index") }).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get jobs by ids: %w", err)
	}
	for _, row := range rows {
		job, err := jobFromModel(row)
		if err != nil {
			return nil, err
		}
		out[job.ID] = job
	}
	return out, nil
}

func (r *JobRepository) ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error) {
	out := make(map[string]bool, len(externalIDs))
	if len(externalIDs) == 0 {
		return out, nil
	}
	var found []string
	if err := conn(ctx, r.db).Model(&models.Job{}).
		Where("external_job_id IN ?", externalIDs).
		Pluck("external_job_id", &found).Error; err != nil {
		return nil, fmt.Errorf("lookup external job ids: %w", err)
	}
	for _, id := range found {
		out[id] = true
	}
	return out, nil
}

func (r *JobRepository) ListIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := conn(ctx, r.db).Model(&models.Job{}).Order("created_at").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list job ids: %w", err)
	}
	return ids, nil
}

func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	q := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("source_index") }).
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
	if filter.Branch != "" {
		q = q.Where("branch = ?", filter.Branch)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.InstallerID != "" {
		assigned := conn(ctx, r.db).Model(&models.ItemAssignment{}).
			Select("job_id").
			Where("installer_id = ?", filter.InstallerID)
		q = q.Where("id IN (?)", assigned)
	}
	var rows []models.Job
	if err := q.Order("created_at DESC").Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	out := make([]domain.Job, 0, len(rows))
	for _, row := range rows {
		job, err := jobFromModel(row)
		if err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, nil
}

func (r *JobRepository) CountByStatus(ctx context.Context) (map[domain.JobStatus]int, error) {
	var rows []struct {
		Status string
		Total  int
	}
	err := conn(ctx, r.db).Model(&models.Job{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count jobs by status: %w", err)
	}
	out := make(map[domain.JobStatus]int, len(rows))
	for _, row := range rows {
		out[domain.JobStatus(row.Status)] = row.Total
	}
	return out, nil
}

// Save rewrites the job row and replaces its items and assignments.
func (r *JobRepository) Save(ctx context.Context, job *domain.Job) error {
	row, err := jobToModel(job)
	if err != nil {
		return err
	}
	if row.UpdatedAt.IsZero() {
		row.UpdatedAt = time.Now().UTC()
	}
	db := conn(ctx, r.db)

	res := db.Model(&models.Job{}).Where("id = ?", job.ID).Updates(map[string]any{
		"title":          row.Title,
		"client_name":    row.ClientName,
		"branch":         row.Branch,
		"area_m2":        row.AreaM2,
		"total_items":    row.TotalItems,
		"total_quantity": row.TotalQuantity,
		"raw_products":   row.RawProducts,
		"scheduled_date": row.ScheduledDate,
		"updated_at":     row.UpdatedAt,
	})
	if res.Error != nil {
		return fmt.Errorf("update job: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrJobNotFound
	}

	if err := db.Where("job_id = ?", job.ID).Delete(&models.ItemAssignment{}).Error; err != nil {
		return fmt.Errorf("delete assignments: %w", err)
	}
	if err := db.Where("job_id = ?", job.ID).Delete(&models.JobItem{}).Error; err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	if len(row.Items) > 0 {
		if err := db.Create(&row.Items).Error; err != nil {
			return fmt.Errorf("insert items: %w", err)
		}
	}
	if len(row.Assignments) > 0 {
		if err := db.Create(&row.Assignments).Error; err != nil {
			return fmt.Errorf("insert assignments: %w", err)
		}
	}
	return nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, jobID string, status domain.JobStatus) error {
	db := conn(ctx, r.db)
	from := status.Before()
	if len(from) > 0 {
		res := db.Model(&models.Job{}).
			Where("id = ? AND status IN ?", jobID, statusStrings(from)).
			Update("status", string(status))
		if res.Error != nil {
			return fmt.Errorf("update job status: %w", res.Error)
		}
		if res.RowsAffected > 0 {
			return nil
		}
	}
	var count int64
	if err := db.Model(&models.Job{}).Where("id = ?", jobID).Count(&count).Error; err != nil {
		return fmt.Errorf("update job status: %w", err)
	}
	if count == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

func (r *JobRepository) UpdateAssignmentStatus(ctx context.Context, jobID, itemID, installerID string, status domain.AssignmentStatus) error {
	err := conn(ctx, r.db).Model(&models.ItemAssignment{}).
		Where("job_id = ? AND item_id = ? AND installer_id = ?", jobID, itemID, installerID).
		Update("status", string(status)).Error
	if err != nil {
		return fmt.Errorf("update assignment status: %w", err)
	}
	return nil
}

func statusStrings(statuses []domain.JobStatus) []string {
	out := make([]string, len(statuses))
	for i, st := range statuses {
		out[i] = string(st)
	}
	return out
}

func jobToModel(job *domain.Job) (models.Job, error) {
	raw, err := json.Marshal(job.RawProducts)
	if err != nil {
		return models.Job{}, fmt.Errorf("encode raw products: %w", err)
	}
	row := models.Job{
		ID:            job.ID,
		ExternalJobID: job.ExternalJobID,
		Title:         job.Title,
		ClientName:    job.ClientName,
		Branch:        job.Branch,
		Status:        string(job.Status),
		AreaM2:        job.AreaM2,
		TotalItems:    job.TotalItems,
		TotalQuantity: job.TotalQuantity,
		RawProducts:   string(raw),
		ScheduledDate: job.ScheduledDate,
		CreatedAt:     job.CreatedAt,
		UpdatedAt:     job.UpdatedAt,
	}
	for _, it := range job.Items {
		row.Items = append(row.Items, models.JobItem{
			ID:                       it.ID,
			JobID:                    job.ID,
			SourceIndex:              it.SourceIndex,
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
	for _, a := range job.Assignments {
		var scenario *string
		if a.ScenarioCategory != nil {
			s := string(*a.ScenarioCategory)
			scenario = &s
		}
		row.Assignments = append(row.Assignments, models.ItemAssignment{
			JobID:            job.ID,
			ItemID:           a.ItemID,
			InstallerID:      a.InstallerID,
			AssignedAreaM2:   a.AssignedAreaM2,
			Status:           string(a.Status),
			DifficultyLevel:  a.DifficultyLevel,
			ScenarioCategory: scenario,
			AssignedAt:       a.AssignedAt,
		})
	}
	return row, nil
}

func jobFromModel(row models.Job) (domain.Job, error) {
	var raw []domain.RawProduct
	if row.RawProducts != "" {
		if err := json.Unmarshal([]byte(row.RawProducts), &raw); err != nil {
			return domain.Job{}, fmt.Errorf("decode raw products of job %s: %w", row.ID, err)
		}
	}
	job := domain.Job{
		ID:            row.ID,
		ExternalJobID: row.ExternalJobID,
		Title:         row.Title,
		ClientName:    row.ClientName,
		Branch:        row.Branch,
		Status:        domain.JobStatus(row.Status),
		AreaM2:        row.AreaM2,
		TotalItems:    row.TotalItems,
		TotalQuantity: row.TotalQuantity,
		Items:         make([]domain.LineItem, 0, len(row.Items)),
		Assignments:   make([]domain.ItemAssignment, 0, len(row.Assignments)),
		RawProducts:   raw,
		ScheduledDate: row.ScheduledDate,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	for _, it := range row.Items {
		job.Items = append(job.Items, domain.LineItem{
			ID:                       it.ID,
			SourceIndex:              it.SourceIndex,
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
	for _, a := range row.Assignments {
		var scenario *domain.ScenarioCategory
		if a.ScenarioCategory != nil {
			s := domain.ScenarioCategory(*a.ScenarioCategory)
			scenario = &s
		}
		job.Assignments = append(job.Assignments, domain.ItemAssignment{
			ItemID:           a.ItemID,
			InstallerID:      a.InstallerID,
			AssignedAreaM2:   a.AssignedAreaM2,
			Status:           domain.AssignmentStatus(a.Status),
			DifficultyLevel:  a.DifficultyLevel,
			ScenarioCategory: scenario,
			AssignedAt:       a.AssignedAt,
		})
	}
	return job, nil
}
