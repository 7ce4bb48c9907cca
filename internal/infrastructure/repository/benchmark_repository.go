package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db/models"
)

// foldSQL merges one sample into a cell without a read-modify-write race.
// Both postgres and sqlite accept this upsert form.
const foldSQL = `
INSERT INTO productivity_benchmarks
	(id, family_id, complexity_level, height_category, scenario_category,
	 avg_productivity_m2_per_h, avg_time_per_m2_min, sample_count, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, 1, ?)
ON CONFLICT (family_id, complexity_level, height_category, scenario_category) DO UPDATE SET
	avg_productivity_m2_per_h = (productivity_benchmarks.avg_productivity_m2_per_h * productivity_benchmarks.sample_count + excluded.avg_productivity_m2_per_h)
		/ (productivity_benchmarks.sample_count + 1),
	avg_time_per_m2_min = 60.0 * (productivity_benchmarks.sample_count + 1)
		/ (productivity_benchmarks.avg_productivity_m2_per_h * productivity_benchmarks.sample_count + excluded.avg_productivity_m2_per_h),
	sample_count = productivity_benchmarks.sample_count + 1,
	updated_at = excluded.updated_at`

type BenchmarkRepository struct {
	db *gorm.DB
}

func NewBenchmarkRepository(db *gorm.DB) *BenchmarkRepository {
	return &BenchmarkRepository{db: db}
}

func (r *BenchmarkRepository) Fold(ctx context.Context, key domain.BenchmarkKey, value float64, now time.Time) error {
	if value <= 0 {
		return nil
	}
	err := conn(ctx, r.db).Exec(foldSQL,
		uuid.NewString(),
		key.FamilyID,
		key.ComplexityLevel,
		string(key.HeightCategory),
		string(key.ScenarioCategory),
		value,
		domain.TimePerM2(value),
		now.UTC(),
	).Error
	if err != nil {
		return fmt.Errorf("fold benchmark: %w", err)
	}
	return nil
}

func (r *BenchmarkRepository) Get(ctx context.Context, key domain.BenchmarkKey) (*domain.Benchmark, error) {
	var row models.ProductivityBenchmark
	err := conn(ctx, r.db).
		Where("family_id = ? AND complexity_level = ? AND height_category = ? AND scenario_category = ?",
			key.FamilyID, key.ComplexityLevel, string(key.HeightCategory), string(key.ScenarioCategory)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBenchmarkNotFound
		}
		return nil, fmt.Errorf("get benchmark: %w", err)
	}
	b := benchmarkFromModel(row)
	return &b, nil
}

func (r *BenchmarkRepository) List(ctx context.Context) ([]domain.Benchmark, error) {
	var rows []models.ProductivityBenchmark
	err := conn(ctx, r.db).
		Order("family_id").Order("complexity_level").Order("height_category").Order("scenario_category").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list benchmarks: %w", err)
	}
	out := make([]domain.Benchmark, 0, len(rows))
	for _, row := range rows {
		out = append(out, benchmarkFromModel(row))
	}
	return out, nil
}

// ReplaceAll swaps the whole table in one transaction.
func (r *BenchmarkRepository) ReplaceAll(ctx context.Context, benchmarks []domain.Benchmark) error {
	rows := make([]models.ProductivityBenchmark, 0, len(benchmarks))
	for _, b := range benchmarks {
		rows = append(rows, benchmarkToModel(b))
	}
	return NewTransactor(r.db).WithinTransaction(ctx, func(ctx context.Context) error {
		db := conn(ctx, r.db)
		if err := db.Where("1 = 1").Delete(&models.ProductivityBenchmark{}).Error; err != nil {
			return fmt.Errorf("clear benchmarks: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := db.CreateInBatches(&rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert benchmarks: %w", err)
		}
		return nil
	})
}

func benchmarkToModel(b domain.Benchmark) models.ProductivityBenchmark {
	return models.ProductivityBenchmark{
		ID:                    b.ID,
		FamilyID:              b.Key.FamilyID,
		ComplexityLevel:       b.Key.ComplexityLevel,
		HeightCategory:        string(b.Key.HeightCategory),
		ScenarioCategory:      string(b.Key.ScenarioCategory),
		AvgProductivityM2PerH: b.AvgProductivityM2PerH,
		AvgTimePerM2Min:       b.AvgTimePerM2Min,
		SampleCount:           b.SampleCount,
		UpdatedAt:             b.UpdatedAt.UTC(),
	}
}

func benchmarkFromModel(row models.ProductivityBenchmark) domain.Benchmark {
	return domain.Benchmark{
		ID: row.ID,
		Key: domain.BenchmarkKey{
			FamilyID:         row.FamilyID,
			ComplexityLevel:  row.ComplexityLevel,
			HeightCategory:   domain.HeightCategory(row.HeightCategory),
			ScenarioCategory: domain.ScenarioCategory(row.ScenarioCategory),
		},
		AvgProductivityM2PerH: row.AvgProductivityM2PerH,
		AvgTimePerM2Min:       row.AvgTimePerM2Min,
		SampleCount:           row.SampleCount,
		UpdatedAt:             row.UpdatedAt,
	}
}
