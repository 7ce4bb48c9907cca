package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

// BenchmarkBulkWriter rewrites the benchmark table through COPY. It is used
// for full recomputes on postgres where the history can be large.
type BenchmarkBulkWriter struct {
	pool *pgxpool.Pool
}

func NewBenchmarkBulkWriter(pool *pgxpool.Pool) *BenchmarkBulkWriter {
	return &BenchmarkBulkWriter{pool: pool}
}

func (w *BenchmarkBulkWriter) ReplaceAll(ctx context.Context, benchmarks []domain.Benchmark) error {
	tx, err := w.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM productivity_benchmarks`); err != nil {
		return fmt.Errorf("clear benchmarks: %w", err)
	}

	rows := make([][]any, 0, len(benchmarks))
	for _, b := range benchmarks {
		rows = append(rows, []any{
			b.ID,
			b.Key.FamilyID,
			int64(b.Key.ComplexityLevel),
			string(b.Key.HeightCategory),
			string(b.Key.ScenarioCategory),
			b.AvgProductivityM2PerH,
			b.AvgTimePerM2Min,
			int64(b.SampleCount),
			b.UpdatedAt.UTC(),
		})
	}
	if len(rows) > 0 {
		if _, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"productivity_benchmarks"},
			[]string{
				"id", "family_id", "complexity_level", "height_category", "scenario_category",
				"avg_productivity_m2_per_h", "avg_time_per_m2_min", "sample_count", "updated_at",
			},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("copy benchmarks: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
