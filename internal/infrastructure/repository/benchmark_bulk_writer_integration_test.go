package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/repository"
)

func TestBenchmarkBulkWriterReplaceAllIntegration(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	gdb, err := db.Open(db.Config{Driver: db.DriverPostgres, DSN: dsn})
	if err != nil {
		t.Fatalf("failed to connect db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed schema setup: %v", err)
	}
	if err := gdb.Exec("DELETE FROM productivity_benchmarks").Error; err != nil {
		t.Fatalf("cleanup benchmarks failed: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	gormRepo := repository.NewBenchmarkRepository(gdb)
	key := domain.BenchmarkKey{FamilyID: "fam-1", ComplexityLevel: 3, HeightCategory: domain.HeightMedium, ScenarioCategory: domain.ScenarioStreetStore}
	if err := gormRepo.Fold(ctx, key, 8, t0); err != nil {
		t.Fatalf("fold failed: %v", err)
	}

	writer := repository.NewBenchmarkBulkWriter(pool)
	rebuilt := domain.RebuildBenchmarks([]domain.InstalledProduct{
		{FamilyID: &key.FamilyID, ComplexityLevel: 3, HeightCategory: domain.HeightMedium, ScenarioCategory: domain.ScenarioStreetStore, ProductivityM2PerH: floatPtr(10)},
		{FamilyID: &key.FamilyID, ComplexityLevel: 3, HeightCategory: domain.HeightMedium, ScenarioCategory: domain.ScenarioStreetStore, ProductivityM2PerH: floatPtr(20)},
	}, t0, sequentialIDs("bench"))
	if err := writer.ReplaceAll(ctx, rebuilt); err != nil {
		t.Fatalf("replace all failed: %v", err)
	}

	got, err := gormRepo.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.SampleCount != 2 {
		t.Fatalf("expected 2 samples, got %d", got.SampleCount)
	}
	if got.AvgProductivityM2PerH != 15 {
		t.Fatalf("expected avg 15, got %v", got.AvgProductivityM2PerH)
	}

	if err := gormRepo.Fold(ctx, key, 30, t0); err != nil {
		t.Fatalf("fold after replace failed: %v", err)
	}
	got, err = gormRepo.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.SampleCount != 3 || got.AvgProductivityM2PerH != 20 {
		t.Fatalf("unexpected cell after fold: %+v", got)
	}
}
