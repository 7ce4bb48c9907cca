package repository_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/repository"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gdb, err := db.Open(db.Config{
		Driver:   db.DriverSQLite,
		DSN:      "file:" + name + "?mode=memory&cache=shared",
		LogLevel: gormlogger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func floatPtr(v float64) *float64 { return &v }

func seedJob(t *testing.T, gdb *gorm.DB, id, externalID string) domain.Job {
	t.Helper()

	products := []domain.RawProduct{
		{Name: "Lona 3x2m", Quantity: 1},
		{Name: "Adesivo vitrine", Quantity: 2, Description: "Largura: 1m\nAltura: 0,5m"},
	}
	job := domain.Job{
		ID:            id,
		ExternalJobID: externalID,
		Title:         "Loja Centro",
		ClientName:    "Cliente",
		Branch:        "POA",
		Status:        domain.JobAwaiting,
		RawProducts:   products,
		CreatedAt:     t0,
		UpdatedAt:     t0,
	}
	job.ApplyAreaSummary(domain.NewAreaAggregator(domain.DefaultTaxonomy()).Aggregate(products), sequentialIDs(id+"-item"))
	require.NoError(t, repository.NewJobRepository(gdb).Create(context.Background(), &job))
	return job
}
