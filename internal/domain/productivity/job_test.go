package productivity_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func sampleJob(t *testing.T) domain.Job {
	t.Helper()

	products := []domain.RawProduct{
		{Name: "Lona 3x2m", Quantity: 1},
		{Name: "Adesivo vitrine", Quantity: 2, Description: "Largura: 1m\nAltura: 0,5m"},
		{Name: "Serviço de montagem", Quantity: 1},
	}
	job := domain.Job{ID: "job-1", ExternalJobID: "4242", Title: "Loja Centro", Status: domain.JobAwaiting, RawProducts: products}
	job.ApplyAreaSummary(domain.NewAreaAggregator(domain.DefaultTaxonomy()).Aggregate(products), sequentialIDs("item"))
	return job
}

func TestAggregateComputesItemAndJobTotals(t *testing.T) {
	t.Parallel()

	summary := domain.NewAreaAggregator(domain.DefaultTaxonomy()).Aggregate([]domain.RawProduct{
		{Name: "Painel", Quantity: 3, Description: "Largura: 2,5m Altura: 1,2m"},
		{Name: "Instalação", Quantity: 2},
	})

	require.Len(t, summary.Items, 2)
	item := summary.Items[0]
	require.NotNil(t, item.WidthM)
	require.NotNil(t, item.HeightM)
	require.NotNil(t, item.TotalAreaM2)
	assert.InDelta(t, 2.5, *item.WidthM, 1e-9)
	assert.InDelta(t, 1.2, *item.HeightM, 1e-9)
	assert.InDelta(t, 9.0, *item.TotalAreaM2, 1e-9)

	assert.Nil(t, summary.Items[1].TotalAreaM2)
	assert.InDelta(t, 9.0, summary.AreaM2, 1e-9)
	assert.Equal(t, 2, summary.TotalItems)
	assert.InDelta(t, 5.0, summary.TotalQuantity, 1e-9)
}

func TestRecalculationIsIdempotentAndKeepsItemIDs(t *testing.T) {
	t.Parallel()

	job := sampleJob(t)
	firstIDs := []string{job.Items[0].ID, job.Items[1].ID, job.Items[2].ID}
	firstArea := job.AreaM2

	aggregator := domain.NewAreaAggregator(domain.DefaultTaxonomy())
	job.ApplyAreaSummary(aggregator.Aggregate(job.RawProducts), sequentialIDs("other"))
	second := job.Items
	job.ApplyAreaSummary(aggregator.Aggregate(job.RawProducts), sequentialIDs("third"))

	assert.Equal(t, second, job.Items)
	assert.Equal(t, firstArea, job.AreaM2)
	assert.Equal(t, firstIDs, []string{job.Items[0].ID, job.Items[1].ID, job.Items[2].ID})
	assert.InDelta(t, 7.0, job.AreaM2, 1e-9)
}

func TestAssignSplitsAreaAndReplacesSamePair(t *testing.T) {
	t.Parallel()

	job := sampleJob(t)
	lona := job.Items[0].ID
	level := 3

	require.NoError(t, job.Assign(domain.AssignmentRequest{
		ItemIDs:         []string{lona},
		InstallerIDs:    []string{"inst-a", "inst-b"},
		DifficultyLevel: &level,
	}, t0))
	require.NoError(t, job.Assign(domain.AssignmentRequest{
		ItemIDs:      []string{lona},
		InstallerIDs: []string{"inst-a"},
	}, t0.Add(time.Hour)))

	require.Len(t, job.Assignments, 2)
	assert.Equal(t, 2, job.InstallersOnItem(lona))

	a, ok := job.Assignment(lona, "inst-a")
	require.True(t, ok)
	require.NotNil(t, a.AssignedAreaM2)
	assert.InDelta(t, 3.0, *a.AssignedAreaM2, 1e-9)
	assert.Nil(t, a.DifficultyLevel)
	assert.Equal(t, domain.AssignmentPending, a.Status)
}

func TestAssignRejectsUnknownItemWithoutChanges(t *testing.T) {
	t.Parallel()

	job := sampleJob(t)
	err := job.Assign(domain.AssignmentRequest{
		ItemIDs:      []string{job.Items[0].ID, "missing"},
		InstallerIDs: []string{"inst-a"},
	}, t0)

	require.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.Empty(t, job.Assignments)
}

func TestAssignValidatesDifficulty(t *testing.T) {
	t.Parallel()

	job := sampleJob(t)
	level := 6
	err := job.Assign(domain.AssignmentRequest{
		ItemIDs:         []string{job.Items[0].ID},
		InstallerIDs:    []string{"inst-a"},
		DifficultyLevel: &level,
	}, t0)

	require.ErrorIs(t, err, domain.ErrInvalidComplexity)
}

func TestAdvanceStatusNeverDecreases(t *testing.T) {
	t.Parallel()

	job := domain.Job{Status: domain.JobAwaiting}

	assert.True(t, job.AdvanceStatus(domain.JobInstalling))
	assert.False(t, job.AdvanceStatus(domain.JobAwaiting))
	assert.False(t, job.AdvanceStatus(domain.JobPaused))
	assert.True(t, job.AdvanceStatus(domain.JobFinished))
	assert.False(t, job.AdvanceStatus(domain.JobInstalling))
	assert.Equal(t, domain.JobFinished, job.Status)
}

func TestIsCompleteUsesAssignedItems(t *testing.T) {
	t.Parallel()

	job := sampleJob(t)
	require.NoError(t, job.Assign(domain.AssignmentRequest{
		ItemIDs:      []string{job.Items[0].ID, job.Items[1].ID},
		InstallerIDs: []string{"inst-a"},
	}, t0))

	done := []domain.WorkSession{
		{JobID: job.ID, ItemID: job.Items[0].ID, Status: domain.SessionCompleted},
	}
	assert.False(t, job.IsComplete(done))

	done = append(done, domain.WorkSession{JobID: job.ID, ItemID: job.Items[1].ID, Status: domain.SessionCompleted})
	assert.True(t, job.IsComplete(done))
}

func TestIsCompleteWithoutAssignments(t *testing.T) {
	t.Parallel()

	job := sampleJob(t)

	assert.False(t, job.IsComplete([]domain.WorkSession{
		{JobID: job.ID, ItemID: job.Items[0].ID, Status: domain.SessionCompleted},
	}))
	assert.True(t, job.IsComplete([]domain.WorkSession{
		{JobID: job.ID, ItemID: "", Status: domain.SessionCompleted},
	}))
}

func TestJobStatusBefore(t *testing.T) {
	t.Parallel()

	assert.Empty(t, domain.JobAwaiting.Before())
	assert.Equal(t, []domain.JobStatus{domain.JobAwaiting}, domain.JobInstalling.Before())
	assert.Equal(t, []domain.JobStatus{domain.JobAwaiting, domain.JobInstalling, domain.JobPaused, domain.JobLate}, domain.JobFinished.Before())
}

func TestParseJobStatus(t *testing.T) {
	s, err := domain.ParseJobStatus(" Finished ")
	require.NoError(t, err)
	assert.Equal(t, domain.JobFinished, s)

	s, err = domain.ParseJobStatus("")
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatus(""), s)

	_, err = domain.ParseJobStatus("cancelled")
	assert.ErrorIs(t, err, domain.ErrInvalidJobStatus)
}
