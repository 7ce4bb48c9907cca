package productivity

import (
	"context"
	"time"
)

// Transactor runs fn in a single database transaction. Repositories called
// with the ctx passed to fn take part in that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	GetByID(ctx context.Context, id string) (*Job, error)
	// GetForUpdate loads a job and holds a row lock until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Job, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]Job, error)
	ExistingExternalIDs(ctx context.Context, externalIDs []string) (map[string]bool, error)
	ListIDs(ctx context.Context) ([]string, error)
	// List returns job headers and items, newest first.
	List(ctx context.Context, filter JobFilter) ([]Job, error)
	CountByStatus(ctx context.Context) (map[JobStatus]int, error)
	// Save replaces items, assignments and derived totals. Status is left
	// untouched.
	Save(ctx context.Context, job *Job) error
	// UpdateStatus only moves a job forward; a lower or equal status is a no-op.
	UpdateStatus(ctx context.Context, jobID string, status JobStatus) error
	UpdateAssignmentStatus(ctx context.Context, jobID, itemID, installerID string, status AssignmentStatus) error
}

type InstallerRepository interface {
	Create(ctx context.Context, installer *Installer) error
	GetByID(ctx context.Context, id string) (*Installer, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]Installer, error)
	List(ctx context.Context) ([]Installer, error)
	Update(ctx context.Context, installer *Installer) error
}

type SessionRepository interface {
	// Create fails with ErrOpenSessionExists when the (job, item, installer)
	// triple already has an open session.
	Create(ctx context.Context, session *WorkSession) error
	GetByID(ctx context.Context, id string) (*WorkSession, error)
	// Update writes the session only if its stored version still equals
	// session.Version, then increments it; otherwise ErrStaleSession.
	Update(ctx context.Context, session *WorkSession) error
	ListByJob(ctx context.Context, jobID string) ([]WorkSession, error)
	ListCompleted(ctx context.Context, from, to *time.Time) ([]WorkSession, error)
	// List returns sessions newest check-in first.
	List(ctx context.Context, filter SessionFilter) ([]WorkSession, error)
	Stats(ctx context.Context) (SessionStats, error)
	Delete(ctx context.Context, id string) error
}

type PauseLogRepository interface {
	Create(ctx context.Context, pause *PauseLog) error
	FindOpen(ctx context.Context, sessionID string) (*PauseLog, error)
	Close(ctx context.Context, pause *PauseLog) error
	ListBySession(ctx context.Context, sessionID string) ([]PauseLog, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

type InstalledProductRepository interface {
	Create(ctx context.Context, records []InstalledProduct) error
	List(ctx context.Context, jobID string) ([]InstalledProduct, error)
	DeleteBySession(ctx context.Context, sessionID string) error
}

type BenchmarkRepository interface {
	// Fold merges one sample into the cell in a single atomic statement.
	Fold(ctx context.Context, key BenchmarkKey, value float64, now time.Time) error
	Get(ctx context.Context, key BenchmarkKey) (*Benchmark, error)
	List(ctx context.Context) ([]Benchmark, error)
	ReplaceAll(ctx context.Context, benchmarks []Benchmark) error
}

type FamilyRepository interface {
	Create(ctx context.Context, family *ProductFamily) error
	List(ctx context.Context) ([]ProductFamily, error)
}

// JobSource is the external job-management API.
type JobSource interface {
	FetchJob(ctx context.Context, branch, externalID string) (RawJob, error)
	ListJobs(ctx context.Context, branch string) ([]RawJob, error)
}

type PhotoStore interface {
	Save(ctx context.Context, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
}
