package productivity

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

// Stores bundles the persistence ports shared by the use cases.
type Stores struct {
	Tx         domain.Transactor
	Jobs       domain.JobRepository
	Installers domain.InstallerRepository
	Sessions   domain.SessionRepository
	Pauses     domain.PauseLogRepository
	Products   domain.InstalledProductRepository
	Benchmarks domain.BenchmarkRepository
	Families   domain.FamilyRepository
}

// Telemetry receives counters for the operations that change state.
type Telemetry interface {
	JobImported(branch string)
	SessionCheckedIn()
	SessionPaused(reason domain.PauseReason)
	SessionCheckedOut(netMinutes int, productivity *float64)
	BenchmarkFolded()
}

type nopTelemetry struct{}

func (nopTelemetry) JobImported(string) {}
func (nopTelemetry) SessionCheckedIn() {}
func (nopTelemetry) SessionPaused(domain.PauseReason) {}
func (nopTelemetry) SessionCheckedOut(int, *float64) {}
func (nopTelemetry) BenchmarkFolded() {}

// FamilyLookup resolves catalogue ids by family name.
type FamilyLookup interface {
	IDByName(ctx context.Context, name string) (*string, error)
	Invalidate()
}

// ReportCache stores compiled reports. Invalidate drops every entry.
type ReportCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context) error
}

// invalidateReports drops cached reports after a committed write. A failure
// is only logged; entries still expire with their TTL.
func invalidateReports(ctx context.Context, cache ReportCache, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx); err != nil {
		logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}

// Runtime carries the ambient collaborators. Zero fields get defaults.
type Runtime struct {
	Clock     func() time.Time
	NewID     func() string
	Logger    *zap.Logger
	Telemetry Telemetry
}

func (r Runtime) withDefaults() Runtime {
	if r.Clock == nil {
		r.Clock = func() time.Time { return time.Now().UTC() }
	}
	if r.NewID == nil {
		r.NewID = uuid.NewString
	}
	if r.Logger == nil {
		r.Logger = zap.NewNop()
	}
	if r.Telemetry == nil {
		r.Telemetry = nopTelemetry{}
	}
	return r
}

type GeoPoint struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

func (p *GeoPoint) toDomain() *domain.Location {
	if p == nil {
		return nil
	}
	return &domain.Location{Latitude: p.Latitude, Longitude: p.Longitude, Accuracy: p.Accuracy}
}

func (p *GeoPoint) validate() error {
	if p == nil {
		return nil
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return validation("gps coordinates out of range")
	}
	return nil
}

// decodePhoto accepts raw base64 or a data URL.
func decodePhoto(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, nil
	}
	if i := strings.Index(encoded, ";base64,"); strings.HasPrefix(encoded, "data:") && i >= 0 {
		encoded = encoded[i+len(";base64,"):]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, validation("photo must be base64 encoded")
	}
	return data, nil
}

// savePhoto stores data and returns a cleanup that removes it again.
func savePhoto(ctx context.Context, store domain.PhotoStore, data []byte, logger *zap.Logger) (string, func(), error) {
	if len(data) == 0 || store == nil {
		return "", func() {}, nil
	}
	ref, err := store.Save(ctx, data)
	if err != nil {
		return "", func() {}, classify(err)
	}
	return ref, func() {
		if err := store.Delete(context.WithoutCancel(ctx), ref); err != nil {
			logger.Warn("remove orphaned photo failed", zap.String("photo_ref", ref), zap.Error(err))
		}
	}, nil
}

func parseOptionalHeight(raw *string) (*domain.HeightCategory, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	h, err := domain.ParseHeightCategory(strings.TrimSpace(*raw))
	if err != nil {
		return nil, classify(err)
	}
	return &h, nil
}

func parseOptionalScenario(raw *string) (*domain.ScenarioCategory, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	s, err := domain.ParseScenarioCategory(strings.TrimSpace(*raw))
	if err != nil {
		return nil, classify(err)
	}
	return &s, nil
}
