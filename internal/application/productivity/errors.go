package productivity

import (
	"errors"
	"fmt"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

// Error classes. Handlers map them to HTTP status codes; the underlying
// domain error stays reachable through errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("state conflict")
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrUpstream   = errors.New("external job source unavailable")
	ErrStorage    = errors.New("storage operation failed")
)

var (
	notFoundErrors = []error{
		domain.ErrJobNotFound,
		domain.ErrItemNotFound,
		domain.ErrInstallerNotFound,
		domain.ErrFamilyNotFound,
		domain.ErrSessionNotFound,
		domain.ErrBenchmarkNotFound,
		domain.ErrUpstreamJobMissing,
	}
	conflictErrors = []error{
		domain.ErrJobAlreadyImported,
		domain.ErrFamilyExists,
		domain.ErrOpenSessionExists,
		domain.ErrSessionCompleted,
		domain.ErrStaleSession,
	}
	validationErrors = []error{
		domain.ErrSessionAlreadyPaused,
		domain.ErrSessionNotPaused,
		domain.ErrNoOpenPause,
		domain.ErrInvalidPauseReason,
		domain.ErrInvalidComplexity,
		domain.ErrInvalidHeightCategory,
		domain.ErrInvalidScenario,
		domain.ErrInvalidArea,
		domain.ErrNoItemsSelected,
		domain.ErrNoInstallersSelected,
		domain.ErrInvalidReportDimension,
		domain.ErrInvalidDate,
		domain.ErrInvalidFamilyName,
		domain.ErrInvalidInstallerName,
		domain.ErrInvalidBranch,
		domain.ErrInvalidJobStatus,
	}
)

// classify wraps err with its class. Errors that already carry a class are
// returned unchanged; anything unknown is a storage failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, class := range []error{ErrValidation, ErrConflict, ErrNotFound, ErrForbidden, ErrUpstream, ErrStorage} {
		if errors.Is(err, class) {
			return err
		}
	}
	switch {
	case isAny(err, notFoundErrors):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case isAny(err, conflictErrors):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case isAny(err, validationErrors):
		return fmt.Errorf("%w: %w", ErrValidation, err)
	default:
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
