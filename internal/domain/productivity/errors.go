package productivity

import "errors"

var (
	ErrJobNotFound        = errors.New("job not found")
	ErrJobAlreadyImported = errors.New("job already imported")
	ErrItemNotFound       = errors.New("line item not found")
	ErrInstallerNotFound  = errors.New("installer not found")
	ErrFamilyNotFound     = errors.New("product family not found")
	ErrFamilyExists       = errors.New("product family already exists")
	ErrSessionNotFound    = errors.New("work session not found")
	ErrBenchmarkNotFound  = errors.New("benchmark not found")
	ErrUpstreamJobMissing = errors.New("job not found in external source")

	ErrOpenSessionExists    = errors.New("an open session already exists for this item and installer")
	ErrSessionCompleted     = errors.New("session already completed")
	ErrSessionAlreadyPaused = errors.New("session already paused")
	ErrSessionNotPaused     = errors.New("session is not paused")
	ErrNoOpenPause          = errors.New("session has no open pause")
	ErrStaleSession         = errors.New("session was modified concurrently")

	ErrInvalidPauseReason     = errors.New("invalid pause reason")
	ErrInvalidComplexity      = errors.New("complexity level must be between 1 and 5")
	ErrInvalidHeightCategory  = errors.New("invalid height category")
	ErrInvalidScenario        = errors.New("invalid scenario category")
	ErrInvalidArea            = errors.New("area must not be negative")
	ErrNoItemsSelected        = errors.New("at least one item is required")
	ErrNoInstallersSelected   = errors.New("at least one installer is required")
	ErrInvalidReportDimension = errors.New("invalid report dimension")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidFamilyName      = errors.New("family name is required")
	ErrInvalidInstallerName   = errors.New("installer name is required")
	ErrInvalidBranch          = errors.New("unknown branch")
	ErrInvalidJobStatus       = errors.New("invalid job status")
)
