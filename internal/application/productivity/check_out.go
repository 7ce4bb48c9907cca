package productivity

import (
	"context"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type CheckOutInput struct {
	SessionID        string
	Photo            string
	GPS              *GeoPoint
	InstalledAreaM2  *float64
	ComplexityLevel  *int
	HeightCategory   *string
	ScenarioCategory *string
	Notes            string
}

type CheckOutOutput struct {
	Session   SessionView            `json:"session"`
	Records   []InstalledProductView `json:"installed_products"`
	JobStatus string                 `json:"job_status"`
}

type CheckOut interface {
	Execute(ctx context.Context, in CheckOutInput) (CheckOutOutput, error)
}

type checkOut struct {
	stores   Stores
	photos   domain.PhotoStore
	recorder installedProductRecorder
	reports  ReportCache
	rt       Runtime
}

func NewCheckOut(stores Stores, photos domain.PhotoStore, families FamilyLookup, reports ReportCache, rt Runtime) CheckOut {
	rt = rt.withDefaults()
	return &checkOut{
		stores: stores,
		photos: photos,
		recorder: installedProductRecorder{
			products:   stores.Products,
			families:   families,
			benchmarks: benchmarkAggregator{benchmarks: stores.Benchmarks, rt: rt},
			rt:         rt,
		},
		reports: reports,
		rt:      rt,
	}
}

// Execute completes a session. Closing the open pause, the derived durations,
// the installed-product records, the benchmark folds and the job status
// change are committed together or not at all.
func (uc *checkOut) Execute(ctx context.Context, in CheckOutInput) (CheckOutOutput, error) {
	installerID, err := requireInstaller(ctx)
	if err != nil {
		return CheckOutOutput{}, err
	}
	height, err := parseOptionalHeight(in.HeightCategory)
	if err != nil {
		return CheckOutOutput{}, err
	}
	scenario, err := parseOptionalScenario(in.ScenarioCategory)
	if err != nil {
		return CheckOutOutput{}, err
	}
	if err := in.GPS.validate(); err != nil {
		return CheckOutOutput{}, err
	}
	photo, err := decodePhoto(in.Photo)
	if err != nil {
		return CheckOutOutput{}, err
	}
	data := domain.CheckoutData{
		Location:         in.GPS.toDomain(),
		InstalledAreaM2:  in.InstalledAreaM2,
		ComplexityLevel:  in.ComplexityLevel,
		HeightCategory:   height,
		ScenarioCategory: scenario,
		Notes:            in.Notes,
	}
	if err := data.Validate(); err != nil {
		return CheckOutOutput{}, classify(err)
	}

	cleanup := func() {}
	var out CheckOutOutput
	err = uc.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		s, err := loadOwnedSession(txCtx, uc.stores.Sessions, in.SessionID, installerID)
		if err != nil {
			return err
		}
		if s.Status == domain.SessionCompleted {
			return classify(domain.ErrSessionCompleted)
		}
		if s.IsWholeJob() && (len(photo) == 0 || in.GPS == nil) {
			return validation("whole-job check-out requires photo and gps")
		}
		job, err := uc.stores.Jobs.GetForUpdate(txCtx, s.JobID)
		if err != nil {
			return classify(err)
		}

		now := uc.rt.Clock()
		open, err := uc.stores.Pauses.FindOpen(txCtx, s.ID)
		if err != nil {
			return classify(err)
		}
		if open != nil {
			open.Close(now)
			if err := uc.stores.Pauses.Close(txCtx, open); err != nil {
				return classify(err)
			}
		}
		pauses, err := uc.stores.Pauses.ListBySession(txCtx, s.ID)
		if err != nil {
			return classify(err)
		}

		var photoRef string
		photoRef, cleanup, err = savePhoto(txCtx, uc.photos, photo, uc.rt.Logger)
		if err != nil {
			return err
		}
		data.PhotoRef = photoRef
		data.InstalledAreaM2 = executedArea(*job, *s, in.InstalledAreaM2)
		if s.IsWholeJob() {
			data.CreditedItemIDs = job.AssignedItemIDs(s.InstallerID)
		}

		if err := s.Checkout(data, domain.TotalPauseMinutes(pauses), now); err != nil {
			return classify(err)
		}
		if err := uc.stores.Sessions.Update(txCtx, s); err != nil {
			return classify(err)
		}

		if !s.IsWholeJob() && job.SetAssignmentStatus(s.ItemID, s.InstallerID, domain.AssignmentCompleted) {
			if err := uc.stores.Jobs.UpdateAssignmentStatus(txCtx, job.ID, s.ItemID, s.InstallerID, domain.AssignmentCompleted); err != nil {
				return classify(err)
			}
		}

		records, err := uc.recorder.record(txCtx, *job, *s)
		if err != nil {
			return classify(err)
		}

		if err := uc.advanceJob(txCtx, job); err != nil {
			return err
		}

		out = CheckOutOutput{
			Session:   toSessionView(*s),
			Records:   make([]InstalledProductView, 0, len(records)),
			JobStatus: string(job.Status),
		}
		for _, r := range records {
			out.Records = append(out.Records, toInstalledProductView(r))
		}
		return nil
	})
	if err != nil {
		cleanup()
		return CheckOutOutput{}, err
	}

	invalidateReports(ctx, uc.reports, uc.rt.Logger)
	uc.rt.Telemetry.SessionCheckedOut(out.Session.NetDurationMin, out.Session.ProductivityM2PerH)
	uc.rt.Logger.Info("session checked out",
		zap.String("session_id", out.Session.ID),
		zap.String("job_id", out.Session.JobID),
		zap.String("installer_id", installerID),
		zap.Int("net_min", out.Session.NetDurationMin),
		zap.Int("pause_min", out.Session.TotalPauseMin),
		zap.Int("records", len(out.Records)),
	)
	return out, nil
}

func (uc *checkOut) advanceJob(ctx context.Context, job *domain.Job) error {
	sessions, err := uc.stores.Sessions.ListByJob(ctx, job.ID)
	if err != nil {
		return classify(err)
	}
	target := domain.JobInstalling
	if job.IsComplete(sessions) {
		target = domain.JobFinished
	}
	if !job.AdvanceStatus(target) {
		return nil
	}
	if err := uc.stores.Jobs.UpdateStatus(ctx, job.ID, job.Status); err != nil {
		return classify(err)
	}
	return nil
}

// executedArea resolves the area credited to a session: the installer's
// report, else their assigned share, else the catalogue area.
func executedArea(job domain.Job, s domain.WorkSession, reported *float64) *float64 {
	if reported != nil {
		v := *reported
		return &v
	}
	if !s.IsWholeJob() {
		if a, ok := job.Assignment(s.ItemID, s.InstallerID); ok && a.AssignedAreaM2 != nil {
			v := *a.AssignedAreaM2
			return &v
		}
		if item, ok := job.Item(s.ItemID); ok && item.TotalAreaM2 != nil {
			v := *item.TotalAreaM2
			return &v
		}
		return nil
	}

	var sum float64
	var known bool
	for _, itemID := range job.AssignedItemIDs(s.InstallerID) {
		if a, ok := job.Assignment(itemID, s.InstallerID); ok && a.AssignedAreaM2 != nil {
			sum += *a.AssignedAreaM2
			known = true
		}
	}
	if known {
		v := domain.Round2(sum)
		return &v
	}
	if len(job.Assignments) == 0 && job.AreaM2 > 0 {
		v := job.AreaM2
		return &v
	}
	return nil
}
