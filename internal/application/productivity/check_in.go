package productivity

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type CheckInInput struct {
	JobID  string
	ItemID string
	Photo  string
	GPS    *GeoPoint
}

type CheckIn interface {
	Execute(ctx context.Context, in CheckInInput) (SessionView, error)
}

type checkIn struct {
	stores Stores
	photos domain.PhotoStore
	rt     Runtime
}

func NewCheckIn(stores Stores, photos domain.PhotoStore, rt Runtime) CheckIn {
	return &checkIn{stores: stores, photos: photos, rt: rt.withDefaults()}
}

// Execute opens a session for the calling installer. An empty ItemID opens a
// whole-job session, which must carry a photo and GPS fix.
func (uc *checkIn) Execute(ctx context.Context, in CheckInInput) (SessionView, error) {
	installerID, err := requireInstaller(ctx)
	if err != nil {
		return SessionView{}, err
	}
	jobID := strings.TrimSpace(in.JobID)
	itemID := strings.TrimSpace(in.ItemID)
	if jobID == "" {
		return SessionView{}, validation("job id is required")
	}
	if err := in.GPS.validate(); err != nil {
		return SessionView{}, err
	}
	photo, err := decodePhoto(in.Photo)
	if err != nil {
		return SessionView{}, err
	}
	if itemID == "" && (len(photo) == 0 || in.GPS == nil) {
		return SessionView{}, validation("whole-job check-in requires photo and gps")
	}

	photoRef, cleanup, err := savePhoto(ctx, uc.photos, photo, uc.rt.Logger)
	if err != nil {
		return SessionView{}, err
	}

	var session domain.WorkSession
	err = uc.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		job, err := uc.stores.Jobs.GetForUpdate(txCtx, jobID)
		if err != nil {
			return classify(err)
		}
		if itemID != "" {
			if _, ok := job.Item(itemID); !ok {
				return classify(domain.ErrItemNotFound)
			}
		}

		now := uc.rt.Clock()
		session = domain.NewWorkSession(uc.rt.NewID(), job.ID, itemID, installerID, now, in.GPS.toDomain(), photoRef)
		if err := uc.stores.Sessions.Create(txCtx, &session); err != nil {
			return classify(err)
		}

		if itemID != "" && job.SetAssignmentStatus(itemID, installerID, domain.AssignmentInProgress) {
			if err := uc.stores.Jobs.UpdateAssignmentStatus(txCtx, job.ID, itemID, installerID, domain.AssignmentInProgress); err != nil {
				return classify(err)
			}
		}
		if job.AdvanceStatus(domain.JobInstalling) {
			if err := uc.stores.Jobs.UpdateStatus(txCtx, job.ID, job.Status); err != nil {
				return classify(err)
			}
		}
		return nil
	})
	if err != nil {
		cleanup()
		return SessionView{}, err
	}

	uc.rt.Telemetry.SessionCheckedIn()
	uc.rt.Logger.Info("session checked in",
		zap.String("session_id", session.ID),
		zap.String("job_id", session.JobID),
		zap.String("item_id", session.ItemID),
		zap.String("installer_id", installerID),
	)
	return toSessionView(session), nil
}
