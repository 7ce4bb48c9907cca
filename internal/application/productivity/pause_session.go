package productivity

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

// loadOwnedSession fetches a session the calling installer may act on.
func loadOwnedSession(ctx context.Context, sessions domain.SessionRepository, sessionID, installerID string) (*domain.WorkSession, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, validation("session id is required")
	}
	s, err := sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, classify(err)
	}
	if s.InstallerID != installerID {
		return nil, fmt.Errorf("%w: session belongs to another installer", ErrForbidden)
	}
	return s, nil
}

type PauseSessionInput struct {
	SessionID string
	Reason    string
}

type PauseSessionOutput struct {
	Pause   PauseView   `json:"pause"`
	Session SessionView `json:"session"`
}

type PauseSession interface {
	Execute(ctx context.Context, in PauseSessionInput) (PauseSessionOutput, error)
}

type pauseSession struct {
	stores Stores
	rt     Runtime
}

func NewPauseSession(stores Stores, rt Runtime) PauseSession {
	return &pauseSession{stores: stores, rt: rt.withDefaults()}
}

func (uc *pauseSession) Execute(ctx context.Context, in PauseSessionInput) (PauseSessionOutput, error) {
	installerID, err := requireInstaller(ctx)
	if err != nil {
		return PauseSessionOutput{}, err
	}
	reason, err := domain.ParsePauseReason(strings.TrimSpace(in.Reason))
	if err != nil {
		return PauseSessionOutput{}, classify(err)
	}

	var out PauseSessionOutput
	err = uc.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		s, err := loadOwnedSession(txCtx, uc.stores.Sessions, in.SessionID, installerID)
		if err != nil {
			return err
		}
		pause, err := s.Pause(uc.rt.NewID(), reason, uc.rt.Clock())
		if err != nil {
			return classify(err)
		}
		if err := uc.stores.Pauses.Create(txCtx, &pause); err != nil {
			return classify(err)
		}
		if err := uc.stores.Sessions.Update(txCtx, s); err != nil {
			return classify(err)
		}
		out = PauseSessionOutput{Pause: toPauseView(pause), Session: toSessionView(*s)}
		return nil
	})
	if err != nil {
		return PauseSessionOutput{}, err
	}

	uc.rt.Telemetry.SessionPaused(reason)
	uc.rt.Logger.Info("session paused", zap.String("session_id", out.Session.ID), zap.String("reason", string(reason)))
	return out, nil
}

type ResumeSessionInput struct {
	SessionID string
}

type ResumeSessionOutput struct {
	PauseDurationMin int         `json:"pause_duration_min"`
	Session          SessionView `json:"session"`
}

type ResumeSession interface {
	Execute(ctx context.Context, in ResumeSessionInput) (ResumeSessionOutput, error)
}

type resumeSession struct {
	stores Stores
	rt     Runtime
}

func NewResumeSession(stores Stores, rt Runtime) ResumeSession {
	return &resumeSession{stores: stores, rt: rt.withDefaults()}
}

func (uc *resumeSession) Execute(ctx context.Context, in ResumeSessionInput) (ResumeSessionOutput, error) {
	installerID, err := requireInstaller(ctx)
	if err != nil {
		return ResumeSessionOutput{}, err
	}

	var out ResumeSessionOutput
	err = uc.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		s, err := loadOwnedSession(txCtx, uc.stores.Sessions, in.SessionID, installerID)
		if err != nil {
			return err
		}
		open, err := uc.stores.Pauses.FindOpen(txCtx, s.ID)
		if err != nil {
			return classify(err)
		}
		minutes, err := s.Resume(open, uc.rt.Clock())
		if err != nil {
			return classify(err)
		}
		if err := uc.stores.Pauses.Close(txCtx, open); err != nil {
			return classify(err)
		}
		if err := uc.stores.Sessions.Update(txCtx, s); err != nil {
			return classify(err)
		}
		out = ResumeSessionOutput{PauseDurationMin: minutes, Session: toSessionView(*s)}
		return nil
	})
	if err != nil {
		return ResumeSessionOutput{}, err
	}

	uc.rt.Logger.Info("session resumed", zap.String("session_id", out.Session.ID), zap.Int("pause_min", out.PauseDurationMin))
	return out, nil
}

type ListSessionPausesInput struct {
	SessionID string
}

type ListSessionPausesOutput struct {
	Pauses        []PauseView `json:"pauses"`
	TotalPauseMin int         `json:"total_pause_minutes"`
	ActivePause   *PauseView  `json:"active_pause"`
}

type ListSessionPauses interface {
	Execute(ctx context.Context, in ListSessionPausesInput) (ListSessionPausesOutput, error)
}

type listSessionPauses struct {
	stores Stores
}

func NewListSessionPauses(stores Stores) ListSessionPauses {
	return &listSessionPauses{stores: stores}
}

func (uc *listSessionPauses) Execute(ctx context.Context, in ListSessionPausesInput) (ListSessionPausesOutput, error) {
	caller, err := requireRole(ctx, RoleAdmin, RoleManager, RoleInstaller)
	if err != nil {
		return ListSessionPausesOutput{}, err
	}
	id := strings.TrimSpace(in.SessionID)
	if id == "" {
		return ListSessionPausesOutput{}, validation("session id is required")
	}
	s, err := uc.stores.Sessions.GetByID(ctx, id)
	if err != nil {
		return ListSessionPausesOutput{}, classify(err)
	}
	if caller.Role == RoleInstaller && s.InstallerID != caller.InstallerID {
		return ListSessionPausesOutput{}, fmt.Errorf("%w: session belongs to another installer", ErrForbidden)
	}

	pauses, err := uc.stores.Pauses.ListBySession(ctx, s.ID)
	if err != nil {
		return ListSessionPausesOutput{}, classify(err)
	}
	out := ListSessionPausesOutput{
		Pauses:        make([]PauseView, 0, len(pauses)),
		TotalPauseMin: domain.TotalPauseMinutes(pauses),
	}
	for _, p := range pauses {
		v := toPauseView(p)
		out.Pauses = append(out.Pauses, v)
		if p.IsOpen() {
			active := v
			out.ActivePause = &active
		}
	}
	return out, nil
}
