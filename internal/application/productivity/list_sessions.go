package productivity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type ListSessionsInput struct {
	JobID       string
	InstallerID string
	Status      string
}

type ListSessions interface {
	Execute(ctx context.Context, in ListSessionsInput) ([]SessionView, error)
}

type listSessions struct {
	sessions domain.SessionRepository
}

func NewListSessions(sessions domain.SessionRepository) ListSessions {
	return &listSessions{sessions: sessions}
}

// Execute narrows installers to their own sessions.
func (uc *listSessions) Execute(ctx context.Context, in ListSessionsInput) ([]SessionView, error) {
	caller, err := requireRole(ctx, RoleAdmin, RoleManager, RoleInstaller)
	if err != nil {
		return nil, err
	}
	filter := domain.SessionFilter{
		JobID:       strings.TrimSpace(in.JobID),
		InstallerID: strings.TrimSpace(in.InstallerID),
	}
	switch st := domain.SessionStatus(strings.ToLower(strings.TrimSpace(in.Status))); st {
	case "", domain.SessionInProgress, domain.SessionPaused, domain.SessionCompleted:
		filter.Status = st
	default:
		return nil, validation("invalid session status %q", in.Status)
	}
	if caller.Role == RoleInstaller {
		if strings.TrimSpace(caller.InstallerID) == "" {
			return nil, fmt.Errorf("%w: caller is not linked to an installer", ErrForbidden)
		}
		filter.InstallerID = caller.InstallerID
	}

	sessions, err := uc.sessions.List(ctx, filter)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]SessionView, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionView(s))
	}
	return out, nil
}

type GetSessionDetailInput struct {
	SessionID string
}

type GetSessionDetail interface {
	Execute(ctx context.Context, in GetSessionDetailInput) (SessionDetailView, error)
}

type getSessionDetail struct {
	stores Stores
}

func NewGetSessionDetail(stores Stores) GetSessionDetail {
	return &getSessionDetail{stores: stores}
}

func (uc *getSessionDetail) Execute(ctx context.Context, in GetSessionDetailInput) (SessionDetailView, error) {
	if _, err := requireManager(ctx); err != nil {
		return SessionDetailView{}, err
	}
	id := strings.TrimSpace(in.SessionID)
	if id == "" {
		return SessionDetailView{}, validation("session id is required")
	}
	s, err := uc.stores.Sessions.GetByID(ctx, id)
	if err != nil {
		return SessionDetailView{}, classify(err)
	}
	out := SessionDetailView{Session: toSessionView(*s)}

	job, err := uc.stores.Jobs.GetByID(ctx, s.JobID)
	switch {
	case err == nil:
		v := toJobView(*job)
		out.Job = &v
	case !errors.Is(err, domain.ErrJobNotFound):
		return SessionDetailView{}, classify(err)
	}

	installer, err := uc.stores.Installers.GetByID(ctx, s.InstallerID)
	switch {
	case err == nil:
		v := toInstallerView(*installer)
		out.Installer = &v
	case !errors.Is(err, domain.ErrInstallerNotFound):
		return SessionDetailView{}, classify(err)
	}

	pauses, err := uc.stores.Pauses.ListBySession(ctx, s.ID)
	if err != nil {
		return SessionDetailView{}, classify(err)
	}
	out.Pauses = make([]PauseView, 0, len(pauses))
	for _, p := range pauses {
		out.Pauses = append(out.Pauses, toPauseView(p))
	}
	return out, nil
}
