package productivity

import (
	"context"

	"golang.org/x/sync/errgroup"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type GetDashboard interface {
	Execute(ctx context.Context) (DashboardView, error)
}

type getDashboard struct {
	stores Stores
}

func NewGetDashboard(stores Stores) GetDashboard {
	return &getDashboard{stores: stores}
}

func (uc *getDashboard) Execute(ctx context.Context) (DashboardView, error) {
	if _, err := requireManager(ctx); err != nil {
		return DashboardView{}, err
	}
	var (
		jobs       map[domain.JobStatus]int
		sessions   domain.SessionStats
		installers []domain.Installer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobs, err = uc.stores.Jobs.CountByStatus(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		sessions, err = uc.stores.Sessions.Stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		installers, err = uc.stores.Installers.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardView{}, classify(err)
	}
	return toDashboardView(domain.NewDashboard(jobs, sessions, len(installers))), nil
}
