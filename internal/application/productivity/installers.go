package productivity

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type CreateInstallerInput struct {
	UserID   string
	FullName string
	Branch   string
	Phone    string
}

type CreateInstaller interface {
	Execute(ctx context.Context, in CreateInstallerInput) (InstallerView, error)
}

type createInstaller struct {
	installers domain.InstallerRepository
	rt         Runtime
}

func NewCreateInstaller(installers domain.InstallerRepository, rt Runtime) CreateInstaller {
	return &createInstaller{installers: installers, rt: rt.withDefaults()}
}

func (uc *createInstaller) Execute(ctx context.Context, in CreateInstallerInput) (InstallerView, error) {
	if _, err := requireManager(ctx); err != nil {
		return InstallerView{}, err
	}
	installer, err := domain.NewInstaller(uc.rt.NewID(), in.UserID, in.FullName, in.Branch, in.Phone, uc.rt.Clock())
	if err != nil {
		return InstallerView{}, classify(err)
	}
	if err := uc.installers.Create(ctx, &installer); err != nil {
		return InstallerView{}, classify(err)
	}
	return toInstallerView(installer), nil
}

type ListInstallers interface {
	Execute(ctx context.Context) ([]InstallerView, error)
}

type listInstallers struct {
	installers domain.InstallerRepository
}

func NewListInstallers(installers domain.InstallerRepository) ListInstallers {
	return &listInstallers{installers: installers}
}

func (uc *listInstallers) Execute(ctx context.Context) ([]InstallerView, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}
	installers, err := uc.installers.List(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]InstallerView, 0, len(installers))
	for _, i := range installers {
		out = append(out, toInstallerView(i))
	}
	return out, nil
}

// UpdateInstallerInput changes the non-nil fields.
type UpdateInstallerInput struct {
	ID       string
	FullName *string
	Branch   *string
	Phone    *string
}

type UpdateInstaller interface {
	Execute(ctx context.Context, in UpdateInstallerInput) (InstallerView, error)
}

type updateInstaller struct {
	installers domain.InstallerRepository
	rt         Runtime
}

func NewUpdateInstaller(installers domain.InstallerRepository, rt Runtime) UpdateInstaller {
	return &updateInstaller{installers: installers, rt: rt.withDefaults()}
}

func (uc *updateInstaller) Execute(ctx context.Context, in UpdateInstallerInput) (InstallerView, error) {
	if _, err := requireRole(ctx, RoleAdmin); err != nil {
		return InstallerView{}, err
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return InstallerView{}, validation("installer id is required")
	}
	installer, err := uc.installers.GetByID(ctx, id)
	if err != nil {
		return InstallerView{}, classify(err)
	}
	if err := installer.Apply(domain.InstallerUpdate{FullName: in.FullName, Branch: in.Branch, Phone: in.Phone}); err != nil {
		return InstallerView{}, classify(err)
	}
	if err := uc.installers.Update(ctx, installer); err != nil {
		return InstallerView{}, classify(err)
	}
	uc.rt.Logger.Info("installer updated", zap.String("installer_id", installer.ID))
	return toInstallerView(*installer), nil
}
