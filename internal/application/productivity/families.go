package productivity

import (
	"context"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type CreateFamilyInput struct {
	Name        string
	Description string
	Color       string
}

type CreateFamily interface {
	Execute(ctx context.Context, in CreateFamilyInput) (FamilyView, error)
}

type createFamily struct {
	families domain.FamilyRepository
	lookup   FamilyLookup
	rt       Runtime
}

func NewCreateFamily(families domain.FamilyRepository, lookup FamilyLookup, rt Runtime) CreateFamily {
	return &createFamily{families: families, lookup: lookup, rt: rt.withDefaults()}
}

func (uc *createFamily) Execute(ctx context.Context, in CreateFamilyInput) (FamilyView, error) {
	if _, err := requireManager(ctx); err != nil {
		return FamilyView{}, err
	}
	family, err := domain.NewProductFamily(uc.rt.NewID(), in.Name, in.Description, in.Color, uc.rt.Clock())
	if err != nil {
		return FamilyView{}, classify(err)
	}
	if err := uc.families.Create(ctx, &family); err != nil {
		return FamilyView{}, classify(err)
	}
	if uc.lookup != nil {
		uc.lookup.Invalidate()
	}
	return toFamilyView(family), nil
}

type ListFamilies interface {
	Execute(ctx context.Context) ([]FamilyView, error)
}

type listFamilies struct {
	families domain.FamilyRepository
}

func NewListFamilies(families domain.FamilyRepository) ListFamilies {
	return &listFamilies{families: families}
}

func (uc *listFamilies) Execute(ctx context.Context) ([]FamilyView, error) {
	if _, err := requireRole(ctx, RoleAdmin, RoleManager, RoleInstaller); err != nil {
		return nil, err
	}
	families, err := uc.families.List(ctx)
	if err != nil {
		return nil, classify(err)
	}
	out := make([]FamilyView, 0, len(families))
	for _, f := range families {
		out = append(out, toFamilyView(f))
	}
	return out, nil
}
