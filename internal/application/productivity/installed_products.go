package productivity

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type RecordInstalledProductInput struct {
	JobID            string
	ProductName      string
	FamilyName       string
	WidthM           *float64
	HeightM          *float64
	AreaM2           *float64
	ComplexityLevel  *int
	HeightCategory   *string
	ScenarioCategory *string
	EstimatedTimeMin *int
	ActualTimeMin    int
	InstallersCount  int
	Notes            string
	CauseNotes       string
}

type RecordInstalledProduct interface {
	Execute(ctx context.Context, in RecordInstalledProductInput) (InstalledProductView, error)
}

type recordInstalledProduct struct {
	stores     Stores
	families   FamilyLookup
	benchmarks benchmarkAggregator
	reports    ReportCache
	rt         Runtime
}

func NewRecordInstalledProduct(stores Stores, families FamilyLookup, reports ReportCache, rt Runtime) RecordInstalledProduct {
	rt = rt.withDefaults()
	return &recordInstalledProduct{
		stores:     stores,
		families:   families,
		benchmarks: benchmarkAggregator{benchmarks: stores.Benchmarks, rt: rt},
		reports:    reports,
		rt:         rt,
	}
}

// Execute stores a manually entered record and folds it into the benchmarks
// the same way automatic records are.
func (uc *recordInstalledProduct) Execute(ctx context.Context, in RecordInstalledProductInput) (InstalledProductView, error) {
	if _, err := requireManager(ctx); err != nil {
		return InstalledProductView{}, err
	}
	name := strings.TrimSpace(in.ProductName)
	if name == "" {
		return InstalledProductView{}, validation("product_name is required")
	}
	if in.ActualTimeMin < 0 {
		return InstalledProductView{}, validation("actual_time_min must not be negative")
	}
	for _, v := range []*float64{in.WidthM, in.HeightM, in.AreaM2} {
		if v != nil && *v < 0 {
			return InstalledProductView{}, classify(domain.ErrInvalidArea)
		}
	}
	complexity := domain.DefaultComplexity
	if in.ComplexityLevel != nil {
		if err := domain.ValidateComplexity(*in.ComplexityLevel); err != nil {
			return InstalledProductView{}, classify(err)
		}
		complexity = *in.ComplexityLevel
	}
	height := domain.DefaultHeight
	if h, err := parseOptionalHeight(in.HeightCategory); err != nil {
		return InstalledProductView{}, err
	} else if h != nil {
		height = *h
	}
	scenario := domain.DefaultScenario
	if s, err := parseOptionalScenario(in.ScenarioCategory); err != nil {
		return InstalledProductView{}, err
	} else if s != nil {
		scenario = *s
	}

	area := in.AreaM2
	if area == nil && in.WidthM != nil && in.HeightM != nil {
		v := domain.Round2(*in.WidthM * *in.HeightM)
		area = &v
	}
	installers := in.InstallersCount
	if installers < 1 {
		installers = 1
	}

	var record domain.InstalledProduct
	err := uc.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		job, err := uc.stores.Jobs.GetByID(txCtx, strings.TrimSpace(in.JobID))
		if err != nil {
			return classify(err)
		}

		familyName := strings.TrimSpace(in.FamilyName)
		var familyID *string
		if familyName != "" && uc.families != nil {
			familyID, err = uc.families.IDByName(txCtx, familyName)
			if err != nil {
				return classify(err)
			}
			if familyID == nil {
				return validation("%v: %s", domain.ErrFamilyNotFound, familyName)
			}
		}

		record = domain.InstalledProduct{
			ID:                 uc.rt.NewID(),
			JobID:              job.ID,
			ProductName:        name,
			FamilyID:           familyID,
			FamilyName:         familyName,
			WidthM:             in.WidthM,
			HeightM:            in.HeightM,
			AreaM2:             area,
			ComplexityLevel:    complexity,
			HeightCategory:     height,
			ScenarioCategory:   scenario,
			EstimatedTimeMin:   in.EstimatedTimeMin,
			ActualTimeMin:      in.ActualTimeMin,
			ProductivityM2PerH: domain.Productivity(area, in.ActualTimeMin),
			InstallersCount:    installers,
			Notes:              strings.TrimSpace(in.Notes),
			CauseNotes:         strings.TrimSpace(in.CauseNotes),
			InstalledAt:        uc.rt.Clock(),
		}
		records := []domain.InstalledProduct{record}
		if err := uc.stores.Products.Create(txCtx, records); err != nil {
			return classify(err)
		}
		return classify(uc.benchmarks.fold(txCtx, records))
	})
	if err != nil {
		return InstalledProductView{}, err
	}

	invalidateReports(ctx, uc.reports, uc.rt.Logger)
	uc.rt.Logger.Info("installed product recorded", zap.String("record_id", record.ID), zap.String("job_id", record.JobID))
	return toInstalledProductView(record), nil
}

type ListInstalledProductsInput struct {
	JobID string
}

type ListInstalledProducts interface {
	Execute(ctx context.Context, in ListInstalledProductsInput) ([]InstalledProductView, error)
}

type listInstalledProducts struct {
	products domain.InstalledProductRepository
}

func NewListInstalledProducts(products domain.InstalledProductRepository) ListInstalledProducts {
	return &listInstalledProducts{products: products}
}

func (uc *listInstalledProducts) Execute(ctx context.Context, in ListInstalledProductsInput) ([]InstalledProductView, error) {
	if _, err := requireManager(ctx); err != nil {
		return nil, err
	}
	records, err := uc.products.List(ctx, strings.TrimSpace(in.JobID))
	if err != nil {
		return nil, classify(err)
	}
	out := make([]InstalledProductView, 0, len(records))
	for _, r := range records {
		out = append(out, toInstalledProductView(r))
	}
	return out, nil
}
