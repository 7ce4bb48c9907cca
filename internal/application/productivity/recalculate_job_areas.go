package productivity

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type RecalculateJobAreasOutput struct {
	UpdatedCount int `json:"updated_count"`
}

type RecalculateJobAreas interface {
	Execute(ctx context.Context) (RecalculateJobAreasOutput, error)
}

type recalculateJobAreas struct {
	stores     Stores
	aggregator domain.AreaAggregator
	workers    int
	reports    ReportCache
	rt         Runtime
}

func NewRecalculateJobAreas(stores Stores, aggregator domain.AreaAggregator, workers int, reports ReportCache, rt Runtime) RecalculateJobAreas {
	if workers <= 0 {
		workers = 4
	}
	return &recalculateJobAreas{stores: stores, aggregator: aggregator, workers: workers, reports: reports, rt: rt.withDefaults()}
}

// Execute re-derives dimensions, families and areas of every job from its
// stored upstream payload. Item ids, assignments and sessions are preserved.
func (uc *recalculateJobAreas) Execute(ctx context.Context) (RecalculateJobAreasOutput, error) {
	if _, err := requireManager(ctx); err != nil {
		return RecalculateJobAreasOutput{}, err
	}

	ids, err := uc.stores.Jobs.ListIDs(ctx)
	if err != nil {
		return RecalculateJobAreasOutput{}, classify(err)
	}

	var updated atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.workers)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return uc.stores.Tx.WithinTransaction(gctx, func(txCtx context.Context) error {
				job, err := uc.stores.Jobs.GetForUpdate(txCtx, id)
				if err != nil {
					return err
				}
				job.ApplyAreaSummary(uc.aggregator.Aggregate(job.RawProducts), uc.rt.NewID)
				job.UpdatedAt = uc.rt.Clock()
				if err := uc.stores.Jobs.Save(txCtx, job); err != nil {
					return err
				}
				updated.Add(1)
				return nil
			})
		})
	}
	err = g.Wait()
	if updated.Load() > 0 {
		invalidateReports(ctx, uc.reports, uc.rt.Logger)
	}
	if err != nil {
		return RecalculateJobAreasOutput{}, classify(err)
	}

	uc.rt.Logger.Info("job areas recalculated", zap.Int64("updated", updated.Load()))
	return RecalculateJobAreasOutput{UpdatedCount: int(updated.Load())}, nil
}
