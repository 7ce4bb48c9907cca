package productivity

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

type DeleteSessionInput struct {
	SessionID string
}

type DeleteSession interface {
	Execute(ctx context.Context, in DeleteSessionInput) error
}

type deleteSession struct {
	stores  Stores
	reports ReportCache
	rt      Runtime
}

func NewDeleteSession(stores Stores, reports ReportCache, rt Runtime) DeleteSession {
	return &deleteSession{stores: stores, reports: reports, rt: rt.withDefaults()}
}

// Execute removes a session with its pause logs and installed-product
// records. Benchmarks already folded from those records are kept; use
// RecomputeBenchmarks to rebuild them.
func (uc *deleteSession) Execute(ctx context.Context, in DeleteSessionInput) error {
	caller, err := requireManager(ctx)
	if err != nil {
		return err
	}
	id := strings.TrimSpace(in.SessionID)
	if id == "" {
		return validation("session id is required")
	}

	err = uc.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := uc.stores.Sessions.GetByID(txCtx, id); err != nil {
			return classify(err)
		}
		if err := uc.stores.Pauses.DeleteBySession(txCtx, id); err != nil {
			return classify(err)
		}
		if err := uc.stores.Products.DeleteBySession(txCtx, id); err != nil {
			return classify(err)
		}
		return classify(uc.stores.Sessions.Delete(txCtx, id))
	})
	if err != nil {
		return err
	}

	invalidateReports(ctx, uc.reports, uc.rt.Logger)
	uc.rt.Logger.Info("session deleted", zap.String("session_id", id), zap.String("by", caller.UserID))
	return nil
}
