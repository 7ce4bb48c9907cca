package productivity

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type AssignItemsInput struct {
	JobID            string
	ItemIDs          []string
	InstallerIDs     []string
	DifficultyLevel  *int
	ScenarioCategory *string
}

type AssignItems interface {
	Execute(ctx context.Context, in AssignItemsInput) (JobView, error)
}

type assignItems struct {
	stores  Stores
	reports ReportCache
	rt      Runtime
}

func NewAssignItems(stores Stores, reports ReportCache, rt Runtime) AssignItems {
	return &assignItems{stores: stores, reports: reports, rt: rt.withDefaults()}
}

func (uc *assignItems) Execute(ctx context.Context, in AssignItemsInput) (JobView, error) {
	if _, err := requireManager(ctx); err != nil {
		return JobView{}, err
	}
	scenario, err := parseOptionalScenario(in.ScenarioCategory)
	if err != nil {
		return JobView{}, err
	}

	var view JobView
	err = uc.stores.Tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		job, err := uc.stores.Jobs.GetForUpdate(txCtx, strings.TrimSpace(in.JobID))
		if err != nil {
			return classify(err)
		}

		installerIDs := uniqueTrimmed(in.InstallerIDs)
		found, err := uc.stores.Installers.GetByIDs(txCtx, installerIDs)
		if err != nil {
			return classify(err)
		}
		for _, id := range installerIDs {
			if _, ok := found[id]; !ok {
				return validation("%v: %s", domain.ErrInstallerNotFound, id)
			}
		}

		err = job.Assign(domain.AssignmentRequest{
			ItemIDs:          uniqueTrimmed(in.ItemIDs),
			InstallerIDs:     installerIDs,
			DifficultyLevel:  in.DifficultyLevel,
			ScenarioCategory: scenario,
		}, uc.rt.Clock())
		if err != nil {
			// unknown items are a bad request here, not a missing resource
			if isAny(err, []error{domain.ErrItemNotFound}) {
				return validation("%v", err)
			}
			return classify(err)
		}

		job.UpdatedAt = uc.rt.Clock()
		if err := uc.stores.Jobs.Save(txCtx, job); err != nil {
			return classify(err)
		}
		view = toJobView(*job)
		return nil
	})
	if err != nil {
		return JobView{}, err
	}

	invalidateReports(ctx, uc.reports, uc.rt.Logger)
	uc.rt.Logger.Info("items assigned",
		zap.String("job_id", view.ID),
		zap.Strings("item_ids", in.ItemIDs),
		zap.Strings("installer_ids", in.InstallerIDs),
	)
	return view, nil
}

func uniqueTrimmed(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
