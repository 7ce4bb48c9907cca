package productivity

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

type GetProductivityReportInput struct {
	FilterBy string
	FilterID string
	DateFrom string
	DateTo   string
}

type InstallerRowView struct {
	InstallerID        string   `json:"installer_id"`
	InstallerName      string   `json:"installer_name"`
	AreaM2             float64  `json:"total_area_m2"`
	NetMinutes         float64  `json:"total_net_minutes"`
	Sessions           int      `json:"sessions"`
	Jobs               int      `json:"jobs"`
	ProductivityM2PerH *float64 `json:"productivity_m2_per_h"`
}

type JobRowView struct {
	JobID              string   `json:"job_id"`
	ExternalJobID      string   `json:"external_job_id"`
	Title              string   `json:"title"`
	ClientName         string   `json:"client_name"`
	CatalogAreaM2      float64  `json:"catalog_area_m2"`
	ExecutedAreaM2     float64  `json:"executed_area_m2"`
	NetMinutes         float64  `json:"total_net_minutes"`
	Sessions           int      `json:"sessions"`
	Installers         int      `json:"installers"`
	ProductivityM2PerH *float64 `json:"productivity_m2_per_h"`
}

type FamilyRowView struct {
	FamilyName         string   `json:"family_name"`
	AreaM2             float64  `json:"total_area_m2"`
	NetMinutes         float64  `json:"total_net_minutes"`
	Items              int      `json:"items"`
	Jobs               int      `json:"jobs"`
	Installers         int      `json:"installers"`
	ProductivityM2PerH *float64 `json:"productivity_m2_per_h"`
}

type ItemRowView struct {
	JobID              string   `json:"job_id"`
	JobTitle           string   `json:"job_title"`
	ItemID             string   `json:"item_id"`
	ItemName           string   `json:"item_name"`
	FamilyName         string   `json:"family_name"`
	CatalogAreaM2      *float64 `json:"catalog_area_m2"`
	ExecutedAreaM2     float64  `json:"executed_area_m2"`
	NetMinutes         float64  `json:"total_net_minutes"`
	Sessions           int      `json:"sessions"`
	Installers         int      `json:"installers"`
	ProductivityM2PerH *float64 `json:"productivity_m2_per_h"`
}

type ReportSummaryView struct {
	Sessions           int      `json:"sessions"`
	AreaM2             float64  `json:"total_area_m2"`
	NetMinutes         float64  `json:"total_net_minutes"`
	ProductivityM2PerH *float64 `json:"productivity_m2_per_h"`
}

type ProductivityReportView struct {
	FilterBy    string             `json:"filter_by,omitempty"`
	FilterID    string             `json:"filter_id,omitempty"`
	DateFrom    string             `json:"date_from,omitempty"`
	DateTo      string             `json:"date_to,omitempty"`
	Summary     ReportSummaryView  `json:"summary"`
	ByInstaller []InstallerRowView `json:"by_installer,omitempty"`
	ByJob       []JobRowView       `json:"by_job,omitempty"`
	ByFamily    []FamilyRowView    `json:"by_family,omitempty"`
	ByItem      []ItemRowView      `json:"by_item,omitempty"`
}

type GetProductivityReport interface {
	Execute(ctx context.Context, in GetProductivityReportInput) (ProductivityReportView, error)
}

// reportCompiler loads completed sessions with their jobs and installers and
// folds them with domain.CompileReport.
type reportCompiler struct {
	stores         Stores
	fallbackFamily string
}

func (c reportCompiler) compile(ctx context.Context, in GetProductivityReportInput) (domain.ProductivityReport, error) {
	filter, err := parseReportFilter(in)
	if err != nil {
		return domain.ProductivityReport{}, err
	}

	sessions, err := c.stores.Sessions.ListCompleted(ctx, filter.From, filter.To)
	if err != nil {
		return domain.ProductivityReport{}, classify(err)
	}
	jobIDs := make([]string, 0)
	installerIDs := make([]string, 0)
	seenJob, seenInstaller := map[string]bool{}, map[string]bool{}
	for _, s := range sessions {
		if !seenJob[s.JobID] {
			seenJob[s.JobID] = true
			jobIDs = append(jobIDs, s.JobID)
		}
		if !seenInstaller[s.InstallerID] {
			seenInstaller[s.InstallerID] = true
			installerIDs = append(installerIDs, s.InstallerID)
		}
	}

	jobs, err := c.stores.Jobs.GetByIDs(ctx, jobIDs)
	if err != nil {
		return domain.ProductivityReport{}, classify(err)
	}
	installers, err := c.stores.Installers.GetByIDs(ctx, installerIDs)
	if err != nil {
		return domain.ProductivityReport{}, classify(err)
	}
	names := make(map[string]string, len(installers))
	for id, inst := range installers {
		names[id] = inst.FullName
	}

	return domain.CompileReport(domain.ReportSource{
		Sessions:       sessions,
		Jobs:           jobs,
		InstallerNames: names,
		FallbackFamily: c.fallbackFamily,
	}, filter), nil
}

func parseReportFilter(in GetProductivityReportInput) (domain.ReportFilter, error) {
	dimension, err := domain.ParseReportDimension(in.FilterBy)
	if err != nil {
		return domain.ReportFilter{}, classify(err)
	}
	from, err := domain.ParseReportDate(in.DateFrom, false)
	if err != nil {
		return domain.ReportFilter{}, validation("date_from: %v", err)
	}
	to, err := domain.ParseReportDate(in.DateTo, true)
	if err != nil {
		return domain.ReportFilter{}, validation("date_to: %v", err)
	}
	if from != nil && to != nil && to.Before(*from) {
		return domain.ReportFilter{}, validation("date_to is before date_from")
	}
	return domain.ReportFilter{
		Dimension: dimension,
		FilterID:  strings.TrimSpace(in.FilterID),
		From:      from,
		To:        to,
	}, nil
}

type getProductivityReport struct {
	compiler reportCompiler
	cache    ReportCache
	rt       Runtime
}

func NewGetProductivityReport(stores Stores, taxonomy domain.Taxonomy, cache ReportCache, rt Runtime) GetProductivityReport {
	return &getProductivityReport{
		compiler: reportCompiler{stores: stores, fallbackFamily: taxonomy.FallbackFamily()},
		cache:    cache,
		rt:       rt.withDefaults(),
	}
}

func (uc *getProductivityReport) Execute(ctx context.Context, in GetProductivityReportInput) (ProductivityReportView, error) {
	if _, err := requireManager(ctx); err != nil {
		return ProductivityReportView{}, err
	}

	key := strings.Join([]string{in.FilterBy, in.FilterID, in.DateFrom, in.DateTo}, "|")
	if uc.cache != nil {
		var cached ProductivityReportView
		hit, err := uc.cache.Get(ctx, key, &cached)
		if err != nil {
			uc.rt.Logger.Warn("report cache read failed", zap.Error(err))
		} else if hit {
			return cached, nil
		}
	}

	report, err := uc.compiler.compile(ctx, in)
	if err != nil {
		return ProductivityReportView{}, err
	}
	view := toReportView(report)
	view.FilterBy = strings.TrimSpace(in.FilterBy)
	view.FilterID = strings.TrimSpace(in.FilterID)
	view.DateFrom = strings.TrimSpace(in.DateFrom)
	view.DateTo = strings.TrimSpace(in.DateTo)

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, view); err != nil {
			uc.rt.Logger.Warn("report cache write failed", zap.Error(err))
		}
	}
	return view, nil
}

// ReportRenderer turns a compiled report into a downloadable document.
type ReportRenderer interface {
	Render(report domain.ProductivityReport) ([]byte, error)
}

type ExportProductivityReportOutput struct {
	FileName string
	Content  []byte
}

type ExportProductivityReport interface {
	Execute(ctx context.Context, in GetProductivityReportInput) (ExportProductivityReportOutput, error)
}

type exportProductivityReport struct {
	compiler reportCompiler
	renderer ReportRenderer
	rt       Runtime
}

func NewExportProductivityReport(stores Stores, taxonomy domain.Taxonomy, renderer ReportRenderer, rt Runtime) ExportProductivityReport {
	return &exportProductivityReport{
		compiler: reportCompiler{stores: stores, fallbackFamily: taxonomy.FallbackFamily()},
		renderer: renderer,
		rt:       rt.withDefaults(),
	}
}

func (uc *exportProductivityReport) Execute(ctx context.Context, in GetProductivityReportInput) (ExportProductivityReportOutput, error) {
	if _, err := requireManager(ctx); err != nil {
		return ExportProductivityReportOutput{}, err
	}
	report, err := uc.compiler.compile(ctx, in)
	if err != nil {
		return ExportProductivityReportOutput{}, err
	}
	content, err := uc.renderer.Render(report)
	if err != nil {
		return ExportProductivityReportOutput{}, classify(err)
	}
	return ExportProductivityReportOutput{
		FileName: "productivity-report-" + uc.rt.Clock().Format("20060102-150405") + ".xlsx",
		Content:  content,
	}, nil
}

func toReportView(r domain.ProductivityReport) ProductivityReportView {
	v := ProductivityReportView{
		Summary: ReportSummaryView{
			Sessions:           r.Summary.Sessions,
			AreaM2:             r.Summary.AreaM2,
			NetMinutes:         r.Summary.NetMinutes,
			ProductivityM2PerH: r.Summary.ProductivityM2PerH,
		},
	}
	for _, row := range r.ByInstaller {
		v.ByInstaller = append(v.ByInstaller, InstallerRowView(row))
	}
	for _, row := range r.ByJob {
		v.ByJob = append(v.ByJob, JobRowView(row))
	}
	for _, row := range r.ByFamily {
		v.ByFamily = append(v.ByFamily, FamilyRowView(row))
	}
	for _, row := range r.ByItem {
		v.ByItem = append(v.ByItem, ItemRowView(row))
	}
	return v
}

type MetricsBucketView struct {
	TotalProducts         int     `json:"total_products"`
	TotalAreaM2           float64 `json:"total_area_m2"`
	TotalTimeMin          int     `json:"total_time_min"`
	AvgProductivityM2PerH float64 `json:"avg_productivity_m2_per_h"`
}

type ProductivityMetricsView struct {
	Overall      MetricsBucketView            `json:"overall"`
	ByFamily     map[string]MetricsBucketView `json:"by_family"`
	ByComplexity map[string]MetricsBucketView `json:"by_complexity"`
	ByHeight     map[string]MetricsBucketView `json:"by_height"`
	ByScenario   map[string]MetricsBucketView `json:"by_scenario"`
}

func bucketViews(m map[string]domain.MetricsBucket) map[string]MetricsBucketView {
	out := make(map[string]MetricsBucketView, len(m))
	for k, b := range m {
		out[k] = MetricsBucketView(b)
	}
	return out
}

type GetProductivityMetrics interface {
	Execute(ctx context.Context) (ProductivityMetricsView, error)
}

type getProductivityMetrics struct {
	products       domain.InstalledProductRepository
	fallbackFamily string
}

func NewGetProductivityMetrics(products domain.InstalledProductRepository, taxonomy domain.Taxonomy) GetProductivityMetrics {
	return &getProductivityMetrics{products: products, fallbackFamily: taxonomy.FallbackFamily()}
}

func (uc *getProductivityMetrics) Execute(ctx context.Context) (ProductivityMetricsView, error) {
	if _, err := requireManager(ctx); err != nil {
		return ProductivityMetricsView{}, err
	}
	records, err := uc.products.List(ctx, "")
	if err != nil {
		return ProductivityMetricsView{}, classify(err)
	}
	m := domain.ComputeMetrics(records, uc.fallbackFamily)
	return ProductivityMetricsView{
		Overall:      MetricsBucketView(m.Overall),
		ByFamily:     bucketViews(m.ByFamily),
		ByComplexity: bucketViews(m.ByComplexity),
		ByHeight:     bucketViews(m.ByHeight),
		ByScenario:   bucketViews(m.ByScenario),
	}, nil
}
