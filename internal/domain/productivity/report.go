package productivity

import (
	"sort"
	"strings"
	"time"
)

type ReportDimension string

const (
	ReportAll         ReportDimension = ""
	ReportByInstaller ReportDimension = "installer"
	ReportByJob       ReportDimension = "job"
	ReportByFamily    ReportDimension = "family"
	ReportByItem      ReportDimension = "item"
)

func ParseReportDimension(raw string) (ReportDimension, error) {
	switch d := ReportDimension(strings.TrimSpace(raw)); d {
	case ReportAll, ReportByInstaller, ReportByJob, ReportByFamily, ReportByItem:
		return d, nil
	default:
		return "", ErrInvalidReportDimension
	}
}

// ParseReportDate accepts a calendar date (2006-01-02) or RFC 3339. A bare
// date used as an upper bound covers the whole day.
func ParseReportDate(raw string, endOfDay bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

type ReportFilter struct {
	Dimension ReportDimension
	FilterID  string
	From      *time.Time
	To        *time.Time
}

func (f ReportFilter) includes(d ReportDimension) bool {
	return f.Dimension == ReportAll || f.Dimension == d
}

func (f ReportFilter) inRange(t time.Time) bool {
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	return true
}

type InstallerRow struct {
	InstallerID        string
	InstallerName      string
	AreaM2             float64
	NetMinutes         float64
	Sessions           int
	Jobs               int
	ProductivityM2PerH *float64
}

type JobRow struct {
	JobID              string
	ExternalJobID      string
	Title              string
	ClientName         string
	CatalogAreaM2      float64
	ExecutedAreaM2     float64
	NetMinutes         float64
	Sessions           int
	Installers         int
	ProductivityM2PerH *float64
}

type FamilyRow struct {
	FamilyName         string
	AreaM2             float64
	NetMinutes         float64
	Items              int
	Jobs               int
	Installers         int
	ProductivityM2PerH *float64
}

type ItemRow struct {
	JobID              string
	JobTitle           string
	ItemID             string
	ItemName           string
	FamilyName         string
	CatalogAreaM2      *float64
	ExecutedAreaM2     float64
	NetMinutes         float64
	Sessions           int
	Installers         int
	ProductivityM2PerH *float64
}

type ReportSummary struct {
	Sessions           int
	AreaM2             float64
	NetMinutes         float64
	ProductivityM2PerH *float64
}

type ProductivityReport struct {
	Summary     ReportSummary
	ByInstaller []InstallerRow
	ByJob       []JobRow
	ByFamily    []FamilyRow
	ByItem      []ItemRow
}

type ReportSource struct {
	Sessions       []WorkSession
	Jobs           map[string]Job
	InstallerNames map[string]string
	FallbackFamily string
}

// contribution is the share of one session credited to one line item.
type contribution struct {
	itemID  string
	name    string
	family  string
	catalog *float64
	area    float64
	minutes float64
}

func sessionContributions(s WorkSession, job Job, fallbackFamily string) []contribution {
	area := 0.0
	if s.InstalledAreaM2 != nil {
		area = *s.InstalledAreaM2
	}
	minutes := float64(s.NetDurationMin)

	if !s.IsWholeJob() {
		item, _ := job.Item(s.ItemID)
		return []contribution{{
			itemID:  s.ItemID,
			name:    item.Name,
			family:  familyOr(item.FamilyName, fallbackFamily),
			catalog: item.TotalAreaM2,
			area:    area,
			minutes: minutes,
		}}
	}

	credited := s.CreditedItemIDs
	if len(credited) == 0 {
		return []contribution{{family: fallbackFamily, area: area, minutes: minutes}}
	}
	n := len(credited)
	shares := SplitMinutes(s.NetDurationMin, n)
	areas := SplitArea(area, n)
	out := make([]contribution, 0, n)
	for i, id := range credited {
		item, _ := job.Item(id)
		out = append(out, contribution{
			itemID:  id,
			name:    item.Name,
			family:  familyOr(item.FamilyName, fallbackFamily),
			catalog: item.TotalAreaM2,
			area:    areas[i],
			minutes: float64(shares[i]),
		})
	}
	return out
}

func familyOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

func (f ReportFilter) matches(s WorkSession, job Job, c contribution) bool {
	if f.Dimension == ReportAll || f.FilterID == "" {
		return true
	}
	switch f.Dimension {
	case ReportByInstaller:
		return s.InstallerID == f.FilterID
	case ReportByJob:
		return job.ID == f.FilterID
	case ReportByFamily:
		return c.family == f.FilterID
	case ReportByItem:
		return c.itemID == f.FilterID
	}
	return false
}

type installerAcc struct {
	row  InstallerRow
	jobs map[string]bool
}

type jobAcc struct {
	row        JobRow
	installers map[string]bool
}

type familyAcc struct {
	row        FamilyRow
	items      map[string]bool
	jobs       map[string]bool
	installers map[string]bool
}

type itemAcc struct {
	row        ItemRow
	sessions   map[string]bool
	installers map[string]bool
}

// CompileReport folds completed sessions into the per-dimension tables. It
// does not modify its input.
func CompileReport(src ReportSource, f ReportFilter) ProductivityReport {
	installers := map[string]*installerAcc{}
	jobs := map[string]*jobAcc{}
	families := map[string]*familyAcc{}
	items := map[string]*itemAcc{}
	var summary ReportSummary

	for _, s := range src.Sessions {
		if s.Status != SessionCompleted || !f.inRange(s.CheckinAt) {
			continue
		}
		job, ok := src.Jobs[s.JobID]
		if !ok {
			continue
		}

		var kept []contribution
		for _, c := range sessionContributions(s, job, src.FallbackFamily) {
			if f.matches(s, job, c) {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			continue
		}

		var area, minutes float64
		for _, c := range kept {
			area += c.area
			minutes += c.minutes
		}
		summary.Sessions++
		summary.AreaM2 += area
		summary.NetMinutes += minutes

		ia := installers[s.InstallerID]
		if ia == nil {
			ia = &installerAcc{
				row:  InstallerRow{InstallerID: s.InstallerID, InstallerName: src.InstallerNames[s.InstallerID]},
				jobs: map[string]bool{},
			}
			installers[s.InstallerID] = ia
		}
		ia.row.AreaM2 += area
		ia.row.NetMinutes += minutes
		ia.row.Sessions++
		ia.jobs[job.ID] = true

		ja := jobs[job.ID]
		if ja == nil {
			ja = &jobAcc{
				row: JobRow{
					JobID:         job.ID,
					ExternalJobID: job.ExternalJobID,
					Title:         job.Title,
					ClientName:    job.ClientName,
					CatalogAreaM2: job.AreaM2,
				},
				installers: map[string]bool{},
			}
			jobs[job.ID] = ja
		}
		ja.row.ExecutedAreaM2 += area
		ja.row.NetMinutes += minutes
		ja.row.Sessions++
		ja.installers[s.InstallerID] = true

		for _, c := range kept {
			fa := families[c.family]
			if fa == nil {
				fa = &familyAcc{
					row:        FamilyRow{FamilyName: c.family},
					items:      map[string]bool{},
					jobs:       map[string]bool{},
					installers: map[string]bool{},
				}
				families[c.family] = fa
			}
			fa.row.AreaM2 += c.area
			fa.row.NetMinutes += c.minutes
			if c.itemID != "" {
				fa.items[job.ID+"/"+c.itemID] = true
			}
			fa.jobs[job.ID] = true
			fa.installers[s.InstallerID] = true

			if c.itemID == "" {
				continue
			}
			key := job.ID + "/" + c.itemID
			it := items[key]
			if it == nil {
				it = &itemAcc{
					row: ItemRow{
						JobID:         job.ID,
						JobTitle:      job.Title,
						ItemID:        c.itemID,
						ItemName:      c.name,
						FamilyName:    c.family,
						CatalogAreaM2: c.catalog,
					},
					sessions:   map[string]bool{},
					installers: map[string]bool{},
				}
				items[key] = it
			}
			it.row.ExecutedAreaM2 += c.area
			it.row.NetMinutes += c.minutes
			it.sessions[s.ID] = true
			it.installers[s.InstallerID] = true
		}
	}

	report := ProductivityReport{Summary: finishSummary(summary)}
	if f.includes(ReportByInstaller) {
		report.ByInstaller = installerRows(installers)
	}
	if f.includes(ReportByJob) {
		report.ByJob = jobRows(jobs)
	}
	if f.includes(ReportByFamily) {
		report.ByFamily = familyRows(families)
	}
	if f.includes(ReportByItem) {
		report.ByItem = itemRows(items)
	}
	return report
}

func rate(area, minutes float64) *float64 {
	if area <= 0 || minutes <= 0 {
		return nil
	}
	v := Round2(area / (minutes / 60))
	return &v
}

func finishSummary(s ReportSummary) ReportSummary {
	s.ProductivityM2PerH = rate(s.AreaM2, s.NetMinutes)
	s.AreaM2 = Round2(s.AreaM2)
	s.NetMinutes = Round2(s.NetMinutes)
	return s
}

func installerRows(acc map[string]*installerAcc) []InstallerRow {
	rows := make([]InstallerRow, 0, len(acc))
	for _, a := range acc {
		r := a.row
		r.Jobs = len(a.jobs)
		r.ProductivityM2PerH = rate(r.AreaM2, r.NetMinutes)
		r.AreaM2 = Round2(r.AreaM2)
		r.NetMinutes = Round2(r.NetMinutes)
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		pi, pj := valueOr(rows[i].ProductivityM2PerH, -1), valueOr(rows[j].ProductivityM2PerH, -1)
		if pi != pj {
			return pi > pj
		}
		if rows[i].InstallerName != rows[j].InstallerName {
			return rows[i].InstallerName < rows[j].InstallerName
		}
		return rows[i].InstallerID < rows[j].InstallerID
	})
	return rows
}

func jobRows(acc map[string]*jobAcc) []JobRow {
	rows := make([]JobRow, 0, len(acc))
	for _, a := range acc {
		r := a.row
		r.Installers = len(a.installers)
		r.ProductivityM2PerH = rate(r.ExecutedAreaM2, r.NetMinutes)
		r.ExecutedAreaM2 = Round2(r.ExecutedAreaM2)
		r.NetMinutes = Round2(r.NetMinutes)
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ExecutedAreaM2 != rows[j].ExecutedAreaM2 {
			return rows[i].ExecutedAreaM2 > rows[j].ExecutedAreaM2
		}
		return rows[i].JobID < rows[j].JobID
	})
	return rows
}

func familyRows(acc map[string]*familyAcc) []FamilyRow {
	rows := make([]FamilyRow, 0, len(acc))
	for _, a := range acc {
		r := a.row
		r.Items = len(a.items)
		r.Jobs = len(a.jobs)
		r.Installers = len(a.installers)
		r.ProductivityM2PerH = rate(r.AreaM2, r.NetMinutes)
		r.AreaM2 = Round2(r.AreaM2)
		r.NetMinutes = Round2(r.NetMinutes)
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AreaM2 != rows[j].AreaM2 {
			return rows[i].AreaM2 > rows[j].AreaM2
		}
		return rows[i].FamilyName < rows[j].FamilyName
	})
	return rows
}

func itemRows(acc map[string]*itemAcc) []ItemRow {
	rows := make([]ItemRow, 0, len(acc))
	for _, a := range acc {
		r := a.row
		r.Sessions = len(a.sessions)
		r.Installers = len(a.installers)
		r.ProductivityM2PerH = rate(r.ExecutedAreaM2, r.NetMinutes)
		r.ExecutedAreaM2 = Round2(r.ExecutedAreaM2)
		r.NetMinutes = Round2(r.NetMinutes)
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool {
		ci, cj := valueOr(rows[i].CatalogAreaM2, -1), valueOr(rows[j].CatalogAreaM2, -1)
		if ci != cj {
			return ci > cj
		}
		if rows[i].JobID != rows[j].JobID {
			return rows[i].JobID < rows[j].JobID
		}
		return rows[i].ItemID < rows[j].ItemID
	})
	return rows
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
