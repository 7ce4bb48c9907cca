package productivity

import "time"

// InstalledProduct is an immutable productivity record emitted on checkout or
// entered manually.
type InstalledProduct struct {
	ID                 string
	JobID              string
	SessionID          string
	ItemID             string
	ProductName        string
	FamilyID           *string
	FamilyName         string
	WidthM             *float64
	HeightM            *float64
	AreaM2             *float64
	ComplexityLevel    int
	HeightCategory     HeightCategory
	ScenarioCategory   ScenarioCategory
	EstimatedTimeMin   *int
	ActualTimeMin      int
	ProductivityM2PerH *float64
	InstallersCount    int
	Notes              string
	CauseNotes         string
	InstalledAt        time.Time
}

// BenchmarkSample returns the cell and value this record contributes, or false
// when it has no family or no positive productivity.
func (p InstalledProduct) BenchmarkSample() (BenchmarkKey, float64, bool) {
	if p.FamilyID == nil || *p.FamilyID == "" {
		return BenchmarkKey{}, 0, false
	}
	if p.ProductivityM2PerH == nil || *p.ProductivityM2PerH <= 0 {
		return BenchmarkKey{}, 0, false
	}
	return BenchmarkKey{
		FamilyID:         *p.FamilyID,
		ComplexityLevel:  p.ComplexityLevel,
		HeightCategory:   p.HeightCategory,
		ScenarioCategory: p.ScenarioCategory,
	}, *p.ProductivityM2PerH, true
}

// FamilyResolver maps a family name to its catalogue id; nil when unknown.
type FamilyResolver func(familyName string) *string

// RecordContext carries the tags applied to every record emitted for one
// completed session.
type RecordContext struct {
	Complexity int
	Height     HeightCategory
	Scenario   ScenarioCategory
	Now        time.Time
	NewID      func() string
	Families   FamilyResolver
}

// RecordsForSession builds the installed-product records of a completed
// session. An item session yields one record. A whole-job session is split
// evenly over its credited items, or yields a single generic record when it
// has none.
func RecordsForSession(job Job, s WorkSession, rc RecordContext) []InstalledProduct {
	if !s.IsWholeJob() {
		item, _ := job.Item(s.ItemID)
		rec := rc.record(job, s, item.ID, item.Name, item.FamilyName, s.InstalledAreaM2, s.NetDurationMin)
		rec.WidthM = item.WidthM
		rec.HeightM = item.HeightM
		rec.InstallersCount = maxInt(1, job.InstallersOnItem(item.ID))
		return []InstalledProduct{rec}
	}

	credited := s.CreditedItemIDs
	if len(credited) == 0 {
		rec := rc.record(job, s, "", job.Title, "", s.InstalledAreaM2, s.NetDurationMin)
		rec.InstallersCount = 1
		return []InstalledProduct{rec}
	}

	n := len(credited)
	minutes := SplitMinutes(s.NetDurationMin, n)
	var areas []float64
	if s.InstalledAreaM2 != nil {
		areas = SplitArea(*s.InstalledAreaM2, n)
	}

	records := make([]InstalledProduct, 0, n)
	for i, itemID := range credited {
		item, _ := job.Item(itemID)
		var area *float64
		if areas != nil {
			area = &areas[i]
		}
		rec := rc.record(job, s, item.ID, item.Name, item.FamilyName, area, minutes[i])
		rec.WidthM = item.WidthM
		rec.HeightM = item.HeightM
		rec.InstallersCount = maxInt(1, job.InstallersOnItem(item.ID))
		records = append(records, rec)
	}
	return records
}

func (rc RecordContext) record(job Job, s WorkSession, itemID, name, family string, area *float64, minutes int) InstalledProduct {
	var familyID *string
	if family != "" && rc.Families != nil {
		familyID = rc.Families(family)
	}
	return InstalledProduct{
		ID:                 rc.NewID(),
		JobID:              job.ID,
		SessionID:          s.ID,
		ItemID:             itemID,
		ProductName:        name,
		FamilyID:           familyID,
		FamilyName:         family,
		AreaM2:             area,
		ComplexityLevel:    rc.Complexity,
		HeightCategory:     rc.Height,
		ScenarioCategory:   rc.Scenario,
		ActualTimeMin:      minutes,
		ProductivityM2PerH: Productivity(area, minutes),
		Notes:              s.Notes,
		InstalledAt:        rc.Now,
	}
}

// SplitMinutes divides total into n whole shares. The remainder goes to the
// first shares so they always add up to total.
func SplitMinutes(total, n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	base, rem := total/n, total%n
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

// SplitArea divides area into n shares rounded to centimetres; the last share
// takes the rounding difference.
func SplitArea(area float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	share := Round2(area / float64(n))
	var sum float64
	for i := 0; i < n-1; i++ {
		out[i] = share
		sum += share
	}
	out[n-1] = Round2(area - sum)
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
