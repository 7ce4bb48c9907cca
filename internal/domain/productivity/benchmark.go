package productivity

import (
	"math"
	"sort"
	"time"
)

type BenchmarkKey struct {
	FamilyID         string
	ComplexityLevel  int
	HeightCategory   HeightCategory
	ScenarioCategory ScenarioCategory
}

type Benchmark struct {
	ID                    string
	Key                   BenchmarkKey
	AvgProductivityM2PerH float64
	AvgTimePerM2Min       *float64
	SampleCount           int
	UpdatedAt             time.Time
}

// Fold adds one sample to the running mean. The count only grows.
func (b *Benchmark) Fold(value float64, now time.Time) {
	b.AvgProductivityM2PerH = (b.AvgProductivityM2PerH*float64(b.SampleCount) + value) / float64(b.SampleCount+1)
	b.SampleCount++
	b.AvgTimePerM2Min = TimePerM2(b.AvgProductivityM2PerH)
	b.UpdatedAt = now
}

// TimePerM2 is minutes per m² for a productivity in m²/h.
func TimePerM2(avgProductivity float64) *float64 {
	if avgProductivity <= 0 {
		return nil
	}
	v := 60 / avgProductivity
	return &v
}

// EstimateMinutes projects the time to install areaM2 at this cell's pace.
func (b Benchmark) EstimateMinutes(areaM2 float64) (float64, bool) {
	if b.AvgTimePerM2Min == nil || areaM2 <= 0 {
		return 0, false
	}
	return math.Round(*b.AvgTimePerM2Min * areaM2), true
}

// RebuildBenchmarks folds every eligible record from scratch, in record order.
func RebuildBenchmarks(records []InstalledProduct, now time.Time, newID func() string) []Benchmark {
	cells := map[BenchmarkKey]*Benchmark{}
	order := make([]BenchmarkKey, 0)
	for _, r := range records {
		key, value, ok := r.BenchmarkSample()
		if !ok {
			continue
		}
		b, exists := cells[key]
		if !exists {
			b = &Benchmark{ID: newID(), Key: key}
			cells[key] = b
			order = append(order, key)
		}
		b.Fold(value, now)
	}

	out := make([]Benchmark, 0, len(order))
	for _, key := range order {
		out = append(out, *cells[key])
	}
	sort.SliceStable(out, func(i, j int) bool { return lessKey(out[i].Key, out[j].Key) })
	return out
}

func lessKey(a, b BenchmarkKey) bool {
	if a.FamilyID != b.FamilyID {
		return a.FamilyID < b.FamilyID
	}
	if a.ComplexityLevel != b.ComplexityLevel {
		return a.ComplexityLevel < b.ComplexityLevel
	}
	if a.HeightCategory != b.HeightCategory {
		return a.HeightCategory < b.HeightCategory
	}
	return a.ScenarioCategory < b.ScenarioCategory
}
