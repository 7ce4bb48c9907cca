package productivity

import "strconv"

type MetricsBucket struct {
	TotalProducts         int
	TotalAreaM2           float64
	TotalTimeMin          int
	AvgProductivityM2PerH float64
}

type ProductivityMetrics struct {
	Overall      MetricsBucket
	ByFamily     map[string]MetricsBucket
	ByComplexity map[string]MetricsBucket
	ByHeight     map[string]MetricsBucket
	ByScenario   map[string]MetricsBucket
}

type bucketAcc struct {
	products int
	area     float64
	minutes  int
	sumRate  float64
	rated    int
}

func (b *bucketAcc) add(p InstalledProduct) {
	b.products++
	if p.AreaM2 != nil {
		b.area += *p.AreaM2
	}
	b.minutes += p.ActualTimeMin
	if p.ProductivityM2PerH != nil {
		b.sumRate += *p.ProductivityM2PerH
		b.rated++
	}
}

// bucket averages the per-record productivity of records that have one.
func (b *bucketAcc) bucket() MetricsBucket {
	out := MetricsBucket{
		TotalProducts: b.products,
		TotalAreaM2:   Round2(b.area),
		TotalTimeMin:  b.minutes,
	}
	if b.rated > 0 {
		out.AvgProductivityM2PerH = Round2(b.sumRate / float64(b.rated))
	}
	return out
}

// ComputeMetrics segments installed-product records overall and by family,
// complexity, height and scenario. Records without a family are grouped
// under fallbackFamily.
func ComputeMetrics(records []InstalledProduct, fallbackFamily string) ProductivityMetrics {
	overall := &bucketAcc{}
	byFamily := map[string]*bucketAcc{}
	byComplexity := map[string]*bucketAcc{}
	byHeight := map[string]*bucketAcc{}
	byScenario := map[string]*bucketAcc{}

	for _, r := range records {
		overall.add(r)
		accFor(byFamily, familyOr(r.FamilyName, fallbackFamily)).add(r)
		accFor(byComplexity, "level_"+strconv.Itoa(r.ComplexityLevel)).add(r)
		accFor(byHeight, string(r.HeightCategory)).add(r)
		accFor(byScenario, string(r.ScenarioCategory)).add(r)
	}

	return ProductivityMetrics{
		Overall:      overall.bucket(),
		ByFamily:     buckets(byFamily),
		ByComplexity: buckets(byComplexity),
		ByHeight:     buckets(byHeight),
		ByScenario:   buckets(byScenario),
	}
}

func accFor(m map[string]*bucketAcc, key string) *bucketAcc {
	acc, ok := m[key]
	if !ok {
		acc = &bucketAcc{}
		m[key] = acc
	}
	return acc
}

func buckets(m map[string]*bucketAcc) map[string]MetricsBucket {
	out := make(map[string]MetricsBucket, len(m))
	for k, acc := range m {
		out[k] = acc.bucket()
	}
	return out
}
