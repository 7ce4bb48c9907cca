package productivity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

func TestComputeMetricsSegments(t *testing.T) {
	t.Parallel()

	records := []domain.InstalledProduct{
		{FamilyName: "Lonas e Banners", ComplexityLevel: 1, HeightCategory: domain.HeightGround, ScenarioCategory: domain.ScenarioMall, AreaM2: floatPtr(6), ActualTimeMin: 60, ProductivityM2PerH: floatPtr(6)},
		{FamilyName: "Lonas e Banners", ComplexityLevel: 3, HeightCategory: domain.HeightHigh, ScenarioCategory: domain.ScenarioMall, AreaM2: floatPtr(4), ActualTimeMin: 60, ProductivityM2PerH: floatPtr(4)},
		{ComplexityLevel: 1, HeightCategory: domain.HeightGround, ScenarioCategory: domain.ScenarioEvent, ActualTimeMin: 30},
	}

	m := domain.ComputeMetrics(records, domain.FallbackFamily)

	assert.Equal(t, 3, m.Overall.TotalProducts)
	assert.InDelta(t, 10.0, m.Overall.TotalAreaM2, 1e-9)
	assert.Equal(t, 150, m.Overall.TotalTimeMin)
	assert.InDelta(t, 5.0, m.Overall.AvgProductivityM2PerH, 1e-9)

	require.Contains(t, m.ByFamily, "Lonas e Banners")
	require.Contains(t, m.ByFamily, domain.FallbackFamily)
	assert.Equal(t, 2, m.ByFamily["Lonas e Banners"].TotalProducts)

	require.Contains(t, m.ByComplexity, "level_1")
	assert.Equal(t, 2, m.ByComplexity["level_1"].TotalProducts)
	assert.InDelta(t, 6.0, m.ByComplexity["level_1"].AvgProductivityM2PerH, 1e-9)

	assert.Equal(t, 1, m.ByHeight[string(domain.HeightHigh)].TotalProducts)
	assert.Equal(t, 2, m.ByScenario[string(domain.ScenarioMall)].TotalProducts)
}
