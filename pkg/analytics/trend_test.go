package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTrendSnapshotBand(t *testing.T) {
	tests := []struct {
		name    string
		current float64
		prior   float64
		want    Trend
	}{
		{"well above band", 13, 10, TrendUp},
		{"exactly at upper edge", 12, 10, TrendStable},
		{"inside band", 10, 10, TrendStable},
		{"exactly at lower edge", 8, 10, TrendStable},
		{"below band", 7, 10, TrendDown},
		{"no prior no current", 0, 0, TrendStable},
		{"no prior with current", 5, 0, TrendUp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyTrend(tt.current, tt.prior, snapshotTrendBand))
		})
	}
}

func TestClassifyTrendDashboardBandIsTighter(t *testing.T) {
	// 11.5 vs 10 moves the dashboard band but not the snapshot band.
	assert.Equal(t, TrendUp, classifyTrend(11.5, 10, dashboardTrendBand))
	assert.Equal(t, TrendStable, classifyTrend(11.5, 10, snapshotTrendBand))

	// 8.5 vs 10 likewise reads down only at dashboard sensitivity.
	assert.Equal(t, TrendDown, classifyTrend(8.5, 10, dashboardTrendBand))
	assert.Equal(t, TrendStable, classifyTrend(8.5, 10, snapshotTrendBand))
}
