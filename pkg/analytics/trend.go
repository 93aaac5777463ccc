package analytics

// Trend classifies a current figure against a prior one.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// trendBand holds the up/down multipliers for a trend comparison. The two
// call sites deliberately use different sensitivity: snapshot-level
// comparisons use the wider 1.2x/0.8x band, the dashboard uses 1.1x/0.9x.
// Tunable constants kept as-is for behavioral parity with the original
// scoring.
type trendBand struct {
	up   float64
	down float64
}

var (
	snapshotTrendBand  = trendBand{up: 1.2, down: 0.8}
	dashboardTrendBand = trendBand{up: 1.1, down: 0.9}
)

// classifyTrend compares current against prior using the given band. A zero
// prior with any current activity reads as up; two zeros are stable.
func classifyTrend(current, prior float64, band trendBand) Trend {
	if prior == 0 {
		if current > 0 {
			return TrendUp
		}
		return TrendStable
	}
	switch {
	case current > prior*band.up:
		return TrendUp
	case current < prior*band.down:
		return TrendDown
	default:
		return TrendStable
	}
}
