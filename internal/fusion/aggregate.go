package fusion

import (
	"github.com/agrisense/backend/internal/domain"
)

// Severity cut points and the region boost are a public contract;
// changing them changes what farmers get paged about.
const (
	severityHighFloor   = 0.8
	severityMediumFloor = 0.6
	regionBoostFactor   = 1.10
)

// Aggregate is the combined outcome of the three rule categories
type Aggregate struct {
	Severity  domain.Severity
	Score     float64 // region-boosted maximum score
	Alerts    []domain.Alert
	Breakdown domain.RuleBreakdown
}

// SeverityForScore buckets a score into the three-tier classification.
// Lower bounds are inclusive.
func SeverityForScore(score float64) domain.Severity {
	switch {
	case score >= severityHighFloor:
		return domain.SeverityHigh
	case score >= severityMediumFloor:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// AggregateResults combines per-category results into one severity
// classification, applying the region-priority boost to the maximum
// score. Alerts preserve per-category fired order in category order
// pest, irrigation, market.
func AggregateResults(pest, irrigation, market domain.CategoryResult, ctx *FeatureContext) Aggregate {
	score := maxScore(pest.Score, irrigation.Score, market.Score)

	// The boost rewards crops in prioritized districts, but a silent
	// context must stay silent regardless of region.
	if ctx.RegionPriorityMatch && score > 0 {
		score *= regionBoostFactor
		if score > 1.0 {
			score = 1.0
		}
	}

	alerts := make([]domain.Alert, 0, len(pest.Fired)+len(irrigation.Fired)+len(market.Fired))
	for _, msg := range pest.Fired {
		alerts = append(alerts, domain.Alert{Type: "pest", Message: msg})
	}
	for _, msg := range irrigation.Fired {
		alerts = append(alerts, domain.Alert{Type: "soil", Message: msg})
	}
	for _, msg := range market.Fired {
		alerts = append(alerts, domain.Alert{Type: "market", Message: msg})
	}

	return Aggregate{
		Severity: SeverityForScore(score),
		Score:    score,
		Alerts:   alerts,
		Breakdown: domain.RuleBreakdown{
			Pest:       pest,
			Irrigation: irrigation,
			Market:     market,
		},
	}
}

func maxScore(scores ...float64) float64 {
	max := 0.0
	for _, s := range scores {
		if s > max {
			max = s
		}
	}
	return max
}
