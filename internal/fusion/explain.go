package fusion

import (
	"fmt"
	"math"
	"strings"

	"github.com/agrisense/backend/internal/crops"
	"github.com/agrisense/backend/internal/domain"
)

// Explanation is the rendered, human-readable half of an advisory
type Explanation struct {
	Summary     string
	Why         string
	Actions     []domain.Recommendation
	Confidence  float64
	DataSources []string
}

const maxActions = 3

// pestLexicon drives keyword matching inside fired-rule text. Crop
// metadata pest/disease names are matched on top of this base set.
var pestLexicon = []string{
	"bollworm", "aphid", "whitefly", "thrips", "mite",
	"rust", "blight", "wilt", "borer", "termite",
}

// Explain renders fired rules and metrics into a summary, ranked
// actions, a why-justification, a confidence value and data-source
// attribution.
func Explain(
	breakdown domain.RuleBreakdown,
	firedRules []string,
	metrics domain.AdvisoryMetrics,
	meta crops.Metadata,
	severity domain.Severity,
	district string,
) Explanation {
	return Explanation{
		Summary:     renderSummary(meta, severity, firedRules, metrics, district),
		Why:         renderWhy(firedRules, metrics),
		Actions:     renderActions(breakdown, metrics, meta),
		Confidence:  confidence(severity, metrics),
		DataSources: dataSources(metrics),
	}
}

// confidence starts from the severity bucket and is boosted additively
// for each corroborating data source, capped at 1.0.
func confidence(severity domain.Severity, metrics domain.AdvisoryMetrics) float64 {
	var base float64
	switch severity {
	case domain.SeverityHigh:
		base = 0.9
	case domain.SeverityMedium:
		base = 0.75
	default:
		base = 0.5
	}

	if metrics.NDVI != nil {
		base += 0.05
	}
	if metrics.MarketPrice != nil {
		base += 0.05
	}
	if metrics.Temperature != nil {
		base += 0.03
	}
	if base > 1.0 {
		base = 1.0
	}
	return math.Round(base*100) / 100
}

// extractPestName finds the first known pest or disease named in rule
// text, preferring the crop's own lexicon.
func extractPestName(ruleText string, meta crops.Metadata) string {
	lower := strings.ToLower(ruleText)
	for _, p := range meta.Pests {
		if strings.Contains(lower, strings.ToLower(p)) {
			return p
		}
	}
	for _, d := range meta.Diseases {
		if strings.Contains(lower, strings.ToLower(d)) {
			return d
		}
	}
	for _, p := range pestLexicon {
		if strings.Contains(lower, p) {
			return p
		}
	}
	return ""
}

func renderSummary(
	meta crops.Metadata,
	severity domain.Severity,
	firedRules []string,
	metrics domain.AdvisoryMetrics,
	district string,
) string {
	cropName := meta.Name
	if cropName == "" {
		cropName = "crop"
	}

	location := ""
	if district != "" {
		location = " near " + district
	}

	topReason := "normal conditions"
	if len(firedRules) > 0 {
		first := strings.ToLower(firedRules[0])
		if pest := extractPestName(first, meta); pest != "" || strings.Contains(first, "pest") {
			if pest == "" {
				pest = "pest"
			}
			topReason = pest + " risk"
		} else if strings.Contains(first, "irrigation") || strings.Contains(first, "moisture") {
			topReason = "irrigation needed"
		} else if strings.Contains(first, "market") || strings.Contains(first, "price") {
			topReason = "market attention"
		}
	}

	var metricParts []string
	if metrics.Humidity != nil {
		metricParts = append(metricParts, fmt.Sprintf("humidity %.0f%%", *metrics.Humidity))
	}
	if metrics.NDVI != nil && *metrics.NDVI < 0.5 {
		metricParts = append(metricParts, "NDVI drop")
	}
	metricText := ""
	if len(metricParts) > 0 && topReason != "normal conditions" {
		metricText = " due to " + strings.Join(metricParts, ", ")
	}

	return fmt.Sprintf("%s risk for %s%s: %s%s.",
		capitalize(string(severity)), cropName, location, topReason, metricText)
}

// renderWhy names the top available corroborating metrics and the top
// fired rule.
func renderWhy(firedRules []string, metrics domain.AdvisoryMetrics) string {
	if len(firedRules) == 0 {
		return "No significant risks detected based on current data."
	}

	// Preference order: humidity, temperature, NDVI, soil moisture
	var parts []string
	if metrics.Humidity != nil {
		parts = append(parts, fmt.Sprintf("humidity (%.0f%%)", *metrics.Humidity))
	}
	if metrics.Temperature != nil {
		parts = append(parts, fmt.Sprintf("temperature (%.0f°C)", *metrics.Temperature))
	}
	if metrics.NDVI != nil {
		parts = append(parts, fmt.Sprintf("NDVI (%.2f)", *metrics.NDVI))
	}
	if metrics.SoilMoisture != nil {
		parts = append(parts, fmt.Sprintf("soil moisture (%.0f%%)", *metrics.SoilMoisture))
	}
	if len(parts) > 2 {
		parts = parts[:2]
	}

	metricText := "available data"
	if len(parts) > 0 {
		metricText = strings.Join(parts, " and ")
	}

	return fmt.Sprintf("%s indicates stress, matching rule '%s'.", capitalize(metricText), firedRules[0])
}

// renderActions generates at most three recommendations in category
// priority order pest, irrigation, market.
func renderActions(breakdown domain.RuleBreakdown, metrics domain.AdvisoryMetrics, meta crops.Metadata) []domain.Recommendation {
	var actions []domain.Recommendation

	// Up to two pest actions, one per fired rule
	for i, rule := range breakdown.Pest.Fired {
		if i >= 2 || len(actions) >= maxActions {
			break
		}
		actions = append(actions, pestAction(rule, meta, breakdown.Pest.Score))
	}

	if len(breakdown.Irrigation.Fired) > 0 && len(actions) < maxActions {
		actions = append(actions, irrigationAction(metrics, meta, breakdown.Irrigation.Score))
	}

	if len(breakdown.Market.Fired) > 0 && len(actions) < maxActions {
		actions = append(actions, marketAction(metrics))
	}

	if len(actions) == 0 {
		actions = append(actions, domain.Recommendation{
			Title:    "Continue monitoring",
			Desc:     "Current conditions are favorable, no action needed",
			Priority: "low",
			Timeline: "ongoing",
		})
	}
	return actions
}

func pestAction(ruleText string, meta crops.Metadata, score float64) domain.Recommendation {
	priority := "medium"
	if score >= severityHighFloor {
		priority = "high"
	}

	pest := extractPestName(ruleText, meta)
	switch pest {
	case "bollworm":
		return domain.Recommendation{
			Title:    "Inspect for bollworm",
			Desc:     "Check the flowering zone and leaf undersides for larvae; apply targeted biological control if found",
			Priority: priority,
			Timeline: "immediate",
		}
	case "aphid":
		return domain.Recommendation{
			Title:    "Inspect for aphids",
			Desc:     "Check young leaves and undersides for colonies; spray neem oil 2% early morning if confirmed",
			Priority: priority,
			Timeline: "immediate",
		}
	case "whitefly":
		return domain.Recommendation{
			Title:    "Monitor whitefly activity",
			Desc:     "Place yellow sticky traps at canopy height and apply neem-based sprays if counts climb",
			Priority: priority,
			Timeline: "within 48 hours",
		}
	case "":
		return domain.Recommendation{
			Title:    "Inspect field for pest damage",
			Desc:     "Walk the field checking for damage signs; consult your local extension officer for treatment",
			Priority: priority,
			Timeline: "within 48 hours",
		}
	default:
		return domain.Recommendation{
			Title:    "Inspect for " + pest,
			Desc:     "Check the field for signs of " + pest + " and consult your extension officer for treatment",
			Priority: priority,
			Timeline: "within 48 hours",
		}
	}
}

// irrigationAction compares soil moisture against the crop's optimal
// band, falling back to a heat-stress check and then to the standing
// schedule. Unknown crops use the 40-70% default band.
func irrigationAction(metrics domain.AdvisoryMetrics, meta crops.Metadata, score float64) domain.Recommendation {
	optimalMin, okMin := meta.Threshold("optimal_soil_moisture_min")
	optimalMax, okMax := meta.Threshold("optimal_soil_moisture_max")
	if !okMin {
		optimalMin = 40
	}
	if !okMax {
		optimalMax = 70
	}

	priority := "medium"
	if score >= severityHighFloor {
		priority = "high"
	}

	if metrics.SoilMoisture != nil {
		moisture := *metrics.SoilMoisture
		if moisture < optimalMin {
			return domain.Recommendation{
				Title: "Schedule irrigation",
				Desc: fmt.Sprintf("Soil moisture (%.0f%%) is below the optimal range (%.0f-%.0f%%); irrigate with even water distribution",
					moisture, optimalMin, optimalMax),
				Priority: priority,
				Timeline: "within 24 hours",
			}
		}
		if moisture > optimalMax {
			return domain.Recommendation{
				Title: "Monitor waterlogging",
				Desc: fmt.Sprintf("Soil moisture (%.0f%%) is above the optimal range; ensure drainage and hold further irrigation",
					moisture),
				Priority: priority,
				Timeline: "within 24 hours",
			}
		}
	}

	if metrics.Temperature != nil && *metrics.Temperature > 35 &&
		(metrics.Rainfall == nil || *metrics.Rainfall < 5) {
		return domain.Recommendation{
			Title:    "Increase irrigation frequency",
			Desc:     "High temperature with little rainfall; add an irrigation cycle to prevent heat stress",
			Priority: priority,
			Timeline: "within 24 hours",
		}
	}

	return domain.Recommendation{
		Title:    "Continue standard irrigation schedule",
		Desc:     "Monitor soil moisture regularly and adjust for weather and crop stage",
		Priority: "low",
		Timeline: "ongoing",
	}
}

// marketAction branches on the price-change percentage: sharp drops
// suggest holding, sharp rises suggest selling, anything else is noise.
func marketAction(metrics domain.AdvisoryMetrics) domain.Recommendation {
	change := 0.0
	if metrics.PriceChangePercent != nil {
		change = *metrics.PriceChangePercent
	}

	switch {
	case change < -5:
		return domain.Recommendation{
			Title: "Consider holding produce",
			Desc: fmt.Sprintf("Market price dropped %.1f%%; prices may recover, check storage options before selling",
				math.Abs(change)),
			Priority: "medium",
			Timeline: "1 week",
		}
	case change > 5:
		return domain.Recommendation{
			Title: "Consider selling opportunity",
			Desc: fmt.Sprintf("Market price increased %.1f%%; check nearby mandi prices and sell if harvest-ready",
				change),
			Priority: "medium",
			Timeline: "this week",
		}
	default:
		return domain.Recommendation{
			Title:    "Monitor market prices",
			Desc:     "Market prices are stable; keep watching for the optimal selling window",
			Priority: "low",
			Timeline: "ongoing",
		}
	}
}

// dataSources attributes the advisory to whichever upstream feeds
// actually contributed readings.
func dataSources(metrics domain.AdvisoryMetrics) []string {
	var sources []string
	if metrics.NDVI != nil {
		sources = append(sources, "Bhuvan Satellite")
	}
	if metrics.Temperature != nil {
		sources = append(sources, "Open-Meteo")
	}
	if metrics.MarketPrice != nil {
		sources = append(sources, "Agmarknet")
	}
	if len(sources) == 0 {
		sources = []string{"Fusion Engine"}
	}
	return sources
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
