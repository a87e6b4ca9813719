package domain

import "time"

// Severity is the three-tier risk classification derived from the
// maximum fired-rule score.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Alert is a single fired-rule notification tagged with its category
// ("pest", "soil" or "market").
type Alert struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Recommendation is one ranked action for the farmer
type Recommendation struct {
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Priority string `json:"priority"`
	Timeline string `json:"timeline"`
}

// CategoryResult is the outcome of evaluating one rule category:
// fired rule descriptions in definition order plus the maximum score
// among them (0.0 when nothing fired).
type CategoryResult struct {
	Fired []string `json:"fired"`
	Score float64  `json:"score"`
}

// RuleBreakdown groups per-category evaluation results
type RuleBreakdown struct {
	Pest       CategoryResult `json:"pest"`
	Irrigation CategoryResult `json:"irrigation"`
	Market     CategoryResult `json:"market"`
}

// AdvisoryMetrics is the display subset of the feature context.
// Pointers distinguish "no reading" from zero.
type AdvisoryMetrics struct {
	Temperature        *float64 `json:"temperature,omitempty"`
	Humidity           *float64 `json:"humidity,omitempty"`
	Rainfall           *float64 `json:"rainfall,omitempty"`
	NDVI               *float64 `json:"ndvi,omitempty"`
	NDVIChange         *float64 `json:"ndvi_change,omitempty"`
	SoilMoisture       *float64 `json:"soil_moisture,omitempty"`
	MarketPrice        *float64 `json:"market_price,omitempty"`
	PriceChangePercent *float64 `json:"price_change_percent,omitempty"`
}

// Advisory is the complete per-crop recommendation payload
type Advisory struct {
	Crop            string           `json:"crop"`
	Severity        Severity         `json:"severity"`
	Summary         string           `json:"summary"`
	Why             string           `json:"why"`
	Alerts          []Alert          `json:"alerts"`
	Metrics         AdvisoryMetrics  `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations"`
	RuleScore       float64          `json:"rule_score"`
	FiredRules      []string         `json:"fired_rules"`
	RuleBreakdown   RuleBreakdown    `json:"rule_breakdown"`
	Confidence      float64          `json:"confidence"`
	DataSources     []string         `json:"data_sources"`
	LastUpdated     time.Time        `json:"last_updated"`
}

// AdvisoryRequest carries the inputs for one advisory computation.
// Latitude/Longitude are optional; Overrides allows callers to pin
// individual feature values over provider data.
type AdvisoryRequest struct {
	Crop      string            `json:"crop"`
	Latitude  *float64          `json:"lat,omitempty"`
	Longitude *float64          `json:"lon,omitempty"`
	District  string            `json:"district,omitempty"`
	Overrides *FeatureOverrides `json:"overrides,omitempty"`
}

// FeatureOverrides lets a caller replace individual provider-sourced
// feature values. Nil fields leave the provider value in place.
type FeatureOverrides struct {
	Temperature        *float64 `json:"temperature,omitempty"`
	Humidity           *float64 `json:"humidity,omitempty"`
	Rainfall           *float64 `json:"rainfall,omitempty"`
	WindSpeed          *float64 `json:"wind_speed,omitempty"`
	NDVI               *float64 `json:"ndvi,omitempty"`
	NDVIChange         *float64 `json:"ndvi_change,omitempty"`
	SoilMoisture       *float64 `json:"soil_moisture,omitempty"`
	CropStage          *string  `json:"crop_stage,omitempty"`
	PriceChangePercent *float64 `json:"price_change_percent,omitempty"`
}
