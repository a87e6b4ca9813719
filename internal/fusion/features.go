// Package fusion is the advisory intelligence layer: it merges weather,
// satellite NDVI, soil and market signals into one feature context,
// evaluates declarative rule sets against it, aggregates fired rules
// into a severity classification and renders the result into a
// human-readable advisory.
package fusion

import (
	"github.com/agrisense/backend/internal/crops"
	"github.com/agrisense/backend/internal/domain"
)

// NDVI status classifications derived from crop stress thresholds
const (
	NDVIStressed = "stressed"
	NDVIModerate = "moderate"
	NDVIHealthy  = "healthy"
)

// FeatureContext is the merged, normalized signal set for one advisory
// computation. Nil pointers and empty strings represent features absent
// from upstream data; rule evaluation treats those as "condition cannot
// be satisfied", never as a silent match.
type FeatureContext struct {
	Temperature         *float64
	Humidity            *float64
	Rainfall            *float64
	WindSpeed           *float64
	NDVI                *float64
	NDVIChange          *float64 // defaults to 0.0 when no NDVI history exists
	NDVIStatus          string   // derived; empty when underivable
	SoilMoisture        *float64
	CropStage           string // derived or supplied; empty when unknown
	MarketPrice         *float64
	PriceChangePercent  *float64
	UserDistrict        string
	RegionPriorityMatch bool
}

// Numeric looks up a numeric feature by its rule-file name. The key set
// is closed: unknown names return ok=false, so a typo in a rule file
// fails that condition instead of silently matching.
func (c *FeatureContext) Numeric(name string) (float64, bool) {
	var v *float64
	switch name {
	case "temperature":
		v = c.Temperature
	case "humidity":
		v = c.Humidity
	case "rainfall":
		v = c.Rainfall
	case "wind_speed":
		v = c.WindSpeed
	case "ndvi":
		v = c.NDVI
	case "ndvi_change":
		v = c.NDVIChange
	case "soil_moisture":
		v = c.SoilMoisture
	case "market_price":
		v = c.MarketPrice
	case "price_change_percent":
		v = c.PriceChangePercent
	default:
		return 0, false
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// Categorical looks up a string-valued feature by its rule-file name.
// Empty values report ok=false (null never matches an expectation).
func (c *FeatureContext) Categorical(name string) (string, bool) {
	var v string
	switch name {
	case "crop_stage":
		v = c.CropStage
	case "ndvi_status":
		v = c.NDVIStatus
	case "user_district":
		v = c.UserDistrict
	case "region_priority_match":
		if c.RegionPriorityMatch {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
	if v == "" {
		return "", false
	}
	return v, true
}

// Metrics returns the display subset of the context for advisory payloads
func (c *FeatureContext) Metrics() domain.AdvisoryMetrics {
	return domain.AdvisoryMetrics{
		Temperature:        c.Temperature,
		Humidity:           c.Humidity,
		Rainfall:           c.Rainfall,
		NDVI:               c.NDVI,
		NDVIChange:         c.NDVIChange,
		SoilMoisture:       c.SoilMoisture,
		MarketPrice:        c.MarketPrice,
		PriceChangePercent: c.PriceChangePercent,
	}
}

// BuildContext merges all supplied sources into one flat context.
// Nil source payloads contribute nothing; explicit overrides win over
// provider data and derived defaults. Pure function over its inputs
// plus the read-only crop metadata.
func BuildContext(
	meta crops.Metadata,
	weather *domain.Weather,
	ndvi *domain.NDVISnapshot,
	health *domain.CropHealth,
	market *domain.MarketPrice,
	location domain.Location,
	overrides *domain.FeatureOverrides,
) FeatureContext {
	ctx := FeatureContext{}

	if weather != nil {
		ctx.Temperature = ptr(weather.Temperature)
		ctx.Humidity = ptr(weather.Humidity)
		ctx.Rainfall = ptr(weather.Rainfall)
		ctx.WindSpeed = ptr(weather.WindSpeed)
	}

	// A missing NDVI history must never look like a vegetation drop,
	// so the change feature always carries an explicit 0.0 default.
	ctx.NDVIChange = ptr(0.0)
	if ndvi != nil {
		ctx.NDVI = ptr(ndvi.Latest)
		if len(ndvi.History) >= 2 {
			ctx.NDVIChange = ptr(ndvi.Change)
		}
	}

	daysSinceSowing := -1
	if health != nil {
		ctx.SoilMoisture = health.SoilMoisture
		ctx.CropStage = health.CropStage
		if health.DaysSinceSowing != nil {
			daysSinceSowing = *health.DaysSinceSowing
		}
	}

	if market != nil {
		ctx.MarketPrice = ptr(market.Price)
		ctx.PriceChangePercent = ptr(market.ChangePercent)
	}

	ctx.UserDistrict = location.District

	if overrides != nil {
		applyOverrides(&ctx, overrides)
	}

	// Derived features come last so overrides feed into them
	if ctx.CropStage == "" && daysSinceSowing >= 0 {
		ctx.CropStage = meta.StageForDay(daysSinceSowing)
	}
	ctx.NDVIStatus = classifyNDVI(meta, ctx.NDVI)
	ctx.RegionPriorityMatch = meta.IsPriorityRegion(ctx.UserDistrict)

	return ctx
}

func applyOverrides(ctx *FeatureContext, o *domain.FeatureOverrides) {
	if o.Temperature != nil {
		ctx.Temperature = o.Temperature
	}
	if o.Humidity != nil {
		ctx.Humidity = o.Humidity
	}
	if o.Rainfall != nil {
		ctx.Rainfall = o.Rainfall
	}
	if o.WindSpeed != nil {
		ctx.WindSpeed = o.WindSpeed
	}
	if o.NDVI != nil {
		ctx.NDVI = o.NDVI
	}
	if o.NDVIChange != nil {
		ctx.NDVIChange = o.NDVIChange
	}
	if o.SoilMoisture != nil {
		ctx.SoilMoisture = o.SoilMoisture
	}
	if o.CropStage != nil {
		ctx.CropStage = *o.CropStage
	}
	if o.PriceChangePercent != nil {
		ctx.PriceChangePercent = o.PriceChangePercent
	}
}

// classifyNDVI maps a raw NDVI value onto the crop's stress bands.
// Underivable (no reading or unknown crop) yields an empty status.
func classifyNDVI(meta crops.Metadata, ndvi *float64) string {
	if ndvi == nil || !meta.Known() {
		return ""
	}
	switch {
	case *ndvi < meta.NDVIStressedBelow:
		return NDVIStressed
	case *ndvi > meta.NDVIHealthyAbove:
		return NDVIHealthy
	default:
		return NDVIModerate
	}
}

func ptr(v float64) *float64 { return &v }
