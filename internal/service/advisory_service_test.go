package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/backend/internal/crops"
	"github.com/agrisense/backend/internal/domain"
	"github.com/agrisense/backend/internal/fusion"
)

// advisoryFixture wires the full pipeline against stub weather and
// market servers so every upstream reading is pinned.
func advisoryFixture(t *testing.T, weatherJSON, marketJSON string) *AdvisoryService {
	t.Helper()

	weatherServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(weatherJSON))
	}))
	t.Cleanup(weatherServer.Close)

	marketServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(marketJSON))
	}))
	t.Cleanup(marketServer.Close)

	store, err := crops.NewStore()
	require.NoError(t, err)

	return NewAdvisoryService(
		store,
		fusion.NewEngine(),
		NewWeatherService(weatherServer.URL),
		NewMarketService(marketServer.URL, "test-key"),
		NewNDVIService(),
		NewGeocodeService("http://127.0.0.1:0"),
		NewCropHealthService(),
	)
}

const stableMarketJSON = `{"records":[
	{"market":"Nagpur","modal_price":"5000","arrival_date":"30/08/2026"},
	{"market":"Nagpur","modal_price":"4990","arrival_date":"29/08/2026"}
]}`

func TestGetAdvisoryAphidScenario(t *testing.T) {
	svc := advisoryFixture(t,
		`{"current":{"temperature_2m":25,"relative_humidity_2m":85,"rain":2,"wind_speed_10m":5}}`,
		stableMarketJSON,
	)

	advisory, err := svc.GetAdvisory(context.Background(), domain.AdvisoryRequest{
		Crop:     "cotton",
		District: "Pune",
		Overrides: &domain.FeatureOverrides{
			NDVI:       f(0.55),
			NDVIChange: f(0),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Cotton", advisory.Crop)
	assert.Equal(t, domain.SeverityHigh, advisory.Severity)
	assert.Equal(t, 0.85, advisory.RuleScore)
	assert.Equal(t, []string{"Aphid risk detected due to high humidity"}, advisory.FiredRules)
	assert.Equal(t, 0.85, advisory.RuleBreakdown.Pest.Score)
	assert.Empty(t, advisory.RuleBreakdown.Irrigation.Fired)
	assert.Empty(t, advisory.RuleBreakdown.Market.Fired)

	require.Len(t, advisory.Alerts, 1)
	assert.Equal(t, "pest", advisory.Alerts[0].Type)

	require.NotEmpty(t, advisory.Recommendations)
	assert.Equal(t, "Inspect for aphids", advisory.Recommendations[0].Title)
	assert.Equal(t, "high", advisory.Recommendations[0].Priority)

	assert.Contains(t, advisory.Summary, "High risk for Cotton near Pune")
	assert.Equal(t, 1.0, advisory.Confidence)
	assert.Equal(t, []string{"Bhuvan Satellite", "Open-Meteo", "Agmarknet"}, advisory.DataSources)

	require.NotNil(t, advisory.Metrics.Humidity)
	assert.Equal(t, 85.0, *advisory.Metrics.Humidity)
	require.NotNil(t, advisory.Metrics.NDVIChange)
	assert.Equal(t, 0.0, *advisory.Metrics.NDVIChange)
}

func TestGetAdvisoryPriorityRegionBoost(t *testing.T) {
	svc := advisoryFixture(t,
		`{"current":{"temperature_2m":25,"relative_humidity_2m":85,"rain":2,"wind_speed_10m":5}}`,
		stableMarketJSON,
	)

	advisory, err := svc.GetAdvisory(context.Background(), domain.AdvisoryRequest{
		Crop:     "cotton",
		District: "Nagpur",
		Overrides: &domain.FeatureOverrides{
			NDVI:       f(0.55),
			NDVIChange: f(0),
		},
	})
	require.NoError(t, err)

	assert.InDelta(t, 0.935, advisory.RuleScore, 1e-9)
	assert.Equal(t, domain.SeverityHigh, advisory.Severity)
	assert.Equal(t, []string{"Aphid risk detected due to high humidity"}, advisory.FiredRules,
		"the boost scales the score, never the fired set")
}

func TestGetAdvisoryQuietConditions(t *testing.T) {
	svc := advisoryFixture(t,
		`{"current":{"temperature_2m":24,"relative_humidity_2m":55,"rain":0,"wind_speed_10m":6}}`,
		stableMarketJSON,
	)

	advisory, err := svc.GetAdvisory(context.Background(), domain.AdvisoryRequest{
		Crop:     "wheat",
		District: "Pune",
		Overrides: &domain.FeatureOverrides{
			NDVI:       f(0.70),
			NDVIChange: f(0),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SeverityLow, advisory.Severity)
	assert.Equal(t, 0.0, advisory.RuleScore)
	assert.Empty(t, advisory.FiredRules)
	assert.Empty(t, advisory.Alerts)

	require.Len(t, advisory.Recommendations, 1)
	assert.Equal(t, "Continue monitoring", advisory.Recommendations[0].Title)
	assert.Contains(t, advisory.Summary, "normal conditions")
	assert.Equal(t, "No significant risks detected based on current data.", advisory.Why)
}

func TestGetAdvisoryUnknownCropDegrades(t *testing.T) {
	svc := advisoryFixture(t,
		`{"current":{"temperature_2m":24,"relative_humidity_2m":55,"rain":0,"wind_speed_10m":6}}`,
		`{"records":[]}`,
	)

	advisory, err := svc.GetAdvisory(context.Background(), domain.AdvisoryRequest{
		Crop: "quinoa",
		Overrides: &domain.FeatureOverrides{
			NDVI:       f(0.20),
			NDVIChange: f(-0.10),
		},
	})
	require.NoError(t, err)

	// Metadata-dependent rules cannot fire without crop thresholds
	assert.Equal(t, "quinoa", advisory.Crop)
	assert.Empty(t, advisory.RuleBreakdown.Pest.Fired)
	assert.Equal(t, domain.SeverityLow, advisory.Severity)
}
