package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/backend/internal/crops"
	"github.com/agrisense/backend/internal/domain"
	"github.com/agrisense/backend/internal/fusion"
	"github.com/agrisense/backend/internal/repository/postgres"
	"github.com/agrisense/backend/internal/service"
)

// newTestApp wires the full route table against stubbed upstream
// providers and the in-memory repository.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	upstream := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/forecast":
			w.Write([]byte(`{"current":{"temperature_2m":25,"relative_humidity_2m":85,"rain":2,"wind_speed_10m":5}}`))
		case "/farmer/alerts", "/kvk/advisories", "/suvidha/notices":
			w.Write([]byte(`[]`))
		default:
			w.Write([]byte(`{"records":[{"market":"Nagpur","modal_price":"5000","arrival_date":"30/08/2026"}]}`))
		}
	}))
	t.Cleanup(upstream.Close)

	store, err := crops.NewStore()
	require.NoError(t, err)

	weatherSvc := service.NewWeatherService(upstream.URL)
	marketSvc := service.NewMarketService(upstream.URL, "test-key")
	ndviSvc := service.NewNDVIService()
	geocodeSvc := service.NewGeocodeService(upstream.URL)
	healthSvc := service.NewCropHealthService()
	alertsSvc := service.NewAlertsService(upstream.URL)
	engine := fusion.NewEngine()

	repo := postgres.NewMockRepository()
	advisorySvc := service.NewAdvisoryService(store, engine, weatherSvc, marketSvc, ndviSvc, geocodeSvc, healthSvc)
	dashboardSvc := service.NewDashboardService(store, weatherSvc, marketSvc, ndviSvc, alertsSvc, healthSvc)
	authSvc := service.NewAuthService(repo, "test-secret", time.Hour)

	app := fiber.New()
	SetupRoutes(app, advisorySvc, dashboardSvc, authSvc, repo, t.TempDir())
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*nethttp.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, payload
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, "GET", "/health", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestAdvisoryEndpoint(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, "GET", "/api/v1/fusion/advisory/cotton?district=Pune", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var advisory domain.Advisory
	require.NoError(t, json.Unmarshal(body, &advisory))
	assert.Equal(t, "Cotton", advisory.Crop)
	assert.NotEmpty(t, advisory.Severity)
	assert.NotEmpty(t, advisory.Summary)
	assert.NotEmpty(t, advisory.Recommendations)
	assert.NotEmpty(t, advisory.DataSources)
	require.NotNil(t, advisory.Metrics.Humidity)
	assert.Equal(t, 85.0, *advisory.Metrics.Humidity)
	assert.NotNil(t, advisory.Metrics.NDVIChange)
	assert.Contains(t, advisory.FiredRules, "Aphid risk detected due to high humidity")
}

func TestWeatherEndpoint(t *testing.T) {
	app := newTestApp(t)
	resp, body := doJSON(t, app, "GET", "/api/v1/weather", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var payload domain.WeatherResponse
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.True(t, payload.Success)
	assert.Equal(t, 25.0, payload.Data.Temperature)
}

func TestAuthAndCommunityFlow(t *testing.T) {
	app := newTestApp(t)

	// Unauthenticated access is rejected
	resp, _ := doJSON(t, app, "GET", "/api/v1/community/posts", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/signup", "", map[string]string{
		"email":    "ravi@example.com",
		"password": "harvest123",
		"name":     "Ravi",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	// Duplicate signup fails
	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/signup", "", map[string]string{
		"email":    "ravi@example.com",
		"password": "again",
	})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	resp, body := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]string{
		"email":    "ravi@example.com",
		"password": "harvest123",
	})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var login struct {
		AccessToken string      `json:"access_token"`
		TokenType   string      `json:"token_type"`
		User        domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(body, &login))
	require.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "bearer", login.TokenType)

	resp, body = doJSON(t, app, "GET", "/api/v1/auth/me", login.AccessToken, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ravi@example.com")
	assert.NotContains(t, string(body), "harvest123")

	// Create and list a post
	resp, body = doJSON(t, app, "POST", "/api/v1/community/posts", login.AccessToken, map[string]string{
		"content": "Aphids spotted on young cotton leaves",
		"crop":    "cotton",
	})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	var post domain.Post
	require.NoError(t, json.Unmarshal(body, &post))
	require.NotZero(t, post.ID)

	resp, body = doJSON(t, app, "GET", "/api/v1/community/posts?crop=cotton", login.AccessToken, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	var posts []domain.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)

	// Like it
	resp, body = doJSON(t, app, "POST", fmt.Sprintf("/api/v1/community/posts/%d/like", post.ID), login.AccessToken, map[string]bool{"liked": true})
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"likes_count":1`)

	// Empty posts are rejected
	resp, _ = doJSON(t, app, "POST", "/api/v1/community/posts", login.AccessToken, map[string]string{"content": "   "})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}
