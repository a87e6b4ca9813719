package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAlertsMergesAndSorts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/farmer/alerts":
			w.Write([]byte(`[{"title":"Pest warning","description":"Bollworm sightings","alert_type":"pest","date":"2026-08-29","level":"high"}]`))
		case "/kvk/advisories":
			w.Write([]byte(`[{"title":"Sowing window","description":"Rabi sowing advisory","date":"2026-08-30"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))
	defer server.Close()

	svc := NewAlertsService(server.URL)
	alerts := svc.GetAlerts(context.Background(), "Maharashtra", "Nagpur")

	require.Len(t, alerts, 2)
	assert.Equal(t, "Sowing window", alerts[0].Title, "alerts sort newest first")
	assert.Equal(t, "ICAR KVK", alerts[0].Source)
	assert.Equal(t, "general", alerts[0].AlertType, "missing type defaults to general")
	assert.Equal(t, "medium", alerts[0].Level, "missing level defaults to medium")
	assert.Equal(t, "Pest warning", alerts[1].Title)
	assert.Equal(t, "high", alerts[1].Level)
}

func TestGetAlertsAllSourcesDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewAlertsService(server.URL)
	alerts := svc.GetAlerts(context.Background(), "", "")
	assert.Len(t, alerts, 3, "every source degrades to one sample alert")
	for _, a := range alerts {
		assert.Equal(t, "general", a.AlertType)
		assert.NotEmpty(t, a.Date)
	}
}

func TestNormalizeAlertDefaults(t *testing.T) {
	alert := normalizeAlert(upstreamAlert{Title: "Heat advisory", Date: "2026-05-01"}, "Farmer Portal")
	assert.Equal(t, "general", alert.AlertType)
	assert.Equal(t, "medium", alert.Level)
	assert.Equal(t, "Farmer Portal", alert.Source)
}
