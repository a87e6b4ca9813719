package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrisense/backend/internal/domain"
)

func TestGetPriceLive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Cotton", r.URL.Query().Get("filters[commodity]"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"records":[
			{"market":"Nagpur","district":"Nagpur","modal_price":"6,500","arrival_date":"30/08/2026"},
			{"market":"Amravati","district":"Amravati","modal_price":"6100","arrival_date":"29/08/2026"}
		]}`))
	}))
	defer server.Close()

	svc := NewMarketService(server.URL, "test-key")
	price, err := svc.GetPrice(context.Background(), "Cotton", "")
	require.NoError(t, err)

	assert.False(t, price.IsFallback)
	assert.Equal(t, "cotton", price.Crop)
	assert.Equal(t, 6500.0, price.Price)
	assert.Equal(t, "Nagpur", price.Market)
	assert.InDelta(t, 6.56, price.ChangePercent, 0.01)
	assert.Equal(t, domain.TrendUp, price.Trend)
}

func TestGetPriceFallsBackOnServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	svc := NewMarketService(server.URL, "test-key")
	price, err := svc.GetPrice(context.Background(), "onion", "")
	require.NoError(t, err)

	assert.True(t, price.IsFallback)
	assert.Equal(t, 1820.0, price.Price)
	assert.Equal(t, "Nashik", price.Market)
	assert.Equal(t, domain.TrendDown, price.Trend)
}

func TestGetPriceFallsBackOnEmptyRecords(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"records":[]}`))
	}))
	defer server.Close()

	svc := NewMarketService(server.URL, "test-key")
	price, err := svc.GetPrice(context.Background(), "wheat", "")
	require.NoError(t, err)
	assert.True(t, price.IsFallback)
	assert.Equal(t, "wheat", price.Crop)
}

func TestGetPriceUnknownCropFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewMarketService(server.URL, "test-key")
	price, err := svc.GetPrice(context.Background(), "quinoa", "")
	require.NoError(t, err)
	assert.True(t, price.IsFallback)
	assert.Equal(t, "quinoa", price.Crop)
	assert.Equal(t, domain.TrendStable, price.Trend)
}

func TestParseRecordsSkipsJunk(t *testing.T) {
	prices := parseRecords([]agmarknetRecord{
		{Market: "A", ModalPrice: "5,200", ArrivalDate: "30/08/2026"},
		{Market: "B", ModalPrice: "NR", ArrivalDate: "30/08/2026"},
		{Market: "C", ModalPrice: "0", ArrivalDate: "30/08/2026"},
		{Market: "D", ModalPrice: " 4980 ", ArrivalDate: "29/08/2026"},
	})
	require.Len(t, prices, 2)
	assert.Equal(t, 5200.0, prices[0].price)
	assert.Equal(t, 4980.0, prices[1].price)
}

func TestPreviousPriceSkipsSameDay(t *testing.T) {
	prices := []parsedPrice{
		{price: 5200, date: "30/08/2026"},
		{price: 5150, date: "30/08/2026"},
		{price: 4980, date: "29/08/2026"},
	}
	assert.Equal(t, 4980.0, previousPrice(prices, prices[0]))

	sameDay := prices[:2]
	assert.Equal(t, 0.0, previousPrice(sameDay, sameDay[0]))
}

func TestPriceTrendDeadBand(t *testing.T) {
	change, trend := priceTrend(1004, 1000)
	assert.Equal(t, 0.4, change)
	assert.Equal(t, domain.TrendStable, trend)

	change, trend = priceTrend(1010, 1000)
	assert.Equal(t, 1.0, change)
	assert.Equal(t, domain.TrendUp, trend)

	change, trend = priceTrend(990, 1000)
	assert.Equal(t, -1.0, change)
	assert.Equal(t, domain.TrendDown, trend)

	change, trend = priceTrend(1000, 0)
	assert.Equal(t, 0.0, change)
	assert.Equal(t, domain.TrendStable, trend)
}
