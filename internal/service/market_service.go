package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agrisense/backend/internal/domain"
	"github.com/agrisense/backend/pkg/utils"
)

// MarketService fetches mandi prices from the Agmarknet open-data API
type MarketService struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewMarketService creates a new market price service. An empty
// baseURL selects the public data.gov.in endpoint.
func NewMarketService(baseURL, apiKey string) *MarketService {
	if baseURL == "" {
		baseURL = "https://api.data.gov.in/resource/9ef84268-d588-465a-a308-a864a43d0070"
	}
	return &MarketService{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// fallbackPrices is the static per-crop sample table used when the
// API is unreachable or returns nothing usable.
var fallbackPrices = map[string]domain.MarketPrice{
	"cotton":    {Crop: "cotton", Price: 6250, Unit: "₹/quintal", Market: "Nagpur", ChangePercent: -2.1, Trend: domain.TrendDown, IsFallback: true},
	"wheat":     {Crop: "wheat", Price: 2450, Unit: "₹/quintal", Market: "Karnal", ChangePercent: 1.4, Trend: domain.TrendUp, IsFallback: true},
	"rice":      {Crop: "rice", Price: 3150, Unit: "₹/quintal", Market: "Thanjavur", ChangePercent: 0.2, Trend: domain.TrendStable, IsFallback: true},
	"soybean":   {Crop: "soybean", Price: 4620, Unit: "₹/quintal", Market: "Indore", ChangePercent: 3.7, Trend: domain.TrendUp, IsFallback: true},
	"onion":     {Crop: "onion", Price: 1820, Unit: "₹/quintal", Market: "Nashik", ChangePercent: -6.3, Trend: domain.TrendDown, IsFallback: true},
	"sugarcane": {Crop: "sugarcane", Price: 345, Unit: "₹/quintal", Market: "Kolhapur", ChangePercent: 0.4, Trend: domain.TrendStable, IsFallback: true},
}

// agmarknetRecord is one row of the open-data price feed
type agmarknetRecord struct {
	Market      string `json:"market"`
	District    string `json:"district"`
	ModalPrice  string `json:"modal_price"`
	ArrivalDate string `json:"arrival_date"`
}

type agmarknetResponse struct {
	Records []agmarknetRecord `json:"records"`
}

// GetPrice fetches the latest price for a crop, optionally preferring
// records from a district. Failures degrade to the static sample table.
func (s *MarketService) GetPrice(ctx context.Context, crop, district string) (domain.MarketPrice, error) {
	crop = strings.ToLower(strings.TrimSpace(crop))

	params := url.Values{}
	params.Set("api-key", s.apiKey)
	params.Set("format", "json")
	params.Set("filters[commodity]", capitalizeCrop(crop))
	params.Set("limit", "50")
	if district != "" {
		params.Set("filters[district]", district)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.MarketPrice{}, fmt.Errorf("market: failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return s.fallbackPrice(crop), nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return s.fallbackPrice(crop), nil
	}

	var payload agmarknetResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return s.fallbackPrice(crop), nil
	}

	prices := parseRecords(payload.Records)
	if len(prices) == 0 {
		return s.fallbackPrice(crop), nil
	}

	current := prices[0]
	previous := previousPrice(prices, current)
	if previous == 0 {
		// No second observation; borrow the sample price as baseline
		previous = s.fallbackPrice(crop).Price
	}

	changePercent, trend := priceTrend(current.price, previous)
	return domain.MarketPrice{
		Crop:          crop,
		Price:         current.price,
		Unit:          "₹/quintal",
		Market:        current.market,
		ChangePercent: changePercent,
		Trend:         trend,
		IsFallback:    false,
	}, nil
}

// GetAll returns the latest price per configured crop. Individual
// lookups that fail land on their fallback entries.
func (s *MarketService) GetAll(ctx context.Context, cropNames []string) map[string]domain.MarketPrice {
	out := make(map[string]domain.MarketPrice, len(cropNames))
	for _, crop := range cropNames {
		price, err := s.GetPrice(ctx, crop, "")
		if err != nil {
			price = s.fallbackPrice(crop)
		}
		out[crop] = price
	}
	return out
}

func (s *MarketService) fallbackPrice(crop string) domain.MarketPrice {
	providerFallbacks.WithLabelValues("market").Inc()
	if p, ok := fallbackPrices[crop]; ok {
		return p
	}
	return domain.MarketPrice{
		Crop:       crop,
		Unit:       "₹/quintal",
		Market:     "N/A",
		Trend:      domain.TrendStable,
		IsFallback: true,
	}
}

type parsedPrice struct {
	price  float64
	market string
	date   string
}

func parseRecords(records []agmarknetRecord) []parsedPrice {
	prices := make([]parsedPrice, 0, len(records))
	for _, r := range records {
		raw := strings.ReplaceAll(strings.TrimSpace(r.ModalPrice), ",", "")
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price <= 0 {
			continue
		}
		prices = append(prices, parsedPrice{price: price, market: r.Market, date: r.ArrivalDate})
	}
	return prices
}

// previousPrice finds the first observation from a different date so
// the trend reflects day-over-day movement, not intra-day spread.
func previousPrice(prices []parsedPrice, current parsedPrice) float64 {
	for _, p := range prices[1:] {
		if p.date != current.date {
			return p.price
		}
	}
	return 0
}

// priceTrend computes the percent change and classifies it with a
// ±0.5% dead band.
func priceTrend(current, previous float64) (float64, domain.PriceTrend) {
	if previous == 0 {
		return 0, domain.TrendStable
	}
	change := utils.RoundTo((current-previous)/previous*100, 2)
	switch {
	case change > 0.5:
		return change, domain.TrendUp
	case change < -0.5:
		return change, domain.TrendDown
	default:
		return change, domain.TrendStable
	}
}

func capitalizeCrop(crop string) string {
	if crop == "" {
		return crop
	}
	return strings.ToUpper(crop[:1]) + crop[1:]
}
