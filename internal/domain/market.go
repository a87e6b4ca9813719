package domain

// PriceTrend classifies the direction of recent price movement
type PriceTrend string

const (
	TrendUp     PriceTrend = "up"
	TrendDown   PriceTrend = "down"
	TrendStable PriceTrend = "stable"
)

// MarketPrice represents the latest mandi price for a commodity
type MarketPrice struct {
	Crop          string     `json:"crop"`
	Price         float64    `json:"price"`
	Unit          string     `json:"unit"`
	Market        string     `json:"market"`
	ChangePercent float64    `json:"price_change_percent"`
	Trend         PriceTrend `json:"trend"`
	IsFallback    bool       `json:"is_fallback"`
}

// MarketResponse wraps market data with metadata
type MarketResponse struct {
	Data    MarketPrice `json:"data"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
}
