package domain

import "time"

// DashboardSummary holds aggregate counts for the dashboard header
type DashboardSummary struct {
	TotalAlerts       int `json:"total_alerts"`
	HighPriorityCount int `json:"high_priority_count"`
	CropsMonitored    int `json:"crops_monitored"`
}

// DashboardData is the aggregate monitoring snapshot, composed from
// the same providers as advisories but without rule evaluation.
type DashboardData struct {
	Weather    Weather                `json:"weather"`
	Market     map[string]MarketPrice `json:"market"`
	Alerts     []GovAlert             `json:"alerts"`
	CropHealth map[string]CropHealth  `json:"crop_health"`
	NDVI       NDVISnapshot           `json:"ndvi"`
	Summary    DashboardSummary       `json:"summary"`
	Timestamp  time.Time              `json:"timestamp"`
}
