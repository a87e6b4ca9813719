package domain

// GovAlert is a normalized government advisory/alert entry merged from
// one of several upstream sources.
type GovAlert struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AlertType   string `json:"alert_type"`
	Date        string `json:"date"` // YYYY-MM-DD
	Source      string `json:"source"`
	Level       string `json:"level"` // low, medium, high
}
