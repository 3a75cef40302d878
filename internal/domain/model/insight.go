package model

// AlertLevel is the categorical bucket a derived percentage falls into.
type AlertLevel string

const (
	AlertHigh   AlertLevel = "high"
	AlertMedium AlertLevel = "medium"
	AlertLow    AlertLevel = "low"
	AlertInfo   AlertLevel = "info"
)

// Insight is one rule-generated recommendation record for the dashboard.
type Insight struct {
	Title          string `json:"title"`
	Insight        string `json:"insight"`
	Recommendation string `json:"recommendation"`
	Icon           string `json:"icon"`
}
