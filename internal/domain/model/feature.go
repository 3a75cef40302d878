package model

import "ladder-analytics/internal/domain"

// Feature is the closed set of product surfaces that produce activity events.
// Keeping this a sum type means an unrecognized tag can never reach the query
// layer; ParseFeature is the only way in from the outside.
type Feature string

const (
	FeatureSpending   Feature = "spending"
	FeatureSavings    Feature = "savings"
	FeatureInvestment Feature = "investment"
	FeatureLadyAI     Feature = "lady_ai"
)

// AllFeatures lists every feature in display order.
func AllFeatures() []Feature {
	return []Feature{FeatureSpending, FeatureSavings, FeatureInvestment, FeatureLadyAI}
}

// ParseFeature validates a caller-supplied tag.
func ParseFeature(s string) (Feature, error) {
	switch Feature(s) {
	case FeatureSpending, FeatureSavings, FeatureInvestment, FeatureLadyAI:
		return Feature(s), nil
	}
	return "", domain.ErrUnknownFeature
}

func (f Feature) String() string { return string(f) }

// DisplayName returns the human-facing label used on dashboard cards.
func (f Feature) DisplayName() string {
	switch f {
	case FeatureSpending:
		return "Spending"
	case FeatureSavings:
		return "Savings"
	case FeatureInvestment:
		return "Investment"
	case FeatureLadyAI:
		return "Lady AI"
	}
	return string(f)
}
