package usecase

import (
	"ladder-analytics/internal/domain/model"
)

// Derived metrics are pure functions over already-fetched snapshots; no I/O
// happens here. Division by zero degrades to 0 so the dashboard always has a
// displayable value.

// Threshold constants are product policy, not computed values.
const (
	activationLowBelow    = 30.0
	activationHighAbove   = 70.0
	retentionDay1LowBelow = 20.0
	retentionWeek1HighAbove = 50.0
	stickinessHighAtLeast = 0.2
	stickinessLowBelow    = 0.1
	dormancyHighAbove     = 40.0
)

func pct(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d) * 100
}

// ActivationRate is the share of signups that became active users.
func ActivationRate(m *model.MetricsSnapshot) float64 {
	return pct(m.TotalActiveUsers, m.TotalSignups)
}

// ConversionRate is the share of signups that were first-time active.
func ConversionRate(m *model.MetricsSnapshot) float64 {
	return pct(m.FirstTimeUsers, m.TotalSignups)
}

// StickinessRatio is avg DAU over avg MAU; 0 when MAU is 0 or undefined.
func StickinessRatio(avgDAU, avgMAU float64) float64 {
	if avgMAU <= 0 {
		return 0
	}
	return avgDAU / avgMAU
}

// FeatureAdoptionRate relates first-time users to active users, capped at 100
// because first-timers in sparse windows can exceed the window's actives.
func FeatureAdoptionRate(firstTimeUsers, totalActiveUsers int) float64 {
	r := pct(firstTimeUsers, totalActiveUsers)
	if r > 100 {
		return 100
	}
	return r
}

// FeaturePenetration is each feature's share of all active users.
func FeaturePenetration(m *model.MetricsSnapshot) map[model.Feature]float64 {
	out := make(map[model.Feature]float64, len(m.FeatureUsers))
	for f, n := range m.FeatureUsers {
		out[f] = pct(n, m.TotalActiveUsers)
	}
	return out
}

// DormancyPct is the dormant share of all historical users.
func DormancyPct(d *model.DormancySnapshot) float64 {
	return pct(d.OverallDormantUsers, d.TotalHistoricalUsers)
}

// ReactivationRate relates currently-active non-dormant users to the
// historical population.
func ReactivationRate(d *model.DormancySnapshot) float64 {
	return pct(d.TotalCurrentUsers-d.OverallDormantUsers, d.TotalHistoricalUsers)
}

// ClassifyActivation buckets an activation percentage.
func ClassifyActivation(rate float64) model.AlertLevel {
	switch {
	case rate > activationHighAbove:
		return model.AlertHigh
	case rate < activationLowBelow:
		return model.AlertLow
	default:
		return model.AlertMedium
	}
}

// ClassifyRetention buckets a day-1 retention percentage.
func ClassifyRetention(day1Pct float64) model.AlertLevel {
	switch {
	case day1Pct < retentionDay1LowBelow:
		return model.AlertLow
	case day1Pct > retentionWeek1HighAbove:
		return model.AlertHigh
	default:
		return model.AlertMedium
	}
}

// ClassifyStickiness buckets a DAU/MAU ratio.
func ClassifyStickiness(ratio float64) model.AlertLevel {
	switch {
	case ratio >= stickinessHighAtLeast:
		return model.AlertHigh
	case ratio < stickinessLowBelow:
		return model.AlertLow
	default:
		return model.AlertMedium
	}
}

// ClassifyDormancy buckets a dormancy percentage. High dormancy is the bad
// direction, so it maps to AlertLow.
func ClassifyDormancy(dormancyPct float64) model.AlertLevel {
	switch {
	case dormancyPct > dormancyHighAbove:
		return model.AlertLow
	case dormancyPct == 0:
		return model.AlertInfo
	default:
		return model.AlertMedium
	}
}
