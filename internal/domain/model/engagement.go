package model

// DormancySnapshot classifies users that were active in a lookback window
// ending just before the analysis range but silent within it.
type DormancySnapshot struct {
	Range        DateRange
	LookbackDays int

	// Users with >=1 event in [start-lookback, start) and none in the range.
	OverallDormantUsers int

	// Dormant counts computed independently per feature.
	DormantByFeature map[Feature]int

	// Distinct users with any activity ever, up to the range end.
	TotalHistoricalUsers int

	// Distinct users active within the range.
	TotalCurrentUsers int
}

// ChurnSnapshot counts users active at any point up to the range end but
// inactive within the range itself.
type ChurnSnapshot struct {
	Range        DateRange
	ChurnedUsers int
}

// FeatureCombination is one distinct set of features touched by multi-feature
// users, e.g. "investment + savings". Percentage is the share among all
// multi-feature users, not all active users.
type FeatureCombination struct {
	Label      string
	Features   []Feature
	Users      int
	Percentage float64
}
