package model

// MetricsSnapshot aggregates signup and feature activity over one date range.
// A zero-valued snapshot is the degraded "no data / connection failed" result;
// consumers must render it as zeros, not treat it as an error.
type MetricsSnapshot struct {
	Range DateRange

	TotalSignups     int
	TotalActiveUsers int
	FirstTimeUsers   int
	OneTimeUsers     int
	RecurringUsers   int

	// Distinct active users per feature over the range.
	FeatureUsers map[Feature]int

	// Users whose entire activity in the range touched exactly one feature,
	// keyed by that feature.
	ExclusiveUsers map[Feature]int

	SingleFeatureUsers   int
	MultipleFeatureUsers int

	AvgDAU float64
	AvgWAU float64
	AvgMAU float64
}

// FeatureMetrics is the deep-dive snapshot for a single feature.
type FeatureMetrics struct {
	Range   DateRange
	Feature Feature

	TotalActiveUsers int
	FirstTimeUsers   int
	RecurringUsers   int

	AvgDAU float64
	AvgWAU float64
	AvgMAU float64
}

// AbsoluteMetrics are cumulative-since-inception totals. Only the upper date
// bound is applied; these are not scoped by the caller's selected range.
type AbsoluteMetrics struct {
	TotalSignups     int
	TotalActiveUsers int
}
