package model

import "time"

// TrendPoint is one period in a dense activity series. Periods with no
// activity are present with ActiveUsers == 0; the series is gap-filled at
// query time, unlike the DAU/WAU/MAU averages which skip empty periods.
type TrendPoint struct {
	Period      time.Time
	ActiveUsers int
}

// TrendSeries is the gap-filled series for one range and granularity.
type TrendSeries struct {
	Range       DateRange
	Granularity Granularity
	Feature     *Feature // nil means all features
	Points      []TrendPoint
}
