package model

// RetentionSnapshot holds cohort retention fractions. Each rate is in [0,1];
// a nil rate means the cohort was empty (NULL from the database), which is an
// undefined rate rather than zero.
type RetentionSnapshot struct {
	Range   DateRange
	Feature *Feature // nil means all features

	TotalSignups int

	Day1   *float64 // activity exactly on signup+1
	Week1  *float64 // activity within days 1..7 after signup
	Month1 *float64 // activity within days 1..30 after signup
}

// Rate returns v as a percentage, or 0 when the underlying rate is undefined.
func Rate(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v * 100
}
