package postgres

import (
	"fmt"
	"strconv"
	"strings"

	"ladder-analytics/internal/domain/model"
)

// Every metric in this package is defined over the same synthesized activity
// relation: (user_id, activity_date, feature) rows unioned from four
// heterogeneous source tables. The union is built here, and only here, so the
// success-status and provider-exclusion filters cannot drift between call
// sites (first-time, retention, trend, dormancy, churn all reuse it).

const txnSuccess = "success"

// binder accumulates positional query arguments and hands out placeholders.
// Postgres allows a placeholder to be referenced any number of times, so
// bound-once values like the range dates are reused across sub-queries.
type binder struct {
	args []any
}

func (b *binder) bind(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// bounds carries pre-bound date placeholders. An empty start means the filter
// has no lower bound (cumulative-since-inception queries).
type bounds struct {
	start string
	end   string
}

func (bd bounds) pred(col string) string {
	if bd.start == "" {
		return fmt.Sprintf("DATE(%s) <= %s", col, bd.end)
	}
	return fmt.Sprintf("DATE(%s) BETWEEN %s AND %s", col, bd.start, bd.end)
}

// activityUnion renders the deduplicated (user_id, activity_date, feature)
// union for the given features. The provider-exclusion placeholder is bound
// lazily: it only appears when a transaction-backed feature is included.
func activityUnion(b *binder, features []model.Feature, bd bounds, excludedProvider string) string {
	var providerPH string
	provider := func() string {
		if providerPH == "" {
			providerPH = b.bind(excludedProvider)
		}
		return providerPH
	}

	subs := make([]string, 0, len(features)+1)
	for _, f := range features {
		switch f {
		case model.FeatureSpending:
			subs = append(subs,
				fmt.Sprintf(`SELECT user_id::TEXT AS user_id, DATE(created_at) AS activity_date, 'spending' AS feature
FROM budgets WHERE %s`, bd.pred("created_at")),
				fmt.Sprintf(`SELECT user_id::TEXT, DATE(created_at), 'spending'
FROM manual_and_external_transactions WHERE %s`, bd.pred("created_at")),
			)
		case model.FeatureInvestment:
			subs = append(subs, fmt.Sprintf(`SELECT ip.user_id::TEXT, DATE(t.updated_at), 'investment'
FROM transactions t
JOIN investment_plans ip ON ip.id = t.investment_plan_id
WHERE t.status = '%s' AND t.provider_number <> %s AND %s`, txnSuccess, provider(), bd.pred("t.updated_at")))
		case model.FeatureSavings:
			subs = append(subs, fmt.Sprintf(`SELECT p.user_id::TEXT, DATE(t.updated_at), 'savings'
FROM transactions t
JOIN plans p ON p.id = t.plan_id
WHERE t.status = '%s' AND t.provider_number <> %s AND %s`, txnSuccess, provider(), bd.pred("t.updated_at")))
		case model.FeatureLadyAI:
			subs = append(subs, fmt.Sprintf(`SELECT "user"::TEXT, DATE(created_at), 'lady_ai'
FROM slack_message_dump WHERE %s`, bd.pred("created_at")))
		}
	}
	return strings.Join(subs, "\nUNION\n")
}

// featuresFor resolves an optional filter to the union's feature list.
func featuresFor(feature *model.Feature) []model.Feature {
	if feature == nil {
		return model.AllFeatures()
	}
	return []model.Feature{*feature}
}
