package usecase

import (
	"fmt"

	"ladder-analytics/internal/domain/model"
)

// Insight rules are deterministic and stateless: each inspects one or more
// derived metrics against a fixed threshold and appends a record when it
// fires. Rules are independent (several may fire at once) and evaluated in
// the order listed here.

// GenerateOverviewInsights maps the overview snapshot to recommendations.
func GenerateOverviewInsights(m *model.MetricsSnapshot, r *model.RetentionSnapshot) []model.Insight {
	var insights []model.Insight

	if m != nil && m.TotalSignups > 0 {
		activation := ActivationRate(m)
		if activation < activationLowBelow {
			insights = append(insights, model.Insight{
				Title:          "Low Activation Rate Alert",
				Insight:        fmt.Sprintf("Only %.1f%% of signups become active users.", activation),
				Recommendation: "Improve onboarding flow and feature discovery.",
				Icon:           "⚠️",
			})
		} else if activation > activationHighAbove {
			insights = append(insights, model.Insight{
				Title:          "Excellent Activation Rate",
				Insight:        fmt.Sprintf("%.1f%% activation rate shows strong product-market fit.", activation),
				Recommendation: "Scale marketing efforts and maintain current onboarding quality.",
				Icon:           "🎉",
			})
		}
	}

	insights = append(insights, retentionInsights(r)...)
	return insights
}

// GenerateFeatureInsights maps a feature deep dive to recommendations.
func GenerateFeatureInsights(fm *model.FeatureMetrics, r *model.RetentionSnapshot) []model.Insight {
	var insights []model.Insight

	if fm != nil {
		stickiness := StickinessRatio(fm.AvgDAU, fm.AvgMAU)
		if fm.AvgMAU > 0 && stickiness < stickinessLowBelow {
			insights = append(insights, model.Insight{
				Title: fmt.Sprintf("Low %s Stickiness", fm.Feature.DisplayName()),
				Insight: fmt.Sprintf("DAU/MAU ratio of %.2f means most %s users show up less than a few days a month.",
					stickiness, fm.Feature.DisplayName()),
				Recommendation: "Build a habit loop: recurring reminders tied to a weekly task.",
				Icon:           "🧲",
			})
		}
	}

	insights = append(insights, retentionInsights(r)...)
	return insights
}

// GenerateEngagementInsights maps dormancy and combination data to
// recommendations.
func GenerateEngagementInsights(d *model.DormancySnapshot, combos []model.FeatureCombination) []model.Insight {
	var insights []model.Insight

	if d != nil && d.TotalHistoricalUsers > 0 {
		dormancy := DormancyPct(d)
		if dormancy > dormancyHighAbove {
			insights = append(insights, model.Insight{
				Title:          "High Dormancy",
				Insight:        fmt.Sprintf("%.1f%% of historical users went quiet this period.", dormancy),
				Recommendation: "Run a reactivation campaign targeting the dormant cohort.",
				Icon:           "😴",
			})
		}
	}

	if len(combos) > 0 && combos[0].Percentage >= 50 {
		insights = append(insights, model.Insight{
			Title: "One Combination Dominates",
			Insight: fmt.Sprintf("%.1f%% of multi-feature users share the same pairing (%s).",
				combos[0].Percentage, combos[0].Label),
			Recommendation: "Cross-sell the remaining features to this engaged segment.",
			Icon:           "🔁",
		})
	}

	return insights
}

func retentionInsights(r *model.RetentionSnapshot) []model.Insight {
	if r == nil {
		return nil
	}
	var insights []model.Insight

	day1 := model.Rate(r.Day1)
	if r.Day1 != nil && day1 < retentionDay1LowBelow {
		insights = append(insights, model.Insight{
			Title:          "Day 1 Retention Needs Attention",
			Insight:        fmt.Sprintf("Only %.1f%% of users return the next day.", day1),
			Recommendation: "Implement push notifications and email sequences for new users.",
			Icon:           "📱",
		})
	}

	week1 := model.Rate(r.Week1)
	if r.Week1 != nil && week1 > retentionWeek1HighAbove {
		insights = append(insights, model.Insight{
			Title:          "Strong Week 1 Retention",
			Insight:        fmt.Sprintf("%.1f%% of users return within a week.", week1),
			Recommendation: "Focus on converting these engaged users to power users.",
			Icon:           "💪",
		})
	}

	return insights
}
