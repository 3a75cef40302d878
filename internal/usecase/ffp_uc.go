package usecase

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"ladder-analytics/internal/domain/model"
	"ladder-analytics/internal/domain/ports/repository"
	"ladder-analytics/internal/infra/logging"
)

var _ FFPUseCase = (*ffpUC)(nil)

// FFPUseCase builds the Free Financial Plan engagement page. Both source
// tables are small, so all filtering and aggregation happens in memory on
// the cached full-table loads.
type FFPUseCase interface {
	Engagement(ctx context.Context, rng model.DateRange) (*FFPReport, error)
}

type FFPDailyCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type FFPReport struct {
	TotalSubmissions int `json:"total_submissions"`
	UniqueUsers      int `json:"unique_users"`
	// CompletedSurveys counts submissions that answered every question,
	// where the question set is inferred from the fullest submission in
	// the window.
	CompletedSurveys int     `json:"completed_surveys"`
	CompletionRate   float64 `json:"completion_rate"`
	// AvgPerDay divides total submissions by the calendar days in the
	// window, quiet days included.
	AvgPerDay        float64         `json:"avg_per_day"`
	DailySubmissions []FFPDailyCount `json:"daily_submissions"`
	ReactionCounts   map[string]int  `json:"reaction_counts"`
	Comments         []string        `json:"comments"`
}

type ffpUC struct {
	repo repository.FFPRepository
	log  *zerolog.Logger
}

func NewFFPUseCase(repo repository.FFPRepository, logger *zerolog.Logger) *ffpUC {
	return &ffpUC{repo: repo, log: logger}
}

func (u *ffpUC) Engagement(ctx context.Context, rng model.DateRange) (*FFPReport, error) {
	defer logging.TraceDuration(u.log, "FFPUC.Engagement")()

	subs, err := u.repo.Submissions(ctx)
	if err != nil {
		subs = nil
	}
	reviews, err := u.repo.Reviews(ctx)
	if err != nil {
		reviews = nil
	}

	subs = lo.Filter(subs, func(s model.FFPSubmission, _ int) bool {
		return rng.Contains(s.CreatedAt)
	})
	reviews = lo.Filter(reviews, func(r model.FFPReview, _ int) bool {
		return rng.Contains(r.CreatedAt)
	})

	report := &FFPReport{
		TotalSubmissions: len(subs),
		UniqueUsers: len(lo.UniqBy(subs, func(s model.FFPSubmission) string {
			return s.UserID
		})),
		AvgPerDay:        float64(len(subs)) / float64(rng.Days()),
		DailySubmissions: dailySubmissions(subs),
		ReactionCounts:   map[string]int{},
	}

	maxAnswered := 0
	counts := make([]int, len(subs))
	for i, s := range subs {
		counts[i] = s.AnsweredCount()
		if counts[i] > maxAnswered {
			maxAnswered = counts[i]
		}
	}
	if maxAnswered > 0 {
		for _, n := range counts {
			if n == maxAnswered {
				report.CompletedSurveys++
			}
		}
		report.CompletionRate = pct(report.CompletedSurveys, len(subs))
	}

	for _, r := range reviews {
		if r.Reaction != "" {
			report.ReactionCounts[r.Reaction]++
		}
		if r.Comment != "" {
			report.Comments = append(report.Comments, r.Comment)
		}
	}
	return report, nil
}

func dailySubmissions(subs []model.FFPSubmission) []FFPDailyCount {
	byDay := map[string]int{}
	for _, s := range subs {
		byDay[s.CreatedAt.Format("2006-01-02")]++
	}
	days := lo.Keys(byDay)
	sort.Strings(days)
	out := make([]FFPDailyCount, 0, len(days))
	for _, d := range days {
		out = append(out, FFPDailyCount{Day: d, Count: byDay[d]})
	}
	return out
}
