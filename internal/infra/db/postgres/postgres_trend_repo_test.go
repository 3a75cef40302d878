//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"ladder-analytics/internal/domain/model"
)

func TestTrendRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	repo := NewPostgresTrendRepo(testPool, "18", testLogger())
	ctx := context.Background()

	shortRange := func() model.DateRange {
		r, err := model.NewDateRange(
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
		)
		if err != nil {
			t.Fatalf("range: %v", err)
		}
		return r
	}

	t.Run("daily series is dense with zero-filled gaps", func(t *testing.T) {
		cleanup(t)
		u1 := insertUser(t, testDate(2024, 5, 1), false)
		u2 := insertUser(t, testDate(2024, 5, 1), false)
		insertBudget(t, u1, testDate(2024, 6, 1))
		insertBudget(t, u2, testDate(2024, 6, 1))
		insertChatMessage(t, u1, testDate(2024, 6, 4))

		series, err := repo.Trend(ctx, shortRange(), model.GranularityDay, nil)
		if err != nil {
			t.Fatalf("Trend failed: %v", err)
		}
		if len(series.Points) != 5 {
			t.Fatalf("expected 5 daily points, got %d", len(series.Points))
		}
		want := []int{2, 0, 0, 1, 0}
		for i, p := range series.Points {
			if p.ActiveUsers != want[i] {
				t.Errorf("day %d: expected %d active, got %d", i, want[i], p.ActiveUsers)
			}
		}
		if !series.Points[0].Period.Equal(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("unexpected first period %v", series.Points[0].Period)
		}
	})

	t.Run("feature filter drops other activity", func(t *testing.T) {
		cleanup(t)
		u1 := insertUser(t, testDate(2024, 5, 1), false)
		insertBudget(t, u1, testDate(2024, 6, 2))
		insertChatMessage(t, u1, testDate(2024, 6, 3))

		f := model.FeatureLadyAI
		series, err := repo.Trend(ctx, shortRange(), model.GranularityDay, &f)
		if err != nil {
			t.Fatalf("Trend failed: %v", err)
		}
		total := 0
		for _, p := range series.Points {
			total += p.ActiveUsers
		}
		if total != 1 {
			t.Errorf("expected a single lady_ai active day, got %d", total)
		}
	})

	t.Run("monthly granularity buckets by calendar month", func(t *testing.T) {
		cleanup(t)
		u1 := insertUser(t, testDate(2024, 5, 1), false)
		insertBudget(t, u1, testDate(2024, 6, 2))
		insertBudget(t, u1, testDate(2024, 7, 2))

		r, err := model.NewDateRange(
			time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 7, 31, 0, 0, 0, 0, time.UTC),
		)
		if err != nil {
			t.Fatalf("range: %v", err)
		}
		series, err := repo.Trend(ctx, r, model.GranularityMonth, nil)
		if err != nil {
			t.Fatalf("Trend failed: %v", err)
		}
		if len(series.Points) != 2 {
			t.Fatalf("expected 2 monthly points, got %d", len(series.Points))
		}
		if series.Points[0].ActiveUsers != 1 || series.Points[1].ActiveUsers != 1 {
			t.Errorf("unexpected monthly counts %v", series.Points)
		}
	})
}
