//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestFFPRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	repo := NewPostgresFFPRepo(testPool, testLogger())
	ctx := context.Background()

	t.Run("Submissions load ordered with NULL metadata coalesced", func(t *testing.T) {
		cleanup(t)
		userID := uuid.NewString()
		_, err := testPool.Exec(ctx,
			`INSERT INTO financial_simulator_v2 (user_id, metadata, created_at) VALUES
			 ($1, '{"plan":[{"question":"goal","answer":"retire"}]}', $2),
			 ($1, NULL, $3)`,
			userID, testDate(2024, 6, 2), testDate(2024, 6, 1))
		if err != nil {
			t.Fatalf("insert submissions: %v", err)
		}

		subs, err := repo.Submissions(ctx)
		if err != nil {
			t.Fatalf("Submissions failed: %v", err)
		}
		if len(subs) != 2 {
			t.Fatalf("expected 2 submissions, got %d", len(subs))
		}
		// Ordered by created_at: the NULL-metadata row comes first.
		if subs[0].Metadata != "" {
			t.Errorf("expected coalesced empty metadata, got %q", subs[0].Metadata)
		}
		if subs[0].AnsweredCount() != 0 {
			t.Errorf("empty metadata must parse to zero answers")
		}
		if subs[1].AnsweredCount() != 1 {
			t.Errorf("expected 1 answer, got %d", subs[1].AnsweredCount())
		}
	})

	t.Run("Reviews load with NULL reaction and comment coalesced", func(t *testing.T) {
		cleanup(t)
		_, err := testPool.Exec(ctx,
			`INSERT INTO financial_simulator_reviews (reaction, comment, created_at) VALUES
			 ('love', 'great tool', $1),
			 (NULL, NULL, $2)`,
			testDate(2024, 6, 1), testDate(2024, 6, 2))
		if err != nil {
			t.Fatalf("insert reviews: %v", err)
		}

		reviews, err := repo.Reviews(ctx)
		if err != nil {
			t.Fatalf("Reviews failed: %v", err)
		}
		if len(reviews) != 2 {
			t.Fatalf("expected 2 reviews, got %d", len(reviews))
		}
		if reviews[0].Reaction != "love" || reviews[0].Comment != "great tool" {
			t.Errorf("unexpected first review %+v", reviews[0])
		}
		if reviews[1].Reaction != "" || reviews[1].Comment != "" {
			t.Errorf("expected coalesced empty fields, got %+v", reviews[1])
		}
	})
}
