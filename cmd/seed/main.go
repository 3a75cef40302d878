// Seeds a local database with a few weeks of plausible demo activity so the
// dashboard renders something out of the box. Never run this against prod.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"ladder-analytics/internal/config"
	pg "ladder-analytics/internal/infra/db/postgres"
	"ladder-analytics/internal/infra/logging"
)

const (
	seedUsers = 60
	seedDays  = 45
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.Log, true)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database, 4, logger)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// If users already exist, do nothing.
	var existing int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&existing); err != nil {
		log.Fatalf("count users: %v", err)
	}
	if existing > 0 {
		fmt.Printf("%d users already present. No changes.\n", existing)
		return
	}

	rng := rand.New(rand.NewSource(42))
	now := time.Now().UTC().Truncate(24 * time.Hour)

	if err := seed(ctx, pool, rng, now); err != nil {
		log.Fatalf("seed: %v", err)
	}
	fmt.Println("Seeding complete.")
}

func seed(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, now time.Time) error {
	type seedUser struct {
		id       string
		signedUp time.Time
	}

	users := make([]seedUser, 0, seedUsers)
	for i := 0; i < seedUsers; i++ {
		u := seedUser{
			id:       uuid.NewString(),
			signedUp: now.AddDate(0, 0, -rng.Intn(seedDays)),
		}
		users = append(users, u)
		restricted := i%20 == 19 // a handful of restricted accounts
		if _, err := pool.Exec(ctx,
			`INSERT INTO users (id, email, restricted, created_at) VALUES ($1, $2, $3, $4)`,
			u.id, fmt.Sprintf("demo%d@example.com", i), restricted, u.signedUp); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
	}

	for _, u := range users {
		// Each user gets a random number of active days after signup.
		activeDays := rng.Intn(10)
		for d := 0; d < activeDays; d++ {
			at := u.signedUp.AddDate(0, 0, rng.Intn(seedDays))
			if at.After(now) {
				continue
			}
			if err := seedActivity(ctx, pool, rng, u.id, at); err != nil {
				return err
			}
		}
	}

	// A sprinkling of FFP submissions and reviews.
	for i := 0; i < 25; i++ {
		u := users[rng.Intn(len(users))]
		answered := rng.Intn(4)
		plan := map[string][]map[string]string{"plan": {
			{"question": "goal", "answer": pick(answered > 0, "retire early", "")},
			{"question": "horizon", "answer": pick(answered > 1, "10 years", "")},
			{"question": "risk", "answer": pick(answered > 2, "moderate", "")},
		}}
		meta, _ := json.Marshal(plan)
		if _, err := pool.Exec(ctx,
			`INSERT INTO financial_simulator_v2 (user_id, metadata, created_at) VALUES ($1, $2, $3)`,
			u.id, string(meta), now.AddDate(0, 0, -rng.Intn(seedDays))); err != nil {
			return fmt.Errorf("insert ffp submission: %w", err)
		}
	}
	reactions := []string{"love", "like", "meh"}
	for i := 0; i < 10; i++ {
		comment := ""
		if i%3 == 0 {
			comment = "Helped me plan my savings."
		}
		if _, err := pool.Exec(ctx,
			`INSERT INTO financial_simulator_reviews (reaction, comment, created_at) VALUES ($1, $2, $3)`,
			reactions[rng.Intn(len(reactions))], comment, now.AddDate(0, 0, -rng.Intn(seedDays))); err != nil {
			return fmt.Errorf("insert ffp review: %w", err)
		}
	}
	return nil
}

// seedActivity writes one activity event for a random feature on the given day.
func seedActivity(ctx context.Context, pool *pgxpool.Pool, rng *rand.Rand, userID string, at time.Time) error {
	switch rng.Intn(5) {
	case 0:
		_, err := pool.Exec(ctx,
			`INSERT INTO budgets (user_id, amount, category, created_at) VALUES ($1, $2, $3, $4)`,
			userID, 100+rng.Intn(900), "groceries", at)
		return err
	case 1:
		_, err := pool.Exec(ctx,
			`INSERT INTO manual_and_external_transactions (user_id, amount, created_at) VALUES ($1, $2, $3)`,
			userID, 10+rng.Intn(200), at)
		return err
	case 2:
		var planID string
		if err := pool.QueryRow(ctx,
			`INSERT INTO plans (user_id, name, created_at) VALUES ($1, 'rainy day', $2) RETURNING id::TEXT`,
			userID, at).Scan(&planID); err != nil {
			return err
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO transactions (plan_id, amount, status, provider_number, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			planID, 50+rng.Intn(500), txnStatus(rng), provider(rng), at)
		return err
	case 3:
		var planID string
		if err := pool.QueryRow(ctx,
			`INSERT INTO investment_plans (user_id, name, created_at) VALUES ($1, 'index fund', $2) RETURNING id::TEXT`,
			userID, at).Scan(&planID); err != nil {
			return err
		}
		_, err := pool.Exec(ctx,
			`INSERT INTO transactions (investment_plan_id, amount, status, provider_number, updated_at) VALUES ($1, $2, $3, $4, $5)`,
			planID, 200+rng.Intn(2000), txnStatus(rng), provider(rng), at)
		return err
	default:
		_, err := pool.Exec(ctx,
			`INSERT INTO slack_message_dump ("user", channel, created_at) VALUES ($1, 'lady-ai', $2)`,
			userID, at)
		return err
	}
}

// txnStatus returns mostly successful settlements with some failures mixed in.
func txnStatus(rng *rand.Rand) string {
	if rng.Intn(10) < 8 {
		return "success"
	}
	return "failed"
}

// provider occasionally emits the excluded internal provider number.
func provider(rng *rand.Rand) string {
	if rng.Intn(10) == 0 {
		return "18"
	}
	return fmt.Sprintf("%d", 1+rng.Intn(9))
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
