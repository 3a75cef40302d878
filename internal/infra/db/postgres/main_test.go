//go:build integration

package postgres

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"
)

var testPool *pgxpool.Pool

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// findProjectRoot travels up from the current directory to find the project root,
// marked by the presence of a go.mod file.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ { // Limit to 6 levels up
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parentDir := filepath.Dir(dir)
		if parentDir == dir { // Reached the filesystem root
			break
		}
		dir = parentDir
	}
	return "", errors.New("could not find project root containing go.mod")
}

func TestMain(m *testing.M) {
	ctx := context.Background()
	dbName := "test-db"
	dbUser := "user"
	dbPassword := "password"
	dbPort := "5432"

	// 1. Start the container
	cmd := exec.Command("docker", "run", "-d", "--rm",
		"--network", "host",
		"-e", fmt.Sprintf("POSTGRES_DB=%s", dbName),
		"-e", fmt.Sprintf("POSTGRES_USER=%s", dbUser),
		"-e", fmt.Sprintf("POSTGRES_PASSWORD=%s", dbPassword),
		"postgres:14",
	)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		log.Fatalf("could not start postgres container: %v. Is Docker running?", err)
	}
	containerID := strings.TrimSpace(out.String())[:12]

	// 2. Readiness Probe and Connection
	connStr := fmt.Sprintf("postgres://%s:%s@localhost:%s/%s?sslmode=disable", dbUser, dbPassword, dbPort, dbName)
	var err error
	const maxRetries = 15
	for i := 0; i < maxRetries; i++ {
		testPool, err = pgxpool.Connect(ctx, connStr)
		if err == nil {
			break
		}
		log.Printf("Waiting for database to be ready... (attempt %d/%d)", i+1, maxRetries)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		// If we can't connect, still try to stop the container before failing.
		exec.Command("docker", "stop", containerID).Run()
		log.Fatalf("Unable to connect to test database after multiple retries: %v\n", err)
	}

	// 3. Apply Schema
	projectRoot, err := findProjectRoot()
	if err != nil {
		log.Fatalf("Error finding project root: %v", err)
	}
	schemaPath := filepath.Join(projectRoot, "deploy", "postgres", "init.sql")
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		log.Fatalf("could not read init.sql from path %s: %s", schemaPath, err)
	}
	_, err = testPool.Exec(ctx, string(schema))
	if err != nil {
		log.Fatalf("could not apply schema: %s", err)
	}
	log.Println("Test database is ready.")

	// 4. Run Tests and capture the exit code
	exitCode := m.Run()

	// 5. Cleanup: Close the pool and stop the container *before* exiting.
	testPool.Close()
	log.Println("Stopping test container...")
	if err := exec.Command("docker", "stop", containerID).Run(); err != nil {
		log.Printf("could not stop postgres container %s: %v", containerID, err)
	}

	// 6. Exit with the captured exit code
	os.Exit(exitCode)
}

func cleanup(t *testing.T) {
	t.Helper()
	_, err := testPool.Exec(context.Background(), `
		TRUNCATE
			users, budgets, manual_and_external_transactions, plans,
			investment_plans, transactions, slack_message_dump,
			financial_simulator_v2, financial_simulator_reviews
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("Failed to clean up database: %v", err)
	}
}

// --- Fixture helpers ---

func insertUser(t *testing.T, signedUp time.Time, restricted bool) string {
	t.Helper()
	id := uuid.NewString()
	_, err := testPool.Exec(context.Background(),
		`INSERT INTO users (id, email, restricted, created_at) VALUES ($1, $2, $3, $4)`,
		id, id+"@example.com", restricted, signedUp)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func insertBudget(t *testing.T, userID string, at time.Time) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`INSERT INTO budgets (user_id, amount, category, created_at) VALUES ($1, 100, 'food', $2)`,
		userID, at)
	if err != nil {
		t.Fatalf("insert budget: %v", err)
	}
}

func insertManualTxn(t *testing.T, userID string, at time.Time) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`INSERT INTO manual_and_external_transactions (user_id, amount, created_at) VALUES ($1, 50, $2)`,
		userID, at)
	if err != nil {
		t.Fatalf("insert manual txn: %v", err)
	}
}

func insertSavingsTxn(t *testing.T, userID string, at time.Time, status, providerNumber string) {
	t.Helper()
	var planID string
	err := testPool.QueryRow(context.Background(),
		`INSERT INTO plans (user_id, name, created_at) VALUES ($1, 'plan', $2) RETURNING id::TEXT`,
		userID, at).Scan(&planID)
	if err != nil {
		t.Fatalf("insert plan: %v", err)
	}
	_, err = testPool.Exec(context.Background(),
		`INSERT INTO transactions (plan_id, amount, status, provider_number, updated_at) VALUES ($1, 100, $2, $3, $4)`,
		planID, status, providerNumber, at)
	if err != nil {
		t.Fatalf("insert savings txn: %v", err)
	}
}

func insertInvestmentTxn(t *testing.T, userID string, at time.Time, status, providerNumber string) {
	t.Helper()
	var planID string
	err := testPool.QueryRow(context.Background(),
		`INSERT INTO investment_plans (user_id, name, created_at) VALUES ($1, 'fund', $2) RETURNING id::TEXT`,
		userID, at).Scan(&planID)
	if err != nil {
		t.Fatalf("insert investment plan: %v", err)
	}
	_, err = testPool.Exec(context.Background(),
		`INSERT INTO transactions (investment_plan_id, amount, status, provider_number, updated_at) VALUES ($1, 100, $2, $3, $4)`,
		planID, status, providerNumber, at)
	if err != nil {
		t.Fatalf("insert investment txn: %v", err)
	}
}

func insertChatMessage(t *testing.T, userID string, at time.Time) {
	t.Helper()
	_, err := testPool.Exec(context.Background(),
		`INSERT INTO slack_message_dump ("user", channel, created_at) VALUES ($1, 'lady-ai', $2)`,
		userID, at)
	if err != nil {
		t.Fatalf("insert chat message: %v", err)
	}
}

func testDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}
