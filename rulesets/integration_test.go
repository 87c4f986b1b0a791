//go:build integration
// +build integration

package rulesets_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ruleflow/ruleflow/rules"
	"github.com/ruleflow/ruleflow/rulesets"

	_ "github.com/lib/pq"
)

// setupTestDB creates a PostgreSQL container and returns a connection
func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "ruleflow_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgresContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}

	host, err := postgresContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgresContainer.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	connStr := fmt.Sprintf("host=%s port=%s user=test password=test dbname=ruleflow_test sslmode=disable", host, port.Port())

	// Wait for connection to be available
	var db *sql.DB
	for i := 0; i < 30; i++ {
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(time.Second)
	}
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	// Same schema as migrations/000001_create_rulesets.up.sql
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS rulesets (
			id          TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			definition  JSONB NOT NULL,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		db.Close()
		postgresContainer.Terminate(ctx)
	}

	return db, cleanup
}

func sampleRuleSet() *rules.RuleSet {
	return &rules.RuleSet{
		ID:          uuid.NewString(),
		Name:        "Theatre Seating",
		Description: "Seat allocation by ticket price and age",
		Fields: []rules.Field{
			{Name: "ticketPrice", Type: rules.FieldNumber, Label: "Ticket Price"},
			{Name: "age", Type: rules.FieldNumber, Label: "Age"},
		},
		Rules: []rules.Rule{{
			ID:   "front-rows",
			Name: "Front Rows",
			Conditions: []rules.Condition{
				{Field: "ticketPrice", Operator: rules.OpGreaterEqual, Value: rules.Number(80)},
				{Field: "ticketPrice", Operator: rules.OpLess, Value: rules.Number(120)},
				{Field: "age", Operator: rules.OpGreaterEqual, Value: rules.Number(18)},
			},
			Outcome:      "Front Rows",
			UseOrOutcome: true,
			OrOutcome:    "Standing",
		}},
	}
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := rulesets.NewPostgresRuleSetStore(db)

	rs := sampleRuleSet()
	if err := store.Add(rs); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	retrieved, err := store.Get(rs.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if retrieved.Name != rs.Name {
		t.Errorf("Name = %s, want %s", retrieved.Name, rs.Name)
	}
	if len(retrieved.Rules) != 1 || len(retrieved.Rules[0].Conditions) != 3 {
		t.Fatalf("definition document did not round-trip: %+v", retrieved)
	}
	if got, ok := retrieved.Rules[0].Conditions[0].Value.Number(); !ok || got != 80 {
		t.Errorf("condition literal = (%v, %v), want (80, true)", got, ok)
	}

	// The stored document must evaluate identically to the original.
	rec := rules.Record{"ticketPrice": rules.Number(100), "age": rules.Number(20)}
	if got, want := rules.EvaluateRules(retrieved, rec), rules.EvaluateRules(rs, rec); got != want {
		t.Errorf("stored rule set evaluates differently: %+v vs %+v", got, want)
	}
}

func TestPostgresStoreDuplicateAdd(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := rulesets.NewPostgresRuleSetStore(db)

	rs := sampleRuleSet()
	if err := store.Add(rs); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := store.Add(rs); err == nil {
		t.Fatal("Add() with duplicate ID should return error")
	}
}

func TestPostgresStoreUpdateDelete(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := rulesets.NewPostgresRuleSetStore(db)

	rs := sampleRuleSet()
	if err := store.Add(rs); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	rs.Description = "updated"
	rs.Rules[0].Outcome = "Balcony"
	if err := store.Update(rs); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}

	retrieved, err := store.Get(rs.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if retrieved.Description != "updated" || retrieved.Rules[0].Outcome != "Balcony" {
		t.Errorf("Update() did not persist changes: %+v", retrieved)
	}

	if err := store.Delete(rs.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.Get(rs.ID); err == nil {
		t.Fatal("Get() after Delete() should return error")
	}

	if err := store.Update(rs); err == nil {
		t.Fatal("Update() of deleted rule set should return error")
	}
	if err := store.Delete(rs.ID); err == nil {
		t.Fatal("Delete() of deleted rule set should return error")
	}
}

func TestPostgresStoreList(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	store := rulesets.NewPostgresRuleSetStore(db)

	first := sampleRuleSet()
	second := sampleRuleSet()
	second.Name = "Cinema Seating"

	if err := store.Add(first); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if err := store.Add(second); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}

	all, err := store.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List() returned %d rule sets, want 2", len(all))
	}
	// Oldest first
	if all[0].ID != first.ID {
		t.Errorf("List() order = [%s, %s], want oldest first", all[0].ID, all[1].ID)
	}
}
