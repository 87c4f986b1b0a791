package rulesets

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/ruleflow/ruleflow/rules"
)

// PostgresRuleSetStore implements RuleSetStore backed by PostgreSQL. The
// fields and rules of a rule set are stored as a JSONB document alongside
// the scalar columns, so the stored shape matches the wire shape exactly.
type PostgresRuleSetStore struct {
	db *sql.DB
}

// NewPostgresRuleSetStore creates a new PostgreSQL-backed RuleSetStore
func NewPostgresRuleSetStore(db *sql.DB) *PostgresRuleSetStore {
	return &PostgresRuleSetStore{db: db}
}

type ruleSetDocument struct {
	Fields []rules.Field `json:"fields"`
	Rules  []rules.Rule  `json:"rules"`
}

// Add inserts a new rule set into the database
func (s *PostgresRuleSetStore) Add(rs *rules.RuleSet) error {
	var exists bool
	err := s.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM rulesets WHERE id = $1)
	`, rs.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check rule set existence: %w", err)
	}
	if exists {
		return fmt.Errorf("rule set with ID %s already exists", rs.ID)
	}

	definition, err := json.Marshal(ruleSetDocument{Fields: rs.Fields, Rules: rs.Rules})
	if err != nil {
		return fmt.Errorf("failed to marshal rule set definition: %w", err)
	}

	now := time.Now()
	rs.CreatedAt = now
	rs.UpdatedAt = now

	_, err = s.db.Exec(`
		INSERT INTO rulesets (id, name, description, definition, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rs.ID, rs.Name, rs.Description, definition, rs.CreatedAt, rs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rule set: %w", err)
	}

	return nil
}

// Get retrieves a rule set by ID
func (s *PostgresRuleSetStore) Get(id string) (*rules.RuleSet, error) {
	var rs rules.RuleSet
	var definition []byte
	err := s.db.QueryRow(`
		SELECT id, name, description, definition, created_at, updated_at
		FROM rulesets
		WHERE id = $1
	`, id).Scan(&rs.ID, &rs.Name, &rs.Description, &definition, &rs.CreatedAt, &rs.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("rule set %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rule set: %w", err)
	}

	var doc ruleSetDocument
	if err := json.Unmarshal(definition, &doc); err != nil {
		return nil, fmt.Errorf("invalid definition for rule set %s: %w", id, err)
	}
	rs.Fields = doc.Fields
	rs.Rules = doc.Rules

	return &rs, nil
}

// List returns all rule sets, oldest first.
func (s *PostgresRuleSetStore) List() ([]*rules.RuleSet, error) {
	rows, err := s.db.Query(`
		SELECT id, name, description, definition, created_at, updated_at
		FROM rulesets
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule sets: %w", err)
	}
	defer rows.Close()

	var all []*rules.RuleSet
	for rows.Next() {
		var rs rules.RuleSet
		var definition []byte
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.Description, &definition,
			&rs.CreatedAt, &rs.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rule set: %w", err)
		}

		var doc ruleSetDocument
		if err := json.Unmarshal(definition, &doc); err != nil {
			return nil, fmt.Errorf("invalid definition for rule set %s: %w", rs.ID, err)
		}
		rs.Fields = doc.Fields
		rs.Rules = doc.Rules
		all = append(all, &rs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rule sets: %w", err)
	}

	return all, nil
}

// Update modifies an existing rule set
func (s *PostgresRuleSetStore) Update(rs *rules.RuleSet) error {
	definition, err := json.Marshal(ruleSetDocument{Fields: rs.Fields, Rules: rs.Rules})
	if err != nil {
		return fmt.Errorf("failed to marshal rule set definition: %w", err)
	}

	rs.UpdatedAt = time.Now()

	result, err := s.db.Exec(`
		UPDATE rulesets
		SET name = $1, description = $2, definition = $3, updated_at = $4
		WHERE id = $5
	`, rs.Name, rs.Description, definition, rs.UpdatedAt, rs.ID)
	if err != nil {
		return fmt.Errorf("failed to update rule set: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rule set %s not found", rs.ID)
	}

	return nil
}

// Delete removes a rule set from the database
func (s *PostgresRuleSetStore) Delete(id string) error {
	result, err := s.db.Exec(`
		DELETE FROM rulesets
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule set: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("rule set %s not found", id)
	}

	return nil
}
