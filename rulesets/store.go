package rulesets

import (
	"fmt"
	"sync"
	"time"

	"github.com/ruleflow/ruleflow/rules"
)

// RuleSetStore manages rule-set persistence and retrieval. The evaluation
// engine never touches a store; stores exist for the authoring and serving
// surfaces, which hand the engine finished snapshots.
type RuleSetStore interface {
	// Add a new rule set
	Add(rs *rules.RuleSet) error

	// Get a rule set by ID
	Get(id string) (*rules.RuleSet, error)

	// List all rule sets
	List() ([]*rules.RuleSet, error)

	// Update an existing rule set
	Update(rs *rules.RuleSet) error

	// Delete a rule set
	Delete(id string) error
}

// InMemoryRuleSetStore implements RuleSetStore using an in-memory map.
// Thread-safe with RWMutex.
type InMemoryRuleSetStore struct {
	ruleSets map[string]*rules.RuleSet
	mu       sync.RWMutex
}

// NewInMemoryRuleSetStore creates a new in-memory rule-set store
func NewInMemoryRuleSetStore() *InMemoryRuleSetStore {
	return &InMemoryRuleSetStore{
		ruleSets: make(map[string]*rules.RuleSet),
	}
}

// Add adds a new rule set to the store, rejecting duplicate IDs and
// stamping CreatedAt/UpdatedAt.
func (s *InMemoryRuleSetStore) Add(rs *rules.RuleSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ruleSets[rs.ID]; exists {
		return fmt.Errorf("rule set with ID %s already exists", rs.ID)
	}

	now := time.Now()
	rs.CreatedAt = now
	rs.UpdatedAt = now
	s.ruleSets[rs.ID] = rs
	return nil
}

// Get retrieves a rule set by ID
func (s *InMemoryRuleSetStore) Get(id string) (*rules.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rs, exists := s.ruleSets[id]
	if !exists {
		return nil, fmt.Errorf("rule set with ID %s not found", id)
	}
	return rs, nil
}

// List returns all stored rule sets
func (s *InMemoryRuleSetStore) List() ([]*rules.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*rules.RuleSet, 0, len(s.ruleSets))
	for _, rs := range s.ruleSets {
		all = append(all, rs)
	}
	return all, nil
}

// Update updates an existing rule set, preserving the original CreatedAt.
func (s *InMemoryRuleSetStore) Update(rs *rules.RuleSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.ruleSets[rs.ID]
	if !exists {
		return fmt.Errorf("rule set with ID %s not found", rs.ID)
	}

	rs.CreatedAt = existing.CreatedAt
	rs.UpdatedAt = time.Now()
	s.ruleSets[rs.ID] = rs
	return nil
}

// Delete removes a rule set from the store
func (s *InMemoryRuleSetStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ruleSets[id]; !exists {
		return fmt.Errorf("rule set with ID %s not found", id)
	}

	delete(s.ruleSets, id)
	return nil
}
