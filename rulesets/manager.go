package rulesets

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ruleflow/ruleflow/rules"
)

// Manager coordinates rule-set storage, validation, and evaluation for the
// serving surfaces. It holds a single pure engine: rule sets are plain
// documents, so nothing is compiled or kept per document, and the cache only
// spares the store a round trip on reads.
type Manager struct {
	store  RuleSetStore
	cache  RuleSetsCache
	engine *rules.Engine
}

// NewManager creates a manager over the given store with a wall-clock engine.
func NewManager(store RuleSetStore) *Manager {
	return NewManagerWithEngine(store, rules.NewEngine())
}

// NewManagerWithEngine creates a manager with a custom engine. Tests pin the
// engine's clock to make time-limited rules deterministic.
func NewManagerWithEngine(store RuleSetStore, engine *rules.Engine) *Manager {
	return &Manager{
		store:  store,
		cache:  NewInMemoryRuleSetsCache(DefaultCacheConfig()),
		engine: engine,
	}
}

// Create validates and stores a new rule set, assigning a UUID when the
// document arrives without one.
func (m *Manager) Create(rs *rules.RuleSet) error {
	if rs != nil && rs.ID == "" {
		rs.ID = uuid.NewString()
	}

	if err := ValidateRuleSet(rs); err != nil {
		return fmt.Errorf("rule set validation failed: %w", err)
	}

	if err := m.store.Add(rs); err != nil {
		return err
	}

	// Invalidate cache since the rule-set list changed
	m.cache.Invalidate()

	return nil
}

// Get retrieves a rule set by ID.
func (m *Manager) Get(id string) (*rules.RuleSet, error) {
	return m.store.Get(id)
}

// List returns all stored rule sets, via the cache when it is warm.
func (m *Manager) List() ([]*rules.RuleSet, error) {
	if cached := m.cache.Get(); cached != nil {
		return cached, nil
	}

	all, err := m.store.List()
	if err != nil {
		return nil, err
	}
	m.cache.Set(all)

	return all, nil
}

// Update validates and replaces an existing rule set.
func (m *Manager) Update(rs *rules.RuleSet) error {
	if err := ValidateRuleSet(rs); err != nil {
		return fmt.Errorf("rule set validation failed: %w", err)
	}

	if err := m.store.Update(rs); err != nil {
		return err
	}

	m.cache.Invalidate()

	return nil
}

// Delete removes a rule set.
func (m *Manager) Delete(id string) error {
	if err := m.store.Delete(id); err != nil {
		return err
	}

	m.cache.Invalidate()

	return nil
}

// Evaluate loads the rule set and evaluates it against the record. The
// loaded document is treated as an immutable snapshot for the duration of
// the call.
func (m *Manager) Evaluate(id string, rec rules.Record) (rules.ValidationResult, error) {
	rs, err := m.store.Get(id)
	if err != nil {
		return rules.ValidationResult{}, err
	}
	return m.engine.Evaluate(rs, rec), nil
}
