package rulesets

import (
	"sync"
	"time"

	"github.com/ruleflow/ruleflow/rules"
)

// InMemoryRuleSetsCache is a simple in-memory implementation of RuleSetsCache.
// Thread-safe for concurrent access.
type InMemoryRuleSetsCache struct {
	ruleSets []*rules.RuleSet
	cachedAt time.Time
	config   CacheConfig
	mu       sync.RWMutex
	isValid  bool
}

// NewInMemoryRuleSetsCache creates a new in-memory rule-sets cache
func NewInMemoryRuleSetsCache(config CacheConfig) *InMemoryRuleSetsCache {
	return &InMemoryRuleSetsCache{
		config:  config,
		isValid: false,
	}
}

// Get retrieves cached rule sets.
// Returns nil if cache is invalid or expired.
func (c *InMemoryRuleSetsCache) Get() []*rules.RuleSet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.isValid {
		return nil
	}

	if c.config.TTL > 0 {
		if time.Since(c.cachedAt) > c.config.TTL {
			// Cache expired
			return nil
		}
	}

	// Return copy to prevent external modifications
	ruleSetsCopy := make([]*rules.RuleSet, len(c.ruleSets))
	copy(ruleSetsCopy, c.ruleSets)
	return ruleSetsCopy
}

// Set stores rule sets in cache
func (c *InMemoryRuleSetsCache) Set(ruleSets []*rules.RuleSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Store copy to prevent external modifications
	c.ruleSets = make([]*rules.RuleSet, len(ruleSets))
	copy(c.ruleSets, ruleSets)
	c.cachedAt = time.Now()
	c.isValid = true
}

// Invalidate clears the cache
func (c *InMemoryRuleSetsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.isValid = false
	c.ruleSets = nil
}

// IsValid returns true if cache contains valid data
func (c *InMemoryRuleSetsCache) IsValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.isValid {
		return false
	}

	if c.config.TTL > 0 {
		return time.Since(c.cachedAt) <= c.config.TTL
	}

	return true
}
