package rulesets

import (
	"time"

	"github.com/ruleflow/ruleflow/rules"
)

// RuleSetsCache provides an abstraction for caching the stored rule sets.
// This allows swapping between in-memory, Redis, or other caching implementations.
type RuleSetsCache interface {
	// Get retrieves cached rule sets, returns nil if cache miss or expired
	Get() []*rules.RuleSet

	// Set stores rule sets in cache
	Set(ruleSets []*rules.RuleSet)

	// Invalidate clears the cache, forcing a refresh on next Get
	Invalidate()

	// IsValid returns true if cache has valid data
	IsValid() bool
}

// CacheConfig holds configuration for cache behavior
type CacheConfig struct {
	// TTL is the time-to-live for cached entries
	// Set to 0 for no expiration (manual invalidation only)
	TTL time.Duration

	// RefreshOnInvalidate determines if cache should be refreshed immediately
	// when invalidated, or wait for next Get call
	RefreshOnInvalidate bool
}

// DefaultCacheConfig returns sensible defaults for rule-set caching
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:                 0, // No TTL - only invalidate on mutations
		RefreshOnInvalidate: false,
	}
}
