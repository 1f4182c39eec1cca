package pricing

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/sweetstack/cakepricer/internal/models"
)

// DefaultCacheTTL bounds how stale the in-process rule table may get before
// the next pricing call refetches it.
const DefaultCacheTTL = 5 * time.Minute

// RuleSource fetches the active pricing rules from the configuration store.
type RuleSource interface {
	GetActiveRules(ctx context.Context) ([]models.PricingRule, error)
}

// RuleCache holds the active rule table grouped by item key, refreshed at
// most once per TTL. It is owned by whatever constructs the engine rather
// than being package-level state, so tests and admin tooling can invalidate
// it deterministically.
type RuleCache struct {
	source RuleSource
	ttl    time.Duration

	mu        sync.Mutex
	rules     map[string][]models.PricingRule
	fetchedAt time.Time
	clock     func() time.Time
}

func NewRuleCache(source RuleSource, ttl time.Duration) *RuleCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RuleCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
	}
}

// Rules returns the cached rule table, refetching when the cache is empty or
// older than the TTL. A failed refetch falls back to the stale table when one
// exists; only a never-populated cache propagates the fetch error.
func (c *RuleCache) Rules(ctx context.Context) (map[string][]models.PricingRule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	if c.rules != nil && now.Sub(c.fetchedAt) < c.ttl {
		return c.rules, nil
	}

	fetched, err := c.source.GetActiveRules(ctx)
	if err != nil {
		if c.rules != nil {
			log.Printf("Failed to fetch pricing rules, serving stale cache: %v", err)
			return c.rules, nil
		}
		return nil, fmt.Errorf("failed to fetch pricing rules: %w", err)
	}

	grouped := make(map[string][]models.PricingRule)
	for _, rule := range fetched {
		grouped[rule.ItemKey] = append(grouped[rule.ItemKey], rule)
	}

	c.rules = grouped
	c.fetchedAt = now
	return c.rules, nil
}

// Clear forces the next Rules call to refetch. Admin rule-editing flows call
// this so edits are not masked by a TTL-fresh cache.
func (c *RuleCache) Clear() {
	c.mu.Lock()
	c.rules = nil
	c.fetchedAt = time.Time{}
	c.mu.Unlock()
}
