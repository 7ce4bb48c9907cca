package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
)

const familiesKey = "families"

// FamilyCache resolves product family ids by name from an in-process copy of
// the catalogue. The copy is reloaded after ttl or after Invalidate.
type FamilyCache struct {
	repo  domain.FamilyRepository
	store *gocache.Cache
	mu    sync.Mutex
}

func NewFamilyCache(repo domain.FamilyRepository, ttl time.Duration) *FamilyCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &FamilyCache{
		repo:  repo,
		store: gocache.New(ttl, ttl*2),
	}
}

// IDByName returns nil when no family has that name.
func (c *FamilyCache) IDByName(ctx context.Context, name string) (*string, error) {
	index, err := c.index(ctx)
	if err != nil {
		return nil, err
	}
	id, ok := index[normalizeName(name)]
	if !ok {
		return nil, nil
	}
	return &id, nil
}

func (c *FamilyCache) Invalidate() {
	c.store.Flush()
}

func (c *FamilyCache) index(ctx context.Context) (map[string]string, error) {
	if cached, found := c.store.Get(familiesKey); found {
		return cached.(map[string]string), nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, found := c.store.Get(familiesKey); found {
		return cached.(map[string]string), nil
	}

	families, err := c.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]string, len(families))
	for _, f := range families {
		index[normalizeName(f.Name)] = f.ID
	}
	c.store.Set(familiesKey, index, gocache.DefaultExpiration)
	return index, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
