package cache

import (
	"time"

	c "github.com/patrickmn/go-cache"
)

// StateLabelCache remembers workflow state display names by state id.
// A missing state is cached as an empty label too.
type StateLabelCache struct {
	cache *c.Cache
}

func NewStateLabelCache(ttl time.Duration) *StateLabelCache {
	if ttl <= 0 {
		ttl = c.NoExpiration
	}
	return &StateLabelCache{
		cache: c.New(ttl, 10*time.Minute),
	}
}

func (ch *StateLabelCache) SaveLabel(stateId string, label string) {
	ch.cache.SetDefault(stateId, label)
}

func (ch *StateLabelCache) GetLabel(stateId string) (string, bool) {
	v, found := ch.cache.Get(stateId)
	if !found {
		return "", false
	}
	label, ok := v.(string)
	return label, ok
}

func (ch *StateLabelCache) Invalidate() {
	ch.cache.Flush()
}
