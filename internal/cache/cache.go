package cache

import (
	"time"

	"github.com/banwardhq/banward-server/internal/ban"
	"github.com/dgraph-io/ristretto"
)

// The snapshot lives under a single constant key.
const snapshotKey = "_ban_info"

const (
	numCounters = 1 << 10
	maxCost     = 1 << 20
	bufferItems = 64
)

// BanCache keeps the ban snapshot in a ristretto cache with a TTL.
// Mutations go through Destroy, so the TTL only bounds staleness against
// writers that bypass the manager.
type BanCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// Ensure BanCache implements the manager's cache contract
var _ ban.Cache = (*BanCache)(nil)

func New(ttl time.Duration) (*BanCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, err
	}

	return &BanCache{
		cache: c,
		ttl:   ttl,
	}, nil
}

// Get returns the cached snapshot, or a miss.
func (b *BanCache) Get() (*ban.Snapshot, bool) {
	value, ok := b.cache.Get(snapshotKey)
	if !ok {
		return nil, false
	}

	snapshot, ok := value.(*ban.Snapshot)
	if !ok {
		return nil, false
	}

	return snapshot, true
}

// Put stores the snapshot with the configured TTL. Waits until the write
// is visible, so a rebuild on one request is usable on the next.
func (b *BanCache) Put(snapshot *ban.Snapshot) {
	b.cache.SetWithTTL(snapshotKey, snapshot, 1, b.ttl)
	b.cache.Wait()
}

// Destroy drops the snapshot. Waits until the removal is visible: a
// check running right after a ban must not see the old snapshot.
func (b *BanCache) Destroy() {
	b.cache.Del(snapshotKey)
	b.cache.Wait()
}

// Close releases the underlying cache resources.
func (b *BanCache) Close() {
	b.cache.Close()
}
