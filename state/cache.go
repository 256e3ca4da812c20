// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qianbin/directcache"

	"github.com/vechain/yieldfarm/cache"
	"github.com/vechain/yieldfarm/log"
	"github.com/vechain/yieldfarm/thor"
)

var logger = log.WithContext("pkg", "state")

// Cache caches committed storage values, shared by all State instances on the same store.
// The values belong to one committed root. A State built on another root, which
// is what a commit from a State without the cache leaves behind, drops them all.
type Cache struct {
	values      *directcache.Cache
	stats       cache.Stats
	lastLogTime atomic.Int64

	mu   sync.Mutex
	root thor.Bytes32
}

// NewCache creates a cache with the given size in MB.
func NewCache(sizeMB int) *Cache {
	c := &Cache{values: directcache.New(sizeMB * 1024 * 1024)}
	c.lastLogTime.Store(time.Now().UnixNano())
	return c
}

func (c *Cache) get(key []byte) (raw []byte, found bool) {
	found = c.values.AdvGet(key, func(val []byte) {
		raw = slices.Clone(val)
	}, false)
	if found {
		c.stats.Hit()
	} else {
		c.stats.Miss()
	}
	c.log()
	return
}

func (c *Cache) set(key, raw []byte) {
	_ = c.values.Set(key, raw)
}

// sync makes the cache reflect root, dropping everything when it reflected another.
func (c *Cache) sync(root thor.Bytes32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root != root {
		c.reset(root)
	}
}

// commit applies the change set that moved the store from parent to root.
func (c *Cache) commit(parent, root thor.Bytes32, changes []change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.root != parent {
		c.reset(root)
		return
	}
	for _, ch := range changes {
		c.set(ch.key, ch.raw)
	}
	c.root = root
}

func (c *Cache) reset(root thor.Bytes32) {
	if !c.root.IsZero() {
		logger.Debug("storage cache reset", "from", c.root, "to", root)
	}
	c.values.Reset(c.values.Capacity())
	c.root = root
	metricCacheResets().Add(1)
}

func (c *Cache) log() {
	now := time.Now().UnixNano()
	last := c.lastLogTime.Swap(now)

	if now-last > int64(time.Second*20) {
		if changed, hit, miss := c.stats.Stats(); changed {
			rate := c.stats.HitRate()
			metricCacheHitRate().Set(int64(rate * 1000))
			logger.Debug("storage cache stats", "hit", hit, "miss", miss, "hitrate", rate)
		}
	} else {
		c.lastLogTime.CompareAndSwap(now, last)
	}
}
