// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/thor"
)

func commit(t *testing.T, st *State) thor.Bytes32 {
	stage, err := st.Stage()
	require.NoError(t, err)
	root, err := stage.Commit()
	require.NoError(t, err)
	return root
}

func TestCacheFollowsUncachedCommits(t *testing.T) {
	db := newStore(t)
	cache := NewCache(1)
	addr := thor.BytesToAddress([]byte("farm"))
	key := thor.BytesToBytes32([]byte("total"))

	st := New(db, cache)
	st.SetRawStorage(addr, key, encode(t, uint64(1)))
	commit(t, st)

	raw, err := New(db, cache).GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, encode(t, uint64(1)), raw)

	// overwritten by a state without the cache
	other := New(db, nil)
	other.SetRawStorage(addr, key, encode(t, uint64(2)))
	commit(t, other)

	raw, err = New(db, cache).GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, encode(t, uint64(2)), raw)

	// deleted the same way
	other = New(db, nil)
	other.SetRawStorage(addr, key, nil)
	commit(t, other)

	raw, err = New(db, cache).GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Empty(t, raw)

	// commits through the cache keep it warm
	st = New(db, cache)
	st.SetRawStorage(addr, key, encode(t, uint64(3)))
	commit(t, st)

	_, hitsBefore, _ := cache.stats.Stats()
	raw, err = New(db, cache).GetRawStorage(addr, key)
	require.NoError(t, err)
	assert.Equal(t, encode(t, uint64(3)), raw)
	_, hits, _ := cache.stats.Stats()
	assert.Equal(t, hitsBefore+1, hits)
}

func TestCacheStats(t *testing.T) {
	db := newStore(t)
	cache := NewCache(1)
	addr := thor.BytesToAddress([]byte("farm"))
	key := thor.BytesToBytes32([]byte("slot"))

	for range 4 {
		_, err := New(db, cache).GetRawStorage(addr, key)
		require.NoError(t, err)
	}
	changed, hit, miss := cache.stats.Stats()
	assert.True(t, changed)
	assert.Equal(t, int64(3), hit)
	assert.Equal(t, int64(1), miss)
	assert.Equal(t, 0.75, cache.stats.HitRate())

	// an uncached state does not count
	_, err := New(db, nil).GetRawStorage(addr, key)
	require.NoError(t, err)
	_, hit, miss = cache.stats.Stats()
	assert.Equal(t, int64(3), hit)
	assert.Equal(t, int64(1), miss)
}
