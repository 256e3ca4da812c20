// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/lvldb"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

type TestStruct struct {
	Field1 uint64
	Field2 *big.Int
	Addr1  thor.Address
	Flag   bool
}

type meter struct {
	reads, writes uint64
}

func (m *meter) charge(op Op, slots uint64) {
	if op == OpRead {
		m.reads += slots
	} else {
		m.writes += slots
	}
}

// newTestContext returns a fresh Context with in-memory DB.
func newTestContext(t *testing.T) (*Context, *meter) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	m := &meter{}
	return NewContext(thor.Address{1}, state.New(db, nil), m.charge), m
}

func TestMapping(t *testing.T) {
	ctx, m := newTestContext(t)
	mapping := NewMapping[thor.Address, *TestStruct](ctx, thor.Bytes32{1})
	key := thor.Address{9}

	// absent values decode as a zero instance
	v, err := mapping.Get(key)
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, uint64(0), v.Field1)
	exists, err := mapping.Exists(key)
	assert.NoError(t, err)
	assert.False(t, exists)

	value := &TestStruct{Field1: 7, Field2: big.NewInt(1e18), Addr1: thor.Address{3}, Flag: true}
	require.NoError(t, mapping.Set(key, value))
	// 33 bytes encoded
	assert.Equal(t, uint64(2), m.writes)

	got, err := mapping.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)
	assert.Equal(t, uint64(2), m.reads)

	exists, _ = mapping.Exists(key)
	assert.True(t, exists)

	mapping.Delete(key)
	exists, _ = mapping.Exists(key)
	assert.False(t, exists)
}

func TestMappingKeysDoNotCollide(t *testing.T) {
	ctx, _ := newTestContext(t)
	a := NewMapping[thor.Bytes32, uint64](ctx, thor.Bytes32{1})
	b := NewMapping[thor.Bytes32, uint64](ctx, thor.Bytes32{2})

	require.NoError(t, a.Set(thor.Bytes32{5}, 1))
	require.NoError(t, b.Set(thor.Bytes32{5}, 2))

	va, _ := a.Get(thor.Bytes32{5})
	vb, _ := b.Get(thor.Bytes32{5})
	assert.Equal(t, uint64(1), va)
	assert.Equal(t, uint64(2), vb)
}

func TestRaw(t *testing.T) {
	ctx, _ := newTestContext(t)
	r := NewRaw[[]uint64](ctx, thor.BytesToBytes32([]byte("list")))

	v, err := r.Get()
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, r.Set([]uint64{3, 2, 1}))
	v, _ = r.Get()
	assert.Equal(t, []uint64{3, 2, 1}, v)
}

func TestConfigVariable(t *testing.T) {
	ctx, _ := newTestContext(t)
	cv := NewConfigVariable("staking-duration", 90)

	v, err := cv.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(90), v)

	require.NoError(t, cv.Set(ctx, 30))
	v, _ = cv.Get(ctx)
	assert.Equal(t, uint64(30), v)

	// zero is a legitimate stored value
	require.NoError(t, cv.Set(ctx, 0))
	v, _ = cv.Get(ctx)
	assert.Equal(t, uint64(0), v)
}
