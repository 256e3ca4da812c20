// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ownable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/lvldb"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(thor.Address{1}, state.New(db, nil), nil))
}

func TestOwnership(t *testing.T) {
	svc := newService(t)
	owner, other := thor.Address{0xaa}, thor.Address{0xbb}

	assert.Error(t, svc.Initialize(thor.Address{}))
	require.NoError(t, svc.Initialize(owner))
	assert.Error(t, svc.Initialize(other))

	ok, err := svc.IsOwner(owner)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.ErrorIs(t, svc.OnlyOwner(other), ErrNotOwner)
	assert.ErrorIs(t, svc.TransferOwnership(other, other), ErrNotOwner)
	assert.ErrorIs(t, svc.TransferOwnership(owner, thor.Address{}), ErrZeroOwner)

	require.NoError(t, svc.TransferOwnership(owner, other))
	assert.NoError(t, svc.OnlyOwner(other))
	assert.ErrorIs(t, svc.OnlyOwner(owner), ErrNotOwner)
}

func TestPause(t *testing.T) {
	svc := newService(t)
	owner := thor.Address{0xaa}
	require.NoError(t, svc.Initialize(owner))

	assert.NoError(t, svc.WhenNotPaused())
	assert.ErrorIs(t, svc.Pause(thor.Address{0xbb}), ErrNotOwner)
	assert.ErrorIs(t, svc.Unpause(owner), ErrNotPaused)

	require.NoError(t, svc.Pause(owner))
	assert.ErrorIs(t, svc.WhenNotPaused(), ErrPaused)
	assert.ErrorIs(t, svc.Pause(owner), ErrPaused)

	require.NoError(t, svc.Unpause(owner))
	assert.NoError(t, svc.WhenNotPaused())
}
