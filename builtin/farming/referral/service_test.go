// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package referral

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/lvldb"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

var (
	u1 = thor.Address{1}
	u2 = thor.Address{2}
	u3 = thor.Address{3}
	u4 = thor.Address{4}
	u5 = thor.Address{5}

	tokA   = thor.Address{0xa0}
	tokB   = thor.Address{0xb0}
	refTok = thor.Address{0xcc}
)

func newService(t *testing.T) *Service {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(solidity.NewContext(thor.Address{0xff}, state.New(db, nil), nil))
}

func TestSetReferrerOnce(t *testing.T) {
	svc := newService(t)

	ok, err := svc.SetReferrer(u2, thor.Address{})
	require.NoError(t, err)
	assert.False(t, ok)
	ok, _ = svc.SetReferrer(u2, u2)
	assert.False(t, ok)

	ok, err = svc.SetReferrer(u2, u1)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, _ = svc.SetReferrer(u2, u3)
	assert.False(t, ok)

	ok, _ = svc.SetReferrer(u3, u1)
	assert.True(t, ok)

	u, err := svc.Get(u2)
	require.NoError(t, err)
	assert.Equal(t, u1, u.Referrer)

	refs, err := svc.Referrals(u1)
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{u2, u3}, refs)

	refs, err = svc.Referrals(u3)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestActivate(t *testing.T) {
	svc := newService(t)
	u, _ := svc.Get(u1)
	assert.False(t, u.IsActive)

	require.NoError(t, svc.Activate(u1))
	require.NoError(t, svc.Activate(u1))
	u, _ = svc.Get(u1)
	assert.True(t, u.IsActive)
}

func TestUpline(t *testing.T) {
	svc := newService(t)
	// u5 -> u4 -> u3 -> u2 -> u1
	for _, link := range [][2]thor.Address{{u2, u1}, {u3, u2}, {u4, u3}, {u5, u4}} {
		_, err := svc.SetReferrer(link[0], link[1])
		require.NoError(t, err)
	}

	up, err := svc.Upline(u5, 3)
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{u4, u3, u2}, up)

	up, err = svc.Upline(u3, 3)
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{u2, u1}, up)

	up, err = svc.Upline(u1, 3)
	require.NoError(t, err)
	assert.Empty(t, up)
}

func TestCascadeBaseTokens(t *testing.T) {
	plan := &Plan{
		Percents: []uint64{3, 2, 1},
		Tokens:   []thor.Address{tokA, tokB},
		Base:     []*big.Int{big.NewInt(1_000_000), big.NewInt(0)},
	}

	payouts, err := Cascade([]thor.Address{u4, u3, u2}, plan)
	require.NoError(t, err)
	require.Len(t, payouts, 3)
	assert.Equal(t, Payout{Level: 0, Referrer: u4, Token: tokA, Amount: big.NewInt(30_000)}, payouts[0])
	assert.Equal(t, Payout{Level: 1, Referrer: u3, Token: tokA, Amount: big.NewInt(20_000)}, payouts[1])
	assert.Equal(t, Payout{Level: 2, Referrer: u2, Token: tokA, Amount: big.NewInt(10_000)}, payouts[2])

	// missing levels are forfeited
	payouts, err = Cascade([]thor.Address{u4}, plan)
	require.NoError(t, err)
	assert.Len(t, payouts, 1)

	payouts, err = Cascade(nil, plan)
	require.NoError(t, err)
	assert.Empty(t, payouts)
}

func TestCascadeReferralToken(t *testing.T) {
	plan := &Plan{
		Percents:      []uint64{3, 2},
		Tokens:        []thor.Address{tokA, tokB},
		Base:          []*big.Int{big.NewInt(1_000_000), big.NewInt(500_000)},
		ReferralToken: refTok,
		Multiplier:    big.NewInt(2e10),
	}

	payouts, err := Cascade([]thor.Address{u2, u1}, plan)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	// (1_000_000 + 500_000) * 3% * 2
	assert.Equal(t, Payout{Level: 0, Referrer: u2, Token: refTok, Amount: big.NewInt(90_000)}, payouts[0])
	assert.Equal(t, Payout{Level: 1, Referrer: u1, Token: refTok, Amount: big.NewInt(60_000)}, payouts[1])

	// a zero multiplier falls back to base tokens
	plan.Multiplier = big.NewInt(0)
	payouts, err = Cascade([]thor.Address{u2}, plan)
	require.NoError(t, err)
	require.Len(t, payouts, 2)
	assert.Equal(t, tokA, payouts[0].Token)
	assert.Equal(t, tokB, payouts[1].Token)
}
