// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/builtin/farming/ownable"
	"github.com/vechain/yieldfarm/builtin/farming/pool"
	"github.com/vechain/yieldfarm/builtin/farming/reverts"
	"github.com/vechain/yieldfarm/builtin/farming/stake"
	"github.com/vechain/yieldfarm/builtin/farming/token"
	"github.com/vechain/yieldfarm/thor"
)

var (
	alice = thor.Address{0xa1}
	bob   = thor.Address{0xb0}
	carol = thor.Address{0xc0}
	dave  = thor.Address{0xd0}
)

func TestInitialState(t *testing.T) {
	h := newHarness(t)
	f := h.farm()

	o, err := f.Owner()
	require.NoError(t, err)
	assert.Equal(t, owner, o)

	params, err := f.Params()
	require.NoError(t, err)
	assert.Equal(t, deploy, params.DeploymentTime)
	assert.Equal(t, 90*day, params.StakingDuration)

	end, err := f.PoolEndTime()
	require.NoError(t, err)
	assert.Equal(t, deploy+90*day, end)

	assert.Error(t, f.Initialize(alice, deploy))
}

func TestStakeValidation(t *testing.T) {
	h := newHarness(t)
	h.fund(alice, 10_000)

	// unconfigured pool
	_, err := h.farm().Stake(alice, thor.Address{}, staked, big.NewInt(10))
	assert.ErrorIs(t, err, ErrInvalidStakeAmount)

	cfg := defaultConfig()
	cfg.MinStakeAmount = big.NewInt(10)
	cfg.MaxStakeAmount = big.NewInt(100)
	h.configure(cfg)

	_, err = h.farm().Stake(alice, thor.Address{}, staked, big.NewInt(9))
	assert.ErrorIs(t, err, ErrInvalidStakeAmount)
	_, err = h.farm().Stake(alice, thor.Address{}, staked, big.NewInt(101))
	assert.ErrorIs(t, err, ErrInvalidStakeAmount)
	_, err = h.farm().Stake(alice, thor.Address{}, staked, big.NewInt(0))
	assert.ErrorIs(t, err, ErrInvalidStakeAmount)

	id, err := h.farm().Stake(alice, thor.Address{}, staked, big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)
	id, err = h.farm().Stake(alice, thor.Address{}, staked, big.NewInt(100))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	assert.Equal(t, "9890", h.balance(staked, alice))
	assert.Equal(t, "110", h.balance(staked, farmAddr))

	h.now = deploy + 90*day
	_, err = h.farm().Stake(alice, thor.Address{}, staked, big.NewInt(10))
	assert.ErrorIs(t, err, ErrStakingFinished)
}

func TestCapacity(t *testing.T) {
	h := newHarness(t)
	cfg := defaultConfig()
	cfg.MaxStakeAmount = big.NewInt(1_500)
	cfg.TotalStakeLimit = big.NewInt(2_000)
	h.configure(cfg)

	h.stake(alice, thor.Address{}, 1_500)

	h.fund(bob, 600)
	_, err := h.farm().Stake(bob, thor.Address{}, staked, big.NewInt(600))
	assert.ErrorIs(t, err, ErrPoolFulfilled)

	id, err := h.farm().Stake(bob, thor.Address{}, staked, big.NewInt(500))
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id)

	p, err := h.farm().Pool(staked)
	require.NoError(t, err)
	assert.Equal(t, "2000", p.TotalStaked.String())

	// the limit is checked before the per stake bounds
	_, err = h.farm().Stake(bob, thor.Address{}, staked, big.NewInt(1))
	assert.ErrorIs(t, err, ErrPoolFulfilled)
}

func TestClaimIsIdempotent(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	id := h.stake(alice, thor.Address{}, 1_000)

	h.advance(1_000)
	rewards, err := h.farm().GetStakeRewards(alice, id, false)
	require.NoError(t, err)
	assert.Equal(t, "2000", rewards[0].String())
	assert.Equal(t, "4000", rewards[1].String())

	require.NoError(t, h.farm().ClaimReward(alice, id))
	// 10% retention fee without referrer
	assert.Equal(t, "1800", h.balance(rew1, alice))
	assert.Equal(t, "3600", h.balance(rew2, alice))

	require.NoError(t, h.farm().ClaimReward(alice, id))
	assert.Equal(t, "1800", h.balance(rew1, alice))
	assert.Equal(t, "3600", h.balance(rew2, alice))

	st, err := h.farm().GetStake(alice, id)
	require.NoError(t, err)
	assert.Equal(t, h.now, st.ClaimedUpTo)
	assert.Equal(t, "1800", st.ClaimedOf(rew1).String())

	rewards, err = h.farm().GetStakeRewards(alice, id, false)
	require.NoError(t, err)
	assert.Zero(t, rewards[0].Sign())
}

func TestNoDoublePrincipal(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	id := h.stake(alice, thor.Address{}, 1_000)
	assert.Equal(t, "0", h.balance(staked, alice))

	h.advance(1_000)
	active, err := h.farm().IsActiveUser(alice)
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, h.farm().Unstake(alice, id))
	assert.Equal(t, "1000", h.balance(staked, alice))
	assert.Equal(t, "1800", h.balance(rew1, alice))

	assert.ErrorIs(t, h.farm().Unstake(alice, id), stake.ErrAlreadyUnstaked)
	assert.ErrorIs(t, h.farm().ClaimReward(alice, id), stake.ErrAlreadyUnstaked)
	_, err = h.farm().GetStakeRewards(alice, id, false)
	assert.ErrorIs(t, err, stake.ErrAlreadyUnstaked)
	assert.Equal(t, "1000", h.balance(staked, alice))

	active, err = h.farm().IsActiveUser(alice)
	require.NoError(t, err)
	assert.True(t, active)

	p, err := h.farm().Pool(staked)
	require.NoError(t, err)
	assert.Zero(t, p.TotalStaked.Sign())
}

func TestInvalidStakeIndex(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	h.stake(alice, thor.Address{}, 1_000)

	assert.ErrorIs(t, h.farm().ClaimReward(alice, 1), stake.ErrInvalidIndex)
	assert.ErrorIs(t, h.farm().Unstake(alice, 1), stake.ErrInvalidIndex)
	// ids are per owner
	assert.ErrorIs(t, h.farm().ClaimReward(bob, 0), stake.ErrInvalidIndex)
	_, err := h.farm().GetStakeRewards(alice, 7, true)
	assert.ErrorIs(t, err, stake.ErrInvalidIndex)
}

func TestAccrualMonotonicAndFrozen(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	id := h.stake(alice, thor.Address{}, 1_000)

	prev := big.NewInt(-1)
	for range 9 {
		h.advance(10 * day)
		rewards, err := h.farm().GetStakeRewards(alice, id, false)
		require.NoError(t, err)
		assert.Positive(t, rewards[0].Cmp(prev))
		prev = rewards[0]
	}

	h.now = deploy + 90*day
	atEnd, err := h.farm().GetStakeRewards(alice, id, false)
	require.NoError(t, err)
	// whole campaign at 1 per second with the full bonus
	assert.Equal(t, new(big.Int).SetUint64(2*90*day).String(), atEnd[0].String())

	h.advance(30 * day)
	later, err := h.farm().GetStakeRewards(alice, id, false)
	require.NoError(t, err)
	assert.Equal(t, atEnd[0].String(), later[0].String(), spew.Sdump(later))

	require.NoError(t, h.farm().ClaimReward(alice, id))
	h.advance(day)
	after, err := h.farm().GetStakeRewards(alice, id, false)
	require.NoError(t, err)
	assert.Zero(t, after[0].Sign())
}

func TestLateStakeEarnsLowerMultiplier(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())

	h.now = deploy + 45*day + 500
	id := h.stake(alice, thor.Address{}, 1_000)

	st, err := h.farm().GetStake(alice, id)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000", st.Multiplier.String())

	// later changes do not affect existing stakes
	require.NoError(t, h.farm().ChangeStakeMultiplier(owner, 5))
	h.advance(1_000)
	rewards, err := h.farm().GetStakeRewards(alice, id, false)
	require.NoError(t, err)
	assert.Equal(t, "1500", rewards[0].String())
}

func TestFairnessOfEqualStakers(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())

	users := []thor.Address{alice, bob, carol, dave}
	for _, u := range users {
		h.stake(u, thor.Address{}, 1_000)
	}
	h.advance(1_000)

	for _, u := range users {
		require.NoError(t, h.farm().ClaimReward(u, 0))
	}
	for _, u := range users {
		assert.Equal(t, "450", h.balance(rew1, u), u.String())
		assert.Equal(t, "900", h.balance(rew2, u), u.String())
	}
}

func TestLaterStakeDilutesOnlyLaterTime(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())

	id := h.stake(alice, thor.Address{}, 1_000)
	h.advance(1_000)
	bobID := h.stake(bob, thor.Address{}, 1_000)
	h.advance(1_000)

	rewards, err := h.farm().GetStakeRewards(alice, id, false)
	require.NoError(t, err)
	assert.Equal(t, "3000", rewards[0].String())
	rewards, err = h.farm().GetStakeRewards(bob, bobID, false)
	require.NoError(t, err)
	assert.Equal(t, "1000", rewards[0].String())

	// an exit changes the share from then on only
	require.NoError(t, h.farm().Unstake(bob, bobID))
	h.advance(1_000)
	rewards, err = h.farm().GetStakeRewards(alice, id, false)
	require.NoError(t, err)
	assert.Equal(t, "5000", rewards[0].String())
}

func TestEqualStakesEarnAlikeWhateverTheExitOrder(t *testing.T) {
	users := []thor.Address{alice, bob, carol, dave}
	// the earliest stake is alone for its first ten seconds
	want := []string{"3499218", "3499200", "3499191", "3499186"}

	orders := []struct {
		name  string
		order []int
	}{
		{"first in first out", []int{0, 1, 2, 3}},
		{"last in first out", []int{3, 2, 1, 0}},
	}
	for _, tt := range orders {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.configure(defaultConfig())
			for _, u := range users {
				h.stake(u, thor.Address{}, 10_000)
				h.advance(10)
			}

			h.now = deploy + 90*day + day
			for _, i := range tt.order {
				require.NoError(t, h.farm().Unstake(users[i], 0))
			}
			for i, u := range users {
				assert.Equal(t, "10000", h.balance(staked, u), u.String())
				assert.Equal(t, want[i], h.balance(rew1, u), u.String())
			}

			p, err := h.farm().Pool(staked)
			require.NoError(t, err)
			assert.Zero(t, p.TotalStaked.Sign())
			assert.Equal(t, deploy+90*day, p.LastRewardTime)
		})
	}
}

func TestPenalty(t *testing.T) {
	h := newHarness(t)
	cfg := defaultConfig()
	cfg.MaxPenaltyPercent = 30
	cfg.PenaltyDuration = 30 * day
	h.configure(cfg)

	info, err := h.farm().GetPoolPenaltyInfo(staked)
	require.NoError(t, err)
	assert.Equal(t, "30000000000000", info.PenaltyPercent.String())
	assert.Equal(t, "30000000000000", info.MaxPenaltyPercent.String())
	assert.Equal(t, 30*day, info.PenaltyDuration)
	assert.Equal(t, receiver, info.PenaltyReceiver)

	id := h.stake(alice, thor.Address{}, 1_000)
	h.advance(1_000)

	withPenalty, err := h.farm().GetStakeRewards(alice, id, true)
	require.NoError(t, err)
	without, err := h.farm().GetStakeRewards(alice, id, false)
	require.NoError(t, err)
	assert.Equal(t, "2000", without[0].String())
	assert.Equal(t, "1400", withPenalty[0].String())

	require.NoError(t, h.farm().ClaimReward(alice, id))
	assert.Equal(t, "1260", h.balance(rew1, alice))
	assert.Equal(t, "540", h.balance(rew1, receiver))
	assert.Equal(t, "2520", h.balance(rew2, alice))
	assert.Equal(t, "1080", h.balance(rew2, receiver))

	// no penalty once the period is over
	h.now = deploy + 30*day
	info, err = h.farm().GetPoolPenaltyInfo(staked)
	require.NoError(t, err)
	assert.Zero(t, info.PenaltyPercent.Sign())

	before := h.balance(rew1, receiver)
	require.NoError(t, h.farm().Unstake(alice, id))
	assert.Equal(t, before, h.balance(rew1, receiver))
}

func TestReferralCascade(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())

	// bob <- carol <- dave <- alice, bob has no referrer
	h.stake(carol, bob, 1_000)
	h.stake(dave, carol, 1_000)
	h.stake(thor.Address{0xe1}, dave, 1_000)
	h.stake(alice, thor.Address{0xe1}, 1_000)

	refs, err := h.farm().GetReferrals(carol)
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{dave}, refs)
	n, err := h.farm().GetReferralsNumber(bob)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	h.advance(1_000)
	require.NoError(t, h.farm().ClaimReward(alice, 0))

	// 500 and 1000 accrued, 6% fee with a referrer
	assert.Equal(t, "470", h.balance(rew1, alice))
	assert.Equal(t, "940", h.balance(rew2, alice))

	// 3%, 2% and 1% of the accrued amounts up the chain
	assert.Equal(t, "15", h.balance(rew1, thor.Address{0xe1}))
	assert.Equal(t, "30", h.balance(rew2, thor.Address{0xe1}))
	assert.Equal(t, "10", h.balance(rew1, dave))
	assert.Equal(t, "20", h.balance(rew2, dave))
	assert.Equal(t, "5", h.balance(rew1, carol))
	assert.Equal(t, "10", h.balance(rew2, carol))
	// the fourth level is beyond the cascade depth
	assert.Equal(t, "0", h.balance(rew1, bob))
}

func TestDeepReferralChainAfterPoolEnd(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())

	// bob <- carol <- dave <- e1 <- alice
	e1 := thor.Address{0xe1}
	h.stake(carol, bob, 1_000)
	h.stake(dave, carol, 1_000)
	h.stake(e1, dave, 1_000)
	id := h.stake(alice, e1, 1_000)

	h.now = deploy + 95*day
	require.NoError(t, h.farm().Unstake(alice, id))

	// a quarter of the campaign with the full bonus, 6% fee
	assert.Equal(t, "1000", h.balance(staked, alice))
	assert.Equal(t, "3654720", h.balance(rew1, alice))
	assert.Equal(t, "7309440", h.balance(rew2, alice))

	assert.Equal(t, "116640", h.balance(rew1, e1))
	assert.Equal(t, "77760", h.balance(rew1, dave))
	assert.Equal(t, "38880", h.balance(rew1, carol))
	assert.Equal(t, "233280", h.balance(rew2, e1))
	assert.Equal(t, "155520", h.balance(rew2, dave))
	assert.Equal(t, "77760", h.balance(rew2, carol))
	assert.Equal(t, "0", h.balance(rew1, bob))
	assert.Equal(t, "0", h.balance(rew2, bob))

	active, err := h.farm().IsActiveUser(alice)
	require.NoError(t, err)
	assert.True(t, active)
	_, err = h.farm().GetStakeRewards(alice, id, false)
	assert.ErrorIs(t, err, stake.ErrAlreadyUnstaked)

	// the exit does not move what the others earned
	rewards, err := h.farm().GetStakeRewards(carol, 0, false)
	require.NoError(t, err)
	assert.Equal(t, "3888000", rewards[0].String())
}

func TestPenaltyAndFeeWithReferrer(t *testing.T) {
	h := newHarness(t)
	cfg := defaultConfig()
	cfg.MaxPenaltyPercent = 30
	cfg.PenaltyDuration = 30 * day
	h.configure(cfg)

	id := h.stake(alice, bob, 1_000)
	h.now = deploy + 15*day
	require.NoError(t, h.farm().ClaimReward(alice, id))

	// 2592000 accrued, 6% fee kept, then 15% of the rest to the receiver
	assert.Equal(t, "2071008", h.balance(rew1, alice))
	assert.Equal(t, "365472", h.balance(rew1, receiver))
	assert.Equal(t, "4142016", h.balance(rew2, alice))
	assert.Equal(t, "730944", h.balance(rew2, receiver))

	// the referrer gets 3% of the gross amount
	assert.Equal(t, "77760", h.balance(rew1, bob))
	assert.Equal(t, "155520", h.balance(rew2, bob))

	st, err := h.farm().GetStake(alice, id)
	require.NoError(t, err)
	assert.Equal(t, "2071008", st.ClaimedOf(rew1).String())
}

func TestReferralTokenNeedsMultiplier(t *testing.T) {
	h := newHarness(t)
	cfg := defaultConfig()
	cfg.ReferralToken = refTok
	cfg.ReferralMultiplier = big.NewInt(0)
	h.configure(cfg)

	h.stake(alice, bob, 1_000)
	h.advance(1_000)
	require.NoError(t, h.farm().ClaimReward(alice, 0))

	assert.Equal(t, "0", h.balance(refTok, bob))
	assert.Equal(t, "60", h.balance(rew1, bob))
	assert.Equal(t, "120", h.balance(rew2, bob))
}

func TestReferralIsSetOnce(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())

	h.stake(alice, alice, 10)
	u, err := h.farm().Users(alice)
	require.NoError(t, err)
	assert.False(t, u.HasReferrer())

	h.stake(alice, bob, 10)
	h.stake(alice, carol, 10)
	u, err = h.farm().Users(alice)
	require.NoError(t, err)
	assert.Equal(t, bob, u.Referrer)

	refs, err := h.farm().GetReferrals(carol)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestReferralToken(t *testing.T) {
	h := newHarness(t)
	cfg := defaultConfig()
	cfg.ReferralToken = refTok
	cfg.ReferralMultiplier = big.NewInt(2e10)
	h.configure(cfg)

	h.stake(alice, bob, 1_000)
	h.advance(1_000)
	require.NoError(t, h.farm().ClaimReward(alice, 0))

	// (2000 + 4000) * 3% * 2
	assert.Equal(t, "360", h.balance(refTok, bob))
	assert.Equal(t, "0", h.balance(rew1, bob))
	assert.Equal(t, "0", h.balance(rew2, bob))
}

func TestCustomReferralPercents(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	require.NoError(t, h.farm().ChangeReferralPercents(owner, []uint64{10}))

	h.stake(carol, bob, 1_000)
	h.stake(alice, carol, 1_000)
	h.advance(1_000)
	require.NoError(t, h.farm().ClaimReward(alice, 0))

	// one level only, 10% of 1000
	assert.Equal(t, "100", h.balance(rew1, carol))
	assert.Equal(t, "0", h.balance(rew1, bob))
}

func TestEmergencyUnstake(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	h.stake(alice, bob, 1_000)
	h.advance(1_000)
	require.NoError(t, h.farm().Pause(owner))

	amounts := []*big.Int{big.NewInt(100), big.NewInt(200)}
	assert.ErrorIs(t, h.farm().EmergencyUnstake(alice, alice, 0, amounts, true), ownable.ErrNotOwner)
	assert.ErrorIs(t, h.farm().EmergencyUnstake(owner, alice, 1, amounts, true), stake.ErrInvalidIndex)
	assert.ErrorIs(t, h.farm().EmergencyUnstake(owner, alice, 0, amounts[:1], true), ErrIncorrectRewardsLength)

	require.NoError(t, h.farm().EmergencyUnstake(owner, alice, 0, amounts, true))
	assert.Equal(t, "1000", h.balance(staked, alice))
	assert.Equal(t, "100", h.balance(rew1, alice))
	assert.Equal(t, "200", h.balance(rew2, alice))
	assert.Equal(t, "3", h.balance(rew1, bob))
	assert.Equal(t, "6", h.balance(rew2, bob))

	assert.ErrorIs(t, h.farm().EmergencyUnstake(owner, alice, 0, amounts, false), stake.ErrAlreadyUnstaked)

	p, err := h.farm().Pool(staked)
	require.NoError(t, err)
	assert.Zero(t, p.TotalStaked.Sign())
}

func TestEmergencyUnstakeWithoutReferral(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	h.stake(alice, bob, 1_000)

	require.NoError(t, h.farm().EmergencyUnstake(owner, alice, 0, []*big.Int{big.NewInt(0), big.NewInt(5)}, false))
	assert.Equal(t, "0", h.balance(rew1, alice))
	assert.Equal(t, "5", h.balance(rew2, alice))
	assert.Equal(t, "0", h.balance(rew2, bob))
}

func TestRetrieveTokens(t *testing.T) {
	h := newHarness(t)

	assert.ErrorIs(t, h.farm().RetrieveTokens(alice, rew1, big.NewInt(1)), ownable.ErrNotOwner)
	assert.ErrorIs(t, h.farm().RetrieveTokens(owner, rew1, big.NewInt(0)), ErrInvalidAmount)
	tooMuch := new(big.Int).Add(farmFunds, big.NewInt(1))
	assert.ErrorIs(t, h.farm().RetrieveTokens(owner, rew1, tooMuch), ErrInsufficientBalance)

	require.NoError(t, h.farm().RetrieveTokens(owner, rew1, big.NewInt(123)))
	assert.Equal(t, "123", h.balance(rew1, owner))

	bal, err := h.farm().BalanceOf(rew1, farmAddr)
	require.NoError(t, err)
	assert.Equal(t, new(big.Int).Sub(farmFunds, big.NewInt(123)).String(), bal.String())
}

func TestPause(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	h.stake(alice, thor.Address{}, 1_000)

	assert.ErrorIs(t, h.farm().Pause(alice), ownable.ErrNotOwner)
	require.NoError(t, h.farm().Pause(owner))
	paused, err := h.farm().Paused()
	require.NoError(t, err)
	assert.True(t, paused)

	h.fund(alice, 10)
	_, err = h.farm().Stake(alice, thor.Address{}, staked, big.NewInt(10))
	assert.ErrorIs(t, err, ownable.ErrPaused)
	assert.ErrorIs(t, h.farm().ClaimReward(alice, 0), ownable.ErrPaused)
	assert.ErrorIs(t, h.farm().Unstake(alice, 0), ownable.ErrPaused)

	// views keep working
	_, err = h.farm().GetStakeRewards(alice, 0, false)
	assert.NoError(t, err)

	require.NoError(t, h.farm().Unpause(owner))
	assert.NoError(t, h.farm().Unstake(alice, 0))
}

func TestOwnerSetters(t *testing.T) {
	h := newHarness(t)
	f := h.farm()

	assert.ErrorIs(t, f.ChangeStakingDuration(alice, 30), ownable.ErrNotOwner)
	assert.ErrorIs(t, f.ChangeStakingDuration(owner, 0), ErrInvalidDays)
	assert.ErrorIs(t, f.ChangeStakeMultiplier(owner, 0), ErrInvalidMultiplier)
	assert.ErrorIs(t, f.ChangeReferralPercents(owner, nil), ErrInvalidReferralPercents)
	assert.ErrorIs(t, f.ChangeReferralPercents(owner, []uint64{60, 50}), ErrInvalidReferralPercents)
	assert.ErrorIs(t, f.ChangeReferralPercents(owner, make([]uint64, thor.MaxReferralDepth+1)), ErrInvalidReferralPercents)
	assert.ErrorIs(t, f.ChangeRetentionFees(owner, 101, 0), ErrInvalidRetentionFee)
	assert.Empty(t, f.Events())

	require.NoError(t, f.ChangeStakingDuration(owner, 30))
	require.NoError(t, f.ChangeStakeMultiplier(owner, 3))
	require.NoError(t, f.ChangeReferralPercents(owner, []uint64{5, 4, 3, 2}))
	require.NoError(t, f.ChangeRetentionFees(owner, 0, 0))
	require.Len(t, f.Events(), 4)
	assert.Equal(t, EventParamChanged, f.Events()[2].Name)
	assert.Equal(t, "5,4,3,2", f.Events()[2].Value)

	params, err := f.Params()
	require.NoError(t, err)
	assert.Equal(t, 30*day, params.StakingDuration)
	assert.Equal(t, uint64(3), params.StakeMultiplier)
	assert.Equal(t, []uint64{5, 4, 3, 2}, params.ReferralPercents)

	// penalty durations are bounded by the new staking duration
	cfg := defaultConfig()
	cfg.PenaltyDuration = 31 * day
	assert.ErrorIs(t, h.farm().ConfigPool(owner, staked, cfg), pool.ErrInvalidPenaltyDuration)

	h.configure(defaultConfig())
	h.now = deploy + 30*day
	h.fund(alice, 10)
	_, err = h.farm().Stake(alice, thor.Address{}, staked, big.NewInt(10))
	assert.ErrorIs(t, err, ErrStakingFinished)
}

func TestStakingDurationCoversPenalty(t *testing.T) {
	h := newHarness(t)
	cfg := defaultConfig()
	cfg.MaxPenaltyPercent = 30
	cfg.PenaltyDuration = 30 * day
	h.configure(cfg)

	assert.ErrorIs(t, h.farm().ChangeStakingDuration(owner, 29), pool.ErrInvalidPenaltyDuration)
	require.NoError(t, h.farm().ChangeStakingDuration(owner, 30))

	d, err := h.farm().StakingDuration()
	require.NoError(t, err)
	assert.Equal(t, 30*day, d)
}

func TestTransferOwnership(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.farm().TransferOwnership(owner, alice))
	assert.ErrorIs(t, h.farm().ConfigPool(owner, staked, defaultConfig()), ownable.ErrNotOwner)
	assert.NoError(t, h.farm().ConfigPool(alice, staked, defaultConfig()))
}

func TestConfigPoolBasic(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.farm().ConfigPoolBasic(owner, staked, big.NewInt(1), big.NewInt(10), big.NewInt(0),
		[]thor.Address{rew1}, []*big.Int{big.NewInt(1e18)}))

	p, err := h.farm().Pool(staked)
	require.NoError(t, err)
	assert.Equal(t, owner, p.PenaltyReceiver)
	assert.Equal(t, uint64(0), p.MaxPenaltyPercent)
	assert.False(t, p.HasReferralToken())

	tokens, err := h.farm().PoolTokens()
	require.NoError(t, err)
	assert.Equal(t, []thor.Address{staked}, tokens)

	err = h.farm().ConfigPoolBasic(alice, staked, big.NewInt(1), big.NewInt(10), big.NewInt(0), nil, nil)
	assert.ErrorIs(t, err, ownable.ErrNotOwner)
	err = h.farm().ConfigPoolBasic(owner, staked, big.NewInt(1), big.NewInt(10), big.NewInt(0), nil, nil)
	assert.ErrorIs(t, err, pool.ErrInvalidConfiguration)
}

func TestReconfigureKeepsStakes(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	h.stake(alice, thor.Address{}, 1_000)

	cfg := defaultConfig()
	cfg.RewardRates = []*big.Int{big.NewInt(3e18), big.NewInt(0)}
	h.configure(cfg)

	p, err := h.farm().Pool(staked)
	require.NoError(t, err)
	assert.Equal(t, "1000", p.TotalStaked.String())

	h.advance(1_000)
	rewards, err := h.farm().GetStakeRewards(alice, 0, false)
	require.NoError(t, err)
	assert.Equal(t, "6000", rewards[0].String())
	assert.Zero(t, rewards[1].Sign())

	// a rate change applies from the reconfiguration on
	h.configure(defaultConfig())
	h.advance(1_000)
	rewards, err = h.farm().GetStakeRewards(alice, 0, false)
	require.NoError(t, err)
	assert.Equal(t, "8000", rewards[0].String())
	assert.Equal(t, "4000", rewards[1].String())
}

func TestFailedTransitionIsRolledBack(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())

	// alice cannot pay
	f := h.farm()
	_, err := f.Stake(alice, bob, staked, big.NewInt(1_000))
	assert.ErrorIs(t, err, token.ErrInsufficientBalance)
	assert.True(t, reverts.IsRevertErr(err))
	assert.Empty(t, f.Events())

	count, err := h.farm().StakesCount(alice)
	require.NoError(t, err)
	assert.Zero(t, count)
	u, err := h.farm().Users(alice)
	require.NoError(t, err)
	assert.False(t, u.HasReferrer())
	p, err := h.farm().Pool(staked)
	require.NoError(t, err)
	assert.Zero(t, p.TotalStaked.Sign())

	// the farm cannot pay the rewards
	h.stake(alice, thor.Address{}, 1_000)
	h.advance(1_000)
	require.NoError(t, h.farm().RetrieveTokens(owner, rew2, farmFunds))
	assert.ErrorIs(t, h.farm().ClaimReward(alice, 0), token.ErrInsufficientBalance)

	assert.Equal(t, "0", h.balance(rew1, alice))
	st, err := h.farm().GetStake(alice, 0)
	require.NoError(t, err)
	assert.Equal(t, deploy, st.ClaimedUpTo)
}

func TestEvents(t *testing.T) {
	h := newHarness(t)
	cfg := defaultConfig()
	cfg.MaxPenaltyPercent = 10
	cfg.PenaltyDuration = 10 * day
	h.configure(cfg)
	h.stake(carol, thor.Address{}, 1_000)

	h.fund(alice, 1_000)
	f := h.farm()
	_, err := f.Stake(alice, carol, staked, big.NewInt(1_000))
	require.NoError(t, err)
	require.Len(t, f.Events(), 1)
	assert.Equal(t, EventStaked, f.Events()[0].Name)
	assert.Equal(t, carol, f.Events()[0].Account)

	h.advance(1_000)
	f = h.farm()
	require.NoError(t, f.Unstake(alice, 0))

	var names []string
	for _, ev := range f.Events() {
		names = append(names, ev.Name)
	}
	assert.Equal(t, []string{
		EventRewardPaid, EventPenaltyPaid,
		EventRewardPaid, EventPenaltyPaid,
		EventReferralPaid, EventReferralPaid,
		EventUnstaked,
	}, names, spew.Sdump(f.Events()))
}

func TestViewStakingDetails(t *testing.T) {
	h := newHarness(t)
	h.configure(defaultConfig())
	h.stake(alice, thor.Address{}, 100)
	h.advance(10)
	h.stake(alice, thor.Address{}, 200)
	h.advance(10)
	h.stake(alice, thor.Address{}, 300)
	require.NoError(t, h.farm().Unstake(alice, 1))

	d, err := h.farm().ViewStakingDetails(alice, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{0, 1, 2}, d.IDs)
	assert.Equal(t, []bool{true, false, true}, d.Active)
	assert.Equal(t, []uint64{deploy, deploy + 10, deploy + 20}, d.StartTimes)
	assert.Equal(t, "400", d.TotalStaked.String())

	d, err = h.farm().ViewStakingDetails(alice, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1}, d.IDs)
	assert.Equal(t, "200", d.Amounts[0].String())
}
