// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"

	"github.com/vechain/yieldfarm/builtin/farming/fixedpoint"
	"github.com/vechain/yieldfarm/builtin/farming/globals"
	"github.com/vechain/yieldfarm/builtin/farming/pool"
	"github.com/vechain/yieldfarm/builtin/farming/referral"
	"github.com/vechain/yieldfarm/builtin/farming/reward"
	"github.com/vechain/yieldfarm/builtin/farming/stake"
	"github.com/vechain/yieldfarm/thor"
)

//
// Getters - no state change
//

// PenaltyInfo is the current penalty state of a pool.
type PenaltyInfo struct {
	PenaltyPercent    *big.Int // now, scaled by 1e12
	MaxPenaltyPercent *big.Int // scaled by 1e12
	PenaltyDuration   uint64
	PenaltyReceiver   thor.Address
}

// StakingDetails is a page of the stakes of a user.
type StakingDetails struct {
	IDs         []uint64
	Active      []bool
	Amounts     []*big.Int
	StartTimes  []uint64
	TotalStaked *big.Int // principal currently locked by the user across all stakes
}

// Pool returns the pool of stakedToken, empty when never configured.
func (f *Farming) Pool(stakedToken thor.Address) (*pool.Pool, error) {
	return f.pools.Get(stakedToken)
}

// PoolTokens lists the staked tokens of all configured pools.
func (f *Farming) PoolTokens() ([]thor.Address, error) {
	return f.pools.Tokens()
}

func (f *Farming) GetPoolPenaltyInfo(stakedToken thor.Address) (*PenaltyInfo, error) {
	p, err := f.pools.Get(stakedToken)
	if err != nil {
		return nil, err
	}
	deployment, err := f.globals.DeploymentTime()
	if err != nil {
		return nil, err
	}
	maxPenalty := new(big.Int).SetUint64(p.MaxPenaltyPercent)
	return &PenaltyInfo{
		PenaltyPercent:    reward.PenaltyPercent(p, deployment, f.env.Time),
		MaxPenaltyPercent: maxPenalty.Mul(maxPenalty, new(big.Int).SetUint64(fixedpoint.Scale)),
		PenaltyDuration:   p.PenaltyDuration,
		PenaltyReceiver:   p.PenaltyReceiver,
	}, nil
}

// GetStake returns a stake of owner.
func (f *Farming) GetStake(owner thor.Address, id uint64) (*stake.Stake, error) {
	return f.stakes.Get(owner, id)
}

// GetStakeRewards returns the rewards accrued by a stake since its last claim,
// before the retention fee, one per reward token. With applyPenalty the current
// penalty is deducted.
func (f *Farming) GetStakeRewards(owner thor.Address, id uint64, applyPenalty bool) ([]*big.Int, error) {
	params, err := f.globals.Params()
	if err != nil {
		return nil, err
	}
	st, err := f.stakes.GetActive(owner, id)
	if err != nil {
		return nil, err
	}
	p, err := f.pools.Get(st.Pool)
	if err != nil {
		return nil, err
	}
	if err := p.Distribute(params.RewardUntil(f.env.Time)); err != nil {
		return nil, err
	}
	accrued, err := reward.Accrue(p, st)
	if err != nil {
		return nil, err
	}
	if !applyPenalty {
		return accrued, nil
	}
	penalty := reward.PenaltyPercent(p, params.DeploymentTime, f.env.Time)
	for i, a := range accrued {
		if accrued[i], _, err = reward.ApplyPenalty(a, penalty); err != nil {
			return nil, err
		}
	}
	return accrued, nil
}

// ViewStakingDetails returns up to limit stakes of owner from offset. A zero limit returns all.
func (f *Farming) ViewStakingDetails(owner thor.Address, offset, limit uint64) (*StakingDetails, error) {
	list, err := f.stakes.List(owner, offset, limit)
	if err != nil {
		return nil, err
	}
	total, err := f.stakes.TotalStaked(owner)
	if err != nil {
		return nil, err
	}
	d := &StakingDetails{
		IDs:         make([]uint64, 0, len(list)),
		Active:      make([]bool, 0, len(list)),
		Amounts:     make([]*big.Int, 0, len(list)),
		StartTimes:  make([]uint64, 0, len(list)),
		TotalStaked: total,
	}
	for _, st := range list {
		d.IDs = append(d.IDs, st.ID)
		d.Active = append(d.Active, st.IsActive())
		d.Amounts = append(d.Amounts, st.Amount)
		d.StartTimes = append(d.StartTimes, st.StartTime)
	}
	return d, nil
}

// StakesCount returns how many stakes owner ever made.
func (f *Farming) StakesCount(owner thor.Address) (uint64, error) {
	return f.stakes.Count(owner)
}

func (f *Farming) Users(addr thor.Address) (*referral.User, error) {
	return f.referrals.Get(addr)
}

func (f *Farming) IsActiveUser(addr thor.Address) (bool, error) {
	u, err := f.referrals.Get(addr)
	if err != nil {
		return false, err
	}
	return u.IsActive, nil
}

func (f *Farming) GetReferrals(addr thor.Address) ([]thor.Address, error) {
	return f.referrals.Referrals(addr)
}

func (f *Farming) GetReferralsNumber(addr thor.Address) (uint64, error) {
	u, err := f.referrals.Get(addr)
	if err != nil {
		return 0, err
	}
	return u.ReferralsCount, nil
}

// Params returns the farm wide settings.
func (f *Farming) Params() (*globals.Params, error) {
	return f.globals.Params()
}

func (f *Farming) ReferralPercents() ([]uint64, error) {
	return f.globals.ReferralPercents()
}

// StakingDuration returns the campaign length in seconds.
func (f *Farming) StakingDuration() (uint64, error) {
	return f.globals.StakingDuration()
}

func (f *Farming) StakeMultiplier() (uint64, error) {
	return f.globals.StakeMultiplier()
}

func (f *Farming) ContractDeploymentTime() (uint64, error) {
	return f.globals.DeploymentTime()
}

func (f *Farming) PoolEndTime() (uint64, error) {
	params, err := f.globals.Params()
	if err != nil {
		return 0, err
	}
	return params.PoolEndTime(), nil
}

func (f *Farming) Owner() (thor.Address, error) {
	return f.ownable.Owner()
}

func (f *Farming) Paused() (bool, error) {
	return f.ownable.IsPaused()
}

// BalanceOf returns the token balance of holder.
func (f *Farming) BalanceOf(tokenAddr, holder thor.Address) (*big.Int, error) {
	return f.tokens.Token(tokenAddr).BalanceOf(holder)
}
