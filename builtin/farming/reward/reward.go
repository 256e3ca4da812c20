// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward computes stake rewards, the early stake multiplier and the
// early exit penalty.
//
// Each pool keeps a per token reward per staked unit, advanced by
// pool.Distribute with the total staked over each elapsed period. For a stake
// S settled at S.Debt in pool P with reward rate R (scaled by 1e18):
//
//	perShare  += R * elapsed * 1e18 / P.TotalStaked
//	accrued    = S.Amount * (perShare - S.Debt) / 1e18 / 1e18 * S.Multiplier / 1e12
//	multiplier = 1e12 + (stakeMultiplier-1) * 1e12 * stakingTime / stakingDuration
//	penalty    = maxPenalty * 1e12 * max(0, penaltyDuration - sinceDeploy) / penaltyDuration
package reward

import (
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/yieldfarm/builtin/farming/fixedpoint"
	"github.com/vechain/yieldfarm/builtin/farming/globals"
	"github.com/vechain/yieldfarm/builtin/farming/pool"
	"github.com/vechain/yieldfarm/builtin/farming/stake"
	"github.com/vechain/yieldfarm/thor"
)

// Multiplier returns the early stake bonus, scaled by 1e12, for a stake started at
// startTime. The start is rounded down to whole days since deployment.
func Multiplier(params *globals.Params, startTime uint64) *big.Int {
	scale := new(big.Int).SetUint64(fixedpoint.Scale)
	if params.StakingDuration == 0 || params.StakeMultiplier <= 1 {
		return scale
	}
	poolEnd := params.PoolEndTime()

	var days uint64
	if startTime > params.DeploymentTime {
		days = (startTime - params.DeploymentTime) / thor.SecondsPerDay
	}
	dayStart := params.DeploymentTime + days*thor.SecondsPerDay
	if dayStart >= poolEnd {
		return scale
	}
	stakingTime := poolEnd - dayStart

	bonus := new(big.Int).SetUint64(params.StakeMultiplier - 1)
	bonus.Mul(bonus, scale)
	bonus.Mul(bonus, new(big.Int).SetUint64(stakingTime))
	bonus.Div(bonus, new(big.Int).SetUint64(params.StakingDuration))
	return bonus.Add(bonus, scale)
}

// Accrue returns the gross reward of st per reward token of p since its last
// settlement, parallel to p.RewardTokens. p must be distributed up to now.
func Accrue(p *pool.Pool, st *stake.Stake) ([]*big.Int, error) {
	out := make([]*big.Int, len(p.RewardTokens))
	amount, err := fixedpoint.FromBig(st.Amount)
	if err != nil {
		return nil, err
	}
	mult, err := fixedpoint.FromBig(st.Multiplier)
	if err != nil {
		return nil, err
	}
	// 1e18 rate scale times 1e12 multiplier scale
	denom, err := fixedpoint.Mul(fixedpoint.U64(fixedpoint.RateScale), fixedpoint.U64(fixedpoint.Scale))
	if err != nil {
		return nil, err
	}

	for i, token := range p.RewardTokens {
		acc, err := fixedpoint.FromBig(p.PerShare(token))
		if err != nil {
			return nil, err
		}
		debt, err := fixedpoint.FromBig(st.DebtOf(token))
		if err != nil {
			return nil, err
		}
		delta, err := fixedpoint.Sub(acc, debt)
		if err != nil {
			return nil, err
		}
		share, err := fixedpoint.MulDiv(amount, delta, fixedpoint.U64(fixedpoint.ShareScale))
		if err != nil {
			return nil, err
		}
		accrued, err := fixedpoint.MulDiv(share, mult, denom)
		if err != nil {
			return nil, err
		}
		out[i] = accrued.ToBig()
	}
	return out, nil
}

// Checkpoint settles st at everything distributed by p so far, including
// tokens no longer listed.
func Checkpoint(p *pool.Pool, st *stake.Stake) {
	for _, sh := range p.Shares {
		st.SetDebt(sh.Token, sh.PerShare)
	}
}

// PenaltyPercent returns the exit penalty at now, scaled by 1e12.
func PenaltyPercent(p *pool.Pool, deploymentTime, now uint64) *big.Int {
	if p.PenaltyDuration == 0 || p.MaxPenaltyPercent == 0 {
		return new(big.Int)
	}
	var sinceDeploy uint64
	if now > deploymentTime {
		sinceDeploy = now - deploymentTime
	}
	if sinceDeploy >= p.PenaltyDuration {
		return new(big.Int)
	}
	pct := new(big.Int).SetUint64(p.MaxPenaltyPercent)
	pct.Mul(pct, new(big.Int).SetUint64(fixedpoint.Scale))
	pct.Mul(pct, new(big.Int).SetUint64(p.PenaltyDuration-sinceDeploy))
	return pct.Div(pct, new(big.Int).SetUint64(p.PenaltyDuration))
}

// ApplyPenalty splits amount into what the staker keeps and the penalty.
func ApplyPenalty(amount, penaltyPercent *big.Int) (payout, penalty *big.Int, err error) {
	full := fixedpoint.U64(fixedpoint.Hundred * fixedpoint.Scale)
	pct, err := fixedpoint.FromBig(penaltyPercent)
	if err != nil {
		return nil, nil, err
	}
	keep, err := fixedpoint.Sub(full, pct)
	if err != nil {
		return nil, nil, err
	}
	a, err := fixedpoint.FromBig(amount)
	if err != nil {
		return nil, nil, err
	}
	out, err := fixedpoint.MulDiv(a, keep, full)
	if err != nil {
		return nil, nil, err
	}
	return out.ToBig(), new(uint256.Int).Sub(a, out).ToBig(), nil
}

// Retain splits accrued into the staker share and the retention fee.
func Retain(accrued *big.Int, feePercent uint64) (retained, fee *big.Int, err error) {
	a, err := fixedpoint.FromBig(accrued)
	if err != nil {
		return nil, nil, err
	}
	keep, err := fixedpoint.Sub(fixedpoint.U64(fixedpoint.Hundred), fixedpoint.U64(feePercent))
	if err != nil {
		return nil, nil, err
	}
	r, err := fixedpoint.Percent(a, keep.Uint64())
	if err != nil {
		return nil, nil, err
	}
	return r.ToBig(), new(uint256.Int).Sub(a, r).ToBig(), nil
}

// Breakdown is how the accrual in one reward token is distributed.
type Breakdown struct {
	Token   thor.Address
	Accrued *big.Int // gross, the referral base
	Fee     *big.Int // retention fee, kept by the farm
	Penalty *big.Int // sent to the pool penalty receiver
	Payout  *big.Int // sent to the staker
}

// Settle applies the retention fee and then the penalty to every accrued amount.
func Settle(tokens []thor.Address, accrued []*big.Int, feePercent uint64, penaltyPercent *big.Int) ([]Breakdown, error) {
	out := make([]Breakdown, 0, len(accrued))
	for i, a := range accrued {
		retained, fee, err := Retain(a, feePercent)
		if err != nil {
			return nil, err
		}
		payout, penalty, err := ApplyPenalty(retained, penaltyPercent)
		if err != nil {
			return nil, err
		}
		out = append(out, Breakdown{
			Token:   tokens[i],
			Accrued: a,
			Fee:     fee,
			Penalty: penalty,
			Payout:  payout,
		})
	}
	return out, nil
}
