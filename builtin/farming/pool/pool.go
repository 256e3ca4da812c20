// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"

	"github.com/vechain/yieldfarm/builtin/farming/fixedpoint"
	"github.com/vechain/yieldfarm/builtin/farming/reverts"
	"github.com/vechain/yieldfarm/thor"
)

var (
	ErrInvalidToken           = reverts.New("Invalid token contract address")
	ErrInvalidStakeAmounts    = reverts.New("Invalid min or max stake amounts values")
	ErrInvalidConfiguration   = reverts.New("Invalid configuration data")
	ErrInvalidMaxPenalty      = reverts.New("Invalid max penalty percent")
	ErrInvalidPenaltyDuration = reverts.New("Invalid penalty duration")
	ErrInvalidPenaltyReceiver = reverts.New("Invalid penalty receiver address")
)

// Config is the owner supplied part of a pool.
type Config struct {
	MinStakeAmount     *big.Int
	MaxStakeAmount     *big.Int
	TotalStakeLimit    *big.Int // zero means unlimited
	RewardTokens       []thor.Address
	RewardRates        []*big.Int // reward per second for the whole pool, scaled by 1e18
	MaxPenaltyPercent  uint64     // whole percent
	PenaltyDuration    uint64     // seconds after deployment during which exits are penalized
	PenaltyReceiver    thor.Address
	ReferralToken      thor.Address // zero disables the side channel referral payout
	ReferralMultiplier *big.Int     // scaled by 1e10
}

// Validate checks the configuration for stakedToken, in the order the farm reports failures.
func (c *Config) Validate(stakedToken thor.Address, stakingDuration uint64) error {
	if stakedToken.IsZero() {
		return ErrInvalidToken
	}
	if sign(c.MinStakeAmount) <= 0 || c.MinStakeAmount.Cmp(orZero(c.MaxStakeAmount)) > 0 {
		return ErrInvalidStakeAmounts
	}
	if sign(c.TotalStakeLimit) > 0 && c.MaxStakeAmount.Cmp(c.TotalStakeLimit) > 0 {
		return ErrInvalidStakeAmounts
	}
	if len(c.RewardTokens) == 0 || len(c.RewardTokens) != len(c.RewardRates) {
		return ErrInvalidConfiguration
	}
	for i, rate := range c.RewardRates {
		if c.RewardTokens[i].IsZero() || rate == nil || rate.Sign() < 0 {
			return ErrInvalidConfiguration
		}
	}
	if sign(c.ReferralMultiplier) < 0 {
		return ErrInvalidConfiguration
	}
	if c.MaxPenaltyPercent > 100 {
		return ErrInvalidMaxPenalty
	}
	if c.PenaltyDuration > stakingDuration {
		return ErrInvalidPenaltyDuration
	}
	if c.PenaltyReceiver.IsZero() {
		return ErrInvalidPenaltyReceiver
	}
	return nil
}

// Share is the reward one staked unit earned in a token since the pool was
// created, scaled by 1e18 * 1e18. It never decreases.
type Share struct {
	Token    thor.Address
	PerShare *big.Int
}

// Pool is the stored state of a pool, keyed by its staked token.
type Pool struct {
	MinStakeAmount     *big.Int
	MaxStakeAmount     *big.Int
	TotalStakeLimit    *big.Int
	TotalStaked        *big.Int
	RewardTokens       []thor.Address
	RewardRates        []*big.Int
	MaxPenaltyPercent  uint64
	PenaltyDuration    uint64
	PenaltyReceiver    thor.Address
	ReferralToken      thor.Address
	ReferralMultiplier *big.Int
	LastOperationBlock uint64
	LastRewardTime     uint64  // rewards are distributed up to this instant
	Shares             []Share // every token ever listed keeps its entry
}

// IsConfigured returns whether the owner ever configured the pool.
func (p *Pool) IsConfigured() bool {
	return p != nil && len(p.RewardTokens) > 0
}

// HasReferralToken returns whether referral rewards are paid in a dedicated token.
func (p *Pool) HasReferralToken() bool {
	return !p.ReferralToken.IsZero() && sign(p.ReferralMultiplier) > 0
}

// HasCapacity returns whether amount more can be staked without crossing the limit.
func (p *Pool) HasCapacity(amount *big.Int) bool {
	if sign(p.TotalStakeLimit) == 0 {
		return true
	}
	total := new(big.Int).Add(orZero(p.TotalStaked), amount)
	return total.Cmp(p.TotalStakeLimit) <= 0
}

// AcceptsAmount returns whether amount is within the per stake bounds.
func (p *Pool) AcceptsAmount(amount *big.Int) bool {
	if !p.IsConfigured() || amount == nil {
		return false
	}
	return amount.Cmp(p.MinStakeAmount) >= 0 && amount.Cmp(p.MaxStakeAmount) <= 0
}

// PerShare returns the reward per staked unit distributed so far in token.
func (p *Pool) PerShare(token thor.Address) *big.Int {
	for _, sh := range p.Shares {
		if sh.Token == token {
			return new(big.Int).Set(sh.PerShare)
		}
	}
	return new(big.Int)
}

// Distribute shares the rewards of every listed token between LastRewardTime
// and until among the current total. Time with nothing staked is not paid to anyone.
func (p *Pool) Distribute(until uint64) error {
	if until <= p.LastRewardTime {
		return nil
	}
	elapsed := fixedpoint.U64(until - p.LastRewardTime)
	if sign(p.TotalStaked) > 0 {
		total, err := fixedpoint.FromBig(p.TotalStaked)
		if err != nil {
			return err
		}
		for i, token := range p.RewardTokens {
			rate, err := fixedpoint.FromBig(p.RewardRates[i])
			if err != nil {
				return err
			}
			paid, err := fixedpoint.Mul(rate, elapsed)
			if err != nil {
				return err
			}
			delta, err := fixedpoint.MulDiv(paid, fixedpoint.U64(fixedpoint.ShareScale), total)
			if err != nil {
				return err
			}
			acc, err := fixedpoint.FromBig(p.PerShare(token))
			if err != nil {
				return err
			}
			if acc, err = fixedpoint.Add(acc, delta); err != nil {
				return err
			}
			p.setPerShare(token, acc.ToBig())
		}
	}
	p.LastRewardTime = until
	return nil
}

func (p *Pool) setPerShare(token thor.Address, v *big.Int) {
	for i := range p.Shares {
		if p.Shares[i].Token == token {
			p.Shares[i].PerShare = v
			return
		}
	}
	p.Shares = append(p.Shares, Share{Token: token, PerShare: v})
}

func sign(b *big.Int) int {
	if b == nil {
		return 0
	}
	return b.Sign()
}

func orZero(b *big.Int) *big.Int {
	if b == nil {
		return new(big.Int)
	}
	return b
}
