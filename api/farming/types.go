// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/builtin/farming/globals"
	"github.com/vechain/yieldfarm/builtin/farming/pool"
	"github.com/vechain/yieldfarm/builtin/farming/referral"
	"github.com/vechain/yieldfarm/builtin/farming/stake"
	"github.com/vechain/yieldfarm/thor"
)

func hex(v *big.Int) *math.HexOrDecimal256 {
	if v == nil {
		v = new(big.Int)
	}
	return (*math.HexOrDecimal256)(v)
}

type Reward struct {
	Token thor.Address          `json:"token"`
	Rate  *math.HexOrDecimal256 `json:"rate"`
}

type Pool struct {
	StakedToken        thor.Address          `json:"stakedToken"`
	MinStakeAmount     *math.HexOrDecimal256 `json:"minStakeAmount"`
	MaxStakeAmount     *math.HexOrDecimal256 `json:"maxStakeAmount"`
	TotalStakeLimit    *math.HexOrDecimal256 `json:"totalStakeLimit"`
	TotalStaked        *math.HexOrDecimal256 `json:"totalStaked"`
	Rewards            []Reward              `json:"rewards"`
	MaxPenaltyPercent  uint64                `json:"maxPenaltyPercent"`
	PenaltyDuration    uint64                `json:"penaltyDuration"`
	PenaltyReceiver    thor.Address          `json:"penaltyReceiver"`
	ReferralToken      *thor.Address         `json:"referralToken"`
	ReferralMultiplier *math.HexOrDecimal256 `json:"referralMultiplier"`
	LastOperationSeq   uint64                `json:"lastOperationSeq"`
}

func convertPool(stakedToken thor.Address, p *pool.Pool) *Pool {
	rewards := make([]Reward, 0, len(p.RewardTokens))
	for i, token := range p.RewardTokens {
		rewards = append(rewards, Reward{token, hex(p.RewardRates[i])})
	}
	var referralToken *thor.Address
	if p.HasReferralToken() {
		referralToken = &p.ReferralToken
	}
	return &Pool{
		StakedToken:        stakedToken,
		MinStakeAmount:     hex(p.MinStakeAmount),
		MaxStakeAmount:     hex(p.MaxStakeAmount),
		TotalStakeLimit:    hex(p.TotalStakeLimit),
		TotalStaked:        hex(p.TotalStaked),
		Rewards:            rewards,
		MaxPenaltyPercent:  p.MaxPenaltyPercent,
		PenaltyDuration:    p.PenaltyDuration,
		PenaltyReceiver:    p.PenaltyReceiver,
		ReferralToken:      referralToken,
		ReferralMultiplier: hex(p.ReferralMultiplier),
		LastOperationSeq:   p.LastOperationBlock,
	}
}

// Penalty percents are scaled by 1e12.
type Penalty struct {
	PenaltyPercent    *math.HexOrDecimal256 `json:"penaltyPercent"`
	MaxPenaltyPercent *math.HexOrDecimal256 `json:"maxPenaltyPercent"`
	PenaltyDuration   uint64                `json:"penaltyDuration"`
	PenaltyReceiver   thor.Address          `json:"penaltyReceiver"`
}

func convertPenalty(info *farming.PenaltyInfo) *Penalty {
	return &Penalty{
		PenaltyPercent:    hex(info.PenaltyPercent),
		MaxPenaltyPercent: hex(info.MaxPenaltyPercent),
		PenaltyDuration:   info.PenaltyDuration,
		PenaltyReceiver:   info.PenaltyReceiver,
	}
}

type User struct {
	Address        thor.Address  `json:"address"`
	Referrer       *thor.Address `json:"referrer"`
	IsActive       bool          `json:"isActive"`
	ReferralsCount uint64        `json:"referralsCount"`
	StakesCount    uint64        `json:"stakesCount"`
	Nonce          uint64        `json:"nonce"`
}

func convertUser(addr thor.Address, u *referral.User, stakes, nonce uint64) *User {
	var referrer *thor.Address
	if u.HasReferrer() {
		referrer = &u.Referrer
	}
	return &User{
		Address:        addr,
		Referrer:       referrer,
		IsActive:       u.IsActive,
		ReferralsCount: u.ReferralsCount,
		StakesCount:    stakes,
		Nonce:          nonce,
	}
}

type StakeSummary struct {
	ID        uint64                `json:"id"`
	Active    bool                  `json:"active"`
	Amount    *math.HexOrDecimal256 `json:"amount"`
	StartTime uint64                `json:"startTime"`
}

type StakingDetails struct {
	Stakes      []StakeSummary        `json:"stakes"`
	TotalStaked *math.HexOrDecimal256 `json:"totalStaked"`
}

func convertStakingDetails(d *farming.StakingDetails) *StakingDetails {
	stakes := make([]StakeSummary, 0, len(d.IDs))
	for i, id := range d.IDs {
		stakes = append(stakes, StakeSummary{
			ID:        id,
			Active:    d.Active[i],
			Amount:    hex(d.Amounts[i]),
			StartTime: d.StartTimes[i],
		})
	}
	return &StakingDetails{stakes, hex(d.TotalStaked)}
}

type Claim struct {
	Token  thor.Address          `json:"token"`
	Amount *math.HexOrDecimal256 `json:"amount"`
}

type Stake struct {
	ID          uint64                `json:"id"`
	Owner       thor.Address          `json:"owner"`
	Pool        thor.Address          `json:"pool"`
	Amount      *math.HexOrDecimal256 `json:"amount"`
	StartTime   uint64                `json:"startTime"`
	Multiplier  *math.HexOrDecimal256 `json:"multiplier"`
	ClaimedUpTo uint64                `json:"claimedUpTo"`
	Claimed     []Claim               `json:"claimed"`
	Unstaked    bool                  `json:"unstaked"`
	UnstakeTime uint64                `json:"unstakeTime"`
}

func convertStake(st *stake.Stake) *Stake {
	claimed := make([]Claim, 0, len(st.Claimed))
	for _, c := range st.Claimed {
		claimed = append(claimed, Claim{c.Token, hex(c.Amount)})
	}
	return &Stake{
		ID:          st.ID,
		Owner:       st.Owner,
		Pool:        st.Pool,
		Amount:      hex(st.Amount),
		StartTime:   st.StartTime,
		Multiplier:  hex(st.Multiplier),
		ClaimedUpTo: st.ClaimedUpTo,
		Claimed:     claimed,
		Unstaked:    st.Unstaked,
		UnstakeTime: st.UnstakeTime,
	}
}

type Referrals struct {
	Count     uint64         `json:"count"`
	Referrals []thor.Address `json:"referrals"`
}

type Params struct {
	Owner            thor.Address   `json:"owner"`
	Paused           bool           `json:"paused"`
	DeploymentTime   uint64         `json:"deploymentTime"`
	StakingDuration  uint64         `json:"stakingDuration"`
	PoolEndTime      uint64         `json:"poolEndTime"`
	StakeMultiplier  uint64         `json:"stakeMultiplier"`
	ReferralPercents []uint64       `json:"referralPercents"`
	NoReferrerFee    uint64         `json:"noReferrerFee"`
	ReferrerFee      uint64         `json:"referrerFee"`
	Pools            []thor.Address `json:"pools"`
}

func convertParams(owner thor.Address, paused bool, p *globals.Params, pools []thor.Address) *Params {
	return &Params{
		Owner:            owner,
		Paused:           paused,
		DeploymentTime:   p.DeploymentTime,
		StakingDuration:  p.StakingDuration,
		PoolEndTime:      p.PoolEndTime(),
		StakeMultiplier:  p.StakeMultiplier,
		ReferralPercents: p.ReferralPercents,
		NoReferrerFee:    p.NoReferrerFee,
		ReferrerFee:      p.ReferrerFee,
		Pools:            pools,
	}
}

type Balance struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
}
