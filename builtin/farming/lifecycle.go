// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"

	"github.com/vechain/yieldfarm/builtin/farming/globals"
	"github.com/vechain/yieldfarm/builtin/farming/pool"
	"github.com/vechain/yieldfarm/builtin/farming/referral"
	"github.com/vechain/yieldfarm/builtin/farming/reward"
	"github.com/vechain/yieldfarm/builtin/farming/stake"
	"github.com/vechain/yieldfarm/thor"
)

// settlement is what a claim pays out.
type settlement struct {
	rewards   []reward.Breakdown
	referrals []referral.Payout
}

// Stake locks amount of stakedToken for caller. A non zero referrer is recorded
// on the first stake of caller only.
func (f *Farming) Stake(caller, referrer, stakedToken thor.Address, amount *big.Int) (uint64, error) {
	logger.Debug("staking", "caller", caller, "token", stakedToken, "amount", amount)

	var id uint64
	err := f.atomic("stake", func() error {
		if err := f.ownable.WhenNotPaused(); err != nil {
			return err
		}
		params, err := f.globals.Params()
		if err != nil {
			return err
		}
		if f.env.Time >= params.PoolEndTime() {
			return ErrStakingFinished
		}
		p, err := f.pools.Get(stakedToken)
		if err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return ErrInvalidStakeAmount
		}
		if !p.HasCapacity(amount) {
			return ErrPoolFulfilled
		}
		if !p.AcceptsAmount(amount) {
			return ErrInvalidStakeAmount
		}

		if err := p.Distribute(params.RewardUntil(f.env.Time)); err != nil {
			return err
		}

		linked, err := f.referrals.SetReferrer(caller, referrer)
		if err != nil {
			return err
		}
		st, err := f.stakes.Add(caller, stakedToken, amount, f.env.Time, reward.Multiplier(params, f.env.Time))
		if err != nil {
			return err
		}
		reward.Checkpoint(p, st)
		if err := f.stakes.Update(st); err != nil {
			return err
		}
		if err := f.pools.AddStaked(stakedToken, p, amount, f.env.Seq); err != nil {
			return err
		}
		id = st.ID

		ev := &Event{Name: EventStaked, Pool: stakedToken, User: caller, StakeID: st.ID, Token: stakedToken, Amount: new(big.Int).Set(amount)}
		if linked {
			ev.Account = referrer
		}
		f.emit(ev)

		return f.tokens.Token(stakedToken).TransferIn(caller, amount)
	})
	if err != nil {
		return 0, err
	}
	logger.Info("staked", "caller", caller, "token", stakedToken, "id", id)
	return id, nil
}

// ClaimReward pays the rewards accrued by a stake of caller so far.
func (f *Farming) ClaimReward(caller thor.Address, id uint64) error {
	logger.Debug("claiming reward", "caller", caller, "id", id)
	return f.atomic("claimReward", func() error {
		if err := f.ownable.WhenNotPaused(); err != nil {
			return err
		}
		params, err := f.globals.Params()
		if err != nil {
			return err
		}
		st, err := f.stakes.GetActive(caller, id)
		if err != nil {
			return err
		}
		p, s, err := f.settle(params, st)
		if err != nil {
			return err
		}
		if err := f.stakes.Update(st); err != nil {
			return err
		}
		if err := f.pools.Touch(st.Pool, p, f.env.Seq); err != nil {
			return err
		}
		return f.pay(st, p, s)
	})
}

// Unstake pays the accrued rewards of a stake of caller and returns its principal.
func (f *Farming) Unstake(caller thor.Address, id uint64) error {
	logger.Debug("unstaking", "caller", caller, "id", id)
	return f.atomic("unstake", func() error {
		if err := f.ownable.WhenNotPaused(); err != nil {
			return err
		}
		params, err := f.globals.Params()
		if err != nil {
			return err
		}
		st, err := f.stakes.GetActive(caller, id)
		if err != nil {
			return err
		}
		p, s, err := f.settle(params, st)
		if err != nil {
			return err
		}
		if err := f.release(st, p); err != nil {
			return err
		}
		if err := f.pay(st, p, s); err != nil {
			return err
		}
		f.emit(&Event{Name: EventUnstaked, Pool: st.Pool, User: st.Owner, StakeID: st.ID, Token: st.Pool, Amount: new(big.Int).Set(st.Amount)})
		if err := f.tokens.Token(st.Pool).TransferOut(st.Owner, st.Amount); err != nil {
			return err
		}
		logger.Info("unstaked", "caller", caller, "id", id, "amount", st.Amount)
		return nil
	})
}

// EmergencyUnstake returns the principal of a stake of user and pays the given
// reward amounts verbatim, one per reward token of the pool. Only the owner can
// call it and it works while paused.
func (f *Farming) EmergencyUnstake(caller, user thor.Address, id uint64, rewardAmounts []*big.Int, payReferralRewards bool) error {
	logger.Debug("emergency unstaking", "caller", caller, "user", user, "id", id)
	return f.atomic("emergencyUnstake", func() error {
		if err := f.ownable.OnlyOwner(caller); err != nil {
			return err
		}
		params, err := f.globals.Params()
		if err != nil {
			return err
		}
		st, err := f.stakes.GetActive(user, id)
		if err != nil {
			return err
		}
		p, err := f.pools.Get(st.Pool)
		if err != nil {
			return err
		}
		if len(rewardAmounts) != len(p.RewardTokens) {
			return ErrIncorrectRewardsLength
		}
		until := params.RewardUntil(f.env.Time)
		if err := p.Distribute(until); err != nil {
			return err
		}

		s := &settlement{rewards: make([]reward.Breakdown, len(rewardAmounts))}
		for i, amount := range rewardAmounts {
			if amount == nil || amount.Sign() < 0 {
				return ErrInvalidAmount
			}
			s.rewards[i] = reward.Breakdown{
				Token:   p.RewardTokens[i],
				Accrued: amount,
				Fee:     new(big.Int),
				Penalty: new(big.Int),
				Payout:  amount,
			}
		}
		if payReferralRewards {
			if s.referrals, err = f.cascade(params, p, st.Owner, rewardAmounts); err != nil {
				return err
			}
		}

		advance(st, until, s.rewards)
		if err := f.release(st, p); err != nil {
			return err
		}
		if err := f.pay(st, p, s); err != nil {
			return err
		}
		f.emit(&Event{Name: EventEmergencyUnstaked, Pool: st.Pool, User: st.Owner, StakeID: st.ID, Token: st.Pool, Amount: new(big.Int).Set(st.Amount), Account: caller})
		if err := f.tokens.Token(st.Pool).TransferOut(st.Owner, st.Amount); err != nil {
			return err
		}
		logger.Info("emergency unstaked", "user", user, "id", id, "amount", st.Amount)
		return nil
	})
}

// settle distributes the pool rewards up to now, computes what st is owed and
// checkpoints it. Nothing is persisted.
func (f *Farming) settle(params *globals.Params, st *stake.Stake) (*pool.Pool, *settlement, error) {
	p, err := f.pools.Get(st.Pool)
	if err != nil {
		return nil, nil, err
	}
	until := params.RewardUntil(f.env.Time)
	if err := p.Distribute(until); err != nil {
		return nil, nil, err
	}
	accrued, err := reward.Accrue(p, st)
	if err != nil {
		return nil, nil, err
	}
	user, err := f.referrals.Get(st.Owner)
	if err != nil {
		return nil, nil, err
	}
	penalty := reward.PenaltyPercent(p, params.DeploymentTime, f.env.Time)
	rewards, err := reward.Settle(p.RewardTokens, accrued, params.RetentionFee(user.HasReferrer()), penalty)
	if err != nil {
		return nil, nil, err
	}

	s := &settlement{rewards: rewards}
	if user.HasReferrer() {
		if s.referrals, err = f.cascade(params, p, st.Owner, accrued); err != nil {
			return nil, nil, err
		}
	}
	advance(st, until, rewards)
	reward.Checkpoint(p, st)
	return p, s, nil
}

func advance(st *stake.Stake, until uint64, rewards []reward.Breakdown) {
	if until > st.ClaimedUpTo {
		st.ClaimedUpTo = until
	}
	for _, r := range rewards {
		if r.Payout.Sign() > 0 {
			st.AddClaimed(r.Token, r.Payout)
		}
	}
}

func (f *Farming) cascade(params *globals.Params, p *pool.Pool, owner thor.Address, base []*big.Int) ([]referral.Payout, error) {
	upline, err := f.referrals.Upline(owner, len(params.ReferralPercents))
	if err != nil {
		return nil, err
	}
	plan := &referral.Plan{
		Percents: params.ReferralPercents,
		Tokens:   p.RewardTokens,
		Base:     base,
	}
	if p.HasReferralToken() {
		plan.ReferralToken = p.ReferralToken
		plan.Multiplier = p.ReferralMultiplier
	}
	return referral.Cascade(upline, plan)
}

// release marks st unstaked and takes its principal out of the pool.
func (f *Farming) release(st *stake.Stake, p *pool.Pool) error {
	if err := f.stakes.MarkUnstaked(st, f.env.Time); err != nil {
		return err
	}
	if err := f.pools.SubStaked(st.Pool, p, st.Amount, f.env.Seq); err != nil {
		return err
	}
	return f.referrals.Activate(st.Owner)
}

// pay performs the transfers of s. All bookkeeping must be persisted before.
func (f *Farming) pay(st *stake.Stake, p *pool.Pool, s *settlement) error {
	for _, r := range s.rewards {
		tok := f.tokens.Token(r.Token)
		if r.Payout.Sign() > 0 {
			f.emit(&Event{Name: EventRewardPaid, Pool: st.Pool, User: st.Owner, StakeID: st.ID, Token: r.Token, Amount: r.Payout})
			if err := tok.TransferOut(st.Owner, r.Payout); err != nil {
				return err
			}
			metricRewardsPaid().AddWithLabel(1, map[string]string{"kind": "reward"})
		}
		if r.Penalty.Sign() > 0 {
			f.emit(&Event{Name: EventPenaltyPaid, Pool: st.Pool, User: st.Owner, StakeID: st.ID, Token: r.Token, Amount: r.Penalty, Account: p.PenaltyReceiver})
			if err := tok.TransferOut(p.PenaltyReceiver, r.Penalty); err != nil {
				return err
			}
			metricRewardsPaid().AddWithLabel(1, map[string]string{"kind": "penalty"})
		}
	}
	for _, r := range s.referrals {
		f.emit(&Event{Name: EventReferralPaid, Pool: st.Pool, User: st.Owner, StakeID: st.ID, Token: r.Token, Amount: r.Amount, Account: r.Referrer, Level: uint8(r.Level)})
		if err := f.tokens.Token(r.Token).TransferOut(r.Referrer, r.Amount); err != nil {
			return err
		}
		metricRewardsPaid().AddWithLabel(1, map[string]string{"kind": "referral"})
	}
	return nil
}
