// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farming implements the staking farm: pools of a staked token paying
// several reward tokens over a fixed campaign, with an early stake bonus, an early
// exit penalty and a referral cascade.
package farming

import (
	"math"
	"math/big"
	"strconv"

	"github.com/vechain/yieldfarm/builtin/farming/globals"
	"github.com/vechain/yieldfarm/builtin/farming/ownable"
	"github.com/vechain/yieldfarm/builtin/farming/pool"
	"github.com/vechain/yieldfarm/builtin/farming/referral"
	"github.com/vechain/yieldfarm/builtin/farming/reverts"
	"github.com/vechain/yieldfarm/builtin/farming/stake"
	"github.com/vechain/yieldfarm/builtin/farming/token"
	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/log"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

var (
	logger = log.WithContext("pkg", "farming")

	ErrStakingFinished         = reverts.New("Staking is finished")
	ErrPoolFulfilled           = reverts.New("This pool is fulfilled")
	ErrInvalidStakeAmount      = reverts.New("Invalid stake amount value")
	ErrIncorrectRewardsLength  = reverts.New("Incorrect rewards array length")
	ErrInvalidAmount           = reverts.New("Invalid amount")
	ErrInsufficientBalance     = reverts.New("Insufficient Balance")
	ErrInvalidDays             = reverts.New("Invalid number of days")
	ErrInvalidMultiplier       = reverts.New("Invalid multiplier value")
	ErrInvalidReferralPercents = reverts.New("Invalid referral percents array data")
	ErrInvalidRetentionFee     = reverts.New("Invalid retention fee")
)

func SetLogger(l log.Logger) {
	logger = l
}

// Env is the context of the transition being executed.
type Env struct {
	Time uint64 // unix seconds
	Seq  uint64 // sequence number of the transition
}

// Farming implements the farm operations over one state.
type Farming struct {
	addr  thor.Address
	state *state.State
	env   Env

	tokens token.Registry

	ownable   *ownable.Service
	globals   *globals.Service
	pools     *pool.Service
	stakes    *stake.Service
	referrals *referral.Service

	events []*Event
}

// New create a new instance. Tokens must hold balances on behalf of addr.
func New(addr thor.Address, st *state.State, tokens token.Registry, env Env, meter solidity.MeterFunc) *Farming {
	sctx := solidity.NewContext(addr, st, meter)
	return &Farming{
		addr:   addr,
		state:  st,
		env:    env,
		tokens: tokens,

		ownable:   ownable.New(sctx),
		globals:   globals.New(sctx),
		pools:     pool.New(sctx),
		stakes:    stake.New(sctx),
		referrals: referral.New(sctx),
	}
}

// Address returns the account holding the farm funds.
func (f *Farming) Address() thor.Address {
	return f.addr
}

// atomic runs fn as one transition, discarding every change and event when it fails.
func (f *Farming) atomic(op string, fn func() error) error {
	checkpoint := f.state.NewCheckpoint()
	emitted := len(f.events)
	if err := fn(); err != nil {
		f.state.RevertTo(checkpoint)
		f.events = f.events[:emitted]
		metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": result(err)})
		logger.Debug("operation reverted", "op", op, "error", err)
		return err
	}
	metricOperations().AddWithLabel(1, map[string]string{"op": op, "result": "ok"})
	return nil
}

func result(err error) string {
	if reverts.IsRevertErr(err) {
		return "reverted"
	}
	return "failed"
}

// Initialize sets the owner and the deployment time of a fresh farm.
func (f *Farming) Initialize(owner thor.Address, deploymentTime uint64) error {
	return f.atomic("initialize", func() error {
		if err := f.ownable.Initialize(owner); err != nil {
			return err
		}
		return f.globals.Initialize(deploymentTime)
	})
}

//
// Owner operations
//

// ConfigPool creates or replaces the pool of stakedToken.
func (f *Farming) ConfigPool(caller, stakedToken thor.Address, cfg *pool.Config) error {
	logger.Debug("configuring pool", "caller", caller, "token", stakedToken)
	return f.atomic("configPool", func() error {
		if err := f.ownable.OnlyOwner(caller); err != nil {
			return err
		}
		params, err := f.globals.Params()
		if err != nil {
			return err
		}
		if _, err := f.pools.Configure(stakedToken, cfg, params.StakingDuration, params.RewardUntil(f.env.Time), f.env.Seq); err != nil {
			return err
		}
		f.emit(&Event{Name: EventPoolConfigured, Pool: stakedToken, Account: caller})
		logger.Info("configured pool", "token", stakedToken, "rewards", len(cfg.RewardTokens))
		return nil
	})
}

// ConfigPoolBasic configures a pool without penalty and referral token. Penalties,
// should they ever be configured later, go to the owner.
func (f *Farming) ConfigPoolBasic(
	caller thor.Address,
	stakedToken thor.Address,
	minStakeAmount *big.Int,
	maxStakeAmount *big.Int,
	totalStakeLimit *big.Int,
	rewardTokens []thor.Address,
	rewardRates []*big.Int,
) error {
	return f.ConfigPool(caller, stakedToken, &pool.Config{
		MinStakeAmount:  minStakeAmount,
		MaxStakeAmount:  maxStakeAmount,
		TotalStakeLimit: totalStakeLimit,
		RewardTokens:    rewardTokens,
		RewardRates:     rewardRates,
		PenaltyReceiver: caller,
	})
}

// ChangeStakingDuration sets the campaign length in days. It cannot end before
// the penalty period of any configured pool.
func (f *Farming) ChangeStakingDuration(caller thor.Address, days uint64) error {
	return f.atomic("changeStakingDuration", func() error {
		if err := f.ownable.OnlyOwner(caller); err != nil {
			return err
		}
		if days == 0 || days > math.MaxUint64/thor.SecondsPerDay {
			return ErrInvalidDays
		}
		tokens, err := f.pools.Tokens()
		if err != nil {
			return err
		}
		for _, token := range tokens {
			p, err := f.pools.Get(token)
			if err != nil {
				return err
			}
			if p.PenaltyDuration > days*thor.SecondsPerDay {
				return pool.ErrInvalidPenaltyDuration
			}
		}
		if err := f.globals.SetStakingDuration(days * thor.SecondsPerDay); err != nil {
			return err
		}
		f.emitParam("stakingDuration", strconv.FormatUint(days*thor.SecondsPerDay, 10))
		return nil
	})
}

// ChangeStakeMultiplier sets the bonus multiplier for stakes made at deployment.
func (f *Farming) ChangeStakeMultiplier(caller thor.Address, multiplier uint64) error {
	return f.atomic("changeStakeMultiplier", func() error {
		if err := f.ownable.OnlyOwner(caller); err != nil {
			return err
		}
		if multiplier == 0 {
			return ErrInvalidMultiplier
		}
		if err := f.globals.SetStakeMultiplier(multiplier); err != nil {
			return err
		}
		f.emitParam("stakeMultiplier", strconv.FormatUint(multiplier, 10))
		return nil
	})
}

// ChangeReferralPercents sets the per level referral percents, nearest upline first.
func (f *Farming) ChangeReferralPercents(caller thor.Address, percents []uint64) error {
	return f.atomic("changeReferralPercents", func() error {
		if err := f.ownable.OnlyOwner(caller); err != nil {
			return err
		}
		if len(percents) == 0 || len(percents) > thor.MaxReferralDepth {
			return ErrInvalidReferralPercents
		}
		var sum uint64
		for _, p := range percents {
			sum += p
			if p > 100 || sum > 100 {
				return ErrInvalidReferralPercents
			}
		}
		if err := f.globals.SetReferralPercents(percents); err != nil {
			return err
		}
		f.emitParam("referralPercents", formatPercents(percents))
		return nil
	})
}

// ChangeRetentionFees sets the fee percents withheld from stakers without and with a referrer.
func (f *Farming) ChangeRetentionFees(caller thor.Address, noReferrer, withReferrer uint64) error {
	return f.atomic("changeRetentionFees", func() error {
		if err := f.ownable.OnlyOwner(caller); err != nil {
			return err
		}
		if noReferrer > 100 || withReferrer > 100 {
			return ErrInvalidRetentionFee
		}
		if err := f.globals.SetRetentionFees(noReferrer, withReferrer); err != nil {
			return err
		}
		f.emitParam("retentionFees", strconv.FormatUint(noReferrer, 10)+","+strconv.FormatUint(withReferrer, 10))
		return nil
	})
}

func (f *Farming) Pause(caller thor.Address) error {
	return f.atomic("pause", func() error {
		if err := f.ownable.Pause(caller); err != nil {
			return err
		}
		f.emit(&Event{Name: EventPaused, Account: caller})
		logger.Info("farm paused", "by", caller)
		return nil
	})
}

func (f *Farming) Unpause(caller thor.Address) error {
	return f.atomic("unpause", func() error {
		if err := f.ownable.Unpause(caller); err != nil {
			return err
		}
		f.emit(&Event{Name: EventUnpaused, Account: caller})
		logger.Info("farm unpaused", "by", caller)
		return nil
	})
}

func (f *Farming) TransferOwnership(caller, newOwner thor.Address) error {
	return f.atomic("transferOwnership", func() error {
		if err := f.ownable.TransferOwnership(caller, newOwner); err != nil {
			return err
		}
		f.emit(&Event{Name: EventOwnerChanged, User: caller, Account: newOwner})
		logger.Info("ownership transferred", "from", caller, "to", newOwner)
		return nil
	})
}

// RetrieveTokens sends amount of token held by the farm to the owner.
func (f *Farming) RetrieveTokens(caller, tokenAddr thor.Address, amount *big.Int) error {
	return f.atomic("retrieveTokens", func() error {
		if err := f.ownable.OnlyOwner(caller); err != nil {
			return err
		}
		if amount == nil || amount.Sign() <= 0 {
			return ErrInvalidAmount
		}
		tok := f.tokens.Token(tokenAddr)
		balance, err := tok.BalanceOf(f.addr)
		if err != nil {
			return err
		}
		if amount.Cmp(balance) > 0 {
			return ErrInsufficientBalance
		}
		f.emit(&Event{Name: EventTokensRetrieved, Token: tokenAddr, Amount: new(big.Int).Set(amount), Account: caller})
		if err := tok.TransferOut(caller, amount); err != nil {
			return err
		}
		logger.Info("retrieved tokens", "token", tokenAddr, "amount", amount)
		return nil
	})
}

func (f *Farming) emitParam(name, value string) {
	f.emit(&Event{Name: EventParamChanged, Param: name, Value: value})
	logger.Info("parameter changed", "param", name, "value", value)
}

func formatPercents(percents []uint64) string {
	b := make([]byte, 0, len(percents)*3)
	for i, p := range percents {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendUint(b, p, 10)
	}
	return string(b)
}
