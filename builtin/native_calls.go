// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/builtin/farming/pool"
	"github.com/vechain/yieldfarm/builtin/farming/reverts"
	"github.com/vechain/yieldfarm/builtin/farming/token"
	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
	"github.com/vechain/yieldfarm/tx"
)

var (
	ErrUnknownMethod = reverts.New("unknown method")
	ErrInvalidArgs   = reverts.New("invalid arguments")
)

// env of a native call invocation.
type env struct {
	caller  thor.Address
	clause  *tx.Clause
	farming *farming.Farming
	ledger  *token.Ledger
}

func (e *env) parseArgs(val any) error {
	if err := e.clause.DecodeArgs(val); err != nil {
		logger.Debug("bad arguments", "method", e.clause.Method, "error", err)
		return ErrInvalidArgs
	}
	return nil
}

// nativeMethod describes a native call.
type nativeMethod struct {
	run func(env *env) (any, error)
}

var methods = make(map[tx.Method]*nativeMethod)

// Output is the result of a native call.
type Output struct {
	Value  any
	Events []*farming.Event
}

// Call executes clause on behalf of caller. Changes are left in st.
func Call(st *state.State, caller thor.Address, clause *tx.Clause, fenv farming.Env, meter solidity.MeterFunc) (*Output, error) {
	method, ok := methods[clause.Method]
	if !ok {
		return nil, ErrUnknownMethod
	}
	e := &env{
		caller:  caller,
		clause:  clause,
		farming: Farming.WithState(st, fenv, meter),
		ledger:  Tokens.WithState(st, meter),
	}
	value, err := method.run(e)
	if err != nil {
		return nil, err
	}
	return &Output{Value: value, Events: e.farming.Events()}, nil
}

// Methods returns the names of all callable methods.
func Methods() []tx.Method {
	names := make([]tx.Method, 0, len(methods))
	for name := range methods {
		names = append(names, name)
	}
	return names
}

func init() {
	defines := []struct {
		name tx.Method
		run  func(env *env) (any, error)
	}{
		{tx.MethodConfigPool, func(env *env) (any, error) {
			var args tx.ConfigPoolArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.ConfigPool(env.caller, args.StakedToken, &pool.Config{
				MinStakeAmount:     args.MinStakeAmount,
				MaxStakeAmount:     args.MaxStakeAmount,
				TotalStakeLimit:    args.TotalStakeLimit,
				RewardTokens:       args.RewardTokens,
				RewardRates:        args.RewardRates,
				MaxPenaltyPercent:  args.MaxPenaltyPercent,
				PenaltyDuration:    args.PenaltyDuration,
				PenaltyReceiver:    args.PenaltyReceiver,
				ReferralToken:      args.ReferralToken,
				ReferralMultiplier: args.ReferralMultiplier,
			})
		}},
		{tx.MethodStake, func(env *env) (any, error) {
			var args tx.StakeArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			id, err := env.farming.Stake(env.caller, args.Referrer, args.StakedToken, args.Amount)
			if err != nil {
				return nil, err
			}
			return id, nil
		}},
		{tx.MethodClaimReward, func(env *env) (any, error) {
			var args tx.StakeIDArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.ClaimReward(env.caller, args.ID)
		}},
		{tx.MethodUnstake, func(env *env) (any, error) {
			var args tx.StakeIDArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.Unstake(env.caller, args.ID)
		}},
		{tx.MethodEmergencyUnstake, func(env *env) (any, error) {
			var args tx.EmergencyUnstakeArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.EmergencyUnstake(env.caller, args.User, args.ID, args.RewardAmounts, args.PayReferralRewards)
		}},
		{tx.MethodRetrieveTokens, func(env *env) (any, error) {
			var args tx.RetrieveTokensArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.RetrieveTokens(env.caller, args.Token, args.Amount)
		}},
		{tx.MethodChangeStakingDuration, func(env *env) (any, error) {
			var args tx.ChangeStakingDurationArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.ChangeStakingDuration(env.caller, args.Days)
		}},
		{tx.MethodChangeStakeMultiplier, func(env *env) (any, error) {
			var args tx.ChangeStakeMultiplierArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.ChangeStakeMultiplier(env.caller, args.Multiplier)
		}},
		{tx.MethodChangeReferralPercents, func(env *env) (any, error) {
			var args tx.ChangeReferralPercentsArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.ChangeReferralPercents(env.caller, args.Percents)
		}},
		{tx.MethodChangeRetentionFees, func(env *env) (any, error) {
			var args tx.ChangeRetentionFeesArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.ChangeRetentionFees(env.caller, args.NoReferrer, args.WithReferrer)
		}},
		{tx.MethodPause, func(env *env) (any, error) {
			return nil, env.farming.Pause(env.caller)
		}},
		{tx.MethodUnpause, func(env *env) (any, error) {
			return nil, env.farming.Unpause(env.caller)
		}},
		{tx.MethodTransferOwnership, func(env *env) (any, error) {
			var args tx.TransferOwnershipArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.farming.TransferOwnership(env.caller, args.NewOwner)
		}},
		{tx.MethodTransfer, func(env *env) (any, error) {
			var args tx.TransferArgs
			if err := env.parseArgs(&args); err != nil {
				return nil, err
			}
			return nil, env.ledger.Transfer(args.Token, env.caller, args.To, args.Amount)
		}},
	}
	for _, def := range defines {
		if _, dup := methods[def.name]; dup {
			panic("duplicated method " + string(def.name))
		}
		methods[def.name] = &nativeMethod{run: def.run}
	}
}
