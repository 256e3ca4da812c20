// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"fmt"
	"math/big"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/yieldfarm/builtin"
	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
	"github.com/vechain/yieldfarm/tx"
)

// CustomGenesis is user customized genesis
type CustomGenesis struct {
	Name       string       `yaml:"name"`
	LaunchTime uint64       `yaml:"launchTime"`
	ExtraData  string       `yaml:"extraData"`
	Owner      thor.Address `yaml:"owner"`
	Params     *Params      `yaml:"params"`
	Tokens     []Token      `yaml:"tokens"`
	Pools      []Pool       `yaml:"pools"`
}

// Params overrides the farm defaults.
type Params struct {
	StakingDurationDays uint64   `yaml:"stakingDurationDays"`
	StakeMultiplier     uint64   `yaml:"stakeMultiplier"`
	ReferralPercents    []uint64 `yaml:"referralPercents"`
	NoReferrerFee       *uint64  `yaml:"noReferrerFee"`
	ReferrerFee         *uint64  `yaml:"referrerFee"`
}

// Token is a token registered in the ledger with its initial balances.
type Token struct {
	Address  thor.Address `yaml:"address"`
	Symbol   string       `yaml:"symbol"`
	Decimals uint8        `yaml:"decimals"`
	Balances []Balance    `yaml:"balances"`
}

type Balance struct {
	Address thor.Address `yaml:"address"`
	Amount  *Amount      `yaml:"amount"`
}

// Pool is a pool configured by the owner at genesis.
type Pool struct {
	StakedToken        thor.Address `yaml:"stakedToken"`
	MinStakeAmount     *Amount      `yaml:"minStakeAmount"`
	MaxStakeAmount     *Amount      `yaml:"maxStakeAmount"`
	TotalStakeLimit    *Amount      `yaml:"totalStakeLimit"`
	Rewards            []Reward     `yaml:"rewards"`
	MaxPenaltyPercent  uint64       `yaml:"maxPenaltyPercent"`
	PenaltyDuration    uint64       `yaml:"penaltyDuration"` // seconds
	PenaltyReceiver    thor.Address `yaml:"penaltyReceiver"`
	ReferralToken      thor.Address `yaml:"referralToken"`
	ReferralMultiplier *Amount      `yaml:"referralMultiplier"`
}

// Reward is a reward token paid by a pool, with its rate per second scaled by 1e18.
type Reward struct {
	Token thor.Address `yaml:"token"`
	Rate  *Amount      `yaml:"rate"`
}

// Amount is a big integer written as a decimal or 0x prefixed hex string.
type Amount big.Int

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *Amount) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: amount must be a scalar", node.Line)
	}
	v, ok := new(big.Int).SetString(node.Value, 0)
	if !ok {
		return fmt.Errorf("line %d: invalid amount %q", node.Line, node.Value)
	}
	if v.Sign() < 0 {
		return fmt.Errorf("line %d: negative amount %q", node.Line, node.Value)
	}
	*a = Amount(*v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (a *Amount) MarshalYAML() (any, error) {
	return a.Int().String(), nil
}

// Int returns the amount as big.Int, nil for a nil amount.
func (a *Amount) Int() *big.Int {
	if a == nil {
		return nil
	}
	return new(big.Int).Set((*big.Int)(a))
}

func orZero(a *Amount) *big.Int {
	if a == nil {
		return new(big.Int)
	}
	return a.Int()
}

// LoadCustomGenesis reads a custom genesis from a yaml file.
func LoadCustomGenesis(path string) (*CustomGenesis, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open genesis file")
	}
	defer file.Close()

	var gen CustomGenesis
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&gen); err != nil {
		return nil, errors.Wrap(err, "decode genesis file")
	}
	return &gen, nil
}

// NewCustomNet create custom network genesis.
func NewCustomNet(gen *CustomGenesis) (*Genesis, error) {
	if gen.LaunchTime == 0 {
		return nil, errors.New("launchTime must be set")
	}
	if gen.Owner.IsZero() {
		return nil, errors.New("owner must be set")
	}
	name := gen.Name
	if name == "" {
		name = "customnet"
	}

	builder := new(Builder).
		Timestamp(gen.LaunchTime).
		State(func(st *state.State) error {
			ledger := builtin.Tokens.WithState(st, nil)
			for _, t := range gen.Tokens {
				if t.Address.IsZero() {
					return fmt.Errorf("token %q: address must be set", t.Symbol)
				}
				if err := ledger.Register(t.Address, t.Symbol, t.Decimals); err != nil {
					return errors.Wrapf(err, "register %s", t.Symbol)
				}
				for _, b := range t.Balances {
					if b.Amount == nil {
						return fmt.Errorf("%s: %s balance must be set", b.Address, t.Symbol)
					}
					if err := ledger.Mint(t.Address, b.Address, b.Amount.Int()); err != nil {
						return errors.Wrapf(err, "mint %s", t.Symbol)
					}
				}
			}
			return builtin.Farming.WithState(st, farming.Env{Time: gen.LaunchTime}, nil).Initialize(gen.Owner, gen.LaunchTime)
		})

	if p := gen.Params; p != nil {
		if p.StakingDurationDays > 0 {
			builder.Call(tx.MustNewClause(tx.MethodChangeStakingDuration, &tx.ChangeStakingDurationArgs{Days: p.StakingDurationDays}), gen.Owner)
		}
		if p.StakeMultiplier > 0 {
			builder.Call(tx.MustNewClause(tx.MethodChangeStakeMultiplier, &tx.ChangeStakeMultiplierArgs{Multiplier: p.StakeMultiplier}), gen.Owner)
		}
		if len(p.ReferralPercents) > 0 {
			builder.Call(tx.MustNewClause(tx.MethodChangeReferralPercents, &tx.ChangeReferralPercentsArgs{Percents: p.ReferralPercents}), gen.Owner)
		}
		if p.NoReferrerFee != nil || p.ReferrerFee != nil {
			fees := tx.ChangeRetentionFeesArgs{NoReferrer: thor.DefaultNoReferrerFee, WithReferrer: thor.DefaultReferrerFee}
			if p.NoReferrerFee != nil {
				fees.NoReferrer = *p.NoReferrerFee
			}
			if p.ReferrerFee != nil {
				fees.WithReferrer = *p.ReferrerFee
			}
			builder.Call(tx.MustNewClause(tx.MethodChangeRetentionFees, &fees), gen.Owner)
		}
	}

	for _, p := range gen.Pools {
		args := tx.ConfigPoolArgs{
			StakedToken:        p.StakedToken,
			MinStakeAmount:     orZero(p.MinStakeAmount),
			MaxStakeAmount:     orZero(p.MaxStakeAmount),
			TotalStakeLimit:    orZero(p.TotalStakeLimit),
			MaxPenaltyPercent:  p.MaxPenaltyPercent,
			PenaltyDuration:    p.PenaltyDuration,
			PenaltyReceiver:    p.PenaltyReceiver,
			ReferralToken:      p.ReferralToken,
			ReferralMultiplier: orZero(p.ReferralMultiplier),
		}
		if args.PenaltyReceiver.IsZero() {
			args.PenaltyReceiver = gen.Owner
		}
		for _, r := range p.Rewards {
			args.RewardTokens = append(args.RewardTokens, r.Token)
			args.RewardRates = append(args.RewardRates, orZero(r.Rate))
		}
		builder.Call(tx.MustNewClause(tx.MethodConfigPool, &args), gen.Owner)
	}

	if gen.ExtraData != "" {
		var extra [28]byte
		if len(gen.ExtraData) > len(extra) {
			return nil, errors.New("extraData must be at most 28 bytes")
		}
		copy(extra[:], gen.ExtraData)
		builder.ExtraData(extra)
	}

	return newGenesis(builder, name)
}
