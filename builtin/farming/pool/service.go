// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"math/big"
	"slices"

	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/thor"
)

var (
	slotPools      = thor.BytesToBytes32([]byte(("pools")))
	slotPoolTokens = thor.BytesToBytes32([]byte(("pool-tokens")))

	errTotalUnderflow = errors.New("pool total staked underflow")
)

// Service is the pool registry.
type Service struct {
	pools  *solidity.Mapping[thor.Address, *Pool]
	tokens *solidity.Raw[[]thor.Address]
}

func New(sctx *solidity.Context) *Service {
	return &Service{
		pools:  solidity.NewMapping[thor.Address, *Pool](sctx, slotPools),
		tokens: solidity.NewRaw[[]thor.Address](sctx, slotPoolTokens),
	}
}

// Get returns the pool of stakedToken. An unconfigured pool is returned empty, never nil.
func (s *Service) Get(stakedToken thor.Address) (*Pool, error) {
	p, err := s.pools.Get(stakedToken)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool")
	}
	if p.TotalStaked == nil {
		p.TotalStaked = new(big.Int)
	}
	return p, nil
}

// Tokens lists the staked tokens of every configured pool in configuration order.
func (s *Service) Tokens() ([]thor.Address, error) {
	tokens, err := s.tokens.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get pool tokens")
	}
	return tokens, nil
}

// Configure validates cfg and replaces the pool record, keeping the running total.
// Rewards up to until are distributed at the old rates first.
func (s *Service) Configure(stakedToken thor.Address, cfg *Config, stakingDuration, until, seq uint64) (*Pool, error) {
	if err := cfg.Validate(stakedToken, stakingDuration); err != nil {
		return nil, err
	}
	current, err := s.Get(stakedToken)
	if err != nil {
		return nil, err
	}
	if err := current.Distribute(until); err != nil {
		return nil, err
	}

	p := &Pool{
		MinStakeAmount:     new(big.Int).Set(cfg.MinStakeAmount),
		MaxStakeAmount:     new(big.Int).Set(cfg.MaxStakeAmount),
		TotalStakeLimit:    new(big.Int).Set(orZero(cfg.TotalStakeLimit)),
		TotalStaked:        current.TotalStaked,
		RewardTokens:       slices.Clone(cfg.RewardTokens),
		RewardRates:        make([]*big.Int, len(cfg.RewardRates)),
		MaxPenaltyPercent:  cfg.MaxPenaltyPercent,
		PenaltyDuration:    cfg.PenaltyDuration,
		PenaltyReceiver:    cfg.PenaltyReceiver,
		ReferralToken:      cfg.ReferralToken,
		ReferralMultiplier: new(big.Int).Set(orZero(cfg.ReferralMultiplier)),
		LastOperationBlock: seq,
		LastRewardTime:     current.LastRewardTime,
		Shares:             current.Shares,
	}
	for i, rate := range cfg.RewardRates {
		p.RewardRates[i] = new(big.Int).Set(rate)
	}

	if err := s.pools.Set(stakedToken, p); err != nil {
		return nil, errors.Wrap(err, "failed to set pool")
	}

	if !current.IsConfigured() {
		tokens, err := s.Tokens()
		if err != nil {
			return nil, err
		}
		if !slices.Contains(tokens, stakedToken) {
			if err := s.tokens.Set(append(tokens, stakedToken)); err != nil {
				return nil, errors.Wrap(err, "failed to set pool tokens")
			}
		}
	}
	return p, nil
}

// AddStaked grows the pool total. p must be distributed up to now.
func (s *Service) AddStaked(stakedToken thor.Address, p *Pool, amount *big.Int, seq uint64) error {
	p.TotalStaked = new(big.Int).Add(p.TotalStaked, amount)
	p.LastOperationBlock = seq
	return s.save(stakedToken, p)
}

// SubStaked shrinks the pool total. p must be distributed up to now.
func (s *Service) SubStaked(stakedToken thor.Address, p *Pool, amount *big.Int, seq uint64) error {
	if p.TotalStaked.Cmp(amount) < 0 {
		return errTotalUnderflow
	}
	p.TotalStaked = new(big.Int).Sub(p.TotalStaked, amount)
	p.LastOperationBlock = seq
	return s.save(stakedToken, p)
}

// Touch records seq as the last transition on the pool.
func (s *Service) Touch(stakedToken thor.Address, p *Pool, seq uint64) error {
	p.LastOperationBlock = seq
	return s.save(stakedToken, p)
}

func (s *Service) save(stakedToken thor.Address, p *Pool) error {
	if err := s.pools.Set(stakedToken, p); err != nil {
		return errors.Wrap(err, "failed to set pool")
	}
	return nil
}
