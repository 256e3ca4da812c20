// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stake

import (
	"math/big"

	"github.com/vechain/yieldfarm/thor"
)

// Claim is the running total paid to the owner in one reward token.
type Claim struct {
	Token  thor.Address
	Amount *big.Int
}

// Stake is one deposit of a user into a pool.
type Stake struct {
	ID    uint64       `rlp:"-"`
	Owner thor.Address `rlp:"-"`

	Pool        thor.Address // the staked token
	Amount      *big.Int
	StartTime   uint64
	Multiplier  *big.Int // scaled by 1e12, frozen at creation
	ClaimedUpTo uint64   // rewards before this instant are settled
	Claimed     []Claim
	Unstaked    bool
	UnstakeTime uint64
	Debt        []Claim // pool reward per share already settled, per token
}

// IsActive returns whether the principal is still locked.
func (s *Stake) IsActive() bool {
	return !s.Unstaked
}

// ClaimedOf returns the total paid in token.
func (s *Stake) ClaimedOf(token thor.Address) *big.Int {
	return amountOf(s.Claimed, token)
}

// AddClaimed adds amount to the total paid in token.
func (s *Stake) AddClaimed(token thor.Address, amount *big.Int) {
	for i := range s.Claimed {
		if s.Claimed[i].Token == token {
			s.Claimed[i].Amount = new(big.Int).Add(s.Claimed[i].Amount, amount)
			return
		}
	}
	s.Claimed = append(s.Claimed, Claim{Token: token, Amount: new(big.Int).Set(amount)})
}

// DebtOf returns the pool reward per share of token the stake was last settled at.
func (s *Stake) DebtOf(token thor.Address) *big.Int {
	return amountOf(s.Debt, token)
}

// SetDebt records perShare as settled in token.
func (s *Stake) SetDebt(token thor.Address, perShare *big.Int) {
	for i := range s.Debt {
		if s.Debt[i].Token == token {
			s.Debt[i].Amount = new(big.Int).Set(perShare)
			return
		}
	}
	s.Debt = append(s.Debt, Claim{Token: token, Amount: new(big.Int).Set(perShare)})
}

func amountOf(list []Claim, token thor.Address) *big.Int {
	for _, c := range list {
		if c.Token == token {
			return new(big.Int).Set(c.Amount)
		}
	}
	return new(big.Int)
}
