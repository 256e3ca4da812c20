// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import (
	"math/big"

	"github.com/vechain/yieldfarm/thor"
)

// Event names.
const (
	EventPoolConfigured    = "PoolConfigured"
	EventStaked            = "Staked"
	EventRewardPaid        = "RewardPaid"
	EventReferralPaid      = "ReferralPaid"
	EventPenaltyPaid       = "PenaltyPaid"
	EventUnstaked          = "Unstaked"
	EventEmergencyUnstaked = "EmergencyUnstaked"
	EventTokensRetrieved   = "TokensRetrieved"
	EventPaused            = "Paused"
	EventUnpaused          = "Unpaused"
	EventOwnerChanged      = "OwnershipTransferred"
	EventParamChanged      = "ParamChanged"
)

// Event is emitted by a successful transition.
type Event struct {
	Name    string       `json:"name"`
	Pool    thor.Address `json:"pool"`
	User    thor.Address `json:"user"`
	StakeID uint64       `json:"stakeId"`
	Token   thor.Address `json:"token"`
	Amount  *big.Int     `json:"amount,omitempty"`
	// Account is the other party: referrer, penalty receiver, recipient or new owner.
	Account thor.Address `json:"account"`
	Level   uint8        `json:"level"`
	Param   string       `json:"param,omitempty"`
	Value   string       `json:"value,omitempty"`
}

func (f *Farming) emit(ev *Event) {
	f.events = append(f.events, ev)
}

// Events returns the events emitted since the farming instance was created.
func (f *Farming) Events() []*Event {
	return f.events
}
