// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"

	"github.com/vechain/yieldfarm/thor"
)

// Tx is an applied transaction, reverted or not.
type Tx struct {
	Seq      uint64
	Time     uint64
	ID       thor.Bytes32
	Origin   thor.Address
	Nonce    uint64
	Method   string
	Raw      []byte // rlp encoded signed tx
	Reverted bool
	Reason   string
	GasUsed  uint64
	Root     thor.Bytes32 // state root after the tx
}

// Event is an event emitted by an applied transaction.
type Event struct {
	Seq     uint64
	Index   uint32
	Time    uint64
	TxID    thor.Bytes32
	Name    string
	Pool    thor.Address
	User    thor.Address
	StakeID uint64
	Token   thor.Address
	Amount  *big.Int
	Account thor.Address
	Level   uint8
	Param   string
	Value   string
}

type RangeType string

const (
	Seq  RangeType = "seq"
	Time RangeType = "time"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

type Range struct {
	Unit RangeType
	From uint64
	To   uint64
}

type Options struct {
	Offset uint64
	Limit  uint64
}

// EventCriteria matches events having all the non-nil fields.
type EventCriteria struct {
	Name    *string
	Pool    *thor.Address
	User    *thor.Address
	Token   *thor.Address
	Account *thor.Address
}

// EventFilter matches events meeting any of the criteria.
type EventFilter struct {
	CriteriaSet []*EventCriteria
	Range       *Range
	Options     *Options
	Order       Order // default asc
}
