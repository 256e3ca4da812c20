// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package types holds the JSON forms of journaled txs, receipts and events.
package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/node"
	"github.com/vechain/yieldfarm/thor"
)

// Meta locates an event in the journal.
type Meta struct {
	Seq   uint64       `json:"seq"`
	Index uint32       `json:"index"`
	Time  uint64       `json:"time"`
	TxID  thor.Bytes32 `json:"txID"`
}

type Event struct {
	Name    string                `json:"name"`
	Pool    *thor.Address         `json:"pool,omitempty"`
	User    *thor.Address         `json:"user,omitempty"`
	StakeID uint64                `json:"stakeId"`
	Token   *thor.Address         `json:"token,omitempty"`
	Amount  *math.HexOrDecimal256 `json:"amount,omitempty"`
	Account *thor.Address         `json:"account,omitempty"`
	Level   uint8                 `json:"level"`
	Param   string                `json:"param,omitempty"`
	Value   string                `json:"value,omitempty"`
	Meta    *Meta                 `json:"meta,omitempty"`
}

func optAddress(addr thor.Address) *thor.Address {
	if addr.IsZero() {
		return nil
	}
	return &addr
}

func optAmount(amount *big.Int) *math.HexOrDecimal256 {
	if amount == nil {
		return nil
	}
	return (*math.HexOrDecimal256)(new(big.Int).Set(amount))
}

// ConvertEvent converts an event emitted by the farm.
func ConvertEvent(ev *farming.Event) *Event {
	return &Event{
		Name:    ev.Name,
		Pool:    optAddress(ev.Pool),
		User:    optAddress(ev.User),
		StakeID: ev.StakeID,
		Token:   optAddress(ev.Token),
		Amount:  optAmount(ev.Amount),
		Account: optAddress(ev.Account),
		Level:   ev.Level,
		Param:   ev.Param,
		Value:   ev.Value,
	}
}

// ConvertJournaledEvent converts an event read back from the journal.
func ConvertJournaledEvent(ev *eventdb.Event) *Event {
	return &Event{
		Name:    ev.Name,
		Pool:    optAddress(ev.Pool),
		User:    optAddress(ev.User),
		StakeID: ev.StakeID,
		Token:   optAddress(ev.Token),
		Amount:  optAmount(ev.Amount),
		Account: optAddress(ev.Account),
		Level:   ev.Level,
		Param:   ev.Param,
		Value:   ev.Value,
		Meta: &Meta{
			Seq:   ev.Seq,
			Index: ev.Index,
			Time:  ev.Time,
			TxID:  ev.TxID,
		},
	}
}

type Receipt struct {
	Seq      uint64       `json:"seq"`
	Time     uint64       `json:"time"`
	TxID     thor.Bytes32 `json:"txID"`
	Origin   thor.Address `json:"origin"`
	Method   string       `json:"method"`
	GasUsed  uint64       `json:"gasUsed"`
	Reverted bool         `json:"reverted"`
	Reason   string       `json:"reason,omitempty"`
	Output   any          `json:"output,omitempty"`
	Events   []*Event     `json:"events"`
	Root     thor.Bytes32 `json:"root"`
}

func ConvertReceipt(r *node.Receipt) *Receipt {
	events := make([]*Event, 0, len(r.Events))
	for _, ev := range r.Events {
		events = append(events, ConvertEvent(ev))
	}
	return &Receipt{
		Seq:      r.Seq,
		Time:     r.Time,
		TxID:     r.TxID,
		Origin:   r.Origin,
		Method:   string(r.Method),
		GasUsed:  r.GasUsed,
		Reverted: r.Reverted,
		Reason:   r.Reason,
		Output:   r.Output,
		Events:   events,
		Root:     r.Root,
	}
}

// Tx is a journaled tx with the events it emitted.
type Tx struct {
	Seq      uint64       `json:"seq"`
	Time     uint64       `json:"time"`
	ID       thor.Bytes32 `json:"id"`
	Origin   thor.Address `json:"origin"`
	Nonce    uint64       `json:"nonce"`
	Method   string       `json:"method"`
	Reverted bool         `json:"reverted"`
	Reason   string       `json:"reason,omitempty"`
	GasUsed  uint64       `json:"gasUsed"`
	Root     thor.Bytes32 `json:"root"`
	Raw      string       `json:"raw,omitempty"`
	Events   []*Event     `json:"events,omitempty"`
}

func ConvertTx(t *eventdb.Tx, events []*eventdb.Event, withRaw bool) *Tx {
	out := &Tx{
		Seq:      t.Seq,
		Time:     t.Time,
		ID:       t.ID,
		Origin:   t.Origin,
		Nonce:    t.Nonce,
		Method:   t.Method,
		Reverted: t.Reverted,
		Reason:   t.Reason,
		GasUsed:  t.GasUsed,
		Root:     t.Root,
	}
	if withRaw {
		out.Raw = hexutil.Encode(t.Raw)
	}
	for _, ev := range events {
		out.Events = append(out.Events, ConvertJournaledEvent(ev))
	}
	return out
}
