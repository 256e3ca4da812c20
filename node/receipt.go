// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/thor"
	"github.com/vechain/yieldfarm/tx"
)

// Receipt is the outcome of an applied transaction.
type Receipt struct {
	Seq      uint64
	Time     uint64
	TxID     thor.Bytes32
	Origin   thor.Address
	Method   tx.Method
	GasUsed  uint64
	Reverted bool
	Reason   string
	Output   any
	Events   []*farming.Event
	Root     thor.Bytes32
}
