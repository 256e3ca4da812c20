// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"fmt"

	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/thor"
)

// Charger prices the storage slots touched by a transaction.
type Charger struct {
	limit      uint64
	sloadOps   uint64
	sstoreOps  uint64
	intrinsic  uint64
	totalGas   uint64
	overflowed bool
}

// New returns a charger that reports exhaustion above limit. A zero limit is unbounded.
func New(limit uint64) *Charger {
	return &Charger{limit: limit}
}

// Meter is a solidity.MeterFunc.
func (c *Charger) Meter(op solidity.Op, slots uint64) {
	switch op {
	case solidity.OpRead:
		c.sloadOps += slots
		c.charge(slots * thor.SloadGas)
	case solidity.OpWrite:
		c.sstoreOps += slots
		c.charge(slots * thor.SstoreGas)
	}
}

// Intrinsic charges the flat per transaction cost.
func (c *Charger) Intrinsic() {
	c.intrinsic += thor.TxGas
	c.charge(thor.TxGas)
}

func (c *Charger) charge(gas uint64) {
	if c.totalGas+gas < c.totalGas {
		c.overflowed = true
		return
	}
	c.totalGas += gas
}

// OutOfGas reports whether the used gas exceeded the limit.
func (c *Charger) OutOfGas() bool {
	return c.overflowed || (c.limit > 0 && c.totalGas > c.limit)
}

func (c *Charger) Breakdown() string {
	return fmt.Sprintf(
		"INTRINSIC: %d gas | SLOAD: %d ops (%d gas) | SSTORE: %d ops (%d gas) | TOTAL: %d gas",
		c.intrinsic,
		c.sloadOps,
		c.sloadOps*thor.SloadGas,
		c.sstoreOps,
		c.sstoreOps*thor.SstoreGas,
		c.totalGas,
	)
}

func (c *Charger) TotalGas() uint64 {
	return c.totalGas
}
