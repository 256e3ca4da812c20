// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package gascharger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/thor"
)

func TestCharger(t *testing.T) {
	c := New(0)
	c.Intrinsic()
	c.Meter(solidity.OpRead, 2)
	c.Meter(solidity.OpWrite, 1)

	assert.Equal(t, thor.TxGas+2*thor.SloadGas+thor.SstoreGas, c.TotalGas())
	assert.False(t, c.OutOfGas())
	assert.Contains(t, c.Breakdown(), "SLOAD: 2 ops")
}

func TestChargerLimit(t *testing.T) {
	c := New(thor.TxGas + thor.SloadGas)
	c.Intrinsic()
	c.Meter(solidity.OpRead, 1)
	assert.False(t, c.OutOfGas())

	c.Meter(solidity.OpWrite, 1)
	assert.True(t, c.OutOfGas())
}
