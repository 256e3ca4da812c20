// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"github.com/vechain/yieldfarm/builtin/solidity"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

var (
	noncesAddr = thor.BytesToAddress([]byte("Nonces"))
	noncesSlot = thor.BytesToBytes32([]byte("nonces"))
)

// nonces counts the txs applied per origin, reverted ones included.
type nonces struct {
	m *solidity.Mapping[thor.Address, uint64]
}

func newNonces(st *state.State) *nonces {
	return &nonces{solidity.NewMapping[thor.Address, uint64](solidity.NewContext(noncesAddr, st, nil), noncesSlot)}
}

func (n *nonces) Get(addr thor.Address) (uint64, error) {
	return n.m.Get(addr)
}

func (n *nonces) Increase(addr thor.Address) error {
	nonce, err := n.m.Get(addr)
	if err != nil {
		return err
	}
	return n.m.Set(addr, nonce+1)
}
