// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testnode runs a devnet node over memory stores with a manual clock.
package testnode

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/genesis"
	"github.com/vechain/yieldfarm/lvldb"
	"github.com/vechain/yieldfarm/node"
	"github.com/vechain/yieldfarm/tx"
)

// LaunchTime of the devnet built by New.
const LaunchTime = uint64(1_700_000_000)

// Node wraps a devnet node and the stores it runs on.
type Node struct {
	*node.Node
	store   *lvldb.LevelDB
	eventDB *eventdb.EventDB
	clock   *node.ManualClock
}

func New() (*Node, error) {
	store, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	eventDB, err := eventdb.NewMem()
	if err != nil {
		store.Close()
		return nil, err
	}
	clock := node.NewManualClock(LaunchTime)
	n, err := node.New(store, eventDB, genesis.NewDevnet(LaunchTime), node.Options{Clock: clock})
	if err != nil {
		eventDB.Close()
		store.Close()
		return nil, err
	}
	return &Node{n, store, eventDB, clock}, nil
}

func (n *Node) EventDB() *eventdb.EventDB {
	return n.eventDB
}

func (n *Node) Clock() *node.ManualClock {
	return n.clock
}

// NewTx builds a tx of the dev account at index from, signed with its next nonce.
func (n *Node) NewTx(from int, method tx.Method, args any) (*tx.Transaction, error) {
	acc := genesis.DevAccounts()[from]
	nonce, err := n.Nonce(acc.Address)
	if err != nil {
		return nil, err
	}
	clause, err := tx.NewClause(method, args)
	if err != nil {
		return nil, err
	}
	return tx.Sign(new(tx.Builder).
		ChainTag(n.ChainTag()).
		Nonce(nonce).
		Clause(clause).
		Build(), acc.PrivateKey)
}

// Send applies a tx of the dev account at index from and fails when it reverts.
func (n *Node) Send(from int, method tx.Method, args any) (*node.Receipt, error) {
	trx, err := n.NewTx(from, method, args)
	if err != nil {
		return nil, err
	}
	receipt, err := n.Apply(trx)
	if err != nil {
		return nil, err
	}
	if receipt.Reverted {
		return receipt, errors.Errorf("%v reverted: %v", method, receipt.Reason)
	}
	return receipt, nil
}

// Stake stakes units whole tokens of the devnet staked token.
func (n *Node) Stake(from int, referrer int, units int64) (*node.Receipt, error) {
	args := &tx.StakeArgs{
		StakedToken: genesis.DevStakedToken,
		Amount:      new(big.Int).Mul(big.NewInt(units), big.NewInt(1e18)),
	}
	if referrer >= 0 {
		args.Referrer = genesis.DevAccounts()[referrer].Address
	}
	return n.Send(from, tx.MethodStake, args)
}

func (n *Node) Close() {
	n.Node.Close()
	n.eventDB.Close()
	n.store.Close()
}
