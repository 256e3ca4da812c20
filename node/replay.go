// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"

	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/genesis"
	"github.com/vechain/yieldfarm/kv"
	"github.com/vechain/yieldfarm/thor"
	"github.com/vechain/yieldfarm/tx"
)

const replayBatch = 1000

// Replay re-applies every tx of journal onto a fresh node over store, checking
// each resulting root against the journaled one. progress is called after each tx.
func Replay(
	ctx context.Context,
	store kv.Store,
	gene *genesis.Genesis,
	journal *eventdb.EventDB,
	gasLimit uint64,
	progress func(seq uint64),
) (thor.Bytes32, error) {
	scratch, err := eventdb.NewMem()
	if err != nil {
		return thor.Bytes32{}, err
	}
	defer scratch.Close()

	clock := NewManualClock(gene.LaunchTime())
	n, err := New(store, scratch, gene, Options{Clock: clock, GasLimit: gasLimit})
	if err != nil {
		return thor.Bytes32{}, err
	}
	defer n.Close()

	genesisTx, err := journal.Txs(ctx, 0, 1)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if len(genesisTx) == 0 || genesisTx[0].Method != GenesisMethod {
		return thor.Bytes32{}, errors.New("journal does not start with genesis")
	}
	if _, root := n.Head(); genesisTx[0].Root != root {
		return thor.Bytes32{}, errors.Errorf("genesis root mismatch: journal %v, rebuilt %v", genesisTx[0].Root, root)
	}

	next := uint64(1)
	for {
		txs, err := journal.Txs(ctx, next, replayBatch)
		if err != nil {
			return thor.Bytes32{}, err
		}
		if len(txs) == 0 {
			break
		}
		for _, jtx := range txs {
			if err := ctx.Err(); err != nil {
				return thor.Bytes32{}, err
			}
			if jtx.Seq != next {
				return thor.Bytes32{}, errors.Errorf("journal gap at seq %d", next)
			}
			var trx tx.Transaction
			if err := trx.UnmarshalBinary(jtx.Raw); err != nil {
				return thor.Bytes32{}, errors.Wrapf(err, "decode tx #%d", jtx.Seq)
			}
			clock.Set(jtx.Time)
			receipt, err := n.Apply(&trx)
			if err != nil {
				return thor.Bytes32{}, errors.Wrapf(err, "apply tx #%d", jtx.Seq)
			}
			if receipt.Root != jtx.Root {
				return thor.Bytes32{}, errors.Errorf("root mismatch at seq %d: journal %v, replayed %v", jtx.Seq, jtx.Root, receipt.Root)
			}
			if receipt.Reverted != jtx.Reverted {
				return thor.Bytes32{}, errors.Errorf("outcome mismatch at seq %d", jtx.Seq)
			}
			if progress != nil {
				progress(jtx.Seq)
			}
			next++
		}
	}
	_, root := n.Head()
	return root, nil
}
