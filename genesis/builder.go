// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/builtin"
	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/kv"
	"github.com/vechain/yieldfarm/lvldb"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
	"github.com/vechain/yieldfarm/tx"
)

// Builder helper to build genesis state.
type Builder struct {
	timestamp uint64

	stateProcs []func(state *state.State) error
	calls      []call
	extraData  [28]byte
}

type call struct {
	clause tx.Clause
	caller thor.Address
}

// Timestamp set timestamp, which is also the farm deployment time.
func (b *Builder) Timestamp(t uint64) *Builder {
	b.timestamp = t
	return b
}

// State add a state process
func (b *Builder) State(proc func(state *state.State) error) *Builder {
	b.stateProcs = append(b.stateProcs, proc)
	return b
}

// Call add a farm call, executed after all state processes.
func (b *Builder) Call(clause tx.Clause, caller thor.Address) *Builder {
	b.calls = append(b.calls, call{clause, caller})
	return b
}

// ExtraData set extra data, which will be mixed into the genesis id.
func (b *Builder) ExtraData(data [28]byte) *Builder {
	b.extraData = data
	return b
}

// ComputeID compute genesis ID.
func (b *Builder) ComputeID() (thor.Bytes32, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return thor.Bytes32{}, err
	}
	defer db.Close()

	root, _, err := b.Build(db)
	if err != nil {
		return thor.Bytes32{}, err
	}
	return thor.Blake2b(b.extraData[:], root[:]), nil
}

// Build builds genesis state into store and returns its root.
func (b *Builder) Build(store kv.Store) (root thor.Bytes32, events []*farming.Event, err error) {
	st := state.New(store, nil)

	for _, proc := range b.stateProcs {
		if err := proc(st); err != nil {
			return thor.Bytes32{}, nil, errors.Wrap(err, "state process")
		}
	}

	for i, call := range b.calls {
		out, err := builtin.Call(st, call.caller, &call.clause, farming.Env{Time: b.timestamp}, nil)
		if err != nil {
			return thor.Bytes32{}, nil, errors.Wrapf(err, "call #%d %s", i, call.clause.Method)
		}
		events = append(events, out.Events...)
	}

	stage, err := st.Stage()
	if err != nil {
		return thor.Bytes32{}, nil, errors.Wrap(err, "stage state")
	}
	if root, err = stage.Commit(); err != nil {
		return thor.Bytes32{}, nil, errors.Wrap(err, "commit state")
	}
	return root, events, nil
}
