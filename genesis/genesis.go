// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package genesis

import (
	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/kv"
	"github.com/vechain/yieldfarm/thor"
)

// Genesis to build the initial farm state.
type Genesis struct {
	builder    *Builder
	id         thor.Bytes32
	name       string
	launchTime uint64
}

func newGenesis(builder *Builder, name string) (*Genesis, error) {
	id, err := builder.ComputeID()
	if err != nil {
		return nil, err
	}
	return &Genesis{builder, id, name, builder.timestamp}, nil
}

// Build builds the genesis state into store.
func (g *Genesis) Build(store kv.Store) (thor.Bytes32, []*farming.Event, error) {
	return g.builder.Build(store)
}

// ID returns genesis id.
func (g *Genesis) ID() thor.Bytes32 {
	return g.id
}

// ChainTag returns the tag transactions must carry to be accepted.
func (g *Genesis) ChainTag() byte {
	return g.id[len(g.id)-1]
}

// Name returns network name.
func (g *Genesis) Name() string {
	return g.name
}

// LaunchTime returns the farm deployment time.
func (g *Genesis) LaunchTime() uint64 {
	return g.launchTime
}
