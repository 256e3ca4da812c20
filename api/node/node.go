// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/vechain/yieldfarm/api/utils"
	"github.com/vechain/yieldfarm/node"
	"github.com/vechain/yieldfarm/thor"
)

type Head struct {
	Seq       uint64       `json:"seq"`
	Root      thor.Bytes32 `json:"root"`
	Time      uint64       `json:"time"`
	ChainTag  byte         `json:"chainTag"`
	GenesisID thor.Bytes32 `json:"genesisId"`
	Network   string       `json:"network"`
}

type Node struct {
	node *node.Node
}

func New(n *node.Node) *Node {
	return &Node{n}
}

func (n *Node) handleGetHead(w http.ResponseWriter, _ *http.Request) error {
	seq, root := n.node.Head()
	gene := n.node.Genesis()
	return utils.WriteJSON(w, &Head{
		Seq:       seq,
		Root:      root,
		Time:      n.node.Now(),
		ChainTag:  n.node.ChainTag(),
		GenesisID: gene.ID(),
		Network:   gene.Name(),
	})
}

func (n *Node) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/head").
		Methods(http.MethodGet).
		Name("GET /node/head").
		HandlerFunc(utils.WrapHandlerFunc(n.handleGetHead))
}
