// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vechain/yieldfarm/api/utils"
	"github.com/vechain/yieldfarm/node"
	"github.com/vechain/yieldfarm/thor"
)

type Head struct {
	Seq      uint64       `json:"seq"`
	Root     thor.Bytes32 `json:"root"`
	FarmTime time.Time    `json:"farmTime"`
}

type Status struct {
	Healthy bool   `json:"healthy"`
	Head    *Head  `json:"head"`
	Halted  string `json:"halted,omitempty"`
}

// API reports whether the node still accepts transactions. A node stops
// once its journal falls behind the state.
type API struct {
	node *node.Node
}

func New(n *node.Node) *API {
	return &API{node: n}
}

func (h *API) status() *Status {
	seq, root := h.node.Head()
	st := &Status{
		Healthy: true,
		Head: &Head{
			Seq:      seq,
			Root:     root,
			FarmTime: time.Unix(int64(h.node.Now()), 0).UTC(),
		},
	}
	if err := h.node.Halted(); err != nil {
		st.Healthy = false
		st.Halted = err.Error()
	}
	return st
}

func (h *API) handleGetHealth(w http.ResponseWriter, _ *http.Request) error {
	st := h.status()
	w.Header().Set("Content-Type", utils.JSONContentType)
	if !st.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	return utils.WriteJSON(w, st)
}

func (h *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /admin/health").
		HandlerFunc(utils.WrapHandlerFunc(h.handleGetHealth))
}
