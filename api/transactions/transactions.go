// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package transactions

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/api/types"
	"github.com/vechain/yieldfarm/api/utils"
	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/node"
	"github.com/vechain/yieldfarm/thor"
	"github.com/vechain/yieldfarm/tx"
)

const maxListLimit = 1000

type Transactions struct {
	node    *node.Node
	eventDB *eventdb.EventDB
}

func New(n *node.Node, eventDB *eventdb.EventDB) *Transactions {
	return &Transactions{
		n,
		eventDB,
	}
}

// RawTx is the body of a tx submission.
type RawTx struct {
	Raw string `json:"raw"`
}

func (r *RawTx) decode() (*tx.Transaction, error) {
	data, err := hexutil.Decode(r.Raw)
	if err != nil {
		return nil, err
	}
	var trx tx.Transaction
	if err := trx.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &trx, nil
}

func (t *Transactions) handleSendTransaction(w http.ResponseWriter, req *http.Request) error {
	var raw RawTx
	if err := utils.ParseJSON(req.Body, &raw); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	trx, err := raw.decode()
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}
	receipt, err := t.node.Apply(trx)
	if err != nil {
		if node.IsRejected(err) {
			return utils.Forbidden(err)
		}
		if errors.Is(err, node.ErrNodeClosed) {
			return utils.HTTPError(err, http.StatusServiceUnavailable)
		}
		return err
	}
	return utils.WriteJSON(w, types.ConvertReceipt(receipt))
}

func (t *Transactions) txEvents(req *http.Request, seq uint64) ([]*eventdb.Event, error) {
	return t.eventDB.FilterEvents(req.Context(), &eventdb.EventFilter{
		Range: &eventdb.Range{Unit: eventdb.Seq, From: seq, To: seq},
	})
}

func (t *Transactions) handleGetTransactionByID(w http.ResponseWriter, req *http.Request) error {
	id, err := thor.ParseBytes32(mux.Vars(req)["id"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "id"))
	}
	raw, err := utils.StringToBoolean(req.URL.Query().Get("raw"), false)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "raw"))
	}
	jtx, err := t.eventDB.TxByID(req.Context(), id)
	if err != nil {
		return err
	}
	if jtx == nil {
		return utils.NotFound(errors.New("tx not found"))
	}
	events, err := t.txEvents(req, jtx.Seq)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, types.ConvertTx(jtx, events, raw))
}

func (t *Transactions) handleGetTransactions(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	from, err := utils.StringToUint64(query.Get("from"), 0)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "from"))
	}
	limit, err := utils.StringToUint64(query.Get("limit"), 100)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit == 0 || limit > maxListLimit {
		return utils.BadRequest(errors.Errorf("limit: should be in [1, %d]", maxListLimit))
	}
	txs, err := t.eventDB.Txs(req.Context(), from, limit)
	if err != nil {
		return err
	}
	out := make([]*types.Tx, 0, len(txs))
	for _, jtx := range txs {
		out = append(out, types.ConvertTx(jtx, nil, false))
	}
	return utils.WriteJSON(w, out)
}

func (t *Transactions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleSendTransaction))
	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /transactions").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactions))
	sub.Path("/{id}").
		Methods(http.MethodGet).
		Name("GET /transactions/{id}").
		HandlerFunc(utils.WrapHandlerFunc(t.handleGetTransactionByID))
}
