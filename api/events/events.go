// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/api/types"
	"github.com/vechain/yieldfarm/api/utils"
	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/thor"
)

type Events struct {
	db    *eventdb.EventDB
	limit uint64
}

func New(db *eventdb.EventDB, limit uint64) *Events {
	return &Events{
		db,
		limit,
	}
}

func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*types.Event, error) {
	events, err := e.db.FilterEvents(ctx, convertEventFilter(ef))
	if err != nil {
		return nil, err
	}
	out := make([]*types.Event, 0, len(events))
	for _, ev := range events {
		out = append(out, types.ConvertJournaledEvent(ev))
	}
	return out, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := filter.Validate(e.limit); err != nil {
		return utils.BadRequest(err)
	}
	events, err := e.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, events)
}

func queryAddress(query url.Values, name string) (*thor.Address, error) {
	s := query.Get(name)
	if s == "" {
		return nil, nil
	}
	addr, err := thor.ParseAddress(s)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return &addr, nil
}

func queryUint64(query url.Values, name string) (*uint64, error) {
	if query.Get(name) == "" {
		return nil, nil
	}
	n, err := utils.StringToUint64(query.Get(name), 0)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, name))
	}
	return &n, nil
}

// handleQuery serves a single criteria filter given as query parameters.
func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	var (
		query    = req.URL.Query()
		criteria EventCriteria
		rng      = Range{Unit: eventdb.RangeType(query.Get("unit"))}
		opts     Options
		err      error
	)
	if kind := query.Get("kind"); kind != "" {
		criteria.Name = &kind
	}
	if criteria.Pool, err = queryAddress(query, "pool"); err != nil {
		return err
	}
	if criteria.User, err = queryAddress(query, "user"); err != nil {
		return err
	}
	if criteria.Token, err = queryAddress(query, "token"); err != nil {
		return err
	}
	if criteria.Account, err = queryAddress(query, "account"); err != nil {
		return err
	}
	if rng.From, err = queryUint64(query, "from"); err != nil {
		return err
	}
	if rng.To, err = queryUint64(query, "to"); err != nil {
		return err
	}
	if opts.Offset, err = utils.StringToUint64(query.Get("offset"), 0); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	if opts.Limit, err = utils.StringToUint64(query.Get("limit"), e.limit); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "limit"))
	}

	filter := EventFilter{
		CriteriaSet: []*EventCriteria{&criteria},
		Options:     &opts,
		Order:       eventdb.Order(query.Get("order")),
	}
	if rng.Unit != "" || rng.From != nil || rng.To != nil {
		filter.Range = &rng
	}
	if err := filter.Validate(e.limit); err != nil {
		return utils.BadRequest(err)
	}
	events, err := e.filter(req.Context(), &filter)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, events)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
