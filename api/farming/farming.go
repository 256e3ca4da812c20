// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farming serves read only views of the farm at the node's head.
package farming

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/api/utils"
	"github.com/vechain/yieldfarm/cache"
	"github.com/vechain/yieldfarm/node"
	"github.com/vechain/yieldfarm/thor"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 1000
	viewCacheSize    = 1024
)

type Farming struct {
	node  *node.Node
	views *cache.LRU[string, any]
}

func New(n *node.Node) *Farming {
	views, err := cache.NewLRU[string, any](viewCacheSize)
	if err != nil {
		panic(err)
	}
	return &Farming{node: n, views: views}
}

// cached serves views that only change when the state root does.
func (f *Farming) cached(req *http.Request, load func() (any, error)) (any, error) {
	_, root := f.node.Head()
	return f.views.GetOrLoad(root.String()+req.URL.Path, func(string) (any, error) {
		return load()
	})
}

func parseAddress(req *http.Request, name string) (thor.Address, error) {
	addr, err := thor.ParseAddress(mux.Vars(req)[name])
	if err != nil {
		return thor.Address{}, utils.BadRequest(errors.WithMessage(err, name))
	}
	return addr, nil
}

func (f *Farming) handleGetPool(w http.ResponseWriter, req *http.Request) error {
	token, err := parseAddress(req, "token")
	if err != nil {
		return err
	}
	view, err := f.cached(req, func() (any, error) {
		p, err := f.node.Farming().Pool(token)
		if err != nil {
			return nil, err
		}
		if !p.IsConfigured() {
			return nil, utils.NotFound(errors.New("pool not found"))
		}
		return convertPool(token, p), nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, view)
}

func (f *Farming) handleGetPenalty(w http.ResponseWriter, req *http.Request) error {
	token, err := parseAddress(req, "token")
	if err != nil {
		return err
	}
	fm := f.node.Farming()
	p, err := fm.Pool(token)
	if err != nil {
		return err
	}
	if !p.IsConfigured() {
		return utils.NotFound(errors.New("pool not found"))
	}
	info, err := fm.GetPoolPenaltyInfo(token)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertPenalty(info))
}

func (f *Farming) handleGetUser(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	fm := f.node.Farming()
	u, err := fm.Users(addr)
	if err != nil {
		return err
	}
	count, err := fm.StakesCount(addr)
	if err != nil {
		return err
	}
	nonce, err := f.node.Nonce(addr)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertUser(addr, u, count, nonce))
}

func (f *Farming) handleGetStakes(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	query := req.URL.Query()
	offset, err := utils.StringToUint64(query.Get("offset"), 0)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "offset"))
	}
	limit, err := utils.StringToUint64(query.Get("limit"), defaultPageLimit)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "limit"))
	}
	if limit == 0 || limit > maxPageLimit {
		return utils.BadRequest(errors.Errorf("limit: should be in [1, %d]", maxPageLimit))
	}
	details, err := f.node.Farming().ViewStakingDetails(addr, offset, limit)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStakingDetails(details))
}

func (f *Farming) parseStake(req *http.Request) (thor.Address, uint64, error) {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return thor.Address{}, 0, err
	}
	id, err := utils.StringToUint64(mux.Vars(req)["id"], 0)
	if err != nil {
		return thor.Address{}, 0, utils.BadRequest(errors.WithMessage(err, "id"))
	}
	return addr, id, nil
}

func (f *Farming) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	addr, id, err := f.parseStake(req)
	if err != nil {
		return err
	}
	st, err := f.node.Farming().GetStake(addr, id)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, convertStake(st))
}

func (f *Farming) handleGetStakeRewards(w http.ResponseWriter, req *http.Request) error {
	addr, id, err := f.parseStake(req)
	if err != nil {
		return err
	}
	penalty, err := utils.StringToBoolean(req.URL.Query().Get("penalty"), false)
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "penalty"))
	}
	fm := f.node.Farming()
	st, err := fm.GetStake(addr, id)
	if err != nil {
		return err
	}
	p, err := fm.Pool(st.Pool)
	if err != nil {
		return err
	}
	amounts, err := fm.GetStakeRewards(addr, id, penalty)
	if err != nil {
		return err
	}
	rewards := make([]Claim, 0, len(amounts))
	for i, amount := range amounts {
		rewards = append(rewards, Claim{p.RewardTokens[i], hex(amount)})
	}
	return utils.WriteJSON(w, rewards)
}

func (f *Farming) handleGetReferrals(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	view, err := f.cached(req, func() (any, error) {
		referrals, err := f.node.Farming().GetReferrals(addr)
		if err != nil {
			return nil, err
		}
		return &Referrals{uint64(len(referrals)), referrals}, nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, view)
}

func (f *Farming) handleGetParams(w http.ResponseWriter, req *http.Request) error {
	view, err := f.cached(req, func() (any, error) {
		fm := f.node.Farming()
		params, err := fm.Params()
		if err != nil {
			return nil, err
		}
		owner, err := fm.Owner()
		if err != nil {
			return nil, err
		}
		paused, err := fm.Paused()
		if err != nil {
			return nil, err
		}
		pools, err := fm.PoolTokens()
		if err != nil {
			return nil, err
		}
		return convertParams(owner, paused, params, pools), nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, view)
}

func (f *Farming) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	token, err := parseAddress(req, "token")
	if err != nil {
		return err
	}
	holder, err := parseAddress(req, "address")
	if err != nil {
		return err
	}
	view, err := f.cached(req, func() (any, error) {
		balance, err := f.node.Farming().BalanceOf(token, holder)
		if err != nil {
			return nil, err
		}
		return &Balance{hex(balance)}, nil
	})
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, view)
}

func (f *Farming) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/params").
		Methods(http.MethodGet).
		Name("GET /farming/params").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetParams))
	sub.Path("/pools/{token}").
		Methods(http.MethodGet).
		Name("GET /farming/pools/{token}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetPool))
	sub.Path("/pools/{token}/penalty").
		Methods(http.MethodGet).
		Name("GET /farming/pools/{token}/penalty").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetPenalty))
	sub.Path("/users/{address}").
		Methods(http.MethodGet).
		Name("GET /farming/users/{address}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetUser))
	sub.Path("/users/{address}/stakes").
		Methods(http.MethodGet).
		Name("GET /farming/users/{address}/stakes").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetStakes))
	sub.Path("/users/{address}/stakes/{id}").
		Methods(http.MethodGet).
		Name("GET /farming/users/{address}/stakes/{id}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetStake))
	sub.Path("/users/{address}/stakes/{id}/rewards").
		Methods(http.MethodGet).
		Name("GET /farming/users/{address}/stakes/{id}/rewards").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetStakeRewards))
	sub.Path("/users/{address}/referrals").
		Methods(http.MethodGet).
		Name("GET /farming/users/{address}/referrals").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetReferrals))
	sub.Path("/balances/{token}/{address}").
		Methods(http.MethodGet).
		Name("GET /farming/balances/{token}/{address}").
		HandlerFunc(utils.WrapHandlerFunc(f.handleGetBalance))
}
