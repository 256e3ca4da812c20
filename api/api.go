// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"net/http/pprof"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/yieldfarm/api/events"
	"github.com/vechain/yieldfarm/api/farming"
	"github.com/vechain/yieldfarm/api/middleware"
	apinode "github.com/vechain/yieldfarm/api/node"
	"github.com/vechain/yieldfarm/api/subscriptions"
	"github.com/vechain/yieldfarm/api/transactions"
	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/log"
	"github.com/vechain/yieldfarm/node"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	BacktraceLimit       uint64
	EventsLimit          uint64
	PprofOn              bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EnableMetrics        bool
}

// New return api router
func New(n *node.Node, eventDB *eventdb.EventDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	farming.New(n).
		Mount(router, "/farming")
	transactions.New(n, eventDB).
		Mount(router, "/transactions")
	events.New(eventDB, opts.EventsLimit).
		Mount(router, "/events")
	apinode.New(n).
		Mount(router, "/node")
	subs := subscriptions.New(n, eventDB, origins, opts.BacktraceLimit)
	subs.Mount(router, "/subscriptions")

	if opts.PprofOn {
		router.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		router.HandleFunc("/debug/pprof/profile", pprof.Profile)
		router.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		router.HandleFunc("/debug/pprof/trace", pprof.Trace)
		router.PathPrefix("/debug/pprof/").HandlerFunc(pprof.Index)
	}

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type", "x-genesis-id", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{"x-genesis-id", middleware.RequestIDHeader}),
	)(handler)

	genesisID := n.Genesis().ID().String()
	handler = withGenesisID(handler, genesisID)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = new(atomic.Bool)
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}

// withGenesisID rejects requests meant for another network.
func withGenesisID(h http.Handler, genesisID string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if actual := r.Header.Get("x-genesis-id"); actual != "" && !strings.EqualFold(actual, genesisID) {
			w.Header().Set("x-genesis-id", genesisID)
			http.Error(w, "genesis id mismatch", http.StatusForbidden)
			return
		}
		w.Header().Set("x-genesis-id", genesisID)
		h.ServeHTTP(w, r)
	})
}
