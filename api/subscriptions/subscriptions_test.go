// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/api/types"
	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/genesis"
	"github.com/vechain/yieldfarm/test/testnode"
)

const backtraceLimit = 10

var accs = genesis.DevAccounts()

func initSubscriptionsServer(t *testing.T) (*testnode.Node, *httptest.Server) {
	tn, err := testnode.New()
	require.NoError(t, err)

	subs := New(tn.Node, tn.EventDB(), []string{"localhost"}, backtraceLimit)
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	t.Cleanup(func() {
		subs.Close()
		ts.Close()
		tn.Close()
	})
	return tn, ts
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/event", RawQuery: query}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) *types.Event {
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var ev types.Event
	require.NoError(t, conn.ReadJSON(&ev))
	return &ev
}

func TestSubscribeEvents(t *testing.T) {
	tn, ts := initSubscriptionsServer(t)

	all := dial(t, ts, "")
	mine := dial(t, ts, "user="+accs[2].Address.String()+"&kind="+farming.EventStaked)

	_, err := tn.Stake(1, -1, 5)
	require.NoError(t, err)
	_, err = tn.Stake(2, -1, 7)
	require.NoError(t, err)

	ev := readEvent(t, all)
	assert.Equal(t, farming.EventStaked, ev.Name)
	assert.Equal(t, accs[1].Address, *ev.User)
	assert.Equal(t, uint64(1), ev.Meta.Seq)
	ev = readEvent(t, all)
	assert.Equal(t, accs[2].Address, *ev.User)

	ev = readEvent(t, mine)
	assert.Equal(t, accs[2].Address, *ev.User)
	assert.Equal(t, uint64(2), ev.Meta.Seq)
}

func TestSubscribeFromPosition(t *testing.T) {
	tn, ts := initSubscriptionsServer(t)

	_, err := tn.Stake(1, -1, 5)
	require.NoError(t, err)

	// genesis events are replayed from pos 0
	conn := dial(t, ts, "pos=0")
	ev := readEvent(t, conn)
	assert.Equal(t, farming.EventPoolConfigured, ev.Name)
	assert.Equal(t, uint64(0), ev.Meta.Seq)
	ev = readEvent(t, conn)
	assert.Equal(t, farming.EventStaked, ev.Name)
}

func TestBadSubscriptions(t *testing.T) {
	tn, ts := initSubscriptionsServer(t)
	for range backtraceLimit + 1 {
		_, err := tn.Stake(1, -1, 1)
		require.NoError(t, err)
	}

	for query, status := range map[string]int{
		"pos=100":  http.StatusBadRequest,
		"pos=x":    http.StatusBadRequest,
		"user=0x1": http.StatusBadRequest,
		"pos=0":    http.StatusForbidden,
	} {
		u := url.URL{Scheme: "ws", Host: strings.TrimPrefix(ts.URL, "http://"), Path: "/subscriptions/event", RawQuery: query}
		_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
		assert.Error(t, err, query)
		require.NotNil(t, resp, query)
		assert.Equal(t, status, resp.StatusCode, query)
		resp.Body.Close()
	}

	resp, err := http.Get(ts.URL + "/subscriptions/block")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
