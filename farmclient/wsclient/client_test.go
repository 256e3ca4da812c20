// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/api/types"
)

func TestNewClient(t *testing.T) {
	for _, tc := range []struct {
		url    string
		host   string
		scheme string
		err    bool
	}{
		{"http://localhost:8669", "localhost:8669", "ws", false},
		{"https://farm.example.org/", "farm.example.org", "wss", false},
		{"ws://127.0.0.1:8669", "127.0.0.1:8669", "ws", false},
		{"localhost:8669", "", "", true},
	} {
		c, err := NewClient(tc.url)
		if tc.err {
			assert.Error(t, err, tc.url)
			continue
		}
		require.NoError(t, err, tc.url)
		assert.Equal(t, tc.host, c.host)
		assert.Equal(t, tc.scheme, c.scheme)
	}
}

func TestSubscribeEvents(t *testing.T) {
	upgrader := websocket.Upgrader{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions/event", r.URL.Path)
		assert.Equal(t, "kind=Staked", r.URL.RawQuery)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteJSON(&types.Event{Name: "Staked", StakeID: 7})
		conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	}))
	defer ts.Close()

	c, err := NewClient(ts.URL)
	require.NoError(t, err)
	sub, err := c.SubscribeEvents("kind=Staked")
	require.NoError(t, err)
	defer sub.Unsubscribe()

	ev := <-sub.EventChan
	require.NoError(t, ev.Error)
	assert.Equal(t, "Staked", ev.Data.Name)
	assert.Equal(t, uint64(7), ev.Data.StakeID)

	ev = <-sub.EventChan
	assert.ErrorIs(t, ev.Error, ErrUnexpectedMsg)

	_, ok := <-sub.EventChan
	assert.False(t, ok)
}

func TestSubscribeEventsDialError(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := strings.TrimPrefix(ts.URL, "http://")
	ts.Close()

	c, err := NewClient("http://" + addr)
	require.NoError(t, err)
	_, err = c.SubscribeEvents("")
	assert.Error(t, err)
}
