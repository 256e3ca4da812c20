// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package wsclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/vechain/yieldfarm/api/types"
)

type Client struct {
	host   string
	scheme string
}

func NewClient(url string) (*Client, error) {
	var host string
	var scheme string

	if strings.Contains(url, "https://") || strings.Contains(url, "wss://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "https://"), "wss://")
		scheme = "wss"
	} else if strings.Contains(url, "http://") || strings.Contains(url, "ws://") {
		host = strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "ws://")
		scheme = "ws"
	} else {
		return nil, fmt.Errorf("invalid url")
	}

	return &Client{
		host:   strings.TrimSuffix(host, "/"),
		scheme: scheme,
	}, nil
}

// SubscribeEvents streams the journaled events matching query,
// e.g. "user=0x...&kind=Staked&pos=1".
func (c *Client) SubscribeEvents(query string) (*Subscription[*types.Event], error) {
	conn, err := c.connect("/subscriptions/event", query)
	if err != nil {
		return nil, fmt.Errorf("unable to connect - %w", err)
	}

	return subscribe[types.Event](conn), nil
}

// subscribe pumps the JSON messages of conn into a channel until the connection fails or is closed.
func subscribe[T any](conn *websocket.Conn) *Subscription[*T] {
	eventChan := make(chan EventWrapper[*T])

	go func() {
		defer close(eventChan)
		defer conn.Close()

		for {
			var data T
			if err := conn.ReadJSON(&data); err != nil {
				eventChan <- EventWrapper[*T]{Error: fmt.Errorf("%w: %w", ErrUnexpectedMsg, err)}
				return
			}
			eventChan <- EventWrapper[*T]{Data: &data}
		}
	}()

	return &Subscription[*T]{
		EventChan:   eventChan,
		Unsubscribe: conn.Close,
	}
}

func (c *Client) connect(endpoint, rawQuery string) (*websocket.Conn, error) {
	u := url.URL{
		Scheme:   c.scheme,
		Host:     c.host,
		Path:     endpoint,
		RawQuery: rawQuery,
	}

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return conn, nil
}
