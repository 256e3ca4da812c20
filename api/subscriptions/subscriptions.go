// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/api/utils"
	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/log"
	"github.com/vechain/yieldfarm/node"
	"github.com/vechain/yieldfarm/thor"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type msgReader interface {
	Read(ctx context.Context) (msgs []any, hasMore bool, err error)
}

type Subscriptions struct {
	node           *node.Node
	db             *eventdb.EventDB
	backtraceLimit uint64
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

func New(n *node.Node, db *eventdb.EventDB, allowedOrigins []string, backtraceLimit uint64) *Subscriptions {
	return &Subscriptions{
		node:           n,
		db:             db,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				for _, allowed := range allowedOrigins {
					if allowed == u.Hostname() || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func parseAddress(query url.Values, name string) (*thor.Address, error) {
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

func (s *Subscriptions) newEventReader(req *http.Request) (msgReader, error) {
	var (
		query    = req.URL.Query()
		criteria eventdb.EventCriteria
		err      error
	)
	if kind := query.Get("kind"); kind != "" {
		criteria.Name = &kind
	}
	if criteria.Pool, err = parseAddress(query, "pool"); err != nil {
		return nil, err
	}
	if criteria.User, err = parseAddress(query, "user"); err != nil {
		return nil, err
	}
	if criteria.Token, err = parseAddress(query, "token"); err != nil {
		return nil, err
	}
	if criteria.Account, err = parseAddress(query, "account"); err != nil {
		return nil, err
	}

	head, _ := s.node.Head()
	pos, err := utils.StringToUint64(query.Get("pos"), head+1)
	if err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if pos > head+1 {
		return nil, utils.BadRequest(errors.New("pos: beyond head"))
	}
	if head+1-pos > s.backtraceLimit {
		return nil, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return newEventReader(s.node, s.db, pos, &criteria), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader msgReader
		err    error
	)
	switch mux.Vars(req)["subject"] {
	case "event":
		if reader, err = s.newEventReader(req); err != nil {
			return err
		}
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}
	defer func() { s.closeConn(conn, err) }()

	err = s.pipe(req.Context(), conn, reader)
	return nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	}
	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		logger.Debug("write close message", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader msgReader) error {
	closed := make(chan struct{})
	// start read loop to handle close event
	go func() {
		defer close(closed)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongWait))
			return nil
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read err", "err", err)
				return
			}
		}
	}()

	ticker := s.node.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()
	for {
		msgs, hasMore, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			select {
			case <-s.done:
				return nil
			case <-closed:
				return nil
			default:
			}
			continue
		}
		select {
		case <-s.done:
			return nil
		case <-closed:
			return nil
		case <-ticker.C():
		case <-pingTicker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}

// Close closes all subscriptions and waits for them to exit.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("WS /subscriptions/{subject}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
