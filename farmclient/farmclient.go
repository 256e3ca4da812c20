// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package farmclient is the Go client of the farm node API.
package farmclient

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/vechain/yieldfarm/api/events"
	"github.com/vechain/yieldfarm/api/farming"
	apinode "github.com/vechain/yieldfarm/api/node"
	"github.com/vechain/yieldfarm/api/transactions"
	"github.com/vechain/yieldfarm/api/types"
	"github.com/vechain/yieldfarm/farmclient/httpclient"
	"github.com/vechain/yieldfarm/farmclient/wsclient"
	"github.com/vechain/yieldfarm/thor"
	"github.com/vechain/yieldfarm/tx"
)

type Client struct {
	httpConn *httpclient.Client
	wsConn   *wsclient.Client
}

func New(url string) *Client {
	return &Client{
		httpConn: httpclient.New(url),
	}
}

func NewWithWS(url string) (*Client, error) {
	wsClient, err := wsclient.NewClient(url)
	if err != nil {
		return nil, err
	}

	return &Client{
		httpConn: httpclient.New(url),
		wsConn:   wsClient,
	}, nil
}

// RawClient exposes the underlying http client.
func (c *Client) RawClient() *httpclient.Client {
	return c.httpConn
}

// ChainTag returns the chain tag of the connected node.
func (c *Client) ChainTag() (byte, error) {
	head, err := c.httpConn.Head()
	if err != nil {
		return 0, err
	}
	return head.ChainTag, nil
}

// Head returns the latest applied tx seq, state root and farm time.
func (c *Client) Head() (*apinode.Head, error) {
	return c.httpConn.Head()
}

// Nonce returns the next nonce addr must sign with.
func (c *Client) Nonce(addr thor.Address) (uint64, error) {
	user, err := c.httpConn.User(addr)
	if err != nil {
		return 0, err
	}
	return user.Nonce, nil
}

// SendTransaction rlp encodes trx and sends it to the node.
func (c *Client) SendTransaction(trx *tx.Transaction) (*types.Receipt, error) {
	rlpTx, err := trx.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("unable to encode transaction - %w", err)
	}
	return c.SendRawTransaction(rlpTx)
}

// SendRawTransaction sends an already encoded transaction.
func (c *Client) SendRawTransaction(rlpTx []byte) (*types.Receipt, error) {
	return c.httpConn.SendTransaction(&transactions.RawTx{Raw: hexutil.Encode(rlpTx)})
}

func (c *Client) Transaction(id thor.Bytes32) (*types.Tx, error) {
	return c.httpConn.Transaction(id, false)
}

func (c *Client) Transactions(from, limit uint64) ([]*types.Tx, error) {
	return c.httpConn.Transactions(from, limit)
}

func (c *Client) Params() (*farming.Params, error) {
	return c.httpConn.Params()
}

func (c *Client) Pool(token thor.Address) (*farming.Pool, error) {
	return c.httpConn.Pool(token)
}

func (c *Client) PoolPenalty(token thor.Address) (*farming.Penalty, error) {
	return c.httpConn.PoolPenalty(token)
}

func (c *Client) User(addr thor.Address) (*farming.User, error) {
	return c.httpConn.User(addr)
}

func (c *Client) Stakes(addr thor.Address, offset, limit uint64) (*farming.StakingDetails, error) {
	return c.httpConn.Stakes(addr, offset, limit)
}

func (c *Client) Stake(addr thor.Address, id uint64) (*farming.Stake, error) {
	return c.httpConn.Stake(addr, id)
}

func (c *Client) StakeRewards(addr thor.Address, id uint64, penalty bool) ([]farming.Claim, error) {
	return c.httpConn.StakeRewards(addr, id, penalty)
}

func (c *Client) Referrals(addr thor.Address) (*farming.Referrals, error) {
	return c.httpConn.Referrals(addr)
}

func (c *Client) Balance(token, holder thor.Address) (*farming.Balance, error) {
	return c.httpConn.Balance(token, holder)
}

func (c *Client) FilterEvents(req *events.EventFilter) ([]*types.Event, error) {
	return c.httpConn.FilterEvents(req)
}

// SubscribeEvents needs a client built with NewWithWS.
func (c *Client) SubscribeEvents(query string) (*wsclient.Subscription[*types.Event], error) {
	if c.wsConn == nil {
		return nil, fmt.Errorf("not a websocket typed client")
	}
	return c.wsConn.SubscribeEvents(query)
}
