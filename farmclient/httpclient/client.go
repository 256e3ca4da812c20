// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package httpclient provides an HTTP client to interact with a farm node.
// It offers methods to read pools, users, stakes and balances, to send
// transactions and to filter the event journal.
package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/vechain/yieldfarm/api/events"
	"github.com/vechain/yieldfarm/api/farming"
	apinode "github.com/vechain/yieldfarm/api/node"
	"github.com/vechain/yieldfarm/api/transactions"
	"github.com/vechain/yieldfarm/api/types"
	"github.com/vechain/yieldfarm/thor"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrNot200Status = errors.New("not 200 status code")
)

// Client represents the HTTP client for interacting with a farm node.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

// Params retrieves the farm wide parameters.
func (c *Client) Params() (*farming.Params, error) {
	body, err := c.httpGET(c.url + "/farming/params")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve params - %w", err)
	}

	var params farming.Params
	if err = json.Unmarshal(body, &params); err != nil {
		return nil, fmt.Errorf("unable to unmarshal params - %w", err)
	}
	return &params, nil
}

// Pool retrieves the pool of the given staked token.
func (c *Client) Pool(token thor.Address) (*farming.Pool, error) {
	body, err := c.httpGET(c.url + "/farming/pools/" + token.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve pool - %w", err)
	}

	var pool farming.Pool
	if err = json.Unmarshal(body, &pool); err != nil {
		return nil, fmt.Errorf("unable to unmarshal pool - %w", err)
	}
	return &pool, nil
}

// PoolPenalty retrieves the current early unstake penalty of a pool.
func (c *Client) PoolPenalty(token thor.Address) (*farming.Penalty, error) {
	body, err := c.httpGET(c.url + "/farming/pools/" + token.String() + "/penalty")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve penalty - %w", err)
	}

	var penalty farming.Penalty
	if err = json.Unmarshal(body, &penalty); err != nil {
		return nil, fmt.Errorf("unable to unmarshal penalty - %w", err)
	}
	return &penalty, nil
}

// User retrieves the user record of addr.
func (c *Client) User(addr thor.Address) (*farming.User, error) {
	body, err := c.httpGET(c.url + "/farming/users/" + addr.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve user - %w", err)
	}

	var user farming.User
	if err = json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("unable to unmarshal user - %w", err)
	}
	return &user, nil
}

// Stakes retrieves a page of the stakes of addr.
func (c *Client) Stakes(addr thor.Address, offset, limit uint64) (*farming.StakingDetails, error) {
	url := c.url + "/farming/users/" + addr.String() + "/stakes" +
		"?offset=" + strconv.FormatUint(offset, 10) +
		"&limit=" + strconv.FormatUint(limit, 10)

	body, err := c.httpGET(url)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve stakes - %w", err)
	}

	var details farming.StakingDetails
	if err = json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("unable to unmarshal stakes - %w", err)
	}
	return &details, nil
}

// Stake retrieves a single stake of addr.
func (c *Client) Stake(addr thor.Address, id uint64) (*farming.Stake, error) {
	body, err := c.httpGET(c.url + "/farming/users/" + addr.String() + "/stakes/" + strconv.FormatUint(id, 10))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve stake - %w", err)
	}

	var stake farming.Stake
	if err = json.Unmarshal(body, &stake); err != nil {
		return nil, fmt.Errorf("unable to unmarshal stake - %w", err)
	}
	return &stake, nil
}

// StakeRewards retrieves the pending rewards of a stake, net of the unstake penalty if penalty is set.
func (c *Client) StakeRewards(addr thor.Address, id uint64, penalty bool) ([]farming.Claim, error) {
	url := c.url + "/farming/users/" + addr.String() + "/stakes/" + strconv.FormatUint(id, 10) + "/rewards"
	if penalty {
		url += "?penalty=true"
	}

	body, err := c.httpGET(url)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve stake rewards - %w", err)
	}

	var rewards []farming.Claim
	if err = json.Unmarshal(body, &rewards); err != nil {
		return nil, fmt.Errorf("unable to unmarshal stake rewards - %w", err)
	}
	return rewards, nil
}

// Referrals retrieves the direct referrals of addr.
func (c *Client) Referrals(addr thor.Address) (*farming.Referrals, error) {
	body, err := c.httpGET(c.url + "/farming/users/" + addr.String() + "/referrals")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve referrals - %w", err)
	}

	var referrals farming.Referrals
	if err = json.Unmarshal(body, &referrals); err != nil {
		return nil, fmt.Errorf("unable to unmarshal referrals - %w", err)
	}
	return &referrals, nil
}

// Balance retrieves the token balance of holder.
func (c *Client) Balance(token, holder thor.Address) (*farming.Balance, error) {
	body, err := c.httpGET(c.url + "/farming/balances/" + token.String() + "/" + holder.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve balance - %w", err)
	}

	var balance farming.Balance
	if err = json.Unmarshal(body, &balance); err != nil {
		return nil, fmt.Errorf("unable to unmarshal balance - %w", err)
	}
	return &balance, nil
}

// SendTransaction sends a raw transaction and returns its receipt.
func (c *Client) SendTransaction(obj *transactions.RawTx) (*types.Receipt, error) {
	body, err := c.httpPOST(c.url+"/transactions", obj)
	if err != nil {
		return nil, fmt.Errorf("unable to send raw transaction - %w", err)
	}

	var receipt types.Receipt
	if err = json.Unmarshal(body, &receipt); err != nil {
		return nil, fmt.Errorf("unable to unmarshal send transaction result - %w", err)
	}
	return &receipt, nil
}

// Transaction retrieves a journaled transaction by its ID.
func (c *Client) Transaction(txID thor.Bytes32, raw bool) (*types.Tx, error) {
	url := c.url + "/transactions/" + txID.String()
	if raw {
		url += "?raw=true"
	}

	body, err := c.httpGET(url)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve transaction - %w", err)
	}

	var trx types.Tx
	if err = json.Unmarshal(body, &trx); err != nil {
		return nil, fmt.Errorf("unable to unmarshal transaction - %w", err)
	}
	return &trx, nil
}

// Transactions lists up to limit journaled transactions starting at seq from.
func (c *Client) Transactions(from, limit uint64) ([]*types.Tx, error) {
	url := c.url + "/transactions?from=" + strconv.FormatUint(from, 10) + "&limit=" + strconv.FormatUint(limit, 10)

	body, err := c.httpGET(url)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve transactions - %w", err)
	}

	var txs []*types.Tx
	if err = json.Unmarshal(body, &txs); err != nil {
		return nil, fmt.Errorf("unable to unmarshal transactions - %w", err)
	}
	return txs, nil
}

// FilterEvents filters journaled events based on the provided filter.
func (c *Client) FilterEvents(req *events.EventFilter) ([]*types.Event, error) {
	body, err := c.httpPOST(c.url+"/events", req)
	if err != nil {
		return nil, fmt.Errorf("unable to filter events - %w", err)
	}

	var filtered []*types.Event
	if err = json.Unmarshal(body, &filtered); err != nil {
		return nil, fmt.Errorf("unable to unmarshal events - %w", err)
	}
	return filtered, nil
}

// Head retrieves the head of the node.
func (c *Client) Head() (*apinode.Head, error) {
	body, err := c.httpGET(c.url + "/node/head")
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve head - %w", err)
	}

	var head apinode.Head
	if err = json.Unmarshal(body, &head); err != nil {
		return nil, fmt.Errorf("unable to unmarshal head - %w", err)
	}
	return &head, nil
}

// RawHTTPPost sends a raw HTTP POST request to the specified URL with the provided data.
func (c *Client) RawHTTPPost(url string, calldata any) ([]byte, int, error) {
	var data []byte
	var err error

	if raw, ok := calldata.([]byte); ok {
		data = raw
	} else {
		data, err = json.Marshal(calldata)
		if err != nil {
			return nil, 0, fmt.Errorf("unable to marshal payload - %w", err)
		}
	}

	return c.rawHTTPRequest(http.MethodPost, c.url+url, bytes.NewBuffer(data))
}

// RawHTTPGet sends a raw HTTP GET request to the specified URL.
func (c *Client) RawHTTPGet(url string) ([]byte, int, error) {
	return c.rawHTTPRequest(http.MethodGet, c.url+url, nil)
}

func (c *Client) httpGET(url string) ([]byte, error) {
	return c.httpRequest(http.MethodGet, url, nil)
}

func (c *Client) httpPOST(url string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal payload - %w", err)
	}
	return c.httpRequest(http.MethodPost, url, bytes.NewBuffer(data))
}

func (c *Client) httpRequest(method, url string, payload io.Reader) ([]byte, error) {
	body, statusCode, err := c.rawHTTPRequest(method, url, payload)
	if err != nil {
		return nil, err
	}
	if statusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if statusCode != http.StatusOK {
		return nil, fmt.Errorf("http error - Status Code %d - %s - %w", statusCode, bytes.TrimSpace(body), ErrNot200Status)
	}
	return body, nil
}

func (c *Client) rawHTTPRequest(method, url string, payload io.Reader) ([]byte, int, error) {
	req, err := http.NewRequest(method, url, payload)
	if err != nil {
		return nil, 0, fmt.Errorf("error creating request: %w", err)
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.c.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("error performing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("error reading response body: %w", err)
	}
	return body, resp.StatusCode, nil
}
