// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package node applies signed transactions to the farm state one at a time.
package node

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/event"
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/builtin"
	"github.com/vechain/yieldfarm/builtin/farming"
	"github.com/vechain/yieldfarm/builtin/farming/reverts"
	"github.com/vechain/yieldfarm/builtin/gascharger"
	"github.com/vechain/yieldfarm/co"
	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/genesis"
	"github.com/vechain/yieldfarm/kv"
	"github.com/vechain/yieldfarm/log"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
	"github.com/vechain/yieldfarm/tx"
)

var logger = log.WithContext("pkg", "node")

var (
	ErrBadChainTag  = errors.New("bad chain tag")
	ErrBadSignature = errors.New("bad signature")
	ErrBadNonce     = errors.New("bad nonce")
	ErrGasTooHigh   = errors.New("gas exceeds limit")
	ErrNodeClosed   = errors.New("node closed")
	errOutOfGas     = reverts.New("out of gas")
)

// IsRejected returns whether err tells a tx was refused without being applied.
func IsRejected(err error) bool {
	for _, target := range []error{ErrBadChainTag, ErrBadSignature, ErrBadNonce, ErrGasTooHigh} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GenesisMethod is the method journaled for the genesis state at seq 0.
const GenesisMethod = "genesis"

// Options for Node.
type Options struct {
	GasLimit uint64 // per tx, thor.DefaultTxGasLimit if zero
	Clock    Clock  // SystemClock if nil
	Cache    *state.Cache
}

// Node is the single writer of the farm state.
type Node struct {
	store    kv.Store
	eventDB  *eventdb.EventDB
	cache    *state.Cache
	clock    Clock
	gasLimit uint64
	chainTag byte
	genesis  *genesis.Genesis

	lock     sync.Mutex
	seq      uint64
	lastTime uint64
	root     thor.Bytes32
	closed   bool
	halted   error

	goes         co.Goes
	tick         co.Signal
	receiptsFeed event.Feed
	scope        event.SubscriptionScope
}

// New opens the node on store, building the genesis state when the store is empty.
func New(store kv.Store, eventDB *eventdb.EventDB, gene *genesis.Genesis, opts Options) (*Node, error) {
	n := &Node{
		store:    store,
		eventDB:  eventDB,
		cache:    opts.Cache,
		clock:    opts.Clock,
		gasLimit: opts.GasLimit,
		chainTag: gene.ChainTag(),
		genesis:  gene,
	}
	if n.clock == nil {
		n.clock = SystemClock{}
	}
	if n.gasLimit == 0 {
		n.gasLimit = thor.DefaultTxGasLimit
	}

	root, err := state.New(store, nil).Root()
	if err != nil {
		return nil, err
	}
	if root.IsZero() {
		if err := n.initGenesis(); err != nil {
			return nil, errors.Wrap(err, "init genesis")
		}
		return n, nil
	}
	n.root = root

	ctx := context.Background()
	last, ok, err := eventDB.LastSeq(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load last seq")
	}
	if !ok {
		return nil, errors.New("event journal is empty while state is not")
	}
	lastTx, err := eventDB.Txs(ctx, last, 1)
	if err != nil {
		return nil, errors.Wrap(err, "load last tx")
	}
	if len(lastTx) != 1 || lastTx[0].Root != root {
		return nil, errors.New("event journal does not match state, replay the journal to rebuild")
	}
	n.seq = last
	n.lastTime = lastTx[0].Time
	logger.Info("node loaded", "seq", n.seq, "root", n.root)
	return n, nil
}

func (n *Node) initGenesis() error {
	root, events, err := n.genesis.Build(n.store)
	if err != nil {
		return err
	}
	launch := n.genesis.LaunchTime()
	if err := n.eventDB.Write(&eventdb.Tx{
		Seq:    0,
		Time:   launch,
		ID:     n.genesis.ID(),
		Method: GenesisMethod,
		Raw:    []byte{},
		Root:   root,
	}, journalEvents(0, launch, n.genesis.ID(), events)); err != nil {
		return err
	}
	n.root = root
	n.lastTime = launch
	logger.Info("genesis built", "id", n.genesis.ID(), "root", root)
	return nil
}

// Run runs background routines until ctx is done.
func (n *Node) Run(ctx context.Context) error {
	n.goes.Go(func() { n.houseKeeping(ctx) })
	<-ctx.Done()
	n.goes.Wait()
	return nil
}

// Close stops delivering receipts to subscribers.
func (n *Node) Close() {
	n.lock.Lock()
	n.closed = true
	n.lock.Unlock()
	n.scope.Close()
}

// Halted returns the journal failure that stopped the node, nil while healthy.
func (n *Node) Halted() error {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.halted
}

// ChainTag returns the tag txs must carry.
func (n *Node) ChainTag() byte {
	return n.chainTag
}

// Genesis returns the genesis the node was built on.
func (n *Node) Genesis() *genesis.Genesis {
	return n.genesis
}

// Head returns the seq of the last applied tx and the state root after it.
func (n *Node) Head() (uint64, thor.Bytes32) {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.seq, n.root
}

// Now returns the time the next tx would run at.
func (n *Node) Now() uint64 {
	n.lock.Lock()
	defer n.lock.Unlock()
	return n.now()
}

// time never goes backwards
func (n *Node) now() uint64 {
	if now := n.clock.Now(); now > n.lastTime {
		return now
	}
	return n.lastTime
}

// Farming returns a view of the committed farm at the current time.
// Writes to it are never committed.
func (n *Node) Farming() *farming.Farming {
	n.lock.Lock()
	env := farming.Env{Time: n.now(), Seq: n.seq}
	n.lock.Unlock()
	return builtin.Farming.WithState(state.New(n.store, n.cache), env, nil)
}

// Nonce returns the nonce the next tx of addr must carry.
func (n *Node) Nonce(addr thor.Address) (uint64, error) {
	return newNonces(state.New(n.store, n.cache)).Get(addr)
}

// NewTicker returns a waiter signaled each time a tx is applied.
func (n *Node) NewTicker() co.Waiter {
	return n.tick.NewWaiter()
}

// SubscribeReceipts subscribes receipts of applied txs.
func (n *Node) SubscribeReceipts(ch chan *Receipt) event.Subscription {
	return n.scope.Track(n.receiptsFeed.Subscribe(ch))
}

// Apply executes trx and commits its outcome. A tx failing with a revert is
// still applied: its nonce is consumed and the receipt is marked reverted.
// An error is returned only when the tx is rejected.
func (n *Node) Apply(trx *tx.Transaction) (*Receipt, error) {
	receipt, err := evalTxMetrics(func() (*Receipt, error) {
		return n.apply(trx)
	})
	if err != nil {
		return nil, err
	}
	n.tick.Broadcast()
	n.receiptsFeed.Send(receipt)
	return receipt, nil
}

func (n *Node) apply(trx *tx.Transaction) (*Receipt, error) {
	if trx.ChainTag() != n.chainTag {
		return nil, ErrBadChainTag
	}
	origin, err := trx.Origin()
	if err != nil {
		return nil, errors.WithMessage(ErrBadSignature, err.Error())
	}
	gas := trx.Gas()
	if gas == 0 {
		gas = n.gasLimit
	}
	if gas > n.gasLimit {
		return nil, ErrGasTooHigh
	}

	n.lock.Lock()
	defer n.lock.Unlock()
	if n.closed {
		return nil, ErrNodeClosed
	}

	st := state.New(n.store, n.cache)
	nonces := newNonces(st)
	nonce, err := nonces.Get(origin)
	if err != nil {
		return nil, err
	}
	if trx.Nonce() != nonce {
		return nil, errors.WithMessagef(ErrBadNonce, "want %d, got %d", nonce, trx.Nonce())
	}
	if err := nonces.Increase(origin); err != nil {
		return nil, err
	}

	var (
		seq     = n.seq + 1
		now     = n.now()
		charger = gascharger.New(gas)
		clause  = trx.Clause()
		receipt = &Receipt{
			Seq:    seq,
			Time:   now,
			TxID:   trx.ID(),
			Origin: origin,
			Method: trx.Method(),
		}
	)
	charger.Intrinsic()

	checkpoint := st.NewCheckpoint()
	out, err := builtin.Call(st, origin, &clause, farming.Env{Time: now, Seq: seq}, charger.Meter)
	if err == nil && charger.OutOfGas() {
		err = errOutOfGas
	}
	if err != nil {
		if !reverts.IsRevertErr(err) {
			return nil, errors.Wrap(err, "execute")
		}
		st.RevertTo(checkpoint)
		receipt.Reverted = true
		receipt.Reason = reverts.Reason(err)
		logger.Debug("tx reverted", "id", receipt.TxID, "method", receipt.Method, "reason", receipt.Reason)
	} else {
		receipt.Output = out.Value
		receipt.Events = out.Events
	}
	receipt.GasUsed = charger.TotalGas()
	if receipt.GasUsed > gas {
		receipt.GasUsed = gas
	}
	logger.Trace("gas used", "id", receipt.TxID, "breakdown", charger.Breakdown())

	stage, err := st.Stage()
	if err != nil {
		return nil, err
	}
	root, err := stage.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "commit state")
	}
	receipt.Root = root

	raw, err := trx.MarshalBinary()
	if err != nil {
		return nil, err
	}
	if err := n.eventDB.Write(&eventdb.Tx{
		Seq:      seq,
		Time:     now,
		ID:       receipt.TxID,
		Origin:   origin,
		Nonce:    trx.Nonce(),
		Method:   string(receipt.Method),
		Raw:      raw,
		Reverted: receipt.Reverted,
		Reason:   receipt.Reason,
		GasUsed:  receipt.GasUsed,
		Root:     root,
	}, journalEvents(seq, now, receipt.TxID, receipt.Events)); err != nil {
		// the state is ahead of the journal from now on, only a replay can reconcile them
		err = errors.Wrap(err, "journal tx")
		logger.Error("node halted", "seq", seq, "err", err)
		n.closed = true
		n.halted = err
		return nil, err
	}

	n.seq = seq
	n.root = root
	n.lastTime = now
	return receipt, nil
}

func journalEvents(seq, time uint64, txID thor.Bytes32, events []*farming.Event) []*eventdb.Event {
	out := make([]*eventdb.Event, 0, len(events))
	for i, ev := range events {
		out = append(out, &eventdb.Event{
			Seq:     seq,
			Index:   uint32(i),
			Time:    time,
			TxID:    txID,
			Name:    ev.Name,
			Pool:    ev.Pool,
			User:    ev.User,
			StakeID: ev.StakeID,
			Token:   ev.Token,
			Amount:  ev.Amount,
			Account: ev.Account,
			Level:   ev.Level,
			Param:   ev.Param,
			Value:   ev.Value,
		})
	}
	return out
}
