// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventdb journals applied transactions and their events in sqlite.
package eventdb

import (
	"context"
	"database/sql"
	"math/big"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/yieldfarm/thor"
)

const (
	insertTxQuery = "INSERT INTO tx(seq, time, id, origin, nonce, method, raw, reverted, reason, gasUsed, root) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	insertEventQuery = "INSERT INTO event(seq, idx, time, txID, name, pool, user, stakeID, token, amount, account, level, param, value) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"

	selectTxQuery    = "SELECT seq, time, id, origin, nonce, method, raw, reverted, reason, gasUsed, root FROM tx"
	selectEventQuery = "SELECT seq, idx, time, txID, name, pool, user, stakeID, token, amount, account, level, param, value FROM event"
)

type EventDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmtCache     *stmtCache
}

// New create or open event db at given path.
func New(path string) (*EventDB, error) {
	return open(path, path+"?_journal=wal")
}

// NewMem create an event db in ram.
func NewMem() (*EventDB, error) {
	return open(":memory:", ":memory:")
}

func open(path, dsn string) (eventDB *EventDB, err error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventDB == nil {
			db.Close()
		}
	}()
	// sqlite allows one writer at a time, and a memory db lives in its connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(txTableSchema + eventTableSchema); err != nil {
		return nil, errors.Wrap(err, "create tables")
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventDB{
		path,
		db,
		driverVer,
		newStmtCache(db),
	}, nil
}

// Close close the event db.
func (db *EventDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *EventDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the linked sqlite.
func (db *EventDB) DriverVersion() string {
	return db.driverVersion
}

// Write journals a transaction and its events atomically.
func (db *EventDB) Write(tx *Tx, events []*Event) error {
	// prepare ahead, the only connection is taken by the sql tx
	txStmt, err := db.stmtCache.Prepare(insertTxQuery)
	if err != nil {
		return err
	}
	eventStmt, err := db.stmtCache.Prepare(insertEventQuery)
	if err != nil {
		return err
	}
	return db.execInTx(func(sqlTx *sql.Tx) error {
		if _, err := sqlTx.Stmt(txStmt).Exec(
			tx.Seq,
			tx.Time,
			tx.ID.Bytes(),
			tx.Origin.Bytes(),
			tx.Nonce,
			tx.Method,
			tx.Raw,
			tx.Reverted,
			tx.Reason,
			tx.GasUsed,
			tx.Root.Bytes(),
		); err != nil {
			return errors.Wrap(err, "insert tx")
		}

		stmt := sqlTx.Stmt(eventStmt)
		for _, ev := range events {
			if _, err := stmt.Exec(
				ev.Seq,
				ev.Index,
				ev.Time,
				ev.TxID.Bytes(),
				ev.Name,
				addressValue(ev.Pool),
				addressValue(ev.User),
				ev.StakeID,
				addressValue(ev.Token),
				amountValue(ev.Amount),
				addressValue(ev.Account),
				ev.Level,
				ev.Param,
				ev.Value,
			); err != nil {
				return errors.Wrap(err, "insert event")
			}
		}
		return nil
	})
}

func (db *EventDB) execInTx(proc func(*sql.Tx) error) error {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	if err := proc(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// LastSeq returns the sequence of the latest journaled tx, and false if none.
func (db *EventDB) LastSeq(ctx context.Context) (uint64, bool, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRowContext(ctx, "SELECT MAX(seq) FROM tx").Scan(&seq); err != nil {
		return 0, false, err
	}
	if !seq.Valid {
		return 0, false, nil
	}
	return uint64(seq.Int64), true, nil
}

// TxByID returns the journaled tx with the given id, or nil if not found.
func (db *EventDB) TxByID(ctx context.Context, id thor.Bytes32) (*Tx, error) {
	txs, err := db.queryTxs(ctx, selectTxQuery+" WHERE id = ?", id.Bytes())
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, nil
	}
	return txs[0], nil
}

// Txs returns up to limit journaled txs with seq >= from, in order.
func (db *EventDB) Txs(ctx context.Context, from uint64, limit uint64) ([]*Tx, error) {
	return db.queryTxs(ctx, selectTxQuery+" WHERE seq >= ? ORDER BY seq ASC LIMIT ?", from, limit)
}

// CountTxs returns the count of journaled txs.
func (db *EventDB) CountTxs(ctx context.Context) (uint64, error) {
	var n uint64
	if err := db.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tx").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// FilterEvents returns events matching filter.
func (db *EventDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, selectEventQuery+" ORDER BY seq ASC, idx ASC")
	}
	metricsHandleEventsFilter(filter)

	var (
		args []any
		stmt strings.Builder
	)
	stmt.WriteString(selectEventQuery + " WHERE 1")
	if filter.Range != nil {
		condition := "seq"
		if filter.Range.Unit == Time {
			condition = "time"
		}
		args = append(args, filter.Range.From)
		stmt.WriteString(" AND " + condition + " >= ?")
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt.WriteString(" AND " + condition + " <= ?")
		}
	}

	if len(filter.CriteriaSet) > 0 {
		stmt.WriteString(" AND (")
		for i, c := range filter.CriteriaSet {
			if i > 0 {
				stmt.WriteString(" OR ")
			}
			stmt.WriteString("(1")
			if c.Name != nil {
				args = append(args, *c.Name)
				stmt.WriteString(" AND name = ?")
			}
			if c.Pool != nil {
				args = append(args, c.Pool.Bytes())
				stmt.WriteString(" AND pool = ?")
			}
			if c.User != nil {
				args = append(args, c.User.Bytes())
				stmt.WriteString(" AND user = ?")
			}
			if c.Token != nil {
				args = append(args, c.Token.Bytes())
				stmt.WriteString(" AND token = ?")
			}
			if c.Account != nil {
				args = append(args, c.Account.Bytes())
				stmt.WriteString(" AND account = ?")
			}
			stmt.WriteString(")")
		}
		stmt.WriteString(")")
	}

	if filter.Order == DESC {
		stmt.WriteString(" ORDER BY seq DESC, idx DESC")
	} else {
		stmt.WriteString(" ORDER BY seq ASC, idx ASC")
	}

	if filter.Options != nil {
		stmt.WriteString(" LIMIT ?, ?")
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt.String(), args...)
}

func (db *EventDB) queryTxs(ctx context.Context, query string, args ...any) ([]*Tx, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []*Tx
	for rows.Next() {
		var (
			tx     Tx
			id     []byte
			origin []byte
			root   []byte
		)
		if err := rows.Scan(
			&tx.Seq,
			&tx.Time,
			&id,
			&origin,
			&tx.Nonce,
			&tx.Method,
			&tx.Raw,
			&tx.Reverted,
			&tx.Reason,
			&tx.GasUsed,
			&root,
		); err != nil {
			return nil, err
		}
		tx.ID = thor.BytesToBytes32(id)
		tx.Origin = thor.BytesToAddress(origin)
		tx.Root = thor.BytesToBytes32(root)
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

func (db *EventDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			ev      Event
			txID    []byte
			pool    []byte
			user    []byte
			token   []byte
			amount  []byte
			account []byte
		)
		if err := rows.Scan(
			&ev.Seq,
			&ev.Index,
			&ev.Time,
			&txID,
			&ev.Name,
			&pool,
			&user,
			&ev.StakeID,
			&token,
			&amount,
			&account,
			&ev.Level,
			&ev.Param,
			&ev.Value,
		); err != nil {
			return nil, err
		}
		ev.TxID = thor.BytesToBytes32(txID)
		ev.Pool = thor.BytesToAddress(pool)
		ev.User = thor.BytesToAddress(user)
		ev.Token = thor.BytesToAddress(token)
		ev.Account = thor.BytesToAddress(account)
		if amount != nil {
			ev.Amount = new(big.Int).SetBytes(amount)
		}
		events = append(events, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// zero addresses are stored as NULL
func addressValue(addr thor.Address) []byte {
	if addr.IsZero() {
		return nil
	}
	return addr.Bytes()
}

func amountValue(amount *big.Int) []byte {
	if amount == nil {
		return nil
	}
	// big.Int.Bytes of zero is empty, which sqlite would not tell apart from NULL
	return append([]byte{0}, amount.Bytes()...)
}
