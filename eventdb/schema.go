// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

// the transaction journal, in the order of application
const txTableSchema = `CREATE TABLE IF NOT EXISTS tx (
	seq INTEGER PRIMARY KEY,
	time INTEGER NOT NULL,
	id BLOB NOT NULL,
	origin BLOB NOT NULL,
	nonce INTEGER NOT NULL,
	method TEXT NOT NULL,
	raw BLOB NOT NULL,
	reverted INTEGER NOT NULL,
	reason TEXT NOT NULL,
	gasUsed INTEGER NOT NULL,
	root BLOB NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS tx_i_id ON tx(id);
CREATE INDEX IF NOT EXISTS tx_i_origin ON tx(origin, seq);
CREATE INDEX IF NOT EXISTS tx_i_time ON tx(time);`

// events of applied transactions
const eventTableSchema = `CREATE TABLE IF NOT EXISTS event (
	seq INTEGER NOT NULL,
	idx INTEGER NOT NULL,
	time INTEGER NOT NULL,
	txID BLOB NOT NULL,
	name TEXT NOT NULL,
	pool BLOB,
	user BLOB,
	stakeID INTEGER NOT NULL,
	token BLOB,
	amount BLOB,
	account BLOB,
	level INTEGER NOT NULL,
	param TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (seq, idx)
);

CREATE INDEX IF NOT EXISTS event_i_name ON event(name);
CREATE INDEX IF NOT EXISTS event_i_pool ON event(pool);
CREATE INDEX IF NOT EXISTS event_i_user ON event(user);
CREATE INDEX IF NOT EXISTS event_i_account ON event(account);
CREATE INDEX IF NOT EXISTS event_i_time ON event(time);`
