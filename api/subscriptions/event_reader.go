// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"

	"github.com/vechain/yieldfarm/api/types"
	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/node"
)

// seqs read at most per call
const readBatch = 100

type eventReader struct {
	node     *node.Node
	db       *eventdb.EventDB
	criteria *eventdb.EventCriteria
	next     uint64
}

func newEventReader(n *node.Node, db *eventdb.EventDB, next uint64, criteria *eventdb.EventCriteria) *eventReader {
	return &eventReader{
		node:     n,
		db:       db,
		criteria: criteria,
		next:     next,
	}
}

// Read returns the matched events of the txs applied since the last read.
func (er *eventReader) Read(ctx context.Context) ([]any, bool, error) {
	head, _ := er.node.Head()
	if er.next > head {
		return nil, false, nil
	}
	to := min(head, er.next+readBatch-1)
	events, err := er.db.FilterEvents(ctx, &eventdb.EventFilter{
		CriteriaSet: []*eventdb.EventCriteria{er.criteria},
		Range:       &eventdb.Range{Unit: eventdb.Seq, From: er.next, To: to},
	})
	if err != nil {
		return nil, false, err
	}
	msgs := make([]any, 0, len(events))
	for _, ev := range events {
		msgs = append(msgs, types.ConvertJournaledEvent(ev))
	}
	er.next = to + 1
	return msgs, to < head, nil
}
