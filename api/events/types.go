// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"fmt"
	"math"

	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/thor"
)

type EventCriteria struct {
	Name    *string       `json:"name"`
	Pool    *thor.Address `json:"pool"`
	User    *thor.Address `json:"user"`
	Token   *thor.Address `json:"token"`
	Account *thor.Address `json:"account"`
}

type Range struct {
	Unit eventdb.RangeType `json:"unit"`
	From *uint64           `json:"from,omitempty"`
	To   *uint64           `json:"to,omitempty"`
}

func (r *Range) Validate() error {
	switch r.Unit {
	case "", eventdb.Seq, eventdb.Time:
	default:
		return fmt.Errorf("range.unit: should be %q or %q", eventdb.Seq, eventdb.Time)
	}
	if r.From != nil && r.To != nil && *r.From > *r.To {
		return fmt.Errorf("range.to must be greater than or equal to range.from")
	}
	return nil
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

type EventFilter struct {
	CriteriaSet []*EventCriteria `json:"criteriaSet"`
	Range       *Range           `json:"range"`
	Options     *Options         `json:"options"`
	Order       eventdb.Order    `json:"order"`
}

// Validate checks the filter and fills the default options.
func (f *EventFilter) Validate(limit uint64) error {
	for i, c := range f.CriteriaSet {
		if c == nil {
			return fmt.Errorf("criteriaSet[%d]: null not allowed", i)
		}
	}
	if f.Range != nil {
		if err := f.Range.Validate(); err != nil {
			return err
		}
	}
	switch f.Order {
	case "", eventdb.ASC, eventdb.DESC:
	default:
		return fmt.Errorf("order: should be %q or %q", eventdb.ASC, eventdb.DESC)
	}
	if f.Options == nil {
		f.Options = &Options{Limit: limit}
	}
	if f.Options.Limit == 0 || f.Options.Limit > limit {
		return fmt.Errorf("options.limit: should be in [1, %d]", limit)
	}
	if f.Options.Offset > math.MaxInt64 {
		return fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64))
	}
	return nil
}

func convertEventFilter(f *EventFilter) *eventdb.EventFilter {
	out := &eventdb.EventFilter{
		Options: &eventdb.Options{Offset: f.Options.Offset, Limit: f.Options.Limit},
		Order:   f.Order,
	}
	for _, c := range f.CriteriaSet {
		out.CriteriaSet = append(out.CriteriaSet, &eventdb.EventCriteria{
			Name:    c.Name,
			Pool:    c.Pool,
			User:    c.User,
			Token:   c.Token,
			Account: c.Account,
		})
	}
	if f.Range != nil {
		r := &eventdb.Range{Unit: eventdb.Seq, To: math.MaxInt64}
		if f.Range.Unit == eventdb.Time {
			r.Unit = eventdb.Time
		}
		if f.Range.From != nil {
			r.From = *f.Range.From
		}
		if f.Range.To != nil {
			r.To = *f.Range.To
		}
		out.Range = r
	}
	return out
}
