// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"strings"

	"github.com/vechain/yieldfarm/metrics"
)

var (
	metricCriteriaLengthBucket = metrics.LazyLoadHistogram("eventdb_criteria_length_bucket", []int64{0, 2, 5, 10, 25, 100})
	metricQueryParameters      = metrics.LazyLoadCounterVec("eventdb_query_parameters", []string{"parameters"})
	metricQueryOrderCounter    = metrics.LazyLoadCounterVec("eventdb_query_order", []string{"order"})
	metricLimitBucket          = metrics.LazyLoadHistogram("eventdb_query_limit_bucket", []int64{0, 5, 10, 25, 50, 100, 250, 500, 1000})
)

func metricsHandleEventsFilter(filter *EventFilter) {
	if metrics.NoOp() {
		return
	}

	metricCriteriaLengthBucket().Observe(int64(len(filter.CriteriaSet)))
	if filter.Order == DESC {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "desc"})
	} else {
		metricQueryOrderCounter().AddWithLabel(1, map[string]string{"order": "asc"})
	}
	if filter.Options != nil {
		limit := filter.Options.Limit
		if limit > 1000 {
			limit = 1001
		}
		metricLimitBucket().Observe(int64(limit))
	}

	for _, c := range filter.CriteriaSet {
		paramsUsed := make([]string, 0, 5)
		if c.Name != nil {
			paramsUsed = append(paramsUsed, "name")
		}
		if c.Pool != nil {
			paramsUsed = append(paramsUsed, "pool")
		}
		if c.User != nil {
			paramsUsed = append(paramsUsed, "user")
		}
		if c.Token != nil {
			paramsUsed = append(paramsUsed, "token")
		}
		if c.Account != nil {
			paramsUsed = append(paramsUsed, "account")
		}
		metricQueryParameters().AddWithLabel(1, map[string]string{"parameters": strings.Join(paramsUsed, ",")})
	}
}
