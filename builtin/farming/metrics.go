// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package farming

import "github.com/vechain/yieldfarm/metrics"

var (
	metricOperations  = metrics.LazyLoadCounterVec("farming_operations_count", []string{"op", "result"})
	metricRewardsPaid = metrics.LazyLoadCounterVec("farming_payouts_count", []string{"kind"})
)
