// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/vechain/yieldfarm/metrics"

var (
	metricStorageAccess = metrics.LazyLoadCounterVec("state_storage_access_count", []string{"target"})
	metricStorageWrites = metrics.LazyLoadCounter("state_storage_write_count")
	metricCacheHitRate  = metrics.LazyLoadGauge("state_cache_hit_rate_permille")
	metricCacheResets   = metrics.LazyLoadCounter("state_cache_reset_count")
)
