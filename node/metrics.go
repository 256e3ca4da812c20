// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"time"

	"github.com/vechain/yieldfarm/metrics"
)

var (
	metricTxCount    = metrics.LazyLoadCounterVec("node_tx_count", []string{"status"})
	metricTxDuration = metrics.LazyLoadHistogramVec("node_tx_duration_us", []string{"status"}, metrics.BucketExecMicros)
	metricTxGasUsed  = metrics.LazyLoadHistogram("node_tx_gas_used", []int64{21_000, 50_000, 100_000, 250_000, 500_000, 1_000_000})
	metricLastSeq    = metrics.LazyLoadGauge("node_last_seq")
	metricClockDrift = metrics.LazyLoadGauge("node_clock_offset_ms")
)

// evalTxMetrics captures tx application metrics.
func evalTxMetrics(f func() (*Receipt, error)) (*Receipt, error) {
	startTime := time.Now()

	receipt, err := f()
	status := "applied"
	switch {
	case err != nil:
		status = "rejected"
	case receipt.Reverted:
		status = "reverted"
	}
	labels := map[string]string{"status": status}
	metricTxCount().AddWithLabel(1, labels)
	metricTxDuration().ObserveWithLabels(time.Since(startTime).Microseconds(), labels)
	if receipt != nil {
		metricTxGasUsed().Observe(int64(receipt.GasUsed))
		metricLastSeq().Set(int64(receipt.Seq))
	}
	return receipt, err
}
