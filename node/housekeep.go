// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package node

import (
	"context"
	"time"

	"github.com/beevik/ntp"
	"github.com/ethereum/go-ethereum/common"
)

const (
	clockCheckInterval = 10 * time.Minute
	// stake start days and penalties are computed in seconds
	maxClockOffset = 2 * time.Second
)

var ntpServer = "pool.ntp.org"

func (n *Node) houseKeeping(ctx context.Context) {
	logger.Debug("enter house keeping")
	defer logger.Debug("leave house keeping")

	if _, ok := n.clock.(SystemClock); !ok {
		return
	}

	ticker := time.NewTicker(clockCheckInterval)
	defer ticker.Stop()

	checkClockOffset()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkClockOffset()
		}
	}
}

func checkClockOffset() {
	resp, err := ntp.Query(ntpServer)
	if err != nil {
		logger.Debug("failed to access NTP", "err", err)
		return
	}
	metricClockDrift().Set(resp.ClockOffset.Milliseconds())
	if resp.ClockOffset > maxClockOffset || resp.ClockOffset < -maxClockOffset {
		logger.Warn("clock offset detected", "offset", common.PrettyDuration(resp.ClockOffset))
	}
}
