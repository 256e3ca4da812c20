// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package httpserver

import (
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/yieldfarm/metrics"
	"github.com/vechain/yieldfarm/test/testnode"
)

func TestStartMetricsServer(t *testing.T) {
	metrics.InitializePrometheusMetrics()
	metrics.Counter("httpserver_test_count").Add(3)

	url, closeFunc, err := StartMetricsServer("127.0.0.1:0")
	require.NoError(t, err)
	defer closeFunc()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "yieldfarm_httpserver_test_count 3")
}

func TestStartMetricsServerBadAddr(t *testing.T) {
	_, _, err := StartMetricsServer("not-an-addr")
	assert.ErrorContains(t, err, "listen metrics API addr")
}

func TestStartAdminServer(t *testing.T) {
	n, err := testnode.New()
	require.NoError(t, err)
	defer n.Close()

	var (
		logLevel slog.LevelVar
		apiLogs  atomic.Bool
	)
	url, closeFunc, err := StartAdminServer("127.0.0.1:0", &logLevel, &apiLogs, n.Node)
	require.NoError(t, err)
	defer closeFunc()

	resp, err := http.Get(url + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
