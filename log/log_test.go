// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextLoggerFollowsRoot(t *testing.T) {
	logger := WithContext("pkg", "test")

	var buf bytes.Buffer
	SetDefault(JSONHandler(&buf, LevelDebug))
	defer SetDefault(DiscardHandler())

	logger.Info("staked", "amount", big.NewInt(1000), "rate", uint256.NewInt(7))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "staked", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, "1000", rec["amount"])
	assert.Equal(t, "7", rec["rate"])
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	SetDefault(LogfmtHandler(&buf, LevelWarn))
	defer SetDefault(DiscardHandler())

	Root().Debug("hidden")
	assert.Zero(t, buf.Len())

	Root().Warn("shown", "k", 1)
	assert.Contains(t, buf.String(), "shown")
}

func TestLevelVarChangesAtRuntime(t *testing.T) {
	var lvl slog.LevelVar
	lvl.Set(LevelInfo)

	var buf bytes.Buffer
	SetDefault(JSONHandler(&buf, &lvl))
	defer SetDefault(DiscardHandler())

	logger := WithContext("pkg", "test")
	logger.Debug("hidden")
	assert.Zero(t, buf.Len())

	lvl.Set(LevelDebug)
	logger.Debug("shown")
	assert.Contains(t, buf.String(), "shown")

	buf.Reset()
	lvl.Set(LevelError)
	logger.Warn("hidden again")
	assert.Zero(t, buf.Len())
}

func TestTerminalHandlerLevel(t *testing.T) {
	var lvl slog.LevelVar
	lvl.Set(LevelWarn)

	var buf bytes.Buffer
	h := TerminalHandler(&buf, &lvl, false)
	assert.False(t, h.Enabled(context.Background(), LevelInfo))
	assert.True(t, h.Enabled(context.Background(), LevelWarn))

	lvl.Set(LevelTrace)
	assert.True(t, h.Enabled(context.Background(), LevelTrace))
	assert.True(t, h.WithAttrs([]slog.Attr{slog.String("k", "v")}).Enabled(context.Background(), LevelTrace))
}
