// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"log/slog"
)

// levelHandler filters records below lvl before they reach the formatting
// handler. The formatting handlers are built to accept every level, so lvl
// alone decides, and it is read on each record.
type levelHandler struct {
	lvl slog.Leveler
	h   slog.Handler
}

func newLevelHandler(lvl slog.Leveler, h slog.Handler) *levelHandler {
	return &levelHandler{lvl: lvl, h: h}
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.h.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.h.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{lvl: h.lvl, h: h.h.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{lvl: h.lvl, h: h.h.WithGroup(name)}
}
