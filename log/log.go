// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's slog based logger.
// Package level loggers are created with WithContext at init time and
// always write through the current root, so SetDefault takes effect
// for them too.
package log

import (
	"io"
	"log/slog"
	"math/big"

	ethlog "github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Levels re-exported for callers that do not import go-ethereum directly.
const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
}

type contextLogger struct {
	ctx []any
}

func (l *contextLogger) root() ethlog.Logger {
	return ethlog.Root().With(l.ctx...)
}

func (l *contextLogger) Trace(msg string, ctx ...any) { l.root().Trace(msg, format(ctx)...) }
func (l *contextLogger) Debug(msg string, ctx ...any) { l.root().Debug(msg, format(ctx)...) }
func (l *contextLogger) Info(msg string, ctx ...any)  { l.root().Info(msg, format(ctx)...) }
func (l *contextLogger) Warn(msg string, ctx ...any)  { l.root().Warn(msg, format(ctx)...) }
func (l *contextLogger) Error(msg string, ctx ...any) { l.root().Error(msg, format(ctx)...) }
func (l *contextLogger) Crit(msg string, ctx ...any)  { l.root().Crit(msg, format(ctx)...) }

// WithContext returns a logger carrying the given key/value pairs.
func WithContext(ctx ...any) Logger {
	return &contextLogger{ctx}
}

// Root returns the root logger.
func Root() Logger {
	return &contextLogger{}
}

// SetDefault replaces the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// TerminalHandler human friendly output, coloured when useColor is set.
// lvl may be a *slog.LevelVar to change the level at runtime.
func TerminalHandler(w io.Writer, lvl slog.Leveler, useColor bool) slog.Handler {
	return newLevelHandler(lvl, ethlog.NewTerminalHandlerWithLevel(w, LevelTrace, useColor))
}

// JSONHandler one json object per record.
func JSONHandler(w io.Writer, lvl slog.Leveler) slog.Handler {
	return newLevelHandler(lvl, ethlog.JSONHandlerWithLevel(w, LevelTrace))
}

// LogfmtHandler logfmt formatted records.
func LogfmtHandler(w io.Writer, lvl slog.Leveler) slog.Handler {
	return newLevelHandler(lvl, ethlog.LogfmtHandlerWithLevel(w, LevelTrace))
}

// DiscardHandler drops every record.
func DiscardHandler() slog.Handler {
	return ethlog.DiscardHandler()
}

// FromVerbosity maps the legacy 0..5 verbosity flag onto slog levels.
func FromVerbosity(v int) slog.Level {
	return ethlog.FromLegacyLevel(v)
}

// format renders amounts as decimal strings so handlers never print pointers.
func format(ctx []any) []any {
	for i := 1; i < len(ctx); i += 2 {
		switch v := ctx[i].(type) {
		case *big.Int:
			if v == nil {
				ctx[i] = "<nil>"
			} else {
				ctx[i] = v.String()
			}
		case *uint256.Int:
			if v == nil {
				ctx[i] = "<nil>"
			} else {
				ctx[i] = v.Dec()
			}
		}
	}
	return ctx
}
