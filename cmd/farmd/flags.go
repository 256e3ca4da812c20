// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	genesisFlag = cli.StringFlag{
		Name:   "genesis",
		Usage:  "path to the farm genesis file (yaml)",
		EnvVar: "FARMD_GENESIS",
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for state and journal databases",
		EnvVar: "FARMD_DATA_DIR",
	}
	cacheFlag = cli.IntFlag{
		Name:   "cache",
		Usage:  "megabytes of ram allocated to state cache",
		Value:  1024,
		EnvVar: "FARMD_CACHE",
	}
	txGasLimitFlag = cli.Uint64Flag{
		Name:   "tx-gas-limit",
		Usage:  "max gas a single tx may consume (default limit if set to 0)",
		EnvVar: "FARMD_TX_GAS_LIMIT",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8669",
		Usage:  "API service listening address",
		EnvVar: "FARMD_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "FARMD_API_CORS",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:   "api-timeout",
		Value:  10000,
		Usage:  "API request timeout value in milliseconds",
		EnvVar: "FARMD_API_TIMEOUT",
	}
	apiBacktraceLimitFlag = cli.Uint64Flag{
		Name:   "api-backtrace-limit",
		Value:  1000,
		Usage:  "limit the distance between 'pos' and head for the subscriptions API",
		EnvVar: "FARMD_API_BACKTRACE_LIMIT",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:   "api-events-limit",
		Value:  1000,
		Usage:  "limit the number of events returned by /events API",
		EnvVar: "FARMD_API_EVENTS_LIMIT",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:   "enable-api-logs",
		Usage:  "enables API requests logging",
		EnvVar: "FARMD_ENABLE_API_LOGS",
	}
	apiSlowQueriesThresholdFlag = cli.IntFlag{
		Name:   "api-slow-queries-threshold",
		Value:  0,
		Usage:  "milliseconds after which a request is logged even if API logs are off (disabled if set to 0)",
		EnvVar: "FARMD_API_SLOW_QUERIES_THRESHOLD",
	}
	pprofFlag = cli.BoolFlag{
		Name:  "pprof",
		Usage: "turn on go-pprof",
	}
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (0-5)",
		EnvVar: "FARMD_VERBOSITY",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:   "json-logs",
		Usage:  "output logs in JSON format",
		EnvVar: "FARMD_JSON_LOGS",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:   "enable-metrics",
		Usage:  "enables metrics collection",
		EnvVar: "FARMD_ENABLE_METRICS",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:   "metrics-addr",
		Value:  "localhost:2112",
		Usage:  "metrics service listening address",
		EnvVar: "FARMD_METRICS_ADDR",
	}
	enableAdminFlag = cli.BoolFlag{
		Name:   "enable-admin",
		Usage:  "enables admin server",
		EnvVar: "FARMD_ENABLE_ADMIN",
	}
	adminAddrFlag = cli.StringFlag{
		Name:   "admin-addr",
		Value:  "localhost:2113",
		Usage:  "admin service listening address",
		EnvVar: "FARMD_ADMIN_ADDR",
	}

	// solo mode only
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "save state and journal to data-dir instead of memory",
	}

	// replay only
	replayTargetFlag = cli.StringFlag{
		Name:  "target",
		Usage: "directory to rebuild the state into (in memory if not set)",
	}
)
