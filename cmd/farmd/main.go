// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"runtime"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/yieldfarm/api"
	"github.com/vechain/yieldfarm/co"
	"github.com/vechain/yieldfarm/log"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "farmd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func fullName(name string) string {
	return fmt.Sprintf("%s/v%s/%s/%s", name, fullVersion(), runtime.GOOS, runtime.Version())
}

func main() {
	// flags fall back to FARMD_* variables, which may come from a .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "load .env:", err)
		os.Exit(1)
	}

	app := cli.App{
		Version:   fullVersion(),
		Name:      "Farmd",
		Usage:     "Node of the multi-pool staking farm",
		Copyright: "2018 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			cacheFlag,
			txGasLimitFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "run a farm of dev accounts for test & dev",
				Flags: []cli.Flag{
					dataDirFlag,
					cacheFlag,
					txGasLimitFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiBacktraceLimitFlag,
					apiEventsLimitFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					pprofFlag,
					persistFlag,
					verbosityFlag,
					jsonLogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					enableAdminFlag,
					adminAddrFlag,
				},
				Action: soloAction,
			},
			{
				Name:  "replay",
				Usage: "re-apply the transaction journal onto a fresh state and check the roots",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					replayTargetFlag,
					txGasLimitFlag,
					verbosityFlag,
					jsonLogsFlag,
				},
				Action: replayAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	metricsURL, closeMetrics := startMetricsServer(ctx)
	defer closeMetrics()

	gene := loadGenesis(ctx)
	instanceDir := makeInstanceDir(ctx, gene)

	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	mainDB := openMainDB(cacheMB, instanceDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	eventDB := openEventDB(instanceDir)
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	n := newNode(ctx, mainDB, eventDB, gene, cacheMB)
	defer func() { logger.Info("closing node..."); n.Close() }()

	apiLogs := new(atomic.Bool)
	apiHandler, apiCloser := api.New(n, eventDB, apiOptions(ctx, apiLogs))
	defer func() { logger.Info("closing API..."); apiCloser() }()

	apiURL, srvCloser := startAPIServer(ctx, apiHandler)
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	adminURL, adminCloser := startAdminServer(ctx, logLevel, apiLogs, n)
	defer adminCloser()

	printStartupMessage(gene, n, instanceDir, apiURL, metricsURL, adminURL)

	return co.Run(exitSignal, n.Run)
}
