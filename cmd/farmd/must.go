// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/yieldfarm/api"
	"github.com/vechain/yieldfarm/cmd/farmd/httpserver"
	"github.com/vechain/yieldfarm/co"
	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/genesis"
	"github.com/vechain/yieldfarm/log"
	"github.com/vechain/yieldfarm/lvldb"
	"github.com/vechain/yieldfarm/metrics"
	"github.com/vechain/yieldfarm/node"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := new(slog.LevelVar)
	lvl.Set(log.FromVerbosity(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandler(os.Stdout, lvl)
	} else {
		useColor := (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.TerminalHandler(os.Stdout, lvl, useColor)
	}
	log.SetDefault(handler)
	return lvl
}

func loadGenesis(ctx *cli.Context) *genesis.Genesis {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		cli.ShowAppHelp(ctx)
		fmt.Println("genesis flag not specified")
		os.Exit(1)
	}
	gen, err := genesis.LoadCustomGenesis(path)
	if err != nil {
		fatal(err)
	}
	gene, err := genesis.NewCustomNet(gen)
	if err != nil {
		fatal(fmt.Sprintf("build genesis: %v", err))
	}
	return gene
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

func instanceDirOf(dataDir string, gene *genesis.Genesis) string {
	return filepath.Join(dataDir, fmt.Sprintf("instance-%x", gene.ID().Bytes()[24:]))
}

func makeInstanceDir(ctx *cli.Context, gene *genesis.Genesis) string {
	instanceDir := instanceDirOf(makeDataDir(ctx), gene)
	if err := os.MkdirAll(instanceDir, 0700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(cacheMB int, dir string) *lvldb.LevelDB {
	// go-ethereum stuff
	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))

	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		fatal(fmt.Sprintf("open state database [%v]: %v", path, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open state database: %v", err))
	}
	return db
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		fatal("failed to get fd limit:", err)
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openEventDB(dir string) *eventdb.EventDB {
	path := filepath.Join(dir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open event database [%v]: %v", path, err))
	}
	return db
}

func openMemEventDB() *eventdb.EventDB {
	db, err := eventdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open event database: %v", err))
	}
	return db
}

func newNode(ctx *cli.Context, mainDB *lvldb.LevelDB, eventDB *eventdb.EventDB, gene *genesis.Genesis, cacheMB int) *node.Node {
	n, err := node.New(mainDB, eventDB, gene, node.Options{
		GasLimit: ctx.Uint64(txGasLimitFlag.Name),
		Cache:    state.NewCache(cacheMB / 2),
	})
	if err != nil {
		fatal(fmt.Sprintf("start node: %v", err))
	}
	return n
}

func apiOptions(ctx *cli.Context, enableLogs *atomic.Bool) api.Options {
	enableLogs.Store(ctx.Bool(enableAPILogsFlag.Name))
	return api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      enableLogs,
		SlowQueriesThreshold: time.Duration(ctx.Int(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
	}
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func()) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	timeout := ctx.Int(apiTimeoutFlag.Name)
	if timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}
}

func loadOrGenerateKey(keyFile string) (*ecdsa.PrivateKey, error) {
	// try to load from file
	key, err := crypto.LoadECDSA(keyFile)
	if err == nil {
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	// no such file, generate new key and write in
	if key, err = crypto.GenerateKey(); err != nil {
		return nil, err
	}
	if err := crypto.SaveECDSA(keyFile, key); err != nil {
		return nil, err
	}
	return key, nil
}

func startAdminServer(ctx *cli.Context, logLevel *slog.LevelVar, apiLogs *atomic.Bool, n *node.Node) (string, func()) {
	if !ctx.Bool(enableAdminFlag.Name) {
		return "", func() {}
	}
	url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, n)
	if err != nil {
		fatal(err)
	}
	return url, func() { logger.Info("stopping admin server..."); closeFunc() }
}

func startMetricsServer(ctx *cli.Context) (string, func()) {
	if !ctx.Bool(enableMetricsFlag.Name) {
		return "", func() {}
	}
	metrics.InitializePrometheusMetrics()
	url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
	if err != nil {
		fatal(err)
	}
	return url, func() { logger.Info("stopping metrics server..."); closeFunc() }
}

func printStartupMessage(gene *genesis.Genesis, n *node.Node, instanceDir, apiURL, metricsURL, adminURL string) {
	seq, root := n.Head()
	fmt.Printf(`Starting %v
    Network      [ %v %v ]
    Head         [ #%v %v ]
    Farm clock   [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		fullName("Farmd"),
		gene.ID(), gene.Name(),
		seq, root,
		time.Unix(int64(n.Now()), 0),
		instanceDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL))
}

func printSoloStartupMessage(
	gene *genesis.Genesis,
	n *node.Node,
	owner *ecdsa.PrivateKey,
	dataDir string,
	apiURL string,
	metricsURL string,
	adminURL string,
) {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	seq, root := n.Head()

	info := fmt.Sprintf(`Starting %v
    Network     [ %v %v ]
    Head        [ #%v %v ]
    Owner       [ %v ]
    Owner key   [ %v ]
    Data dir    [ %v ]
    API portal  [ %v ]
    Metrics     [ %v ]
    Admin       [ %v ]`,
		fullName("Farmd solo"),
		gene.ID(), gene.Name(),
		seq, root,
		thor.Address(crypto.PubkeyToAddress(owner.PublicKey)),
		thor.BytesToBytes32(crypto.FromECDSA(owner)),
		dataDir,
		apiURL,
		orDisabled(metricsURL),
		orDisabled(adminURL))

	info += tableHead

	for _, a := range genesis.DevAccounts() {
		info += fmt.Sprintf(tableContent,
			a.Address,
			thor.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)),
		)
	}
	info += tableEnd + "\r\n"

	fmt.Print(info)
}

func orDisabled(url string) string {
	if url == "" {
		return "disabled"
	}
	return url
}
