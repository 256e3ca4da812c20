// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"crypto/ecdsa"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/yieldfarm/api"
	"github.com/vechain/yieldfarm/co"
	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/genesis"
	"github.com/vechain/yieldfarm/lvldb"
	"github.com/vechain/yieldfarm/thor"
)

const (
	soloGenesisFile = "solo.yaml"
	soloOwnerFile   = "solo-owner.key"
)

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	metricsURL, closeMetrics := startMetricsServer(ctx)
	defer closeMetrics()

	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))

	var (
		gene        *genesis.Genesis
		owner       *ecdsa.PrivateKey
		mainDB      *lvldb.LevelDB
		eventDB     *eventdb.EventDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		dataDir := makeDataDir(ctx)
		gen, key, err := loadSoloGenesis(dataDir, uint64(time.Now().Unix()))
		if err != nil {
			fatal(err)
		}
		owner = key
		if gene, err = genesis.NewCustomNet(gen); err != nil {
			fatal(fmt.Sprintf("build genesis: %v", err))
		}
		instanceDir = makeInstanceDir(ctx, gene)
		mainDB = openMainDB(cacheMB, instanceDir)
		eventDB = openEventDB(instanceDir)
	} else {
		key, err := crypto.GenerateKey()
		if err != nil {
			fatal(err)
		}
		owner = key
		gen := newSoloGenesis(uint64(time.Now().Unix()), thor.Address(crypto.PubkeyToAddress(key.PublicKey)))
		if gene, err = genesis.NewCustomNet(gen); err != nil {
			fatal(fmt.Sprintf("build genesis: %v", err))
		}
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		eventDB = openMemEventDB()
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
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

	printSoloStartupMessage(gene, n, owner, instanceDir, apiURL, metricsURL, adminURL)

	return co.Run(exitSignal, n.Run)
}

// newSoloGenesis is the dev farm handed over to owner, who also receives the penalties.
func newSoloGenesis(launchTime uint64, owner thor.Address) *genesis.CustomGenesis {
	gen := genesis.DevGenesis(launchTime)
	gen.Name = "solo"
	gen.Owner = owner
	for i := range gen.Pools {
		gen.Pools[i].PenaltyReceiver = owner
	}
	return gen
}

// loadSoloGenesis loads the persisted solo genesis and its owner key from dataDir,
// creating both on first run so that later runs reopen the same instance.
func loadSoloGenesis(dataDir string, now uint64) (*genesis.CustomGenesis, *ecdsa.PrivateKey, error) {
	key, err := loadOrGenerateKey(filepath.Join(dataDir, soloOwnerFile))
	if err != nil {
		return nil, nil, errors.Wrap(err, "load owner key")
	}
	ownerAddr := thor.Address(crypto.PubkeyToAddress(key.PublicKey))

	path := filepath.Join(dataDir, soloGenesisFile)
	gen, err := genesis.LoadCustomGenesis(path)
	if err == nil {
		if gen.Owner != ownerAddr {
			return nil, nil, errors.Errorf("%v is not owned by %v", path, soloOwnerFile)
		}
		return gen, key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, nil, err
	}

	gen = newSoloGenesis(now, ownerAddr)
	data, err := yaml.Marshal(gen)
	if err != nil {
		return nil, nil, err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return nil, nil, errors.Wrap(err, "save solo genesis")
	}
	return gen, key, nil
}
