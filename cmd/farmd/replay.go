// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/cheggaaa/pb.v1"

	"github.com/vechain/yieldfarm/eventdb"
	"github.com/vechain/yieldfarm/genesis"
	"github.com/vechain/yieldfarm/kv"
	"github.com/vechain/yieldfarm/lvldb"
	"github.com/vechain/yieldfarm/node"
	"github.com/vechain/yieldfarm/state"
	"github.com/vechain/yieldfarm/thor"
)

func replayAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()

	initLogger(ctx)
	gene := loadGenesis(ctx)

	instanceDir := instanceDirOf(ctx.String(dataDirFlag.Name), gene)
	journalPath := filepath.Join(instanceDir, "events.db")
	if _, err := os.Stat(journalPath); err != nil {
		return errors.Wrap(err, "locate journal")
	}
	journal := openEventDB(instanceDir)
	defer journal.Close()

	var target *lvldb.LevelDB
	if dir := ctx.String(replayTargetFlag.Name); dir != "" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return errors.Wrap(err, "create target dir")
		}
		target = openMainDB(normalizeCacheSize(0), dir)
	} else {
		target = openMemMainDB()
	}
	defer target.Close()

	root, err := replayJournal(exitSignal, target, gene, journal, ctx.Uint64(txGasLimitFlag.Name))
	if err != nil {
		return err
	}
	fmt.Printf("replayed root [ %v ]\n", root)

	// the live state is only compared when no node holds it
	mainDBPath := filepath.Join(instanceDir, "main.db")
	if _, err := os.Stat(mainDBPath); err != nil {
		return nil
	}
	mainDB, err := lvldb.New(mainDBPath, lvldb.Options{})
	if err != nil {
		logger.Warn("skip comparing with live state", "err", err)
		return nil
	}
	defer mainDB.Close()

	live, err := state.New(mainDB, nil).Root()
	if err != nil {
		return err
	}
	if live != root {
		return errors.Errorf("live state root %v differs from replayed root %v", live, root)
	}
	fmt.Printf("live state matches\n")
	return nil
}

func replayJournal(ctx context.Context, store kv.Store, gene *genesis.Genesis, journal *eventdb.EventDB, gasLimit uint64) (thor.Bytes32, error) {
	last, ok, err := journal.LastSeq(ctx)
	if err != nil {
		return thor.Bytes32{}, err
	}
	if !ok {
		return thor.Bytes32{}, errors.New("journal is empty")
	}

	fmt.Println(">> Replaying journal <<")
	pb := pb.New64(int64(last)).
		Set64(0).
		SetMaxWidth(90).
		Start()
	defer func() { pb.NotPrint = true }()

	root, err := node.Replay(ctx, store, gene, journal, gasLimit, func(seq uint64) {
		pb.Set64(int64(seq))
	})
	if err != nil {
		return thor.Bytes32{}, err
	}
	pb.Finish()
	return root, nil
}
