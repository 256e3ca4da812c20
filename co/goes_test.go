// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/yieldfarm/co"
)

func TestGoes(t *testing.T) {
	var (
		goes co.Goes
		n    atomic.Int32
	)
	for range 10 {
		goes.Go(func() { n.Add(1) })
	}
	<-goes.Done()
	assert.Equal(t, int32(10), n.Load())
}

func TestRun(t *testing.T) {
	errBoom := errors.New("boom")
	var stopped atomic.Bool

	err := co.Run(context.Background(),
		func(ctx context.Context) error {
			<-ctx.Done()
			stopped.Store(true)
			return nil
		},
		func(context.Context) error { return errBoom },
	)
	assert.Equal(t, errBoom, err)
	assert.True(t, stopped.Load())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, co.Run(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	}))
}
