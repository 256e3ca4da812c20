// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"hash"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
)

var blake2bPool = sync.Pool{
	New: func() any {
		h, _ := blake2b.New256(nil)
		return h
	},
}

// Blake2b hashes the concatenation of data with blake2b-256.
func Blake2b(data ...[]byte) Bytes32 {
	if len(data) == 1 {
		return blake2b.Sum256(data[0])
	}
	return Blake2bFn(func(w io.Writer) {
		for _, b := range data {
			w.Write(b)
		}
	})
}

// Blake2bFn hashes whatever fn writes with blake2b-256.
func Blake2bFn(fn func(w io.Writer)) (h Bytes32) {
	hw := blake2bPool.Get().(hash.Hash)
	fn(hw)
	hw.Sum(h[:0])
	hw.Reset()
	blake2bPool.Put(hw)
	return
}
