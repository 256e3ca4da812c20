// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

const (
	flagPlain  byte = 0
	flagSnappy byte = 1

	// values shorter than this are never worth compressing
	compressThreshold = 64
)

// encodeValue prefixes the stored value with a one byte flag.
func encodeValue(raw []byte) []byte {
	if len(raw) >= compressThreshold {
		if c := snappy.Encode(nil, raw); len(c) < len(raw) {
			return append([]byte{flagSnappy}, c...)
		}
	}
	return append([]byte{flagPlain}, raw...)
}

func decodeValue(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	switch data[0] {
	case flagPlain:
		return data[1:], nil
	case flagSnappy:
		raw, err := snappy.Decode(nil, data[1:])
		if err != nil {
			return nil, errors.Wrap(err, "decompress value")
		}
		return raw, nil
	default:
		return nil, errors.Errorf("unknown value flag %d", data[0])
	}
}
