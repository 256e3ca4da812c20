// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/hex"
	"errors"
	"strings"
)

var (
	errHexLength = errors.New("invalid length")
	errHexPrefix = errors.New("invalid prefix")
)

// decodeFixedHex decodes s, with or without the 0x prefix, into exactly len(out)
// bytes. out is only written on success.
func decodeFixedHex(s string, out []byte) error {
	switch len(s) {
	case 2 * len(out):
	case 2*len(out) + 2:
		if !strings.EqualFold(s[:2], "0x") {
			return errHexPrefix
		}
		s = s[2:]
	default:
		return errHexLength
	}
	buf := make([]byte, len(out))
	if _, err := hex.Decode(buf, []byte(s)); err != nil {
		return err
	}
	copy(out, buf)
	return nil
}
