// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package thor

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBytes32(t *testing.T) {
	digits := strings.Repeat("ab", 32)
	tests := []struct {
		in  string
		err error
	}{
		{"0x" + digits, nil},
		{"0X" + digits, nil},
		{digits, nil},
		{"1x" + digits, errHexPrefix},
		{"0x" + digits[2:], errHexLength},
		{"0x" + digits[2:] + "zz", nil},
	}
	for _, tt := range tests {
		b, err := ParseBytes32(tt.in)
		switch {
		case tt.err != nil:
			assert.ErrorIs(t, err, tt.err, tt.in)
		case strings.HasSuffix(tt.in, "zz"):
			assert.Error(t, err, tt.in)
			assert.True(t, b.IsZero())
		default:
			require.NoError(t, err, tt.in)
			assert.Equal(t, "0x"+digits, b.String())
		}
	}
}

func TestBytes32Text(t *testing.T) {
	root := BytesToBytes32([]byte("root"))

	data, err := json.Marshal(map[string]any{"root": root, "ptr": &root, "none": (*Bytes32)(nil)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":"`+root.String()+`","ptr":"`+root.String()+`","none":null}`, string(data))

	var decoded struct{ Root Bytes32 }
	require.NoError(t, json.Unmarshal([]byte(`{"Root":"`+root.String()+`"}`), &decoded))
	assert.Equal(t, root, decoded.Root)

	// a failed decode keeps the previous value
	assert.Error(t, json.Unmarshal([]byte(`{"Root":"0x12"}`), &decoded))
	assert.Equal(t, root, decoded.Root)
	assert.Error(t, json.Unmarshal([]byte(`{"Root":12}`), &decoded))
}

func TestBytesToBytes32(t *testing.T) {
	b := BytesToBytes32([]byte{1, 2})
	assert.Equal(t, byte(1), b[30])
	assert.Equal(t, byte(2), b[31])

	long := make([]byte, 40)
	long[39] = 9
	assert.Equal(t, byte(9), BytesToBytes32(long)[31])
}
