package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/wealth/internal/encoding"
)

func TestDecode(t *testing.T) {
	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset string // empty when the heuristic may pick either single-byte charset
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			input:       []byte("Café Central\nTOTAL 12.50\n"),
			want:        "Café Central\nTOTAL 12.50\n",
			wantCharset: encoding.UTF8,
		},
		{
			// ç = 0xE7, ã = 0xE3 in Windows-1252.
			name:  "Latin1",
			input: []byte{'P', 'a', 'd', 'a', 'r', 'i', 'a', ' ', 'C', 'o', 'n', 'c', 'e', 'i', 0xE7, 0xE3, 'o', '\n'},
			want:  "Padaria Conceição\n",
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte("Mercado\n")...),
			want:        "Mercado\n",
			wantCharset: encoding.UTF8,
		},
		{
			name:        "UTF16LE",
			input:       []byte{0xFF, 0xFE, 'O', 0, 'K', 0},
			want:        "OK",
			wantCharset: encoding.UTF16LE,
		},
		{
			name:        "Empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.UTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Decode(bytes.NewReader(tt.input))
			require.NoError(t, err)
			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestDecode_LargeInput(t *testing.T) {
	input := bytes.Repeat([]byte("0123456789\n"), 1000)

	got, charset, err := encoding.DecodeBytes(input)
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)
	assert.Equal(t, string(input), got)
}
