package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/caixa/internal/encoding"
)

func readAll(t *testing.T, input []byte) (string, encoding.Charset) {
	t.Helper()

	r, charset, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got), charset
}

func TestNewUTF8Reader(t *testing.T) {
	const header = "type;amount;reason\nIN;12,50;Troco da manhã\n"

	type testCase struct {
		name        string
		input       []byte
		want        string
		wantCharset encoding.Charset
	}

	tests := []testCase{
		{
			name:        "utf-8 passthrough",
			input:       []byte(header),
			want:        header,
			wantCharset: encoding.UTF8,
		},
		{
			name:        "utf-8 bom is stripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, header...),
			want:        header,
			wantCharset: encoding.UTF8,
		},
		{
			// "Reforço" in Windows-1252: ç = 0xE7.
			name:        "windows-1252",
			input:       []byte{'O', 'U', 'T', ';', '5', ';', 'R', 'e', 'f', 'o', 'r', 0xE7, 'o', '\n'},
			want:        "OUT;5;Reforço\n",
			wantCharset: encoding.Windows1252,
		},
		{
			name:        "utf-16le bom",
			input:       []byte{0xFF, 0xFE, 'I', 0, 'N', 0, ';', 0, '1', 0},
			want:        "IN;1",
			wantCharset: encoding.UTF16LE,
		},
		{
			name:        "utf-16be bom",
			input:       []byte{0xFE, 0xFF, 0, 'I', 0, 'N'},
			want:        "IN",
			wantCharset: encoding.UTF16BE,
		},
		{
			name:        "empty",
			input:       nil,
			want:        "",
			wantCharset: encoding.UTF8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, charset := readAll(t, tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantCharset, charset)
		})
	}
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	line := "SALE;1,00;Venda balcão\n"
	input := bytes.Repeat([]byte(line), 1000)

	got, charset := readAll(t, input)
	assert.Equal(t, encoding.UTF8, charset)
	assert.Equal(t, string(input), got)
}

func TestNewUTF8Reader_RuneAcrossSniffBoundary(t *testing.T) {
	input := append(bytes.Repeat([]byte("a"), 4095), "ã\n"...)

	got, charset := readAll(t, input)
	assert.Equal(t, encoding.UTF8, charset)
	assert.Equal(t, string(input), got)
}
