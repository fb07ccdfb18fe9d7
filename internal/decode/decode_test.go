package decode

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeChunks feeds input to d in pieces of size n and flushes at the end.
func decodeChunks(t *testing.T, d Decoder, input []byte, n int) string {
	t.Helper()
	var out strings.Builder
	for len(input) > 0 {
		k := n
		if k > len(input) {
			k = len(input)
		}
		s, err := d.Decode(input[:k])
		require.NoError(t, err)
		out.WriteString(s)
		input = input[k:]
	}
	s, err := d.Flush()
	require.NoError(t, err)
	out.WriteString(s)
	return out.String()
}

func TestExists(t *testing.T) {
	for _, name := range []string{"utf8", "UTF-8", "utf-16le", "ucs2", "latin1", "Big5", "shift_jis", "windows-1251", "base64", "hex"} {
		assert.True(t, Exists(name), name)
	}
	for _, name := range []string{"", "no-such-charset", "utf9"} {
		assert.False(t, Exists(name), name)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Big5", Normalize("Big5"))
	assert.Equal(t, Default, Normalize(""))
	assert.Equal(t, Default, Normalize("klingon"))
}

func TestUTF8SplitSequence(t *testing.T) {
	input := []byte("héllo, 世界 🙂")
	for n := 1; n <= 4; n++ {
		assert.Equal(t, string(input), decodeChunks(t, New("utf8"), input, n), "chunk size %d", n)
	}
}

func TestUTF8IncompleteAtEnd(t *testing.T) {
	input := append([]byte("ok"), 0xe4)
	assert.Equal(t, "ok�", decodeChunks(t, New("utf8"), input, 1))
}

func TestUTF16LE(t *testing.T) {
	// "a\nß" in UTF-16LE
	input := []byte{'a', 0, '\n', 0, 0xdf, 0}
	for n := 1; n <= 3; n++ {
		assert.Equal(t, "a\nß", decodeChunks(t, New("utf16le"), input, n))
	}
}

func TestLatin1(t *testing.T) {
	assert.Equal(t, "café", decodeChunks(t, New("latin1"), []byte{'c', 'a', 'f', 0xe9}, 2))
}

func TestUnknownFallsBackToUTF8(t *testing.T) {
	assert.Equal(t, "π", decodeChunks(t, New("bogus"), []byte("π"), 1))
}

func TestBase64MatchesWholeInput(t *testing.T) {
	input := []byte("any carnal pleasure.")
	want := base64.StdEncoding.EncodeToString(input)
	for n := 1; n <= 7; n++ {
		assert.Equal(t, want, decodeChunks(t, New("base64"), input, n), "chunk size %d", n)
	}
}

func TestHex(t *testing.T) {
	assert.Equal(t, "00ff10", decodeChunks(t, New("hex"), []byte{0x00, 0xff, 0x10}, 2))
}
