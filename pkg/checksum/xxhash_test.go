package checksum

import (
	"encoding/hex"
	"io"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

func TestReader_SumMatchesDirectDigest(t *testing.T) {
	content := "NDC Description,NDC,NADAC_Per_Unit\nASPIRIN 325MG,00000000001,0.123\n"

	reader := NewReader(strings.NewReader(content))
	consumed, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.Equal(t, content, string(consumed))

	digest := xxhash.New()
	digest.Write([]byte(content))
	assert.Equal(t, hex.EncodeToString(digest.Sum(nil)), reader.Sum())
}

func TestReader_SumOfPartialRead(t *testing.T) {
	reader := NewReader(strings.NewReader("abcdef"))

	buf := make([]byte, 3)
	n, err := reader.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)

	digest := xxhash.New()
	digest.Write([]byte("abc"))
	assert.Equal(t, hex.EncodeToString(digest.Sum(nil)), reader.Sum())
}
