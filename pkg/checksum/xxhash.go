package checksum

import (
	"encoding/hex"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Reader hashes bytes as they are read through it, so the digest of a
// remote stream is available once the stream has been fully consumed,
// without buffering the content.
type Reader struct {
	r      io.Reader
	digest *xxhash.Digest
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, digest: xxhash.New()}
}

func (c *Reader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		// Digest.Write never returns an error
		c.digest.Write(p[:n])
	}
	return n, err
}

// Sum returns the hex digest of everything read so far.
func (c *Reader) Sum() string {
	return hex.EncodeToString(c.digest.Sum(nil))
}
