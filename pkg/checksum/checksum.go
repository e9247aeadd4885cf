// Package checksum computes the BLAKE3-256 content digests used to
// address and verify stored artifacts. Digests are 64 lowercase hex
// characters. The registry always computes digests fresh from the
// bytes it stores; a client-claimed checksum is never trusted.
package checksum

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Sum returns the hex-encoded BLAKE3-256 digest of data.
func Sum(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// Digester computes a digest incrementally while counting bytes.
// It implements io.Writer so it can sit behind an io.TeeReader on the
// upload path.
type Digester struct {
	h *blake3.Hasher
	n int64
}

// NewDigester returns a ready Digester.
func NewDigester() *Digester {
	return &Digester{h: blake3.New()}
}

// Write feeds bytes into the digest. It never returns an error.
func (d *Digester) Write(p []byte) (int, error) {
	n, err := d.h.Write(p)
	d.n += int64(n)
	return n, err
}

// Sum returns the hex-encoded digest of everything written so far.
func (d *Digester) Sum() string {
	return hex.EncodeToString(d.h.Sum(nil))
}

// Size returns the number of bytes written so far.
func (d *Digester) Size() int64 {
	return d.n
}
