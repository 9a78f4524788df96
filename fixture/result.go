package fixture

import (
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
)

// Everything we know about a single generated fixture. Written out as json
// by the tools so test suites can check what they were handed.
type FileResult struct {
	Name    string `json:",omitempty"`
	Size    int    // Bytes actually written
	Width   int    // Hex digits per word
	Words   int    // Number of hex words written
	Padding int    // Number of trailing pad characters
	XXHash  string // xxhash64 of the content, hex
}

func (r *FileResult) String() string {
	return fmt.Sprintf("%s (%d bytes, width %d, %s)", r.Name, r.Size, r.Width, r.XXHash)
}

// A writer wrapper that hashes and counts everything passing through it.
type digestWriter struct {
	Writer  io.Writer
	digest  *xxhash.Digest
	written int64
}

func newDigestWriter(w io.Writer) *digestWriter {
	return &digestWriter{Writer: w, digest: xxhash.New()}
}

func (dw *digestWriter) Write(p []byte) (int, error) {
	n, err := dw.Writer.Write(p)
	// xxhash never fails a write
	dw.digest.Write(p[:n])
	dw.written += int64(n)
	return n, err
}

func (dw *digestWriter) Sum() string {
	return fmt.Sprintf("%016x", dw.digest.Sum64())
}

// Produce the xxhash string for a complete chunk of data (a simple shortcut)
func XXHashString(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}
