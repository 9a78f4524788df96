package fixture

import (
	"bufio"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	// Size of the buffer sitting between the generator and the output stream
	LargeBufferSize = 64 * 1024
)

// Number of words WriteLarge emits for the given size. The generator stops on
// the counter value rather than the output length, so this is
// floor((size - width) / width) + 1, which is just size / width since the
// width can never exceed the size.
func LargeWords(size int) (int, error) {
	width, err := WordWidth(size)
	if err != nil {
		return 0, err
	}
	return (size-width)/width + 1, nil
}

// Exact number of bytes WriteLarge emits for the given size. Only roughly
// the requested size: anything short of a full word at the end is dropped.
func LargeLength(size int) (int, error) {
	words, err := LargeWords(size)
	if err != nil {
		return 0, err
	}
	return words * mustWordWidth(size), nil
}

// Stream a large fixture of approximately size bytes to w. The counter starts
// at width-1 and steps by width while it's below size, each value written as
// a zero padded hex word with no separators and no trailing newline.
func WriteLarge(w io.Writer, size int) (*FileResult, error) {
	width, err := WordWidth(size)
	if err != nil {
		return nil, err
	}

	dw := newDigestWriter(w)
	bw := bufio.NewWriterSize(dw, LargeBufferSize)
	result := FileResult{Width: width}
	word := make([]byte, 0, max(width, 16))

	for x := width - 1; x < size; x += width {
		word = FormatWord(word[:0], x, width)
		if _, err := bw.Write(word); err != nil {
			return nil, errors.Wrapf(err, "write word %d", result.Words)
		}
		result.Words++
	}
	if err := bw.Flush(); err != nil {
		return nil, errors.Wrap(err, "flush large fixture")
	}

	result.Size = int(dw.written)
	result.XXHash = dw.Sum()
	log.Debugf("Generated large fixture: %d words of width %d (%d bytes, requested %d)",
		result.Words, width, result.Size, size)
	return &result, nil
}
