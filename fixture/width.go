package fixture

import (
	"math/bits"
	"strconv"

	"github.com/pkg/errors"
)

// Returned (wrapped) whenever a size or count is not a positive integer.
// The width and digit calculations are logarithmic, so zero and negative
// values have no meaning.
var ErrDomain = errors.New("value must be a positive integer")

const (
	// Every word is at least this many hex digits wide
	MinWordWidth = 1
	// ceil(log2(size)) minus this is the word width
	WidthPowerOffset = 3
	// Filler appended to small files when the size isn't a multiple of the width
	PadChar = '.'
)

// Compute ceil(log2(size)) for a positive size. bits.Len(size-1) is exactly
// that value and doesn't suffer the rounding of float logarithms.
func ceilLog2(size int) int {
	return bits.Len(uint(size - 1))
}

// Derive the number of hex digits per word ("octets per word") for a fixture
// of the given size: max(1, ceil(log2(size)) - 3). Bigger fixtures get wider
// words, so fewer counter steps.
func WordWidth(size int) (int, error) {
	if size <= 0 {
		return 0, errors.Wrapf(ErrDomain, "size %d", size)
	}
	return max(MinWordWidth, ceilLog2(size)-WidthPowerOffset), nil
}

// Same as WordWidth but panics on a bad size. Only for places where the size
// was already validated.
func mustWordWidth(size int) int {
	width, err := WordWidth(size)
	if err != nil {
		panic(err)
	}
	return width
}

// Number of decimal digits used to pad every index in a set of n files,
// which is ceil(log10(n+1)) or simply the digit count of n.
func IndexDigits(n int) (int, error) {
	if n <= 0 {
		return 0, errors.Wrapf(ErrDomain, "count %d", n)
	}
	return len(strconv.Itoa(n)), nil
}

// Append the lowercase hex representation of x to dst, left padded with
// zeros to at least width digits. Values wider than width are NOT truncated.
func FormatWord(dst []byte, x int, width int) []byte {
	var raw [16]byte
	hex := strconv.AppendUint(raw[:0], uint64(x), 16)
	for i := len(hex); i < width; i++ {
		dst = append(dst, '0')
	}
	return append(dst, hex...)
}
