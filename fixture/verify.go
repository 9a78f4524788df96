package fixture

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// A small fixture on disk that doesn't hold what the generator would write.
type MismatchError struct {
	Name     string
	Expected int // Expected length
	Actual   int // Length found on disk
	Offset   int // First differing byte, or -1 if only the length differs
}

func (e *MismatchError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("%s: expected %d bytes, found %d", e.Name, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: content differs at byte %d (expected %d bytes, found %d)",
		e.Name, e.Offset, e.Expected, e.Actual)
}

// Index of the first byte where a and b differ, or -1 if one is a prefix of
// the other
func firstDifference(a []byte, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return -1
}

// Check that dir holds exactly the n small fixtures WriteSmallSet would have
// produced. Every file is checked; all missing or differing files are
// collected into one multierror. Results are returned for the files that
// matched.
func VerifySmallSet(ctx context.Context, fs afero.Fs, dir string, n int) ([]*FileResult, error) {
	digits, err := IndexDigits(n)
	if err != nil {
		return nil, err
	}

	var result *multierror.Error
	matched := make([]*FileResult, 0, n)
	expected := make([]byte, 0, n)

	for x := 1; x <= n; x++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := SmallFileName(x, digits)
		actual, err := afero.ReadFile(fs, filepath.Join(dir, name))
		if err != nil {
			result = multierror.Append(result, errors.Wrapf(err, "read %s", name))
			continue
		}
		expected, err = AppendSmall(expected[:0], x)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(expected, actual) {
			offset := firstDifference(expected, actual)
			result = multierror.Append(result, &MismatchError{
				Name:     name,
				Expected: len(expected),
				Actual:   len(actual),
				Offset:   offset,
			})
			continue
		}
		matched = append(matched, smallResult(name, actual))
	}

	log.Debugf("Verified %d of %d small fixtures in '%s'", len(matched), n, dir)
	return matched, result.ErrorOrNil()
}
