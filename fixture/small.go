package fixture

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	SmallFilePrefix    = "s-"
	SmallFileExtension = ".txt"
	SmallDirMode       = 0755
)

// Append the full content of a small fixture of exactly size bytes to dst.
// That's size/width hex words counting up by width from 0, followed by
// size%width pad characters.
func AppendSmall(dst []byte, size int) ([]byte, error) {
	width, err := WordWidth(size)
	if err != nil {
		return dst, err
	}
	strides := size / width
	remainder := size % width
	for i := 0; i < strides; i++ {
		dst = FormatWord(dst, i*width, width)
	}
	for i := 0; i < remainder; i++ {
		dst = append(dst, PadChar)
	}
	return dst, nil
}

// Write a single small fixture of exactly size bytes to w.
func FillSmall(w io.Writer, size int) (*FileResult, error) {
	content, err := AppendSmall(nil, size)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(content); err != nil {
		return nil, err
	}
	return smallResult("", content), nil
}

// Describe already generated small fixture content
func smallResult(name string, content []byte) *FileResult {
	width := mustWordWidth(len(content))
	return &FileResult{
		Name:    name,
		Size:    len(content),
		Width:   width,
		Words:   len(content) / width,
		Padding: len(content) % width,
		XXHash:  XXHashString(content),
	}
}

// Name of the small fixture with the given index, zero padded to digits.
func SmallFileName(index int, digits int) string {
	return fmt.Sprintf("%s%0*d%s", SmallFilePrefix, digits, index, SmallFileExtension)
}

// Options for generating a set of small fixtures. The zero value generates
// files one at a time with no progress reporting.
type SmallSetOptions struct {
	// How many files may be open and written at once. Anything below 2 means
	// strictly one at a time.
	Jobs int
	// Called after each file is written and closed. Calls are serialized even
	// when Jobs > 1, but may arrive out of index order.
	Progress func(*FileResult)
}

// Create, fill and close one small fixture. The file is always closed before
// returning, even on a failed write.
func writeSmallFile(fs afero.Fs, path string, size int) (*FileResult, error) {
	f, err := fs.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	result, err := FillSmall(f, size)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrapf(err, "close %s", path)
	}
	result.Name = filepath.Base(path)
	return result, nil
}

// Generate n small fixtures in dir on the given filesystem. File x (1..n) is
// named SmallFileName(x, IndexDigits(n)) and holds exactly x bytes. The first
// failure stops the run; files already written stay on disk. Results come
// back in index order.
func WriteSmallSet(ctx context.Context, fs afero.Fs, dir string, n int, opts SmallSetOptions) ([]*FileResult, error) {
	digits, err := IndexDigits(n)
	if err != nil {
		return nil, err
	}
	if dir != "" {
		if err := fs.MkdirAll(dir, SmallDirMode); err != nil {
			return nil, errors.Wrapf(err, "create directory %s", dir)
		}
	}

	results := make([]*FileResult, n)
	var progressLock sync.Mutex
	generate := func(x int) error {
		path := filepath.Join(dir, SmallFileName(x, digits))
		result, err := writeSmallFile(fs, path, x)
		if err != nil {
			return err
		}
		results[x-1] = result
		if opts.Progress != nil {
			progressLock.Lock()
			opts.Progress(result)
			progressLock.Unlock()
		}
		return nil
	}

	if opts.Jobs < 2 {
		for x := 1; x <= n; x++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := generate(x); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Jobs)
		for x := 1; x <= n; x++ {
			if gctx.Err() != nil {
				break
			}
			x := x
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return generate(x)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	log.Debugf("Generated %d small fixtures in '%s' (%d digit names)", n, dir, digits)
	return results, nil
}
