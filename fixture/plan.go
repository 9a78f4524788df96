package fixture

import (
	"context"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Parse a fixture size. Plain integers are bytes; anything else goes through
// humanize, so "8GiB", "1 MB" and "512k" all work.
func ParseSize(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	var size uint64
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n <= 0 {
			return 0, errors.Wrapf(ErrDomain, "size %d", n)
		}
		size = uint64(n)
	} else {
		size, err = humanize.ParseBytes(raw)
		if err != nil {
			return 0, errors.Wrapf(err, "parse size '%s'", raw)
		}
	}
	if size == 0 {
		return 0, errors.Wrapf(ErrDomain, "size '%s'", raw)
	}
	if size > math.MaxInt {
		return 0, errors.Errorf("size '%s' too large", raw)
	}
	return int(size), nil
}

// Convert a size found in a toml plan, which may be an integer or a string
func sizeValue(value interface{}) (int, error) {
	switch v := value.(type) {
	case int64:
		if v <= 0 {
			return 0, errors.Wrapf(ErrDomain, "size %d", v)
		}
		return int(v), nil
	case string:
		return ParseSize(v)
	case nil:
		return 0, errors.New("missing size")
	default:
		return 0, errors.Errorf("size must be an integer or string, got %T", value)
	}
}

// Create a file and stream a large fixture into it.
func WriteLargeFile(fs afero.Fs, path string, size int) (*FileResult, error) {
	if _, err := WordWidth(size); err != nil {
		return nil, err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, SmallDirMode); err != nil {
			return nil, errors.Wrapf(err, "create directory %s", dir)
		}
	}
	f, err := fs.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	result, err := WriteLarge(f, size)
	if err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrapf(err, "close %s", path)
	}
	result.Name = path
	return result, nil
}

type LargeJob struct {
	Size   int
	Output string
}

type SmallJob struct {
	Count int
	Dir   string
	Jobs  int
}

// A batch of fixtures to generate in one go, usually loaded from toml:
//
//	[[large]]
//	size = "1MiB"
//	output = "big.txt"
//
//	[[small]]
//	count = 64
//	dir = "small"
type Plan struct {
	Large []LargeJob
	Small []SmallJob
}

// Pull the array of tables under key, if there is one
func planTables(tree *toml.Tree, key string) ([]*toml.Tree, error) {
	raw := tree.Get(key)
	if raw == nil {
		return nil, nil
	}
	tables, ok := raw.([]*toml.Tree)
	if !ok {
		return nil, errors.Errorf("'%s' must be an array of tables ([[%s]])", key, key)
	}
	return tables, nil
}

func planString(tree *toml.Tree, key string) (string, error) {
	raw := tree.GetDefault(key, "")
	str, ok := raw.(string)
	if !ok {
		return "", errors.Errorf("'%s' must be a string, got %T", key, raw)
	}
	return str, nil
}

func planInt(tree *toml.Tree, key string, def int64) (int, error) {
	raw := tree.GetDefault(key, def)
	num, ok := raw.(int64)
	if !ok {
		return 0, errors.Errorf("'%s' must be an integer, got %T", key, raw)
	}
	return int(num), nil
}

// Read a toml plan. Every entry is validated up front so a bad plan fails
// before anything is written.
func LoadPlan(r io.Reader) (*Plan, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "parse plan")
	}
	var plan Plan

	larges, err := planTables(tree, "large")
	if err != nil {
		return nil, err
	}
	for i, t := range larges {
		size, err := sizeValue(t.Get("size"))
		if err != nil {
			return nil, errors.Wrapf(err, "large[%d]", i)
		}
		output, err := planString(t, "output")
		if err != nil {
			return nil, errors.Wrapf(err, "large[%d]", i)
		}
		if output == "" {
			output = fmt.Sprintf("large-%d.txt", size)
		}
		plan.Large = append(plan.Large, LargeJob{Size: size, Output: output})
	}

	smalls, err := planTables(tree, "small")
	if err != nil {
		return nil, err
	}
	for i, t := range smalls {
		count, err := planInt(t, "count", 0)
		if err != nil {
			return nil, errors.Wrapf(err, "small[%d]", i)
		}
		if count <= 0 {
			return nil, errors.Wrapf(ErrDomain, "small[%d]: count %d", i, count)
		}
		dir, err := planString(t, "dir")
		if err != nil {
			return nil, errors.Wrapf(err, "small[%d]", i)
		}
		jobs, err := planInt(t, "jobs", 1)
		if err != nil {
			return nil, errors.Wrapf(err, "small[%d]", i)
		}
		plan.Small = append(plan.Small, SmallJob{Count: count, Dir: dir, Jobs: jobs})
	}

	return &plan, nil
}

// Generate everything in the plan under dir. Large fixtures go first, then
// each small set. Stops on the first failure.
func (plan *Plan) Run(ctx context.Context, fs afero.Fs, dir string) ([]*FileResult, error) {
	results := make([]*FileResult, 0)
	for _, job := range plan.Large {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := WriteLargeFile(fs, filepath.Join(dir, job.Output), job.Size)
		if err != nil {
			return nil, err
		}
		result.Name = job.Output
		log.Infof("Wrote large fixture %s (%s)", result.Name, humanize.IBytes(uint64(result.Size)))
		results = append(results, result)
	}
	for _, job := range plan.Small {
		setdir := filepath.Join(dir, job.Dir)
		set, err := WriteSmallSet(ctx, fs, setdir, job.Count, SmallSetOptions{Jobs: job.Jobs})
		if err != nil {
			return nil, err
		}
		for _, r := range set {
			r.Name = filepath.Join(job.Dir, r.Name)
		}
		log.Infof("Wrote %d small fixtures to '%s'", len(set), setdir)
		results = append(results, set...)
	}
	return results, nil
}
