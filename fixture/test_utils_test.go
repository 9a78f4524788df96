package fixture

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var errBrokenWriter = errors.New("broken writer")

// A writer which accepts some bytes and then fails every write after
type brokenWriter struct {
	Remaining int
}

func (bw *brokenWriter) Write(p []byte) (int, error) {
	if len(p) <= bw.Remaining {
		bw.Remaining -= len(p)
		return len(p), nil
	}
	n := bw.Remaining
	bw.Remaining = 0
	return n, errBrokenWriter
}

// Read an entire file from the test filesystem, failing the test if it can't
func mustRead(t *testing.T, fs afero.Fs, path ...string) []byte {
	t.Helper()
	data, err := afero.ReadFile(fs, filepath.Join(path...))
	require.NoError(t, err)
	return data
}

// Snapshot every regular file under dir as name -> content
func snapshot(t *testing.T, fs afero.Fs, dir string) map[string]string {
	t.Helper()
	result := make(map[string]string)
	entries, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		result[entry.Name()] = string(mustRead(t, fs, dir, entry.Name()))
	}
	return result
}
