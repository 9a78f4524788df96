package fixture

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func smallString(t *testing.T, size int) string {
	t.Helper()
	content, err := AppendSmall(nil, size)
	require.NoError(t, err)
	return string(content)
}

func TestAppendSmall_Exact(t *testing.T) {
	require.Equal(t, "0", smallString(t, 1))
	require.Equal(t, "012", smallString(t, 3))
	require.Equal(t, "0123456789abcdef", smallString(t, 16))
	// Width 2, 8 strides and a single pad
	require.Equal(t, "00020406080a0c0e.", smallString(t, 17))
	// Width 3, 11 strides and 2 pads
	require.Equal(t, "00000300600900c00f01201501801b01e..", smallString(t, 35))
}

func TestAppendSmall_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(1, 100000).Draw(t, "size")
		width, _ := WordWidth(size)
		content, err := AppendSmall(nil, size)
		if err != nil {
			t.Fatalf("size %d: %s", size, err)
		}
		if len(content) != size {
			t.Fatalf("size %d: got %d bytes", size, len(content))
		}
		padding := size % width
		body := string(content[:size-padding])
		if strings.Trim(body, "0123456789abcdef") != "" {
			t.Fatalf("size %d: non hex content in words", size)
		}
		if string(content[size-padding:]) != strings.Repeat(".", padding) {
			t.Fatalf("size %d: bad padding", size)
		}
	})
}

func TestFillSmall(t *testing.T) {
	var buf bytes.Buffer
	result, err := FillSmall(&buf, 35)
	require.NoError(t, err)
	require.Equal(t, 35, buf.Len())
	require.Equal(t, &FileResult{
		Size:    35,
		Width:   3,
		Words:   11,
		Padding: 2,
		XXHash:  XXHashString(buf.Bytes()),
	}, result)

	_, err = FillSmall(&brokenWriter{Remaining: 5}, 35)
	require.ErrorIs(t, err, errBrokenWriter)
	_, err = FillSmall(&buf, 0)
	require.ErrorIs(t, err, ErrDomain)
}

func TestSmallFileName(t *testing.T) {
	require.Equal(t, "s-1.txt", SmallFileName(1, 1))
	require.Equal(t, "s-0001.txt", SmallFileName(1, 4))
	require.Equal(t, "s-1024.txt", SmallFileName(1024, 4))
	require.Equal(t, "s-042.txt", SmallFileName(42, 3))
}

func TestWriteSmallSet_One(t *testing.T) {
	fs := afero.NewMemMapFs()
	results, err := WriteSmallSet(context.Background(), fs, "", 1, SmallSetOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "s-1.txt", results[0].Name)
	require.Equal(t, "0", string(mustRead(t, fs, "s-1.txt")))
}

func TestWriteSmallSet_1024(t *testing.T) {
	fs := afero.NewMemMapFs()
	results, err := WriteSmallSet(context.Background(), fs, "fixtures", 1024, SmallSetOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1024)

	files := snapshot(t, fs, "fixtures")
	require.Len(t, files, 1024)
	require.Contains(t, files, "s-0001.txt")
	require.Contains(t, files, "s-1024.txt")
	require.NotContains(t, files, "s-1.txt")
	for x := 1; x <= 1024; x++ {
		name := SmallFileName(x, 4)
		require.Len(t, files[name], x, "length of %s", name)
		require.Equal(t, name, results[x-1].Name)
		require.Equal(t, x, results[x-1].Size)
	}
	require.Equal(t, "0", files["s-0001.txt"])
	require.Equal(t, "01", files["s-0002.txt"])
}

func TestWriteSmallSet_Idempotent(t *testing.T) {
	first := afero.NewMemMapFs()
	second := afero.NewMemMapFs()
	firstResults, err := WriteSmallSet(context.Background(), first, "set", 300, SmallSetOptions{})
	require.NoError(t, err)
	secondResults, err := WriteSmallSet(context.Background(), second, "set", 300, SmallSetOptions{})
	require.NoError(t, err)
	require.Equal(t, snapshot(t, first, "set"), snapshot(t, second, "set"))
	require.Equal(t, firstResults, secondResults)
}

func TestWriteSmallSet_Jobs(t *testing.T) {
	sequential := afero.NewMemMapFs()
	parallel := afero.NewMemMapFs()
	seqResults, err := WriteSmallSet(context.Background(), sequential, "out", 500, SmallSetOptions{Jobs: 1})
	require.NoError(t, err)

	progress := 0
	parResults, err := WriteSmallSet(context.Background(), parallel, "out", 500, SmallSetOptions{
		Jobs:     8,
		Progress: func(*FileResult) { progress++ },
	})
	require.NoError(t, err)
	require.Equal(t, 500, progress)
	require.Equal(t, seqResults, parResults)
	require.Equal(t, snapshot(t, sequential, "out"), snapshot(t, parallel, "out"))
}

func TestWriteSmallSet_Progress(t *testing.T) {
	seen := make([]string, 0)
	_, err := WriteSmallSet(context.Background(), afero.NewMemMapFs(), "", 12, SmallSetOptions{
		Progress: func(r *FileResult) { seen = append(seen, r.Name) },
	})
	require.NoError(t, err)
	require.Len(t, seen, 12)
	require.Equal(t, "s-01.txt", seen[0])
	require.Equal(t, "s-12.txt", seen[11])
}

func TestWriteSmallSet_Errors(t *testing.T) {
	_, err := WriteSmallSet(context.Background(), afero.NewMemMapFs(), "", 0, SmallSetOptions{})
	require.ErrorIs(t, err, ErrDomain)

	readonly := afero.NewReadOnlyFs(afero.NewMemMapFs())
	results, err := WriteSmallSet(context.Background(), readonly, "", 5, SmallSetOptions{})
	require.Error(t, err)
	require.Nil(t, results)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fs := afero.NewMemMapFs()
	_, err = WriteSmallSet(ctx, fs, "", 5, SmallSetOptions{})
	require.ErrorIs(t, err, context.Canceled)
	_, err = WriteSmallSet(ctx, fs, "", 5, SmallSetOptions{Jobs: 4})
	require.ErrorIs(t, err, context.Canceled)
	exists, err := afero.Exists(fs, "s-1.txt")
	require.NoError(t, err)
	require.False(t, exists)
}
