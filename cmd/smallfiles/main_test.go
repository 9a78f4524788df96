package main

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"

	"github.com/randomouscrap98/hexfixtures/fixture"
)

func run(fs afero.Fs, args ...string) error {
	cmd := newCommand(fs)
	cmd.ExitErrHandler = func(context.Context, *cli.Command, error) {}
	return cmd.Run(context.Background(), append([]string{"smallfiles"}, args...))
}

func TestSmallfiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, run(fs, "12"))
	for x := 1; x <= 12; x++ {
		data, err := afero.ReadFile(fs, fixture.SmallFileName(x, 2))
		require.NoError(t, err)
		require.Len(t, data, x)
	}
	data, err := afero.ReadFile(fs, "s-01.txt")
	require.NoError(t, err)
	require.Equal(t, "0", string(data))
}

func TestSmallfiles_One(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, run(fs, "1"))
	data, err := afero.ReadFile(fs, "s-1.txt")
	require.NoError(t, err)
	require.Equal(t, "0", string(data))
}

func TestSmallfiles_BadArguments(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.Error(t, run(fs))
	require.Error(t, run(fs, "many"))
	require.ErrorIs(t, run(fs, "0"), fixture.ErrDomain)
	// Negative numbers look like flags, so never reach the generator
	require.Error(t, run(fs, "-3"))
}
