package main

import (
	"context"
	"io"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/randomouscrap98/hexfixtures/fixture"
	"github.com/randomouscrap98/hexfixtures/internal/cliutil"
)

// Build the command, streaming the fixture to stdout
func newCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "bigfile",
		Usage: "Generate a lot of text",
		Description: "Writes roughly <size> characters of zero padded, counting hex words to stdout. " +
			"For example, to make an 8 GiB file: bigfile $(( 2 ** 33 )) > big.txt",
		ArgsUsage: "<size>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("Usage: bigfile <size>", 2)
			}
			size, err := strconv.Atoi(cmd.Args().First())
			if err != nil {
				return cli.Exit("Error: can't parse size: "+err.Error(), 2)
			}
			result, err := fixture.WriteLarge(stdout, size)
			if err != nil {
				return err
			}
			log.Debugf("Wrote %d words of width %d (%s)", result.Words, result.Width,
				humanize.IBytes(uint64(result.Size)))
			return nil
		},
	}
}

func main() {
	cliutil.SetupLogging(os.Stderr, false, false)
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
