package main

import (
	"context"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/randomouscrap98/hexfixtures/fixture"
	"github.com/randomouscrap98/hexfixtures/internal/cliutil"
)

// Build the command. Files go into the current directory of fs, one at a
// time.
func newCommand(fs afero.Fs) *cli.Command {
	return &cli.Command{
		Name:  "smallfiles",
		Usage: "Generate a lot of smallish files",
		Description: "Creates <n> files named s-<index>.txt in the current directory, where file x " +
			"holds exactly x characters. For example, to make 1,024 files: smallfiles $(( 2 ** 10 ))",
		ArgsUsage: "<n>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return cli.Exit("Usage: smallfiles <n>", 2)
			}
			n, err := strconv.Atoi(cmd.Args().First())
			if err != nil {
				return cli.Exit("Error: can't parse count: "+err.Error(), 2)
			}
			results, err := fixture.WriteSmallSet(ctx, fs, "", n, fixture.SmallSetOptions{})
			if err != nil {
				return err
			}
			log.Debugf("Wrote %d small files, %s through %s", len(results),
				results[0].Name, results[len(results)-1].Name)
			return nil
		},
	}
}

func main() {
	cliutil.SetupLogging(os.Stderr, false, false)
	if err := newCommand(afero.NewOsFs()).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
