package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/randomouscrap98/hexfixtures/fixture"
	"github.com/randomouscrap98/hexfixtures/internal/cliutil"
)

const (
	AppVersion = "0.2.0"
)

// Everything a command needs from the outside world. Tests swap in an
// in-memory filesystem and their own output.
type Env struct {
	Context context.Context
	Fs      afero.Fs
	Stdout  io.Writer
	Quiet   bool
}

func forceOpen(env *Env, fp string) afero.File {
	f, err := env.Fs.Open(fp)
	cliutil.FatalIfErr(fp, "open read file", err)
	return f
}

// **********************************
// *       GENERATE COMMANDS        *
// **********************************

// Large fixture command
type LargeCmd struct {
	Size    string `arg:"" help:"Approximate size in bytes; accepts 8GiB, 10MB, etc"`
	Outfile string `type:"path" short:"o" help:"Write here instead of stdout"`
}

func (c *LargeCmd) Run(env *Env) error {
	size, err := fixture.ParseSize(c.Size)
	if err != nil {
		return err
	}
	if c.Outfile == "" {
		result, err := fixture.WriteLarge(env.Stdout, size)
		if err != nil {
			return err
		}
		log.Infof("Wrote %s large fixture to stdout", humanize.IBytes(uint64(result.Size)))
		return nil
	}
	result, err := fixture.WriteLargeFile(env.Fs, c.Outfile, size)
	if err != nil {
		return err
	}
	log.Infof("Wrote large fixture %s (%s, requested %s)", c.Outfile,
		humanize.IBytes(uint64(result.Size)), humanize.IBytes(uint64(size)))
	cliutil.PrintJson(result)
	return nil
}

// Small fixture set command
type SmallCmd struct {
	Count    int    `arg:"" help:"Number of files; file x holds exactly x bytes"`
	Dir      string `type:"path" short:"d" help:"Directory to write to (default: current)"`
	Jobs     int    `short:"j" default:"1" help:"Files to write at once"`
	Manifest bool   `help:"Print a result for every file instead of a summary"`
}

func (c *SmallCmd) Run(env *Env) error {
	progress := cliutil.NewProgress(c.Count, env.Quiet)
	results, err := fixture.WriteSmallSet(env.Context, env.Fs, c.Dir, c.Count, fixture.SmallSetOptions{
		Jobs:     c.Jobs,
		Progress: func(r *fixture.FileResult) { progress.Step(r.Name) },
	})
	progress.Stop()
	if err != nil {
		return err
	}
	total := 0
	for _, r := range results {
		total += r.Size
	}
	log.Infof("Wrote %d small fixtures (%s) to '%s'", len(results), humanize.IBytes(uint64(total)), c.Dir)
	if c.Manifest {
		cliutil.PrintJson(results)
		return nil
	}
	result := make(map[string]interface{})
	result["Directory"] = c.Dir
	result["Count"] = len(results)
	result["First"] = results[0].Name
	result["Last"] = results[len(results)-1].Name
	result["TotalBytes"] = total
	cliutil.PrintJson(result)
	return nil
}

// Verify small set command
type VerifyCmd struct {
	Count int    `arg:"" help:"Number of files the set was generated with"`
	Dir   string `type:"path" short:"d" help:"Directory holding the set (default: current)"`
}

func (c *VerifyCmd) Run(env *Env) error {
	matched, err := fixture.VerifySmallSet(env.Context, env.Fs, c.Dir, c.Count)
	log.Infof("%d of %d small fixtures in '%s' are intact", len(matched), c.Count, c.Dir)
	if err != nil {
		return err
	}
	result := make(map[string]interface{})
	result["Directory"] = c.Dir
	result["Verified"] = len(matched)
	cliutil.PrintJson(result)
	return nil
}

// Width command
type WidthCmd struct {
	Size string `arg:"" help:"Fixture size in bytes; accepts 8GiB, 10MB, etc"`
}

func (c *WidthCmd) Run(env *Env) error {
	size, err := fixture.ParseSize(c.Size)
	if err != nil {
		return err
	}
	width, err := fixture.WordWidth(size)
	if err != nil {
		return err
	}
	words, err := fixture.LargeWords(size)
	if err != nil {
		return err
	}
	length, err := fixture.LargeLength(size)
	if err != nil {
		return err
	}
	result := make(map[string]interface{})
	result["Size"] = size
	result["Width"] = width
	result["LargeWords"] = words
	result["LargeLength"] = length
	result["SmallWords"] = size / width
	result["SmallPadding"] = size % width
	cliutil.PrintJson(result)
	return nil
}

// **********************************
// *       BATCH COMMANDS           *
// **********************************

// Plan command
type PlanCmd struct {
	Planfile string `arg:"" help:"The toml plan to run"`
	Dir      string `type:"path" short:"d" help:"Directory to generate the plan under (default: current)"`
}

func (c *PlanCmd) Run(env *Env) error {
	f := forceOpen(env, c.Planfile)
	defer f.Close()
	plan, err := fixture.LoadPlan(f)
	if err != nil {
		return errors.Wrapf(err, "load plan %s", c.Planfile)
	}
	log.Infof("Plan %s has %d large and %d small jobs", c.Planfile, len(plan.Large), len(plan.Small))
	results, err := plan.Run(env.Context, env.Fs, c.Dir)
	if err != nil {
		return err
	}
	cliutil.PrintJson(results)
	return nil
}

// Script command
type ScriptCmd struct {
	Script    string   `arg:"" help:"The lua fixture script to run"`
	Arguments []string `arg:"" optional:"" help:"Arguments passed to the script (see arguments())"`
	Dir       string   `type:"path" short:"d" help:"Working directory for the script's files (default: current)"`
}

func (c *ScriptCmd) Run(env *Env) error {
	script, err := afero.ReadFile(env.Fs, c.Script)
	if err != nil {
		return errors.Wrapf(err, "read script %s", c.Script)
	}
	logs, results, err := fixture.RunLuaFixtureScript(env.Context, string(script), c.Arguments, env.Fs, c.Dir)
	fmt.Fprint(env.Stdout, logs)
	if err != nil {
		return err
	}
	log.Infof("Script %s wrote %d fixtures", filepath.Base(c.Script), len(results))
	return nil
}

// **********************************
// *    ALL TOGETHER COMMANDS       *
// **********************************

var cli struct {
	Large   LargeCmd         `cmd:"" help:"Stream one large hex fixture of roughly the given size"`
	Small   SmallCmd         `cmd:"" help:"Write a set of small fixtures s-<index>.txt of sizes 1..n"`
	Verify  VerifyCmd        `cmd:"" help:"Check a set of small fixtures against what would be generated"`
	Width   WidthCmd         `cmd:"" help:"Show the word width and output lengths for a size"`
	Plan    PlanCmd          `cmd:"" help:"Generate every fixture listed in a toml plan"`
	Script  ScriptCmd        `cmd:"" help:"Run a lua fixture script"`
	Version kong.VersionFlag `help:"Show version information"`
	Verbose bool             `short:"v" help:"Log everything, including debug output"`
	Quiet   bool             `short:"q" help:"Only log warnings and errors"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("fixturegen"),
		kong.ShortUsageOnError(),
		kong.Description("Generate deterministic hex text fixtures for test suites"),
		kong.Vars{
			"version": AppVersion,
		},
	)
	cliutil.SetupLogging(os.Stderr, cli.Verbose, cli.Quiet)

	runctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := ctx.Run(&Env{
		Context: runctx,
		Fs:      afero.NewOsFs(),
		Stdout:  os.Stdout,
		Quiet:   cli.Quiet,
	})
	ctx.FatalIfErrorf(err)
}
