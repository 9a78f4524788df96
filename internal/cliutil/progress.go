package cliutil

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// A spinner on stderr for long running generation. Does nothing at all when
// stderr isn't a terminal (or when quiet), so piped runs and CI logs stay clean.
type Progress struct {
	spin  *spinner.Spinner
	total int
	done  int
}

func NewProgress(total int, quiet bool) *Progress {
	p := &Progress{total: total}
	if quiet || !isatty.IsTerminal(os.Stderr.Fd()) {
		return p
	}
	p.spin = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	p.spin.Start()
	return p
}

// Record one more finished item
func (p *Progress) Step(name string) {
	p.done++
	if p.spin != nil {
		p.spin.Lock()
		p.spin.Suffix = fmt.Sprintf(" %d/%d %s", p.done, p.total, name)
		p.spin.Unlock()
	}
}

func (p *Progress) Done() int {
	return p.done
}

func (p *Progress) Stop() {
	if p.spin != nil {
		p.spin.Stop()
	}
}
