package cliutil

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

// Send all logging to stderr; stdout is reserved for fixture data and json
// results. verbose wins over quiet if both are set.
func SetupLogging(w io.Writer, verbose bool, quiet bool) {
	if w == nil {
		w = os.Stderr
	}
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetOutput(w)
	switch {
	case verbose:
		log.SetLevel(log.DebugLevel)
	case quiet:
		log.SetLevel(log.WarnLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// Quick way to fail on error, since most commands are "doing" something on
// behalf of something else.
func FatalIfErr(subject string, doing string, err error) {
	if err != nil {
		log.Fatalf("%s - Couldn't %s: %s", subject, doing, err)
	}
}
