package cliutil

import (
	"fmt"
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	log "github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Where PrintJson writes. Only swapped out by tests.
var JsonOutput io.Writer = os.Stdout

// Most commands need this, so... yeah
func PrintJson(obj interface{}) {
	rawjson, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		log.Fatalln("Couldn't serialize json: ", err)
	}
	fmt.Fprintln(JsonOutput, string(rawjson))
}
