package main

import (
	"os"

	printmeter "github.com/edouard-claude/printmeter"
	"github.com/edouard-claude/printmeter/internal/cli"
	"github.com/edouard-claude/printmeter/internal/host"
)

func main() {
	host.EmbeddedFS = printmeter.EmbeddedEvents
	exitCode := cli.Run(os.Args)
	os.Exit(exitCode)
}
