package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/verdantlabs/plantid/cmd"
)

const version = "0.1.0"

func main() {
	root := cmd.NewRootCmd()

	// fang wraps the cobra tree with shell completions, manpages, and
	// --version handling.
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
