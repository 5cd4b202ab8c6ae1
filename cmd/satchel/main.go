// Command satchel installs a research / plan / implement / review
// workflow bundle for Claude Code into a repository.
package main

import (
	"os"

	"github.com/satchel-sh/satchel/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
