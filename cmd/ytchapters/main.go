package main

import (
	"os"

	"github.com/samuelmuabia/ytchapters/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
