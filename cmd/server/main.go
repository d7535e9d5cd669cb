package main

import (
	"fmt"
	"os"

	"github.com/cleanblog/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cleanblog:", err)
		os.Exit(1)
	}
}
