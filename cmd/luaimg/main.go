package main

import (
	"fmt"
	"os"

	"github.com/grit-engine/luaimg-go/internal/cli"
)

func main() {
	if err := cli.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "luaimg: %v\n", err)
		os.Exit(1)
	}
}
