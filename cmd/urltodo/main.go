package main

import (
	"context"
	"os"

	"github.com/MrSnakeDoc/urltodo/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), os.Stdin, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
