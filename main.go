package main

import (
	"os"

	"github.com/abhisek/pathmind/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
