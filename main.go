package main

import (
	"os"

	"github.com/ebakir/newsreel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
