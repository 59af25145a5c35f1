package main

import (
	"os"

	"github.com/conneroisu/seo/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
