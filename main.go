package main

import (
	"os"

	"github.com/qirim/qirim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
