package main

import (
	"os"

	"github.com/tempograph/tempograph/cmd/tempograph"
)

func main() {
	if err := tempograph.Execute(); err != nil {
		os.Exit(1)
	}
}
