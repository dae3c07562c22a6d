package main

import (
	"os"

	"github.com/akngs/k-families-data/cmd/kfamilies"
)

func main() {
	if err := kfamilies.Execute(); err != nil {
		os.Exit(1)
	}
}
