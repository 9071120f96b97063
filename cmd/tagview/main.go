package main

import (
	"os"
)

func main() {
	if err := GetRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
