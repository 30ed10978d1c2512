package main

import (
	"os"

	"github.com/evlab/chargeprofile/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
