package main

import (
	"github.com/openfit-labs/fitsync-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
