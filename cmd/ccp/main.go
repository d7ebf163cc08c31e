package main

import (
	"os"

	"github.com/msto63/ccp/cmd/ccp/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
