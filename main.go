package main

import (
	"github.com/wkalt/fbc/cli/cmd"
)

func main() {
	cmd.Execute()
}
