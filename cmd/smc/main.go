package main

import (
	"github.com/quantbay/smc/pkg/cmd"
)

func main() {
	cmd.Execute()
}
