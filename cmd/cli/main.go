package main

import (
	"github.com/mchmarny/anipulse/pkg/cli"
)

func main() {
	cli.Execute()
}
