package main

import (
	"github.com/NVIDIA/phaser/pkg/cli"
)

func main() {
	cli.Execute()
}
