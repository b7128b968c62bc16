package main

import (
	"github.com/custodia-chain/router/command/root"
)

func main() {
	root.NewRootCommand().Execute()
}
