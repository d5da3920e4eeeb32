package main

import (
	"github.com/robotalks/kiss.go/pkg/cli/sh"

	_ "github.com/robotalks/kiss.go/pkg/cli/cmds/tnc"
)

func main() {
	sh.Main()
}
