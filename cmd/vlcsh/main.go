package main

import (
	"github.com/robotalks/vlc.go/pkg/cli/sh"

	_ "github.com/robotalks/vlc.go/pkg/cli/cmds/link"
)

//go-build: CGO_ENABLED=0

func main() {
	sh.Main()
}
