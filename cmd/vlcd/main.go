package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	"github.com/robotalks/vlc.go/pkg/l1/env"
	"github.com/robotalks/vlc.go/pkg/l1/station"
	"github.com/robotalks/vlc.go/pkg/l1/transceiver"
)

func init() {
	env.SetupFlags()
	station.SetupFlags()
	transceiver.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()
	if err := station.Main(); err != nil {
		glog.Exitln(err)
	}
}
