package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/kiss.go/pkg/bridge"
	"github.com/robotalks/kiss.go/pkg/framework"
	"github.com/robotalks/kiss.go/pkg/indicator"
	"github.com/robotalks/kiss.go/pkg/modem"
	"github.com/robotalks/kiss.go/pkg/port/dial"
	"github.com/robotalks/kiss.go/pkg/telemetry"
)

func init() {
	dial.SetupFlags()
	bridge.SetupFlags()
	modem.SetupFlags()
	telemetry.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	conf := dial.NewConfig()
	id := conf.BridgeID()
	settings, err := modem.NewConfig().Settings()
	if err != nil {
		glog.Exitf("modem: %v", err)
	}
	serial, err := dial.Serial(conf.Serial)
	if err != nil {
		glog.Exitf("serial: %v", err)
	}
	radio, err := dial.Radio(conf.Radio, dial.Options{ID: id, Settings: settings})
	if err != nil {
		glog.Exitf("radio: %v", err)
	}
	ctl, err := bridge.NewConfig().NewController(serial, radio, settings)
	if err != nil {
		glog.Exitf("bridge: %v", err)
	}
	ctl.Indicator = &indicator.Log{}
	ctl.StateNotifier = bridge.StateNotifierFunc(func(from, to bridge.State) {
		glog.V(2).Infof("state %s -> %s", from, to)
	})

	loop := framework.NewLoop()
	loop.Interval = ctl.PollInterval
	pub, err := telemetry.NewConfig().NewPublisher(id)
	if err != nil {
		glog.Exitf("telemetry: %v", err)
	}
	if pub != nil {
		pub.Stats = ctl.Stats
		pub.Meta = telemetry.MetaOf(ctl, time.Now())
		ctl.Observer = pub
		loop.AddRunnable(pub)
	}
	loop.Add(radio).AddRunnable(serial).Add(ctl)

	glog.Infof("bridge %s: serial %s, radio %s", id, conf.Serial, conf.Radio)
	err = framework.NewRunner().HandleSignals().StopOnError().
		Go(framework.NamedRun("bridge", loop)).Wait()
	switch {
	case err == nil:
	case bridge.IsTerminal(err):
		glog.Exitf("port gone, bridge stopped: %v", err)
	default:
		glog.Exitf("bridge failed: %v", err)
	}
}
