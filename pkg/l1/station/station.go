package station

import (
	"context"
	"net"
	"strings"

	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l0/channel"
	"github.com/robotalks/vlc.go/pkg/l0/pru"
	"github.com/robotalks/vlc.go/pkg/l1/comm/mqtt"
	"github.com/robotalks/vlc.go/pkg/l1/env"
	"github.com/robotalks/vlc.go/pkg/l1/peer"
	"github.com/robotalks/vlc.go/pkg/l1/transceiver"
)

// Station runs one transceiver operation for a peer.
type Station struct {
	Mode        transceiver.Mode
	Transceiver *transceiver.Transceiver
	// Reporter is nil without a broker.
	Reporter *mqtt.Reporter

	addr   net.Addr
	socket *peer.Socket
}

func (c *Config) listen() (peer.Acceptor, net.Addr, error) {
	if c.WebSocketPath != "" {
		l, err := peer.ListenWebSocket(c.Listen, c.WebSocketPath)
		if err != nil {
			return nil, nil, err
		}
		return l, l.Addr(), nil
	}
	network, addr := "tcp", c.Listen
	if strings.HasPrefix(addr, "unix:") {
		network, addr = "unix", strings.TrimPrefix(addr, "unix:")
	}
	l, err := peer.Listen(network, addr)
	if err != nil {
		return nil, nil, err
	}
	return l, l.Addr(), nil
}

// NewStation creates a Station and starts listening for its peer.
func (c *Config) NewStation(trConf *transceiver.Config, envConf *env.Config) (*Station, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	mode, err := transceiver.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}
	codec, err := trConf.NewCodec()
	if err != nil {
		return nil, err
	}
	reporter, err := envConf.NewReporter(mqtt.Meta{
		Mode:     mode.String(),
		Scheme:   trConf.Scheme,
		LineCode: trConf.LineCode,
		Listen:   c.Listen,
	})
	if err != nil {
		return nil, err
	}

	hw := pru.NewSim(&pru.FileMedium{Path: c.MediumPath, SlotSize: codec.SlotSize()})
	if c.MemoryPath != "" {
		hw.WithMemory(pru.MapMemory(c.MemoryPath))
	}
	if c.BER > 0 {
		hw.WithNoise(channel.NewNoise(c.BER, c.Seed))
	}

	acceptor, addr, err := c.listen()
	if err != nil {
		return nil, err
	}
	s := &Station{Mode: mode, Reporter: reporter, addr: addr, socket: peer.NewSocket(acceptor)}
	if s.Transceiver, err = transceiver.New(s.socket, hw, trConf); err != nil {
		acceptor.Close()
		return nil, err
	}
	s.Transceiver.StationID = envConf.StationID
	if reporter != nil {
		s.Transceiver.WithNotifier(reporter)
	}
	return s, nil
}

// Addr returns the peer listening address.
func (s *Station) Addr() net.Addr {
	return s.addr
}

// Name implements framework.Named.
func (s *Station) Name() string {
	return "station-" + s.Mode.String()
}

// Run implements framework.Runnable. Canceling closes the socket, which
// aborts a pending or running operation.
func (s *Station) Run(ctx context.Context) error {
	op := s.Transceiver.Transmit
	if s.Mode == transceiver.ModeReceive {
		op = s.Transceiver.Receive
	}
	return fx.RunWithContextCloser(ctx, s.socket, func() error {
		return op(ctx)
	})
}

// Runnables returns the station and its reporter. The station stops the
// runner when its operation ends.
func (s *Station) Runnables(runner *fx.Runner) []fx.Runnable {
	runnables := []fx.Runnable{runner.StopOnExit(s)}
	if s.Reporter != nil {
		runnables = append(runnables, s.Reporter)
	}
	return runnables
}

// Main is a helper to run a station from flags in main.
func Main() error {
	s, err := Default().NewStation(transceiver.Default(), env.Default())
	if err != nil {
		return err
	}
	runner := fx.NewRunner().HandleSignals()
	err = runner.Go(s.Runnables(runner)...).Wait()
	if err == nil {
		glog.Infof("station: %s", s.Transceiver.Report())
	}
	return err
}
