package link

import (
	"context"
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/vlc.go/pkg/cli/sh"
)

// DefaultSelfTestSize is the payload of a self test without arguments.
const DefaultSelfTestSize = 1000

var (
	// SendCmd streams a file to a transmitting transceiver.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"tx"},
		Help:    "FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			s := sh.ShellFrom(c)
			res, err := SendFile(s.PeerURL, c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, res)
		},
	}

	// RecvCmd saves what a receiving transceiver recovers.
	RecvCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"rx"},
		Help:    "FILE",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("FILE required"))
				return
			}
			s := sh.ShellFrom(c)
			res, err := RecvFile(s.PeerURL, c.Args[0])
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, res)
		},
	}

	// SelfTestCmd runs a loopback transmission.
	SelfTestCmd = ishell.Cmd{
		Name:    "selftest",
		Aliases: []string{"st"},
		Help:    "[BYTES] [BER]",
		Func: func(c *ishell.Context) {
			size, ber := DefaultSelfTestSize, 0.0
			var err error
			if len(c.Args) > 0 {
				if size, err = strconv.Atoi(c.Args[0]); err != nil || size < 0 {
					c.Err(fmt.Errorf("Invalid BYTES: %q", c.Args[0]))
					return
				}
			}
			if len(c.Args) > 1 {
				if ber, err = strconv.ParseFloat(c.Args[1], 64); err != nil || ber < 0 || ber > 1 {
					c.Err(fmt.Errorf("Invalid BER: %q", c.Args[1]))
					return
				}
			}
			s := sh.ShellFrom(c)
			res, err := SelfTest(context.Background(), s.Config, size, ber, 1)
			if err != nil {
				c.Err(err)
				return
			}
			s.Print(c, res)
		},
	}
)

func init() {
	sh.AddCmds(&SendCmd, &RecvCmd, &SelfTestCmd)
}
