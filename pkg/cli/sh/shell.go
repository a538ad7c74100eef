// Package sh provides the interactive shell talking to transceivers as
// their host-side peer.
package sh

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/vlc.go/pkg/l1/transceiver"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	// PeerURL is the transceiver the commands talk to.
	PeerURL string

	Shell  *ishell.Shell
	Config *transceiver.Config
}

const shellKey = "$shell"

// DefaultPeerURL is where vlcd listens by default.
const DefaultPeerURL = "tcp://localhost:7040"

var (
	// flags

	evalOnly   bool
	outputJSON bool
	peerURL    = DefaultPeerURL

	// commands
	commands = []*ishell.Cmd{
		&PeerCmd,
	}
)

func init() {
	if val := os.Getenv("VLC_PEER"); val != "" {
		peerURL = val
	}
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
	flag.StringVar(&peerURL, "peer", peerURL, "Transceiver URL: tcp://, unix:// or ws://")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *transceiver.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,
		PeerURL:     peerURL,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.updatePrompt()
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

func (s *Shell) updatePrompt() {
	s.Shell.SetPrompt(fmt.Sprintf("[%s] > ", s.PeerURL))
}

// Print prints a command result, as JSON when requested.
func (s *Shell) Print(c *ishell.Context, result fmt.Stringer) {
	if !s.OutputJSON {
		c.Println(result.String())
		return
	}
	out, err := json.Marshal(result)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

// PeerCmd shows or changes the transceiver URL.
var PeerCmd = ishell.Cmd{
	Name:    "peer",
	Aliases: []string{"p"},
	Help:    "[URL]",
	Func: func(c *ishell.Context) {
		s := ShellFrom(c)
		if len(c.Args) > 0 {
			s.PeerURL = c.Args[0]
			s.updatePrompt()
		}
		c.Println(s.PeerURL)
	},
}

// Main is a helper to provide a single call in main.
func Main() {
	transceiver.SetupFlags()
	flag.Parse()
	New(transceiver.NewConfig()).Run(flag.Args()...)
}
