// Package station wires a transceiver to its peer listener, the
// realtime unit and telemetry, as run by vlcd.
package station

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config provides options of a station.
type Config struct {
	// Mode is tx or rx.
	Mode string
	// Listen is the peer address, host:port or unix:/path.
	Listen string
	// WebSocketPath serves peers as websocket clients at this path.
	WebSocketPath string
	// MediumPath is the file carrying slots between stations.
	MediumPath string
	// MemoryPath maps the shared ring buffer region from this file
	// instead of process memory.
	MemoryPath string
	// BER is the bit error rate applied to captured slots.
	BER float64
	// Seed seeds the bit error generator.
	Seed int64
}

var defaultConfig = Config{
	Listen:     ":7040",
	MediumPath: filepath.Join(os.TempDir(), "vlc-medium.bin"),
	Seed:       1,
}

func init() {
	if val := os.Getenv("VLC_LISTEN"); val != "" {
		defaultConfig.Listen = val
	}
	if val := os.Getenv("VLC_MEDIUM"); val != "" {
		defaultConfig.MediumPath = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Mode, "mode", defaultConfig.Mode, "Operation: tx or rx")
	flag.StringVar(&defaultConfig.Listen, "listen", defaultConfig.Listen, "Peer listen address, host:port or unix:/path")
	flag.StringVar(&defaultConfig.WebSocketPath, "ws", defaultConfig.WebSocketPath, "Serve peers over websocket at this path")
	flag.StringVar(&defaultConfig.MediumPath, "medium", defaultConfig.MediumPath, "File carrying slots between stations")
	flag.StringVar(&defaultConfig.MemoryPath, "mem", defaultConfig.MemoryPath, "File to map the shared ring buffer from")
	flag.Float64Var(&defaultConfig.BER, "ber", defaultConfig.BER, "Bit error rate applied on capture")
	flag.Int64Var(&defaultConfig.Seed, "seed", defaultConfig.Seed, "Bit error generator seed")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the config.
func (c *Config) Validate() error {
	if c.Mode == "" {
		return fmt.Errorf("mode must be specified")
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address must be specified")
	}
	if c.WebSocketPath != "" && strings.HasPrefix(c.Listen, "unix:") {
		return fmt.Errorf("websocket requires a tcp listen address")
	}
	if c.MediumPath == "" {
		return fmt.Errorf("medium must be specified")
	}
	if c.BER < 0 || c.BER > 1 {
		return fmt.Errorf("bit error rate must be within [0, 1]")
	}
	return nil
}
