package transceiver

import (
	"flag"
	"fmt"
	"os"

	"github.com/robotalks/vlc.go/pkg/l0/fec"
	"github.com/robotalks/vlc.go/pkg/l0/frame"
)

const (
	// DefaultSlotCount is the number of ring buffer slots.
	DefaultSlotCount = 6500
	// DefaultFlushSize is the socket read/write granularity.
	DefaultFlushSize = 4000
	// DefaultSentinelTolerance is the number of non-0xFF bytes a slot
	// may hold and still be taken as the end-of-transmission sentinel:
	// more than slotSize-10 bytes must be 0xFF, so 10 stray bytes already
	// make a data slot. Payloads dominated by 0xFF can be mistaken for
	// the sentinel.
	DefaultSentinelTolerance = 9
)

// Config configures a Transceiver.
type Config struct {
	// Scheme names the FEC scheme, see fec.ParseScheme.
	Scheme string
	// LineCode applies the Manchester line code after FEC.
	LineCode bool
	// SlotCount is the ring buffer capacity and the number of slots
	// driven out per transmission.
	SlotCount int
	// FlushSize bounds socket reads and batches socket writes.
	FlushSize int
	// SentinelTolerance, see DefaultSentinelTolerance.
	SentinelTolerance int
}

var defaultConfig = Config{
	Scheme:            fec.SchemeGolay23.String(),
	SlotCount:         DefaultSlotCount,
	FlushSize:         DefaultFlushSize,
	SentinelTolerance: DefaultSentinelTolerance,
}

func init() {
	if val := os.Getenv("VLC_FEC"); val != "" {
		defaultConfig.Scheme = val
	}
	if os.Getenv("VLC_LINE_CODE") != "" {
		defaultConfig.LineCode = true
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Scheme, "fec", defaultConfig.Scheme, "FEC scheme: none, golay23, golay24")
	flag.BoolVar(&defaultConfig.LineCode, "line", defaultConfig.LineCode, "Apply Manchester line code")
	flag.IntVar(&defaultConfig.SlotCount, "slots", defaultConfig.SlotCount, "Ring buffer slots")
	flag.IntVar(&defaultConfig.FlushSize, "flush", defaultConfig.FlushSize, "Socket flush size in bytes")
	flag.IntVar(&defaultConfig.SentinelTolerance, "sentinel", defaultConfig.SentinelTolerance, "Non-0xFF bytes tolerated in a sentinel slot")
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
	if _, err := fec.ParseScheme(c.Scheme); err != nil {
		return fmt.Errorf("invalid FEC scheme %q: %v", c.Scheme, err)
	}
	if c.SlotCount <= 0 {
		return fmt.Errorf("slot count must be positive")
	}
	if c.FlushSize < frame.PayloadSize {
		return fmt.Errorf("flush size must be at least %d", frame.PayloadSize)
	}
	if c.SentinelTolerance < 0 {
		return fmt.Errorf("sentinel tolerance must not be negative")
	}
	return nil
}

// NewCodec creates the slot codec described by the config.
func (c *Config) NewCodec() (*Codec, error) {
	id, err := fec.ParseScheme(c.Scheme)
	if err != nil {
		return nil, err
	}
	scheme, err := fec.GetScheme(id)
	if err != nil {
		return nil, err
	}
	return &Codec{Scheme: scheme, LineCode: c.LineCode}, nil
}
