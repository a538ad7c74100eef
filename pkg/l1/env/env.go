// Package env sets up the station identity and telemetry shared by the
// binaries.
package env

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/robotalks/vlc.go/pkg/l1/comm/mqtt"
)

// Config provides common options to setup a station.
type Config struct {
	// StationID names the station in telemetry topics.
	StationID string

	// MQTTBrokerURL specifies the MQTT broker to report to, empty to
	// disable reporting.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
}

var defaultConfig = Config{}

func init() {
	if val := os.Getenv("VLC_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("VLC_ID"); val != "" {
		defaultConfig.StationID = val
	} else {
		defaultConfig.StationID = MachineID()
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.StationID, "id", defaultConfig.StationID, "Station ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
}

// Default gets default config.
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
	if c.StationID == "" {
		return fmt.Errorf("station id must be specified")
	}
	if strings.ContainsAny(c.StationID, "/+#") {
		return fmt.Errorf("station id %q must not contain MQTT topic characters", c.StationID)
	}
	return nil
}

// NewReporter creates the MQTT reporter, or nil when no broker is
// configured.
func (c *Config) NewReporter(meta mqtt.Meta) (*mqtt.Reporter, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.MQTTBrokerURL == "" {
		return nil, nil
	}
	reporter, err := mqtt.NewReporter(c.MQTTBrokerURL, c.StationID, meta)
	if err != nil {
		return nil, fmt.Errorf("create MQTT reporter error: %v", err)
	}
	return reporter, nil
}
