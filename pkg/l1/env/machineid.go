package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// stationIDLen keeps station topics short while still unique on a bench.
const stationIDLen = 12

// MachineID derives a station ID from the machine ID, hashed with the
// application name so the raw ID never leaves the host. The hostname is
// used where no machine ID is available.
func MachineID() string {
	id, err := machineid.ProtectedID("vlc")
	if err == nil {
		return id[:stationIDLen]
	}
	glog.Warningf("machine id unavailable: %v", err)
	if host, herr := os.Hostname(); herr == nil && host != "" {
		return host
	}
	return "vlc"
}
