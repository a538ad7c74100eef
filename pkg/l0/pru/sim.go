// Package pru provides the realtime unit driving the light hardware.
//
// Sim stands in for the co-processor: it drives a ring buffer out to a
// Medium on transmit and fills a ring buffer from it on receive, with
// an optional noise model applied to every captured slot.
package pru

import (
	"github.com/golang/glog"

	"github.com/robotalks/vlc.go/pkg/l0/channel"
	"github.com/robotalks/vlc.go/pkg/l0/ring"
)

// Sim is a simulated realtime unit.
type Sim struct {
	Medium Medium
	Noise  *channel.Noise
	// Memory maps the shared region, ring.Heap when nil.
	Memory ring.MemoryOpener

	enabled bool
}

// NewSim creates a Sim over a medium.
func NewSim(medium Medium) *Sim {
	return &Sim{Medium: medium}
}

// WithNoise sets the noise model applied on capture.
func (s *Sim) WithNoise(noise *channel.Noise) *Sim {
	s.Noise = noise
	return s
}

// WithMemory sets where the shared region is mapped.
func (s *Sim) WithMemory(opener ring.MemoryOpener) *Sim {
	s.Memory = opener
	return s
}

// OpenMemory implements ring.MemoryOpener.
func (s *Sim) OpenMemory(size int) (ring.Region, error) {
	if s.Memory != nil {
		return s.Memory.OpenMemory(size)
	}
	return ring.Heap.OpenMemory(size)
}

// Initialize enables the unit.
func (s *Sim) Initialize() error {
	s.enabled = true
	glog.V(2).Info("pru: initialized")
	return nil
}

// Disable stops the unit.
func (s *Sim) Disable() error {
	s.enabled = false
	glog.V(2).Info("pru: disabled")
	return nil
}

// StartTransmit drives out every declared slot of buf.
func (s *Sim) StartTransmit(buf *ring.Buffer) error {
	if !s.enabled {
		return ErrNotInitialized
	}
	if err := buf.SetCursor(0); err != nil {
		return err
	}
	slots := make([][]byte, buf.Length())
	for n := range slots {
		slots[n] = make([]byte, buf.SlotSize())
		if err := buf.Pop(slots[n]); err != nil {
			return err
		}
	}
	glog.V(1).Infof("pru: transmitting %d slots", len(slots))
	return s.Medium.Emit(slots)
}

// StartReceive captures a transmission into buf from slot 0. The
// cursor is left after the last slot written.
func (s *Sim) StartReceive(buf *ring.Buffer) error {
	if !s.enabled {
		return ErrNotInitialized
	}
	slots, err := s.Medium.Capture()
	if err != nil {
		return err
	}
	if err = buf.SetCursor(0); err != nil {
		return err
	}
	if len(slots) > buf.Capacity() {
		glog.Warningf("pru: captured %d slots, keeping %d", len(slots), buf.Capacity())
		slots = slots[:buf.Capacity()]
	}
	var flips int
	for _, slot := range slots {
		slot = append([]byte(nil), slot...)
		flips += s.Noise.Apply(slot)
		if err = buf.Push(slot); err != nil {
			return err
		}
	}
	glog.V(1).Infof("pru: captured %d slots, %d bits flipped", len(slots), flips)
	return nil
}
