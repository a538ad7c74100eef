package pru

import (
	"os"
	"sync"
)

// Medium carries slots from a transmitting unit to a receiving one.
type Medium interface {
	// Emit sends one transmission.
	Emit(slots [][]byte) error
	// Capture returns the next transmission.
	Capture() ([][]byte, error)
}

// MemoryMedium queues transmissions in process memory. Capture blocks
// until a transmission is available or the medium is closed.
type MemoryMedium struct {
	lock    sync.Mutex
	cond    *sync.Cond
	pending [][][]byte
	closed  bool
}

// NewMemoryMedium creates a MemoryMedium.
func NewMemoryMedium() *MemoryMedium {
	m := &MemoryMedium{}
	m.cond = sync.NewCond(&m.lock)
	return m
}

// Emit implements Medium.
func (m *MemoryMedium) Emit(slots [][]byte) error {
	copied := make([][]byte, len(slots))
	for n, slot := range slots {
		copied[n] = append([]byte(nil), slot...)
	}
	m.lock.Lock()
	defer m.lock.Unlock()
	if m.closed {
		return ErrMediumClosed
	}
	m.pending = append(m.pending, copied)
	m.cond.Broadcast()
	return nil
}

// Capture implements Medium.
func (m *MemoryMedium) Capture() ([][]byte, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for len(m.pending) == 0 && !m.closed {
		m.cond.Wait()
	}
	if len(m.pending) == 0 {
		return nil, ErrMediumClosed
	}
	slots := m.pending[0]
	m.pending = m.pending[1:]
	return slots, nil
}

// Close wakes up pending captures.
func (m *MemoryMedium) Close() error {
	m.lock.Lock()
	m.closed = true
	m.cond.Broadcast()
	m.lock.Unlock()
	return nil
}

// FileMedium records a transmission as concatenated slots in a file,
// so a receiving run can replay what an earlier transmitting run sent.
type FileMedium struct {
	Path     string
	SlotSize int
}

// Emit implements Medium.
func (m *FileMedium) Emit(slots [][]byte) error {
	f, err := os.Create(m.Path)
	if err != nil {
		return err
	}
	for _, slot := range slots {
		if _, err = f.Write(slot); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// Capture implements Medium. A trailing partial slot is dropped.
func (m *FileMedium) Capture() ([][]byte, error) {
	data, err := os.ReadFile(m.Path)
	if err != nil {
		return nil, err
	}
	slots := make([][]byte, 0, len(data)/m.SlotSize)
	for len(data) >= m.SlotSize {
		slots = append(slots, data[:m.SlotSize:m.SlotSize])
		data = data[m.SlotSize:]
	}
	return slots, nil
}
