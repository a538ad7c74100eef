// Package ring implements the packet ring buffer shared with the
// realtime hardware.
//
// The shared region starts with a control header read by the hardware
// side (declared slot count and cursor, little-endian uint32 each),
// followed by the slots. The buffer is used by one party at a time:
// the host fills or drains it, and lends it to the hardware while the
// physical transfer runs.
package ring

import (
	"encoding/binary"
	"errors"
)

// HeaderSize is the size of the control header in the region.
const HeaderSize = 8

var (
	// ErrNotOpen indicates the region is not mapped.
	ErrNotOpen = errors.New("ring: not open")
	// ErrAlreadyOpen indicates Open was called twice.
	ErrAlreadyOpen = errors.New("ring: already open")
	// ErrBufferFull indicates a push at capacity.
	ErrBufferFull = errors.New("ring: buffer full")
	// ErrBufferEmpty indicates a pop with no declared slots.
	ErrBufferEmpty = errors.New("ring: buffer empty")
	// ErrCursorOutOfRange indicates a pop past the declared length or a
	// cursor beyond capacity.
	ErrCursorOutOfRange = errors.New("ring: cursor out of range")
	// ErrLengthRange indicates a declared length beyond capacity.
	ErrLengthRange = errors.New("ring: length out of range")
	// ErrSlotSize indicates a slot buffer of the wrong size.
	ErrSlotSize = errors.New("ring: invalid slot size")
	// ErrRegionSize indicates a region smaller than the buffer needs.
	ErrRegionSize = errors.New("ring: region too small")
)

// Region is a mapped memory area. Close releases the mapping.
type Region interface {
	Bytes() []byte
	Close() error
}

// MemoryOpener maps a Region of at least size bytes.
type MemoryOpener interface {
	OpenMemory(size int) (Region, error)
}

// RegionSize returns the region size needed for capacity slots.
func RegionSize(slotSize, capacity int) int {
	return HeaderSize + slotSize*capacity
}

// Buffer is a fixed-capacity sequence of fixed-size slots addressed
// by a single cursor.
type Buffer struct {
	opener   MemoryOpener
	slotSize int
	capacity int

	region Region
	slots  []byte
	cursor int
	length int
}

// New creates a Buffer. The memory is not mapped until Open.
func New(opener MemoryOpener, slotSize, capacity int) *Buffer {
	return &Buffer{opener: opener, slotSize: slotSize, capacity: capacity}
}

// SlotSize returns the size of one slot.
func (b *Buffer) SlotSize() int {
	return b.slotSize
}

// Capacity returns the number of slots.
func (b *Buffer) Capacity() int {
	return b.capacity
}

// IsOpen reports whether the region is mapped.
func (b *Buffer) IsOpen() bool {
	return b.region != nil
}

// Open maps the region, rewinds the cursor and declares every slot.
func (b *Buffer) Open() error {
	if b.region != nil {
		return ErrAlreadyOpen
	}
	size := RegionSize(b.slotSize, b.capacity)
	region, err := b.opener.OpenMemory(size)
	if err != nil {
		return err
	}
	mem := region.Bytes()
	if len(mem) < size {
		region.Close()
		return ErrRegionSize
	}
	b.region, b.slots = region, mem[HeaderSize:size]
	b.cursor, b.length = 0, b.capacity
	b.syncHeader()
	return nil
}

// Close unmaps the region. Closing a closed buffer is a no-op.
func (b *Buffer) Close() error {
	if b.region == nil {
		return nil
	}
	err := b.region.Close()
	b.region, b.slots = nil, nil
	return err
}

// SetLength declares the number of valid slots.
func (b *Buffer) SetLength(n int) error {
	if b.region == nil {
		return ErrNotOpen
	}
	if n < 0 || n > b.capacity {
		return ErrLengthRange
	}
	b.length = n
	b.syncHeader()
	return nil
}

// Length returns the declared number of valid slots.
func (b *Buffer) Length() int {
	return b.length
}

// Cursor returns the index of the next slot to read or write.
func (b *Buffer) Cursor() int {
	return b.cursor
}

// SetCursor repositions the cursor without touching slot data.
func (b *Buffer) SetCursor(index int) error {
	if b.region == nil {
		return ErrNotOpen
	}
	if index < 0 || index > b.capacity {
		return ErrCursorOutOfRange
	}
	b.cursor = index
	b.syncHeader()
	return nil
}

// Sync loads length and cursor from the control header, taking over
// whatever the hardware side wrote while it owned the region. Values
// beyond capacity are rejected and leave the buffer unchanged.
func (b *Buffer) Sync() error {
	if b.region == nil {
		return ErrNotOpen
	}
	hdr := b.region.Bytes()[:HeaderSize]
	length := binary.LittleEndian.Uint32(hdr[0:])
	cursor := binary.LittleEndian.Uint32(hdr[4:])
	if length > uint32(b.capacity) {
		return ErrLengthRange
	}
	if cursor > uint32(b.capacity) {
		return ErrCursorOutOfRange
	}
	b.length, b.cursor = int(length), int(cursor)
	return nil
}

// Push writes one slot at the cursor and advances it.
func (b *Buffer) Push(slot []byte) error {
	if b.region == nil {
		return ErrNotOpen
	}
	if len(slot) != b.slotSize {
		return ErrSlotSize
	}
	if b.cursor >= b.capacity {
		return ErrBufferFull
	}
	copy(b.slot(b.cursor), slot)
	b.cursor++
	b.syncHeader()
	return nil
}

// Pop copies the slot at the cursor into out and advances it.
func (b *Buffer) Pop(out []byte) error {
	if b.region == nil {
		return ErrNotOpen
	}
	if len(out) < b.slotSize {
		return ErrSlotSize
	}
	if b.length == 0 {
		return ErrBufferEmpty
	}
	if b.cursor >= b.length {
		return ErrCursorOutOfRange
	}
	copy(out, b.slot(b.cursor))
	b.cursor++
	b.syncHeader()
	return nil
}

func (b *Buffer) slot(index int) []byte {
	offset := index * b.slotSize
	return b.slots[offset : offset+b.slotSize]
}

func (b *Buffer) syncHeader() {
	hdr := b.region.Bytes()[:HeaderSize]
	binary.LittleEndian.PutUint32(hdr[0:], uint32(b.length))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(b.cursor))
}
