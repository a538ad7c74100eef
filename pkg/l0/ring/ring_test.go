package ring

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testRegion struct {
	heapRegion
	closed bool
}

func (r *testRegion) Close() error {
	r.closed = true
	return nil
}

type testOpener struct {
	regions []*testRegion
	size    int
	err     error
}

func (o *testOpener) OpenMemory(size int) (Region, error) {
	if o.err != nil {
		return nil, o.err
	}
	if o.size > 0 {
		size = o.size
	}
	r := &testRegion{heapRegion: make(heapRegion, size)}
	o.regions = append(o.regions, r)
	return r, nil
}

func filledSlot(size int, v byte) []byte {
	slot := make([]byte, size)
	for i := range slot {
		slot[i] = v
	}
	return slot
}

func TestPushPopOrder(t *testing.T) {
	b := New(Heap, 81, 6500)
	require.NoError(t, b.Open())
	defer b.Close()
	for n := 0; n < 40; n++ {
		require.NoError(t, b.Push(filledSlot(81, byte(n))))
	}
	require.Equal(t, 40, b.Cursor())
	require.NoError(t, b.SetCursor(0))
	out := make([]byte, 81)
	for n := 0; n < 40; n++ {
		require.NoError(t, b.Pop(out))
		require.Equal(t, filledSlot(81, byte(n)), out)
	}
}

func TestSingleSlotRoundTrip(t *testing.T) {
	b := New(Heap, 81, 4)
	require.NoError(t, b.Open())
	slot := make([]byte, 81)
	for i := range slot {
		slot[i] = byte(i%26) + 'a'
	}
	require.NoError(t, b.Push(slot))
	require.NoError(t, b.SetCursor(0))
	out := make([]byte, 81)
	require.NoError(t, b.Pop(out))
	require.Equal(t, slot, out)
	require.NoError(t, b.Close())
}

func TestNotOpen(t *testing.T) {
	b := New(Heap, 4, 4)
	slot := make([]byte, 4)
	require.Equal(t, ErrNotOpen, b.Push(slot))
	require.Equal(t, ErrNotOpen, b.Pop(slot))
	require.Equal(t, ErrNotOpen, b.SetCursor(0))
	require.Equal(t, ErrNotOpen, b.SetLength(1))
	require.NoError(t, b.Close())

	require.NoError(t, b.Open())
	require.Equal(t, ErrAlreadyOpen, b.Open())
	require.NoError(t, b.Close())
	require.False(t, b.IsOpen())
	require.Equal(t, ErrNotOpen, b.Push(slot))
}

func TestBounds(t *testing.T) {
	b := New(Heap, 2, 3)
	require.NoError(t, b.Open())
	defer b.Close()
	slot := []byte{1, 2}
	for i := 0; i < 3; i++ {
		require.NoError(t, b.Push(slot))
	}
	require.Equal(t, ErrBufferFull, b.Push(slot))
	require.Equal(t, ErrSlotSize, b.Push([]byte{1}))

	require.NoError(t, b.SetLength(2))
	require.NoError(t, b.SetCursor(0))
	out := make([]byte, 2)
	require.NoError(t, b.Pop(out))
	require.NoError(t, b.Pop(out))
	require.Equal(t, ErrCursorOutOfRange, b.Pop(out))
	require.Equal(t, ErrSlotSize, b.Pop(out[:1]))

	require.NoError(t, b.SetLength(0))
	require.NoError(t, b.SetCursor(0))
	require.Equal(t, ErrBufferEmpty, b.Pop(out))

	require.Equal(t, ErrLengthRange, b.SetLength(4))
	require.Equal(t, ErrCursorOutOfRange, b.SetCursor(4))
	require.Equal(t, ErrCursorOutOfRange, b.SetCursor(-1))
}

func TestControlHeader(t *testing.T) {
	opener := &testOpener{}
	b := New(opener, 2, 10)
	require.NoError(t, b.Open())
	require.Len(t, opener.regions, 1)
	mem := opener.regions[0].Bytes()
	require.Len(t, mem, RegionSize(2, 10))
	require.Equal(t, uint32(10), binary.LittleEndian.Uint32(mem[0:]))

	require.NoError(t, b.SetLength(6))
	require.NoError(t, b.Push([]byte{0xab, 0xcd}))
	require.Equal(t, uint32(6), binary.LittleEndian.Uint32(mem[0:]))
	require.Equal(t, uint32(1), binary.LittleEndian.Uint32(mem[4:]))
	require.Equal(t, []byte{0xab, 0xcd}, mem[HeaderSize:HeaderSize+2])

	require.NoError(t, b.Close())
	require.True(t, opener.regions[0].closed)

	// reopening rewinds and declares full capacity.
	require.NoError(t, b.Open())
	require.Zero(t, b.Cursor())
	require.Equal(t, 10, b.Length())
	require.NoError(t, b.Close())
}

func TestSyncFromHeader(t *testing.T) {
	opener := &testOpener{}
	b := New(opener, 2, 10)
	require.Equal(t, ErrNotOpen, b.Sync())
	require.NoError(t, b.Open())
	defer b.Close()
	mem := opener.regions[0].Bytes()

	// the other side fills two slots and only moves the header cursor.
	copy(mem[HeaderSize:], []byte{1, 2, 3, 4})
	binary.LittleEndian.PutUint32(mem[4:], 2)
	require.Zero(t, b.Cursor())
	require.NoError(t, b.Sync())
	require.Equal(t, 2, b.Cursor())
	require.Equal(t, 10, b.Length())

	require.NoError(t, b.SetCursor(0))
	out := make([]byte, 2)
	require.NoError(t, b.Pop(out))
	require.Equal(t, []byte{1, 2}, out)

	binary.LittleEndian.PutUint32(mem[0:], 11)
	require.Equal(t, ErrLengthRange, b.Sync())
	binary.LittleEndian.PutUint32(mem[0:], 5)
	binary.LittleEndian.PutUint32(mem[4:], 11)
	require.Equal(t, ErrCursorOutOfRange, b.Sync())
	require.Equal(t, 1, b.Cursor())
	require.Equal(t, 10, b.Length())
}

func TestOpenErrors(t *testing.T) {
	errMap := errors.New("map failed")
	b := New(&testOpener{err: errMap}, 2, 2)
	require.Equal(t, errMap, b.Open())
	require.False(t, b.IsOpen())

	opener := &testOpener{size: 4}
	b = New(opener, 2, 2)
	require.Equal(t, ErrRegionSize, b.Open())
	require.True(t, opener.regions[0].closed)
	require.False(t, b.IsOpen())
}
