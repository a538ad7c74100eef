// Package frame packs variable-length data chunks into fixed-size frames.
//
// A frame is a little-endian 16-bit bit-length header followed by a
// fixed payload area. Payload bytes past the encoded length are zero
// padding and never part of the data.
package frame

import (
	"encoding/binary"
	"errors"
)

const (
	// HeaderSize is the size of the bit-length header.
	HeaderSize = 2
	// PayloadSize is the capacity of a frame in bytes.
	PayloadSize = 40
	// Size is the total size of a frame.
	Size = HeaderSize + PayloadSize
	// MaxBits is the largest bit length a frame can carry.
	MaxBits = PayloadSize * 8
)

var (
	// ErrBitLength indicates a bit length outside [0, MaxBits].
	ErrBitLength = errors.New("frame: bit length out of range")
	// ErrShortData indicates fewer data bytes than the bit length needs.
	ErrShortData = errors.New("frame: data shorter than bit length")
	// ErrMalformedFrame indicates the header exceeds MaxBits.
	ErrMalformedFrame = errors.New("frame: malformed header")
	// ErrFrameSize indicates a buffer too small to hold a frame.
	ErrFrameSize = errors.New("frame: buffer too small")
)

// Frame is a fixed-size frame.
type Frame [Size]byte

// ByteLen returns the number of bytes needed for bitLength bits.
func ByteLen(bitLength int) int {
	return (bitLength + 7) / 8
}

// Pack builds a frame holding the first bitLength bits of data.
func Pack(data []byte, bitLength int) (f Frame, err error) {
	if bitLength < 0 || bitLength > MaxBits {
		return f, ErrBitLength
	}
	n := ByteLen(bitLength)
	if n > len(data) {
		return f, ErrShortData
	}
	binary.LittleEndian.PutUint16(f[:HeaderSize], uint16(bitLength))
	copy(f[HeaderSize:], data[:n])
	return f, nil
}

// Unpack returns the data and bit length carried by the frame.
// The returned slice refers to the frame's payload.
func Unpack(f *Frame) ([]byte, int, error) {
	bitLength := f.BitLength()
	if bitLength > MaxBits {
		return nil, bitLength, ErrMalformedFrame
	}
	return f[HeaderSize : HeaderSize+ByteLen(bitLength)], bitLength, nil
}

// FromBytes copies the first Size bytes of b into a frame.
func FromBytes(b []byte) (f Frame, err error) {
	if len(b) < Size {
		return f, ErrFrameSize
	}
	copy(f[:], b)
	return f, nil
}

// BitLength reads the header.
func (f *Frame) BitLength() int {
	return int(binary.LittleEndian.Uint16(f[:HeaderSize]))
}

// Bytes returns the frame as a slice.
func (f *Frame) Bytes() []byte {
	return f[:]
}

// Split packs data into full frames and a final short frame.
// Empty data yields no frames.
func Split(data []byte) []Frame {
	frames := make([]Frame, 0, (len(data)+PayloadSize-1)/PayloadSize)
	for len(data) > 0 {
		n := len(data)
		if n > PayloadSize {
			n = PayloadSize
		}
		f, _ := Pack(data, n*8)
		frames = append(frames, f)
		data = data[n:]
	}
	return frames
}

// Mask clears the bits of the final byte beyond bitLength.
func Mask(data []byte, bitLength int) {
	if rem := bitLength & 7; rem != 0 && len(data) > 0 {
		if n := ByteLen(bitLength); n <= len(data) {
			data[n-1] &= byte(0xff) << uint(8-rem)
		}
	}
}
