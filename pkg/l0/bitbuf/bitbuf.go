// Package bitbuf addresses individual bits in byte buffers.
//
// Bits are numbered from the most significant bit of the first byte,
// so bit 0 is buf[0]&0x80 and bit 9 is buf[1]&0x40.
package bitbuf

import "math/bits"

// Len returns the number of bits held by buf.
func Len(buf []byte) int {
	return len(buf) * 8
}

// Get returns bit i of buf as 0 or 1.
func Get(buf []byte, i int) byte {
	return (buf[i>>3] >> (7 - uint(i&7))) & 1
}

// Set sets bit i of buf to the lowest bit of v.
func Set(buf []byte, i int, v byte) {
	mask := byte(0x80) >> uint(i&7)
	if v&1 != 0 {
		buf[i>>3] |= mask
	} else {
		buf[i>>3] &^= mask
	}
}

// Flip inverts bit i of buf.
func Flip(buf []byte, i int) {
	buf[i>>3] ^= byte(0x80) >> uint(i&7)
}

// Distance counts differing bits between a and b. Bytes present in
// only one of the buffers count as compared against zero.
func Distance(a, b []byte) int {
	if len(a) < len(b) {
		a, b = b, a
	}
	var n int
	for i, v := range a {
		if i < len(b) {
			v ^= b[i]
		}
		n += bits.OnesCount8(v)
	}
	return n
}
