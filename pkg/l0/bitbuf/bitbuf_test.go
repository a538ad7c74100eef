package bitbuf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetSet(t *testing.T) {
	buf := make([]byte, 2)
	Set(buf, 0, 1)
	Set(buf, 9, 1)
	Set(buf, 15, 1)
	require.Equal(t, []byte{0x80, 0x41}, buf)
	require.Equal(t, byte(1), Get(buf, 0))
	require.Equal(t, byte(0), Get(buf, 1))
	require.Equal(t, byte(1), Get(buf, 9))
	require.Equal(t, byte(1), Get(buf, 15))

	Set(buf, 0, 0)
	Set(buf, 9, 2)
	require.Equal(t, []byte{0x00, 0x01}, buf)
	require.Equal(t, 16, Len(buf))
}

func TestFlip(t *testing.T) {
	buf := []byte{0xff, 0x00}
	for i := 0; i < Len(buf); i++ {
		Flip(buf, i)
	}
	require.Equal(t, []byte{0x00, 0xff}, buf)
}

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		n    int
	}{
		{"equal", []byte("abc"), []byte("abc"), 0},
		{"one bit", []byte{0x01}, []byte{0x00}, 1},
		{"all bits", []byte{0xff, 0xff}, []byte{0x00, 0x00}, 16},
		{"longer tail", []byte{0x0f}, []byte{0x0f, 0x03}, 2},
		{"empty", nil, []byte{0x80}, 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Equal(t, test.n, Distance(test.a, test.b))
			require.Equal(t, test.n, Distance(test.b, test.a))
		})
	}
}
