package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func generateData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i%26) + 'a'
	}
	return data
}

func TestPackUnpackRoundTrip(t *testing.T) {
	data := generateData(PayloadSize)
	for bits := 0; bits <= MaxBits; bits++ {
		f, err := Pack(data, bits)
		require.NoError(t, err)
		out, n, err := Unpack(&f)
		require.NoError(t, err)
		require.Equal(t, bits, n)
		require.Equal(t, data[:ByteLen(bits)], out)
		for _, b := range f[HeaderSize+ByteLen(bits):] {
			require.Zero(t, b)
		}
	}
}

func TestPackFullAndShort(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"full", 40},
		{"short", 30},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data := generateData(test.size)
			f, err := Pack(data, test.size*8)
			require.NoError(t, err)
			require.Equal(t, test.size*8, f.BitLength())
			out, _, err := Unpack(&f)
			require.NoError(t, err)
			require.Equal(t, data, out)
		})
	}
}

func TestPackErrors(t *testing.T) {
	_, err := Pack(generateData(41), MaxBits+1)
	require.Equal(t, ErrBitLength, err)
	_, err = Pack(generateData(1), -1)
	require.Equal(t, ErrBitLength, err)
	_, err = Pack(generateData(2), 17)
	require.Equal(t, ErrShortData, err)
}

func TestHeaderLayout(t *testing.T) {
	f, err := Pack(generateData(40), 320)
	require.NoError(t, err)
	require.Equal(t, []byte{0x40, 0x01}, f[:HeaderSize])
}

func TestUnpackMalformed(t *testing.T) {
	var f Frame
	f[0], f[1] = 0x41, 0x01
	_, n, err := Unpack(&f)
	require.Equal(t, ErrMalformedFrame, err)
	require.Equal(t, 321, n)

	f[0], f[1] = 0xff, 0xff
	_, _, err = Unpack(&f)
	require.Equal(t, ErrMalformedFrame, err)
}

func TestEmptyFrame(t *testing.T) {
	f, err := Pack(nil, 0)
	require.NoError(t, err)
	out, n, err := Unpack(&f)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, out)
}

func TestFromBytes(t *testing.T) {
	_, err := FromBytes(make([]byte, Size-1))
	require.Equal(t, ErrFrameSize, err)
	src, _ := Pack(generateData(10), 80)
	f, err := FromBytes(append(src.Bytes(), 0xaa))
	require.NoError(t, err)
	require.Equal(t, src, f)
}

func TestSplit(t *testing.T) {
	data := generateData(1000)
	frames := Split(data)
	require.Len(t, frames, 25)
	var out []byte
	for i := range frames {
		chunk, _, err := Unpack(&frames[i])
		require.NoError(t, err)
		out = append(out, chunk...)
	}
	require.Equal(t, data, out)

	frames = Split(generateData(45))
	require.Len(t, frames, 2)
	require.Equal(t, 40, frames[1].BitLength())
	require.Empty(t, Split(nil))
}

func TestMask(t *testing.T) {
	data := []byte{0xff, 0xff}
	Mask(data, 12)
	require.Equal(t, []byte{0xff, 0xf0}, data)
	data = []byte{0xff, 0xff}
	Mask(data, 16)
	require.Equal(t, []byte{0xff, 0xff}, data)
}
