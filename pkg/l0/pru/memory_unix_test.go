//go:build unix

package pru

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/vlc.go/pkg/l0/ring"
)

func TestMapMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shm")
	sim := NewSim(NewMemoryMedium()).WithMemory(MapMemory(path))

	buf := ring.New(sim, 4, 8)
	require.NoError(t, buf.Open())
	fillSlots(t, buf, 3)
	require.NoError(t, buf.Close())

	// a second mapping of the same file sees the slots.
	buf = ring.New(MapMemory(path), 4, 8)
	require.NoError(t, buf.Open())
	defer buf.Close()
	out := make([]byte, 4)
	require.NoError(t, buf.SetCursor(2))
	require.NoError(t, buf.Pop(out))
	require.Equal(t, []byte{2, 2, 2, 2}, out)
}
