//go:build !unix

package pru

import "github.com/robotalks/vlc.go/pkg/l0/ring"

type fileMapper string

// MapMemory is not available on this platform; opening always fails.
func MapMemory(path string) ring.MemoryOpener {
	return fileMapper(path)
}

// OpenMemory implements ring.MemoryOpener.
func (m fileMapper) OpenMemory(size int) (ring.Region, error) {
	return nil, ErrMapUnsupported
}
