//go:build unix

package pru

import (
	"os"

	"golang.org/x/sys/unix"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l0/ring"
)

type fileMapper string

// MapMemory opens regions by mapping path shared and writable, e.g. a
// UIO device node exposing the co-processor RAM or a file under
// /dev/shm shared with a simulator. Regular files are grown to the
// requested size.
func MapMemory(path string) ring.MemoryOpener {
	return fileMapper(path)
}

// OpenMemory implements ring.MemoryOpener.
func (m fileMapper) OpenMemory(size int) (ring.Region, error) {
	f, err := os.OpenFile(string(m), os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err == nil && info.Mode().IsRegular() && info.Size() < int64(size) {
		err = f.Truncate(int64(size))
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &mappedRegion{file: f, mem: mem}, nil
}

type mappedRegion struct {
	file *os.File
	mem  []byte
}

func (r *mappedRegion) Bytes() []byte {
	return r.mem
}

func (r *mappedRegion) Close() error {
	var errs fx.AggregatedError
	if r.mem != nil {
		errs.Add(unix.Munmap(r.mem))
		r.mem = nil
	}
	if r.file != nil {
		errs.Add(r.file.Close())
		r.file = nil
	}
	return errs.Aggregate()
}
