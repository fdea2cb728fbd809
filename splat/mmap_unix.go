//go:build !windows

package splat

import (
	"os"

	"golang.org/x/sys/unix"
)

// mmapping is a read-only memory mapping of an entire file, scoped to
// the lifetime of a Buffer.
type mmapping struct {
	data []byte
}

func mapFile(f *os.File, size int64) (mmapping, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return mmapping{}, err
	}
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)
	return mmapping{data: data}, nil
}

func (m mmapping) bytes() []byte { return m.data }

func (m mmapping) unmap() error {
	if m.data == nil {
		return nil
	}
	return unix.Munmap(m.data)
}
