//go:build windows

package splat

import (
	"os"

	"golang.org/x/sys/windows"
)

// mmapping is a read-only memory mapping of an entire file, scoped to
// the lifetime of a Buffer.
type mmapping struct {
	handle windows.Handle
	addr   uintptr
	data   []byte
}

func mapFile(f *os.File, size int64) (mmapping, error) {
	h, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READONLY, 0, 0, nil)
	if err != nil {
		return mmapping{}, err
	}
	addr, err := windows.MapViewOfFile(h, windows.FILE_MAP_READ, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(h)
		return mmapping{}, err
	}
	data := unsafeSlice(addr, int(size))
	return mmapping{handle: h, addr: addr, data: data}, nil
}

func (m mmapping) bytes() []byte { return m.data }

func (m mmapping) unmap() error {
	if m.addr == 0 {
		return nil
	}
	if err := windows.UnmapViewOfFile(m.addr); err != nil {
		return err
	}
	return windows.CloseHandle(m.handle)
}
