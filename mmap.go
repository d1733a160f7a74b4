// mmap.go -- read-only memory map of a frozen table file
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Unlike go-chd's mmap.go, this file does not reinterpret mmap'd bytes as
// native-width int/uint slices via unsafe.Pointer: every multi-byte integer
// in this table format is mandated big-endian on disk (spec section 6), so
// a host-endian reinterpret cast would silently produce wrong values on
// little-endian hosts. Values are decoded with encoding/binary instead.

package ftstable

import (
	"fmt"
	"os"
	"syscall"
)

// mmapFile maps the entirety of fd read-only, private (copy-on-write,
// though nothing ever writes to it). The returned slice is valid until
// munmap is called on it.
func mmapFile(fd *os.File) ([]byte, error) {
	st, err := fd.Stat()
	if err != nil {
		return nil, err
	}

	sz := st.Size()
	if sz == 0 {
		return nil, fmt.Errorf("%w: %s: empty file", ErrFormat, fd.Name())
	}

	b, err := syscall.Mmap(int(fd.Fd()), 0, int(sz), syscall.PROT_READ, syscall.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("%s: can't mmap %d bytes: %w", fd.Name(), sz, err)
	}

	return b, nil
}

func munmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return syscall.Munmap(b)
}
