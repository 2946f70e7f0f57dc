//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) ([]byte, error) {
	return unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
}

func unmapFile(data []byte) error {
	return unix.Munmap(data)
}

// advise expects data to start on a page boundary.
func advise(data []byte, a Advice) error {
	flag := unix.MADV_NORMAL
	if a == Sequential {
		flag = unix.MADV_SEQUENTIAL
	}
	return unix.Madvise(data, flag)
}
