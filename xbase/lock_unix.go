//go:build !windows

package xbase

import (
	"io"
	"os"

	"golang.org/x/sys/unix"
)

func lockRegion(handle *os.File, exclusive bool, offset int64, length int64) error {
	lockType := int16(unix.F_RDLCK)
	if exclusive {
		lockType = int16(unix.F_WRLCK)
	}
	flock := unix.Flock_t{
		Type:   lockType,
		Whence: int16(io.SeekStart),
		Start:  offset,
		Len:    length,
	}
	return unix.FcntlFlock(handle.Fd(), unix.F_SETLKW, &flock)
}

func unlockRegion(handle *os.File, offset int64, length int64) error {
	flock := unix.Flock_t{
		Type:   int16(unix.F_UNLCK),
		Whence: int16(io.SeekStart),
		Start:  offset,
		Len:    length,
	}
	return unix.FcntlFlock(handle.Fd(), unix.F_SETLK, &flock)
}
