//go:build windows

package xbase

import (
	"os"

	"golang.org/x/sys/windows"
)

func lockRegion(handle *os.File, exclusive bool, offset int64, length int64) error {
	var flags uint32
	if exclusive {
		flags = windows.LOCKFILE_EXCLUSIVE_LOCK
	}
	overlapped := &windows.Overlapped{
		Offset:     uint32(offset),
		OffsetHigh: uint32(offset >> 32),
	}
	return windows.LockFileEx(windows.Handle(handle.Fd()), flags, 0, uint32(length), uint32(length>>32), overlapped)
}

func unlockRegion(handle *os.File, offset int64, length int64) error {
	overlapped := &windows.Overlapped{
		Offset:     uint32(offset),
		OffsetHigh: uint32(offset >> 32),
	}
	return windows.UnlockFileEx(windows.Handle(handle.Fd()), 0, uint32(length), uint32(length>>32), overlapped)
}
