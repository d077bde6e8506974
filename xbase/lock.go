package xbase

import "os"

// region is a held advisory byte range lock on an open file.
type region struct {
	handle *os.File
	offset int64
	length int64
}

// acquireRegion takes an advisory lock over [offset, offset+length) of the
// file. A nil region is returned when locking is disabled, release handles
// that transparently.
func acquireRegion(config *Config, handle *os.File, exclusive bool, offset int64, length int64) (*region, error) {
	if !config.FileLocking {
		return nil, nil
	}
	if err := lockRegion(handle, exclusive, offset, length); err != nil {
		return nil, newError("xbase-lock-acquireregion-1", err)
	}
	debugf("locked %d bytes at %d of %s (exclusive=%v)", length, offset, handle.Name(), exclusive)
	return &region{handle: handle, offset: offset, length: length}, nil
}

// release drops the lock. Errors are logged, a failed unlock leaves
// nothing actionable for the caller.
func (r *region) release() {
	if r == nil {
		return
	}
	if err := unlockRegion(r.handle, r.offset, r.length); err != nil {
		errorf("unlocking %d bytes at %d of %s failed: %v", r.length, r.offset, r.handle.Name(), err)
	}
}
