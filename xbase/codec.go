package xbase

import (
	"bytes"
	"io"
	"os"
)

// readExact reads exactly length bytes at position. Partial reads are
// retried until the buffer is filled, an end of file before that is
// reported as ErrTruncated.
func readExact(handle *os.File, position int64, length int) ([]byte, error) {
	buffer := make([]byte, length)
	read := 0
	for read < length {
		n, err := handle.ReadAt(buffer[read:], position+int64(read))
		read += n
		if err == io.EOF && read < length {
			return nil, newErrorf("xbase-codec-readexact-1", "%w: unexpected end of file at offset %d, wanted %d bytes", ErrTruncated, position, length)
		}
		if err != nil && err != io.EOF {
			return nil, newError("xbase-codec-readexact-2", err)
		}
	}
	return buffer, nil
}

// asciiz returns the bytes up to the first null as a string.
func asciiz(raw []byte) string {
	if i := bytes.IndexByte(raw, Null); i >= 0 {
		raw = raw[:i]
	}
	return string(raw)
}

// trimSpaces returns the bytes with leading and trailing spaces and nulls
// removed as a string.
func trimSpaces(raw []byte) string {
	return string(bytes.Trim(raw, " \x00"))
}
