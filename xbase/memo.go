package xbase

import (
	"bytes"
	"encoding/binary"
	"os"
)

// DBTPath derives the memo side file path from a table file path by
// replacing the last three characters of the name.
func DBTPath(dbfPath string) string {
	if len(dbfPath) < 3 {
		return dbfPath
	}
	return dbfPath[:len(dbfPath)-3] + "dbt"
}

// createDBT writes a fresh memo file with an empty block 0. The next
// available block starts at 1 and block 0 is padded to a full block.
func createDBT(config *Config, path string, baseName string) error {
	handle, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|config.openFlags(), 0644)
	if err != nil {
		return newError("xbase-memo-createdbt-1", err)
	}
	defer func() {
		if cerr := handle.Close(); cerr != nil {
			errorf("closing %s failed: %v", path, cerr)
		}
	}()
	header := memoHeader{
		NextAvailable: 1,
		InitialMark:   1,
		BlockLength:   config.blockLength(),
	}
	copy(header.BaseName[:], baseName)
	buffer := new(bytes.Buffer)
	if err := binary.Write(buffer, binary.LittleEndian, &header); err != nil {
		return newError("xbase-memo-createdbt-2", err)
	}
	block := make([]byte, BlockSize)
	copy(block, buffer.Bytes())
	if _, err := handle.WriteAt(block, 0); err != nil {
		return newError("xbase-memo-createdbt-3", err)
	}
	return nil
}

// openDBT opens the memo file and reads block 0. Block lengths below 64
// bytes mark the file as corrupt.
func openDBT(config *Config, path string) (*os.File, memoHeader, error) {
	handle, err := os.OpenFile(path, config.openFlags(), 0644)
	if err != nil {
		return nil, memoHeader{}, newError("xbase-memo-opendbt-1", err)
	}
	raw, err := readExact(handle, 0, 22)
	if err != nil {
		closeQuietly(handle, path)
		return nil, memoHeader{}, newError("xbase-memo-opendbt-2", err)
	}
	var header memoHeader
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &header); err != nil {
		closeQuietly(handle, path)
		return nil, memoHeader{}, newError("xbase-memo-opendbt-3", err)
	}
	if header.BlockLength < 64 {
		closeQuietly(handle, path)
		return nil, memoHeader{}, newErrorf("xbase-memo-opendbt-4", "%w: memo block length %d below 64", ErrCorrupt, header.BlockLength)
	}
	return handle, header, nil
}

func closeQuietly(handle *os.File, path string) {
	if err := handle.Close(); err != nil {
		errorf("closing %s failed: %v", path, err)
	}
}

// readMemo returns the value stored in the chain starting at blockNumber.
// The call opens and closes its own handle on the memo file.
func readMemo(config *Config, path string, blockNumber uint32) ([]byte, error) {
	handle, header, err := openDBT(config, path)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(handle, path)
	blockLength := int64(header.BlockLength)
	position := int64(blockNumber) * blockLength
	prefix, err := readExact(handle, position, 8)
	if err != nil {
		return nil, newError("xbase-memo-readmemo-1", err)
	}
	if !bytes.Equal(prefix[:4], memoSentinel) {
		return nil, newErrorf("xbase-memo-readmemo-2", "%w: memo block %d has no record marker", ErrCorrupt, blockNumber)
	}
	length := int(binary.LittleEndian.Uint32(prefix[4:8])) - 8
	if length < 0 {
		return nil, newErrorf("xbase-memo-readmemo-3", "%w: memo block %d has negative length", ErrCorrupt, blockNumber)
	}
	lock, err := acquireRegion(config, handle, false, position, int64(length)+8)
	if err != nil {
		return nil, err
	}
	defer lock.release()
	value, err := readExact(handle, position+8, length)
	if err != nil {
		return nil, newError("xbase-memo-readmemo-4", err)
	}
	return value, nil
}

// readMemoLength returns the stored value length of the chain starting at
// blockNumber without reading the value.
func readMemoLength(config *Config, path string, blockNumber uint32) (int, error) {
	handle, header, err := openDBT(config, path)
	if err != nil {
		return 0, err
	}
	defer closeQuietly(handle, path)
	position := int64(blockNumber) * int64(header.BlockLength)
	prefix, err := readExact(handle, position, 8)
	if err != nil {
		return 0, newError("xbase-memo-readmemolength-1", err)
	}
	if !bytes.Equal(prefix[:4], memoSentinel) {
		return 0, newErrorf("xbase-memo-readmemolength-2", "%w: memo block %d has no record marker", ErrCorrupt, blockNumber)
	}
	return int(binary.LittleEndian.Uint32(prefix[4:8])) - 8, nil
}

// writeMemo stores value in the memo file. The chain at oldBlockNumber is
// reused when it is non zero and holds enough blocks, otherwise a fresh
// chain is appended at the next available block under an exclusive lock on
// the free list pointer. It returns the block number of the chain and
// whether it was appended.
func writeMemo(config *Config, path string, oldBlockNumber uint32, oldLength int, value []byte) (uint32, bool, error) {
	handle, header, err := openDBT(config, path)
	if err != nil {
		return 0, false, err
	}
	defer closeQuietly(handle, path)
	blockLength := int(header.BlockLength)
	oldBlocks := (oldLength + 8 + blockLength - 1) / blockLength
	newBlocks := (len(value) + 8 + blockLength - 1) / blockLength
	payload := make([]byte, newBlocks*blockLength-4)
	binary.LittleEndian.PutUint32(payload[:4], uint32(len(value)+8))
	copy(payload[4:], value)

	if oldBlockNumber != 0 && newBlocks <= oldBlocks {
		position := int64(oldBlockNumber)*int64(blockLength) + 4
		if _, err := handle.WriteAt(payload, position); err != nil {
			return 0, false, newError("xbase-memo-writememo-1", err)
		}
		debugf("memo value of %d bytes reused block %d of %s", len(value), oldBlockNumber, path)
		return oldBlockNumber, false, nil
	}

	lock, err := acquireRegion(config, handle, true, 0, 4)
	if err != nil {
		return 0, false, err
	}
	defer lock.release()
	raw, err := readExact(handle, 0, 4)
	if err != nil {
		return 0, false, newError("xbase-memo-writememo-2", err)
	}
	next := binary.LittleEndian.Uint32(raw)
	updated := make([]byte, 4)
	binary.LittleEndian.PutUint32(updated, next+uint32(newBlocks))
	if _, err := handle.WriteAt(updated, 0); err != nil {
		return 0, false, newError("xbase-memo-writememo-3", err)
	}
	position := int64(next) * int64(blockLength)
	if _, err := handle.WriteAt(memoSentinel, position); err != nil {
		return 0, false, newError("xbase-memo-writememo-4", err)
	}
	if _, err := handle.WriteAt(payload, position+4); err != nil {
		return 0, false, newError("xbase-memo-writememo-5", err)
	}
	debugf("memo value of %d bytes appended at block %d of %s", len(value), next, path)
	return next, true, nil
}
