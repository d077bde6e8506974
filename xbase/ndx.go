package xbase

import (
	"encoding/binary"
	"math"
	"os"
	"strings"
	"sync"
)

// NDX is an open single index file. It exposes point lookup over one
// B+ tree of 512 byte pages. Pages are numbered from 1, page 0 holds the
// header.
type NDX struct {
	config     *Config
	handle     *os.File
	path       string
	mutex      *sync.Mutex
	startPage  uint32
	totalPages uint32
	keyLength  int
	keysPer    int
	dataType   IndexDataType
	unique     bool
	expression string
	pageNumber uint32
	page       []byte
}

// OpenNDX opens an index file and reads its header page. Date typed
// indexes are recognized but not handled.
func OpenNDX(config *Config) (*NDX, error) {
	path := config.path()
	handle, err := os.OpenFile(path, config.openFlags(), 0644)
	if err != nil {
		return nil, newError("xbase-ndx-openndx-1", err)
	}
	index := &NDX{
		config: config,
		handle: handle,
		path:   path,
		mutex:  config.mutex(),
		page:   make([]byte, BlockSize),
	}
	if err := index.readStructure(); err != nil {
		closeQuietly(handle, path)
		return nil, err
	}
	debugf("opened NDX %s on %q with %d pages", path, index.expression, index.totalPages)
	return index, nil
}

// Close releases the index file handle.
func (index *NDX) Close() error {
	if err := index.handle.Close(); err != nil {
		return newError("xbase-ndx-close-1", err)
	}
	return nil
}

// StartPage returns the page number of the tree root.
func (index *NDX) StartPage() uint32 { return index.startPage }

// TotalPages returns the page count of the file.
func (index *NDX) TotalPages() uint32 { return index.totalPages }

// KeyLength returns the byte length of a key.
func (index *NDX) KeyLength() int { return index.keyLength }

// KeysPerPage returns the declared key capacity of a page.
func (index *NDX) KeysPerPage() int { return index.keysPer }

// DataType returns the key type of the index.
func (index *NDX) DataType() IndexDataType { return index.dataType }

// Unique reports whether the index rejects duplicate keys.
func (index *NDX) Unique() bool { return index.unique }

// KeyExpression returns the source expression the index was built over.
func (index *NDX) KeyExpression() string { return index.expression }

func (index *NDX) readStructure() error {
	raw, err := readExact(index.handle, 0, BlockSize)
	if err != nil {
		return newError("xbase-ndx-readstructure-1", err)
	}
	index.startPage = binary.LittleEndian.Uint32(raw[0:4])
	index.totalPages = binary.LittleEndian.Uint32(raw[4:8])
	index.keyLength = int(binary.LittleEndian.Uint16(raw[12:14]))
	index.keysPer = int(binary.LittleEndian.Uint16(raw[14:16]))
	index.dataType = IndexDataType(binary.LittleEndian.Uint16(raw[16:18]))
	keyRecordSize := int(binary.LittleEndian.Uint16(raw[18:20]))
	if keyRecordSize != index.keyRecordSize() {
		return newErrorf("xbase-ndx-readstructure-2", "%w: key record size %d does not match key length %d", ErrCorrupt, keyRecordSize, index.keyLength)
	}
	index.unique = binary.LittleEndian.Uint16(raw[22:24]) != 0
	index.expression = asciiz(raw[24:])
	if index.dataType == DateIndex {
		return newErrorf("xbase-ndx-readstructure-3", "%w: date keyed NDX files are not handled", ErrUnsupported)
	}
	return nil
}

// keyRecordSize is the stride of one key record inside a page.
func (index *NDX) keyRecordSize() int {
	return (index.keyLength+3)/4*4 + 8
}

func (index *NDX) gotoPage(pageNumber uint32) error {
	if index.pageNumber == pageNumber {
		return nil
	}
	if pageNumber == 0 || pageNumber > index.totalPages {
		return newErrorf("xbase-ndx-gotopage-1", "%w: page %d outside 1..%d", ErrCorrupt, pageNumber, index.totalPages)
	}
	raw, err := readExact(index.handle, int64(BlockSize)*int64(pageNumber), BlockSize)
	if err != nil {
		return newError("xbase-ndx-gotopage-2", err)
	}
	index.pageNumber = pageNumber
	copy(index.page, raw)
	return nil
}

func (index *NDX) keysInPage() int {
	return int(binary.LittleEndian.Uint32(index.page[0:4]))
}

func (index *NDX) nextPage(key int) uint32 {
	return binary.LittleEndian.Uint32(index.page[4+key*index.keyRecordSize():])
}

func (index *NDX) recordNumber(key int) int {
	return int(binary.LittleEndian.Uint32(index.page[8+key*index.keyRecordSize():]))
}

// storedKey returns the key bytes of the entry, cut at the first null.
func (index *NDX) storedKey(key int) string {
	offset := 12 + key*index.keyRecordSize()
	return asciiz(index.page[offset : offset+index.keyLength])
}

// Find returns the record number of the first key that orders at or after
// value, or RecordNumberEOF when every key orders before it. A value
// without an equal key yields the record of the next greater key.
func (index *NDX) Find(value Value) (int, error) {
	if index.config.ThreadSafe {
		index.mutex.Lock()
		defer index.mutex.Unlock()
	}
	return index.find(value, index.startPage)
}

func (index *NDX) find(value Value, pageNumber uint32) (int, error) {
	if err := index.gotoPage(pageNumber); err != nil {
		return RecordNumberEOF, err
	}
	keysInPage := index.keysInPage()
	for i := 0; i < keysInPage; i++ {
		next := index.nextPage(i)
		record := index.recordNumber(i)
		var compareResult int
		switch index.dataType {
		case NumericIndex:
			search, err := value.AsFloat()
			if err != nil {
				return RecordNumberEOF, err
			}
			compareResult = compareFloats(index.storedNumber(i), search)
		default:
			search, err := characterSearchKey(value, index.keyLength)
			if err != nil {
				return RecordNumberEOF, err
			}
			compareResult = strings.Compare(index.storedKey(i), search)
		}
		if compareResult >= 0 {
			if next == 0 {
				return record, nil
			}
			return index.find(value, next)
		}
	}
	return RecordNumberEOF, nil
}

// storedNumber decodes a numeric key as a little endian float64 read from
// its first 8 bytes, zero for keys shorter than 8 bytes.
func (index *NDX) storedNumber(key int) float64 {
	if index.keyLength < 8 {
		return 0
	}
	offset := 12 + key*index.keyRecordSize()
	return math.Float64frombits(binary.LittleEndian.Uint64(index.page[offset:]))
}

// characterSearchKey renders the search value as a string padded with
// spaces to the key length. Dates render in their index key form.
func characterSearchKey(value Value, keyLength int) (string, error) {
	var text string
	switch value.Kind() {
	case KindString:
		text, _ = value.AsString()
	case KindDate:
		date, _ := value.AsDate()
		text = date.DTOS()
	default:
		text = value.String()
	}
	if len(text) < keyLength {
		text += strings.Repeat(" ", keyLength-len(text))
	}
	return text, nil
}

func compareFloats(a float64, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
