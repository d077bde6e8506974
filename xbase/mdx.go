package xbase

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"
)

// Sign markers of the 12 byte packed decimal key encoding.
const (
	signNegativeWithDecimal    = 0xD1
	signNegativeWithoutDecimal = 0xA9
	signPositiveWithDecimal    = 0x51
	signPositiveWithoutDecimal = 0x29
	signZero                   = 0x10
)

// Tag is one of the indexes packed into an MDX file.
type Tag struct {
	Name             string
	DataType         IndexDataType
	HeaderBlock      uint32
	RootBlock        uint32
	SizeInBlocks     uint32
	KeyLength        int
	KeysPerBlock     int
	SecondaryKeyType int
	KeyItemLength    int
	LeftTag          int
	RightTag         int
	BackwardTag      int
	Unique           bool
	Descending       bool
}

// keyRecordSize is the stride of one key record inside a tag node.
func (tag *Tag) keyRecordSize() int {
	return (tag.KeyLength+3)/4*4 + 4
}

// MDX is an open multi tag index file. Lookup and ordered traversal work
// on the active tag selected with SetTag, the cursor position is a node
// block and a key slot within it. Node pages span blockSizeMultiplier
// physical 512 byte blocks.
type MDX struct {
	config              *Config
	handle              *os.File
	path                string
	mutex               *sync.Mutex
	version             byte
	dbfName             string
	blockSizeMultiplier int
	nodeSize            int
	reindexDate         Date
	lastUpdateDate      Date
	production          bool
	keysInTag           int
	tagLength           int
	tagsInUse           int
	numberOfBlocks      uint32
	firstFreeBlock      uint32
	availableBlock      uint32
	tags                []*Tag

	tag         *Tag
	blockNumber uint32
	keyIndex    int
	node        []byte
}

var _ Index = (*MDX)(nil)

// OpenMDX opens a multi tag index file and reads the header, every tag
// descriptor and every tag header.
func OpenMDX(config *Config) (*MDX, error) {
	path := config.path()
	handle, err := os.OpenFile(path, config.openFlags(), 0644)
	if err != nil {
		return nil, newError("xbase-mdx-openmdx-1", err)
	}
	index := &MDX{
		config: config,
		handle: handle,
		path:   path,
		mutex:  config.mutex(),
	}
	if err := index.readStructure(); err != nil {
		closeQuietly(handle, path)
		return nil, err
	}
	debugf("opened MDX %s for table %q with %d tags", path, index.dbfName, len(index.tags))
	return index, nil
}

// Close releases the index file handle.
func (index *MDX) Close() error {
	if err := index.handle.Close(); err != nil {
		return newError("xbase-mdx-close-1", err)
	}
	return nil
}

func (index *MDX) readStructure() error {
	raw, err := readExact(index.handle, 0, 544)
	if err != nil {
		return newError("xbase-mdx-readstructure-1", err)
	}
	index.version = raw[0]
	if index.version != 2 {
		errorf("MDX %s has unsupported version %x", index.path, index.version)
	}
	index.reindexDate = NewDate(int(raw[2]), int(raw[3]), int(raw[1])+2000)
	index.dbfName = asciiz(raw[4:20])
	index.blockSizeMultiplier = int(binary.LittleEndian.Uint16(raw[20:22]))
	index.nodeSize = int(binary.LittleEndian.Uint16(raw[22:24]))
	if index.nodeSize != index.blockSizeMultiplier*BlockSize {
		return newErrorf("xbase-mdx-readstructure-2", "%w: node size %d does not match block size multiplier %d", ErrCorrupt, index.nodeSize, index.blockSizeMultiplier)
	}
	index.production = raw[24] != 0
	index.keysInTag = int(raw[25])
	if index.keysInTag < 1 || index.keysInTag > 48 {
		return newErrorf("xbase-mdx-readstructure-3", "%w: %d entries in tag", ErrCorrupt, index.keysInTag)
	}
	index.tagLength = int(raw[26])
	if index.tagLength < 1 || index.tagLength > 32 {
		return newErrorf("xbase-mdx-readstructure-4", "%w: tag length %d", ErrCorrupt, index.tagLength)
	}
	index.tagsInUse = int(binary.LittleEndian.Uint16(raw[28:30]))
	index.numberOfBlocks = binary.LittleEndian.Uint32(raw[32:36])
	index.firstFreeBlock = binary.LittleEndian.Uint32(raw[36:40])
	index.availableBlock = binary.LittleEndian.Uint32(raw[40:44])
	index.lastUpdateDate = NewDate(int(raw[45]), int(raw[46]), int(raw[44])+2000)
	index.node = make([]byte, index.nodeSize)

	index.tags = make([]*Tag, index.tagsInUse)
	for i := range index.tags {
		tag, err := index.readTag(i)
		if err != nil {
			return err
		}
		index.tags[i] = tag
	}
	return nil
}

// readTag parses the descriptor and the header block of one tag, cross
// checking the fields present in both.
func (index *MDX) readTag(position int) (*Tag, error) {
	raw, err := readExact(index.handle, int64(544+position*index.tagLength), 21)
	if err != nil {
		return nil, newError("xbase-mdx-readtag-1", err)
	}
	tag := &Tag{
		HeaderBlock: binary.LittleEndian.Uint32(raw[0:4]),
		Name:        asciiz(raw[4:14]),
		LeftTag:     int(raw[15]),
		RightTag:    int(raw[16]),
		BackwardTag: int(raw[17]),
	}
	keyFormat := raw[14]
	tag.Descending = keyFormat&0x08 != 0
	tag.Unique = keyFormat&0x40 != 0
	keyType := raw[19]
	switch keyType {
	case 'C', 'D':
		tag.DataType = CharacterIndex
	case 'N':
		tag.DataType = NumericIndex
	default:
		return nil, newErrorf("xbase-mdx-readtag-2", "%w: key type %q of tag %s", ErrUnsupported, keyType, tag.Name)
	}

	header, err := readExact(index.handle, int64(tag.HeaderBlock)*BlockSize, BlockSize)
	if err != nil {
		return nil, newError("xbase-mdx-readtag-3", err)
	}
	tag.RootBlock = binary.LittleEndian.Uint32(header[0:4])
	tag.SizeInBlocks = binary.LittleEndian.Uint32(header[4:8])
	if header[8] != keyFormat {
		return nil, newErrorf("xbase-mdx-readtag-4", "%w: key format %x of tag %s disagrees with its descriptor", ErrCorrupt, header[8], tag.Name)
	}
	if header[9] != keyType {
		return nil, newErrorf("xbase-mdx-readtag-5", "%w: key type %q of tag %s disagrees with its descriptor", ErrCorrupt, header[9], tag.Name)
	}
	tag.KeyLength = int(binary.LittleEndian.Uint16(header[12:14]))
	tag.KeysPerBlock = int(binary.LittleEndian.Uint16(header[14:16]))
	tag.SecondaryKeyType = int(binary.LittleEndian.Uint16(header[16:18]))
	tag.KeyItemLength = int(binary.LittleEndian.Uint16(header[18:20]))
	if (header[23] != 0) != tag.Unique {
		return nil, newErrorf("xbase-mdx-readtag-6", "%w: unique flag of tag %s disagrees with its descriptor", ErrCorrupt, tag.Name)
	}
	return tag, nil
}

// Tags returns the parsed tag list in file order.
func (index *MDX) Tags() []*Tag {
	return index.tags
}

// DbfName returns the table name stored in the header.
func (index *MDX) DbfName() string { return index.dbfName }

// ReindexDate returns the date of the last reindex.
func (index *MDX) ReindexDate() Date { return index.reindexDate }

// LastUpdateDate returns the date of the last update.
func (index *MDX) LastUpdateDate() Date { return index.lastUpdateDate }

// Production reports whether the file is a production index.
func (index *MDX) Production() bool { return index.production }

// NodeSize returns the byte size of a tree node.
func (index *MDX) NodeSize() int { return index.nodeSize }

// NumberOfBlocks returns the physical block count of the file.
func (index *MDX) NumberOfBlocks() uint32 { return index.numberOfBlocks }

// SetTag selects the tag the cursor operations work on. The name match
// ignores case, the second return reports whether the tag exists.
func (index *MDX) SetTag(name string) (*Tag, bool) {
	if index.config.ThreadSafe {
		index.mutex.Lock()
		defer index.mutex.Unlock()
	}
	for _, tag := range index.tags {
		if strings.EqualFold(tag.Name, name) {
			index.tag = tag
			return tag, true
		}
	}
	return nil, false
}

// ActiveTag returns the tag selected with SetTag, nil when none is.
func (index *MDX) ActiveTag() *Tag {
	return index.tag
}

// gotoBlock positions the cursor on a node block and reads it. Moving to
// the block the cursor is on is a no-op that keeps the key slot.
func (index *MDX) gotoBlock(blockNumber uint32) error {
	if index.blockNumber == blockNumber {
		return nil
	}
	if blockNumber == 0 || blockNumber > index.numberOfBlocks {
		return newErrorf("xbase-mdx-gotoblock-1", "%w: block %d outside 1..%d", ErrCorrupt, blockNumber, index.numberOfBlocks)
	}
	raw, err := readExact(index.handle, int64(BlockSize)*int64(blockNumber), index.nodeSize)
	if err != nil {
		return newError("xbase-mdx-gotoblock-2", err)
	}
	index.blockNumber = blockNumber
	index.keyIndex = 0
	copy(index.node, raw)
	return nil
}

func (index *MDX) keysInNode() int {
	return int(binary.LittleEndian.Uint32(index.node[0:4]))
}

func (index *MDX) previousBlock(key int) uint32 {
	return binary.LittleEndian.Uint32(index.node[4+key*index.tag.keyRecordSize():])
}

// nextOrRecord returns the child block pointer of the entry, or the record
// number when the node is a leaf.
func (index *MDX) nextOrRecord(key int) uint32 {
	return binary.LittleEndian.Uint32(index.node[8+key*index.tag.keyRecordSize():])
}

// leaf reports whether the current node is a leaf. Leaves carry no child
// pointer in their first entry.
func (index *MDX) leaf() bool {
	return index.previousBlock(0) == 0
}

// storedKey returns the key bytes of the entry, cut at the first null.
func (index *MDX) storedKey(key int) string {
	offset := 12 + key*index.tag.keyRecordSize()
	return asciiz(index.node[offset : offset+index.tag.KeyLength])
}

// storedNumber decodes a numeric key. 8 byte keys hold a little endian
// float64, 12 byte keys the packed decimal form.
func (index *MDX) storedNumber(key int) float64 {
	offset := 12 + key*index.tag.keyRecordSize()
	switch index.tag.KeyLength {
	case 8:
		return math.Float64frombits(binary.LittleEndian.Uint64(index.node[offset:]))
	case 12:
		return decodeNumeric(index.node[offset : offset+12])
	default:
		return 0
	}
}

// decodeNumeric unpacks the 12 byte decimal key encoding. The first byte
// carries the digit count left of the decimal point biased by 0x34, the
// second the sign marker, the following nine bytes two decimal digits
// each.
func decodeNumeric(raw []byte) float64 {
	if len(raw) < 12 {
		return 0
	}
	size := raw[0]
	sign := raw[1]
	if sign == signZero {
		return 0
	}
	digitsLeftOfDecimal := int(size) - 0x34
	negative := sign == signNegativeWithDecimal || sign == signNegativeWithoutDecimal
	value := int64(0)
	for _, b := range raw[2:11] {
		value *= 100
		if b == 0 {
			continue
		}
		value += int64(b>>4)*10 + int64(b&0x0F)
	}
	result := float64(value) / math.Pow(10, float64(18-digitsLeftOfDecimal))
	if negative {
		return -result
	}
	return result
}

// compareKey orders the stored key of the entry against the search value.
func (index *MDX) compareKey(key int, value Value) (int, error) {
	if index.tag.DataType == NumericIndex {
		search, err := value.AsFloat()
		if err != nil {
			return 0, err
		}
		return compareFloats(index.storedNumber(key), search), nil
	}
	search, err := characterSearchKey(value, index.tag.KeyLength)
	if err != nil {
		return 0, err
	}
	return strings.Compare(index.storedKey(key), search), nil
}

// Find returns the record number of the first key of the active tag
// matching value, or RecordNumberEOF when no key matches.
func (index *MDX) Find(value Value) (int, error) {
	if index.config.ThreadSafe {
		index.mutex.Lock()
		defer index.mutex.Unlock()
	}
	if index.tag == nil {
		return RecordNumberEOF, newErrorf("xbase-mdx-find-1", "%w: select a tag before searching", ErrNoActiveTag)
	}
	return index.find(value, index.tag.RootBlock)
}

func (index *MDX) find(value Value, blockNumber uint32) (int, error) {
	if err := index.gotoBlock(blockNumber); err != nil {
		return RecordNumberEOF, err
	}
	keysInNode := index.keysInNode()
	leaf := index.leaf()
	for i := 0; i < keysInNode; i++ {
		compareResult, err := index.compareKey(i, value)
		if err != nil {
			return RecordNumberEOF, err
		}
		if leaf {
			if compareResult == 0 {
				return int(index.nextOrRecord(i)), nil
			}
			if compareResult > 0 {
				break
			}
			continue
		}
		if compareResult > 0 {
			if i == 0 {
				break
			}
			return index.find(value, index.nextOrRecord(i-1))
		}
	}
	return RecordNumberEOF, nil
}

// Next moves the cursor to the following key of the active tag and
// returns its record number, RecordNumberEOF past the last key.
func (index *MDX) Next() (int, error) {
	if index.config.ThreadSafe {
		index.mutex.Lock()
		defer index.mutex.Unlock()
	}
	if index.tag == nil {
		return RecordNumberEOF, newErrorf("xbase-mdx-next-1", "%w: select a tag before traversing", ErrNoActiveTag)
	}
	return index.next()
}

func (index *MDX) next() (int, error) {
	for !index.leaf() {
		if err := index.gotoBlock(index.nextOrRecord(index.keyIndex)); err != nil {
			return RecordNumberEOF, err
		}
	}
	if index.keyIndex >= index.keysInNode()-1 {
		return RecordNumberEOF, nil
	}
	index.keyIndex++
	return int(index.nextOrRecord(index.keyIndex)), nil
}

// Prev moves the cursor to the preceding key of the active tag and
// returns its record number, RecordNumberBOF before the first key.
func (index *MDX) Prev() (int, error) {
	if index.config.ThreadSafe {
		index.mutex.Lock()
		defer index.mutex.Unlock()
	}
	if index.tag == nil {
		return RecordNumberEOF, newErrorf("xbase-mdx-prev-1", "%w: select a tag before traversing", ErrNoActiveTag)
	}
	return index.prev()
}

func (index *MDX) prev() (int, error) {
	for !index.leaf() {
		if err := index.gotoBlock(index.previousBlock(index.keyIndex)); err != nil {
			return RecordNumberEOF, err
		}
	}
	if index.keyIndex == 0 {
		return RecordNumberBOF, nil
	}
	index.keyIndex--
	return int(index.nextOrRecord(index.keyIndex)), nil
}

// GoToTop positions the cursor on the first key of the active tag and
// returns its record number.
func (index *MDX) GoToTop() (int, error) {
	if index.config.ThreadSafe {
		index.mutex.Lock()
		defer index.mutex.Unlock()
	}
	if index.tag == nil {
		return RecordNumberEOF, newErrorf("xbase-mdx-gototop-1", "%w: select a tag before traversing", ErrNoActiveTag)
	}
	return index.goToTop()
}

func (index *MDX) goToTop() (int, error) {
	if err := index.gotoBlock(index.tag.RootBlock); err != nil {
		return RecordNumberEOF, err
	}
	index.keyIndex = 0
	for !index.leaf() {
		if err := index.gotoBlock(index.nextOrRecord(0)); err != nil {
			return RecordNumberEOF, err
		}
	}
	index.keyIndex = 0
	return int(index.nextOrRecord(0)), nil
}

// GoToBottom positions the cursor on the last key of the active tag and
// returns its record number.
func (index *MDX) GoToBottom() (int, error) {
	if index.config.ThreadSafe {
		index.mutex.Lock()
		defer index.mutex.Unlock()
	}
	if index.tag == nil {
		return RecordNumberEOF, newErrorf("xbase-mdx-gotobottom-1", "%w: select a tag before traversing", ErrNoActiveTag)
	}
	return index.goToBottom()
}

func (index *MDX) goToBottom() (int, error) {
	if _, err := index.goToTop(); err != nil {
		return RecordNumberEOF, err
	}
	for {
		record, err := index.next()
		if err != nil {
			return RecordNumberEOF, err
		}
		if record == RecordNumberEOF {
			break
		}
	}
	return int(index.nextOrRecord(index.keyIndex)), nil
}

// WriteStructure renders the header and the tag list for inspection.
func (index *MDX) WriteStructure(w io.Writer) {
	fmt.Fprintf(w, "Table:            %s\n", index.dbfName)
	fmt.Fprintf(w, "Production:       %v\n", index.production)
	fmt.Fprintf(w, "Node size:        %d\n", index.nodeSize)
	fmt.Fprintf(w, "Number of blocks: %d\n", index.numberOfBlocks)
	fmt.Fprintf(w, "Last updated:     %v\n", index.lastUpdateDate)
	fmt.Fprintf(w, "Reindexed:        %v\n", index.reindexDate)
	for _, tag := range index.tags {
		fmt.Fprintf(w, "Tag %s:\n", tag.Name)
		fmt.Fprintf(w, "  Type:           %v\n", tag.DataType)
		fmt.Fprintf(w, "  Unique:         %v\n", tag.Unique)
		fmt.Fprintf(w, "  Descending:     %v\n", tag.Descending)
		fmt.Fprintf(w, "  Root block:     %d\n", tag.RootBlock)
		fmt.Fprintf(w, "  Size in blocks: %d\n", tag.SizeInBlocks)
		fmt.Fprintf(w, "  Key length:     %d\n", tag.KeyLength)
		fmt.Fprintf(w, "  Keys per block: %d\n", tag.KeysPerBlock)
	}
}
