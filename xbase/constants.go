package xbase

// Relevant byte markers
const (
	Null      byte = 0x00
	Blank     byte = 0x20
	FieldEnd  byte = 0x0D
	Active         = Blank
	Deleted   byte = 0x2A
	EOFMarker byte = 0x1A
)

// Bits of the signature byte at the start of a table file
const (
	versionMask   byte = 0x07
	memoExistsBit byte = 0x08
	dbtPairedBit  byte = 0x80
)

// Record number sentinels. Both double as cursor states and as the no-match
// return of index lookups and ordered traversal.
const (
	RecordNumberBOF = 0
	RecordNumberEOF = -1
)

// BlockSize is the physical unit of NDX, MDX and DBT files.
const BlockSize = 512

// maxTableSize caps the file size a table may grow to on append.
const maxTableSize = 1 << 31

// memoSentinel starts every memo record in a DBT file.
var memoSentinel = []byte{0xFF, 0xFF, 0x08, 0x00}
