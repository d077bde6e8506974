package xbase

// IndexDataType is the key type of an index as encoded in NDX headers and
// MDX tag descriptors.
type IndexDataType int

const (
	CharacterIndex IndexDataType = 0
	NumericIndex   IndexDataType = 1
	DateIndex      IndexDataType = 2
)

func (t IndexDataType) String() string {
	switch t {
	case CharacterIndex:
		return "Character"
	case NumericIndex:
		return "Numeric"
	case DateIndex:
		return "Date"
	default:
		return "Unknown"
	}
}

// Index is an ordered cursor over an index file, independent of any table
// cursor. Traversal returns record numbers, RecordNumberEOF past the last
// key and RecordNumberBOF before the first.
type Index interface {
	Next() (int, error)
	Prev() (int, error)
	GoToTop() (int, error)
	GoToBottom() (int, error)
}
