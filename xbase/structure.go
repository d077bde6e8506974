package xbase

import "strings"

// TableStructure carries the header derived metadata of an open table, the
// ordered column list and the pairing flags of the side files.
type TableStructure struct {
	Version           byte
	Fields            []Field
	HeaderLength      uint16
	RecordLength      uint16
	RecordCount       uint32
	LastUpdated       Date
	MemoExists        bool
	DbtPaired         bool
	MdxPaired         bool
	TransactionActive bool
	DataEncrypted     bool
}

// NewTableStructure returns an empty structure ready for AddField.
func NewTableStructure() *TableStructure {
	return &TableStructure{LastUpdated: Today()}
}

// AddField appends a column. Columns with a name already present are
// rejected.
func (structure *TableStructure) AddField(field Field) error {
	for _, existing := range structure.Fields {
		if strings.EqualFold(existing.Name, field.Name) {
			return newErrorf("xbase-structure-addfield-1", "%w: duplicate field name %q", ErrInvalid, field.Name)
		}
	}
	structure.Fields = append(structure.Fields, field)
	return nil
}

// FieldCount returns the number of columns.
func (structure *TableStructure) FieldCount() int {
	return len(structure.Fields)
}

// Field returns the column at the one based position n.
func (structure *TableStructure) Field(n int) (Field, error) {
	if n < 1 || n > len(structure.Fields) {
		return Field{}, newErrorf("xbase-structure-field-1", "%w: field position %d out of range 1..%d", ErrInvalid, n, len(structure.Fields))
	}
	return structure.Fields[n-1], nil
}

// FieldPosition returns the one based position of the named column, zero
// when the name is unknown. The match ignores case.
func (structure *TableStructure) FieldPosition(name string) int {
	for i, field := range structure.Fields {
		if strings.EqualFold(field.Name, name) {
			return i + 1
		}
	}
	return 0
}

// FieldByName returns the named column.
func (structure *TableStructure) FieldByName(name string) (Field, error) {
	position := structure.FieldPosition(name)
	if position == 0 {
		return Field{}, newErrorf("xbase-structure-fieldbyname-1", "%w: unknown field %q", ErrInvalid, name)
	}
	return structure.Fields[position-1], nil
}

// CalculateLengths recomputes header and record length from the column
// list. Called before a create write.
func (structure *TableStructure) CalculateLengths() {
	structure.HeaderLength = uint16(32 + 32*len(structure.Fields) + 1)
	recordLength := uint16(1)
	for _, field := range structure.Fields {
		recordLength += field.Length
	}
	structure.RecordLength = recordLength
}

// fieldOffset returns the byte offset of the column inside a record,
// behind the deletion flag.
func (structure *TableStructure) fieldOffset(position int) uint16 {
	offset := uint16(1)
	for i := 0; i < position-1; i++ {
		offset += structure.Fields[i].Length
	}
	return offset
}

// hasMemoField reports whether any column is stored in the DBT side file.
func (structure *TableStructure) hasMemoField() bool {
	for _, field := range structure.Fields {
		if field.Type.IsMemo() {
			return true
		}
	}
	return false
}
