package xbase

import "strings"

// FieldType is the single letter type code of a column.
type FieldType byte

const (
	Character  FieldType = 'C'
	Numeric    FieldType = 'N'
	Float      FieldType = 'F'
	Logical    FieldType = 'L'
	DateType   FieldType = 'D'
	Memo       FieldType = 'M'
	BinaryMemo FieldType = 'B'
	General    FieldType = 'G'
	Unknown    FieldType = 'U'
)

// FieldTypeFromCode maps a descriptor type byte onto a FieldType, Unknown
// for unrecognized codes.
func FieldTypeFromCode(code byte) FieldType {
	switch FieldType(code) {
	case Character, Numeric, Float, Logical, DateType, Memo, BinaryMemo, General:
		return FieldType(code)
	default:
		return Unknown
	}
}

func (t FieldType) String() string {
	switch t {
	case Character:
		return "Character"
	case Numeric:
		return "Numeric"
	case Float:
		return "Float"
	case Logical:
		return "Logical"
	case DateType:
		return "Date"
	case Memo:
		return "Memo"
	case BinaryMemo:
		return "Binary"
	case General:
		return "General"
	default:
		return "Unknown"
	}
}

// IsCharacter reports whether the column decodes to a string.
func (t FieldType) IsCharacter() bool {
	return t == Character || t == Memo || t == Unknown
}

// IsNumeric reports whether the column decodes to a float64.
func (t FieldType) IsNumeric() bool {
	return t == Numeric || t == Float
}

// IsDate reports whether the column decodes to a Date.
func (t FieldType) IsDate() bool {
	return t == DateType
}

// IsLogical reports whether the column decodes to a bool.
func (t FieldType) IsLogical() bool {
	return t == Logical
}

// IsMemo reports whether the column value is stored in the DBT side file.
func (t FieldType) IsMemo() bool {
	return t == Memo || t == BinaryMemo || t == General
}

// Field describes one column of a table.
type Field struct {
	Name     string
	Type     FieldType
	Length   uint16
	Decimals uint8
}

// NewField returns a normalized column descriptor. Names are uppercased and
// cut to 10 bytes. Date columns are forced to length 8, logical columns to
// length 1, memo columns to the 10 byte block number, and character and
// memo columns carry no decimals.
func NewField(name string, fieldType FieldType, length uint16, decimals uint8) Field {
	name = strings.ToUpper(strings.TrimSpace(name))
	if len(name) > 10 {
		name = name[:10]
	}
	switch fieldType {
	case DateType:
		length = 8
		decimals = 0
	case Logical:
		length = 1
		decimals = 0
	case Memo, BinaryMemo, General:
		length = 10
		decimals = 0
	case Character:
		decimals = 0
	}
	return Field{
		Name:     name,
		Type:     fieldType,
		Length:   length,
		Decimals: decimals,
	}
}

// DefaultValue returns the value an untouched column of this type carries.
func (field Field) DefaultValue() Value {
	switch {
	case field.Type.IsNumeric():
		return NewNumberValue(0)
	case field.Type.IsLogical():
		return NewBoolValue(false)
	case field.Type.IsDate():
		return NewDateValue(NewBlankDate())
	case field.Type == BinaryMemo || field.Type == General:
		return NewBytesValue([]byte{})
	default:
		return NewStringValue("")
	}
}
