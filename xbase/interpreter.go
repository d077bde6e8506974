package xbase

import (
	"strconv"
	"strings"
)

// interpretField decodes the raw column bytes of a record into a Value.
// Memo columns delegate to the side file.
func (table *Table) interpretField(field Field, raw []byte) (Value, error) {
	switch field.Type {
	case Character:
		decoded, err := table.config.converter().Decode(raw)
		if err != nil {
			return Value{}, err
		}
		text := string(decoded)
		if !table.config.DisableTrim {
			text = strings.TrimRight(text, " ")
		}
		return NewStringValue(text), nil
	case Numeric, Float:
		text := trimSpaces(raw)
		if text == "" {
			return field.DefaultValue(), nil
		}
		number, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, newErrorf("xbase-interpreter-interpretfield-1", "%w: field %s holds %q instead of a number", ErrCorrupt, field.Name, text)
		}
		return NewNumberValue(number), nil
	case DateType:
		return interpretDate(field, raw)
	case Logical:
		if len(raw) > 0 {
			switch raw[0] {
			case 'y', 'Y', 't', 'T':
				return NewBoolValue(true), nil
			}
		}
		return NewBoolValue(false), nil
	case Memo:
		block, err := parseBlockNumber(raw)
		if err != nil {
			return Value{}, err
		}
		if block == 0 {
			return NewStringValue(""), nil
		}
		value, err := readMemo(table.config, table.dbtPath, block)
		if err != nil {
			return Value{}, err
		}
		decoded, err := table.config.converter().Decode(value)
		if err != nil {
			return Value{}, err
		}
		return NewStringValue(string(decoded)), nil
	case BinaryMemo, General:
		block, err := parseBlockNumber(raw)
		if err != nil {
			return Value{}, err
		}
		if block == 0 {
			return NewBytesValue([]byte{}), nil
		}
		value, err := readMemo(table.config, table.dbtPath, block)
		if err != nil {
			return Value{}, err
		}
		return NewBytesValue(value), nil
	default:
		return NewStringValue(""), nil
	}
}

func interpretDate(field Field, raw []byte) (Value, error) {
	if len(raw) < 8 || raw[0] == Blank || raw[0] == Null {
		return NewDateValue(NewBlankDate()), nil
	}
	year, err := strconv.Atoi(string(raw[0:4]))
	if err != nil {
		return Value{}, newErrorf("xbase-interpreter-interpretdate-1", "%w: field %s holds %q instead of a date", ErrCorrupt, field.Name, raw)
	}
	month, err := strconv.Atoi(strings.TrimSpace(string(raw[4:6])))
	if err != nil {
		return Value{}, newErrorf("xbase-interpreter-interpretdate-2", "%w: field %s holds %q instead of a date", ErrCorrupt, field.Name, raw)
	}
	day, err := strconv.Atoi(strings.TrimSpace(string(raw[6:8])))
	if err != nil {
		return Value{}, newErrorf("xbase-interpreter-interpretdate-3", "%w: field %s holds %q instead of a date", ErrCorrupt, field.Name, raw)
	}
	return NewDateValue(NewDate(month, day, year)), nil
}

// representField encodes a value into the fixed width column buffer. The
// buffer is space padded, the stringified value is copied from the left
// and cut to the declared length.
func (table *Table) representField(field Field, value Value) ([]byte, error) {
	buffer := make([]byte, field.Length)
	for i := range buffer {
		buffer[i] = Blank
	}
	if field.Type.IsMemo() {
		return buffer, nil
	}
	text, err := table.stringifyField(field, value)
	if err != nil {
		return nil, err
	}
	copy(buffer, text)
	return buffer, nil
}

func (table *Table) stringifyField(field Field, value Value) ([]byte, error) {
	switch field.Type {
	case DateType:
		if value.Kind() == KindDate {
			date, _ := value.AsDate()
			return []byte(date.DTOS()), nil
		}
	case Numeric, Float:
		if value.Kind() == KindNumber {
			number, _ := value.AsFloat()
			return []byte(strconv.FormatFloat(number, 'f', int(field.Decimals), 64)), nil
		}
	case Logical:
		if value.Kind() == KindBool {
			boolean, _ := value.AsBool()
			if boolean {
				return []byte{'T'}, nil
			}
			return []byte{'F'}, nil
		}
	case Character:
		if value.Kind() == KindString {
			str, _ := value.AsString()
			return table.config.converter().Encode([]byte(str))
		}
	}
	return table.config.converter().Encode([]byte(value.String()))
}
