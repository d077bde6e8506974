package xbase

// RecordNumber returns the one based number of the current record, or the
// BOF and EOF sentinels.
func (table *Table) RecordNumber() int {
	return table.recordNumber
}

// BOF reports whether the cursor stands before the first record.
func (table *Table) BOF() bool {
	return table.recordNumber == RecordNumberBOF
}

// EOF reports whether the cursor stands past the last record.
func (table *Table) EOF() bool {
	return table.recordNumber == RecordNumberEOF
}

// Deleted reports whether the current record carries the deletion
// tombstone.
func (table *Table) Deleted() bool {
	return table.recordDeleted
}

// RecordCount returns the record count as of the last header read.
func (table *Table) RecordCount() uint32 {
	return table.structure.RecordCount
}

// Value returns the decoded value of the column at the one based
// position n.
func (table *Table) Value(n int) (Value, error) {
	if table.config.ThreadSafe {
		table.mutex.Lock()
		defer table.mutex.Unlock()
	}
	if n < 1 || n > len(table.values) {
		return Value{}, newErrorf("xbase-record-value-1", "%w: field position %d out of range 1..%d", ErrInvalid, n, len(table.values))
	}
	return table.values[n-1], nil
}

// ValueByName returns the decoded value of the named column.
func (table *Table) ValueByName(name string) (Value, error) {
	if table.config.ThreadSafe {
		table.mutex.Lock()
		defer table.mutex.Unlock()
	}
	position := table.structure.FieldPosition(name)
	if position == 0 {
		return Value{}, newErrorf("xbase-record-valuebyname-1", "%w: unknown field %q", ErrInvalid, name)
	}
	return table.values[position-1], nil
}

// StringValue projects the named column onto a string.
func (table *Table) StringValue(name string) (string, error) {
	value, err := table.ValueByName(name)
	if err != nil {
		return "", err
	}
	return value.AsString()
}

// FloatValue projects the named column onto a float64.
func (table *Table) FloatValue(name string) (float64, error) {
	value, err := table.ValueByName(name)
	if err != nil {
		return 0, err
	}
	return value.AsFloat()
}

// IntValue projects the named column onto an int64.
func (table *Table) IntValue(name string) (int64, error) {
	value, err := table.ValueByName(name)
	if err != nil {
		return 0, err
	}
	return value.AsInt()
}

// BoolValue projects the named column onto a bool.
func (table *Table) BoolValue(name string) (bool, error) {
	value, err := table.ValueByName(name)
	if err != nil {
		return false, err
	}
	return value.AsBool()
}

// DateValue projects the named column onto a Date.
func (table *Table) DateValue(name string) (Date, error) {
	value, err := table.ValueByName(name)
	if err != nil {
		return Date{}, err
	}
	return value.AsDate()
}

// BytesValue projects the named column onto a byte slice.
func (table *Table) BytesValue(name string) ([]byte, error) {
	value, err := table.ValueByName(name)
	if err != nil {
		return nil, err
	}
	return value.AsBytes()
}
