package xbase

// Skipper advances the table cursor by a relative offset. The concrete
// strategy is either the raw record order or the order of an attached
// index.
type Skipper interface {
	Skip(offset int) (int, error)
}

// LinearSkipper moves the cursor along the physical record order.
type LinearSkipper struct {
	table *Table
}

func (skipper *LinearSkipper) Skip(offset int) (int, error) {
	if err := skipper.table.goTo(skipper.table.recordNumber + offset); err != nil {
		return RecordNumberEOF, err
	}
	return skipper.table.recordNumber, nil
}

// IndexSkipper moves the cursor along the key order of an index cursor.
type IndexSkipper struct {
	table *Table
	index Index
}

func (skipper *IndexSkipper) Skip(offset int) (int, error) {
	record := skipper.table.recordNumber
	for i := 0; i < offset; i++ {
		next, err := skipper.index.Next()
		if err != nil {
			return RecordNumberEOF, err
		}
		record = next
		if record <= 0 {
			break
		}
	}
	for i := 0; i < -offset; i++ {
		prev, err := skipper.index.Prev()
		if err != nil {
			return RecordNumberEOF, err
		}
		record = prev
		if record <= 0 {
			break
		}
	}
	if record == RecordNumberEOF || record == RecordNumberBOF {
		skipper.table.recordNumber = record
		return record, skipper.table.readRecord()
	}
	if err := skipper.table.goTo(record); err != nil {
		return RecordNumberEOF, err
	}
	return record, nil
}

// SetIndex attaches an index cursor to drive Skip, a nil index restores
// the linear record order.
func (table *Table) SetIndex(index Index) {
	if table.config.ThreadSafe {
		table.mutex.Lock()
		defer table.mutex.Unlock()
	}
	if index == nil {
		table.skipper = &LinearSkipper{table: table}
		return
	}
	table.skipper = &IndexSkipper{table: table, index: index}
}

// Skip moves the cursor by offset records and returns the new record
// number. A zero offset reports the current position.
func (table *Table) Skip(offset int) (int, error) {
	if table.config.ThreadSafe {
		table.mutex.Lock()
		defer table.mutex.Unlock()
	}
	if offset == 0 {
		return table.recordNumber, nil
	}
	return table.skipper.Skip(offset)
}
