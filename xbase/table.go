package xbase

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Table is an open table file with a one based record cursor. The cursor
// starts on record 1, GoTo moves it, Skip advances it linearly or along an
// attached index. Record 0 is the BOF state and record -1 the EOF state,
// on both the decoded values are the column defaults.
type Table struct {
	config        *Config
	handle        *os.File
	path          string
	dbtPath       string
	structure     *TableStructure
	mutex         *sync.Mutex
	skipper       Skipper
	recordNumber  int
	recordDeleted bool
	values        []Value
}

// OpenTable opens an existing table file and positions the cursor on the
// first record.
func OpenTable(config *Config) (*Table, error) {
	path := config.path()
	handle, err := os.OpenFile(path, config.openFlags(), 0644)
	if err != nil {
		return nil, newError("xbase-table-opentable-1", err)
	}
	table := &Table{
		config:  config,
		handle:  handle,
		path:    path,
		dbtPath: DBTPath(path),
		mutex:   config.mutex(),
	}
	table.skipper = &LinearSkipper{table: table}
	if err := table.readStructure(); err != nil {
		closeQuietly(handle, path)
		return nil, err
	}
	if err := table.goTo(1); err != nil {
		closeQuietly(handle, path)
		return nil, err
	}
	debugf("opened table %s with %d fields and %d records", path, table.structure.FieldCount(), table.structure.RecordCount)
	return table, nil
}

// Create writes a new table file for the given structure and opens it. A
// structure containing memo columns gets a paired DBT side file.
func Create(config *Config, structure *TableStructure) (*Table, error) {
	if structure.FieldCount() == 0 {
		return nil, newErrorf("xbase-table-create-1", "%w: a table needs at least one field", ErrInvalid)
	}
	structure.CalculateLengths()
	structure.RecordCount = 0
	structure.Version = 0x03
	structure.LastUpdated = Today()
	structure.MemoExists = structure.hasMemoField()
	structure.DbtPaired = structure.MemoExists

	path := config.path()
	handle, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|config.openFlags(), 0644)
	if err != nil {
		return nil, newError("xbase-table-create-2", err)
	}
	buffer := new(bytes.Buffer)
	header := newTableHeader(structure)
	if err := binary.Write(buffer, binary.LittleEndian, &header); err != nil {
		closeQuietly(handle, path)
		return nil, newError("xbase-table-create-3", err)
	}
	for _, field := range structure.Fields {
		descriptor := newFieldDescriptor(field)
		if err := binary.Write(buffer, binary.LittleEndian, &descriptor); err != nil {
			closeQuietly(handle, path)
			return nil, newError("xbase-table-create-4", err)
		}
	}
	buffer.WriteByte(FieldEnd)
	buffer.WriteByte(EOFMarker)
	if _, err := handle.WriteAt(buffer.Bytes(), 0); err != nil {
		closeQuietly(handle, path)
		return nil, newError("xbase-table-create-5", err)
	}
	if structure.DbtPaired {
		baseName := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if err := createDBT(config, DBTPath(path), baseName); err != nil {
			closeQuietly(handle, path)
			return nil, err
		}
	}
	table := &Table{
		config:    config,
		handle:    handle,
		path:      path,
		dbtPath:   DBTPath(path),
		structure: structure,
		mutex:     config.mutex(),
	}
	table.skipper = &LinearSkipper{table: table}
	if err := table.goTo(1); err != nil {
		closeQuietly(handle, path)
		return nil, err
	}
	debugf("created table %s with %d fields", path, structure.FieldCount())
	return table, nil
}

// Close releases the table file handle.
func (table *Table) Close() error {
	if table.config.ThreadSafe {
		table.mutex.Lock()
		defer table.mutex.Unlock()
	}
	if err := table.handle.Close(); err != nil {
		return newError("xbase-table-close-1", err)
	}
	return nil
}

// Structure returns the header derived metadata of the table.
func (table *Table) Structure() *TableStructure {
	return table.structure
}

// Path returns the resolved table file path.
func (table *Table) Path() string {
	return table.path
}

// readStructure parses the header and the column descriptor list.
func (table *Table) readStructure() error {
	raw, err := readExact(table.handle, 0, 32)
	if err != nil {
		return newError("xbase-table-readstructure-1", err)
	}
	var header tableHeader
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &header); err != nil {
		return newError("xbase-table-readstructure-2", err)
	}
	structure := &TableStructure{}
	header.apply(structure)
	if structure.HeaderLength < 33 || (structure.HeaderLength-33)%32 != 0 {
		return newErrorf("xbase-table-readstructure-3", "%w: header length %d does not fit a descriptor list", ErrCorrupt, structure.HeaderLength)
	}
	fieldCount := int(structure.HeaderLength-33) / 32
	for i := 0; i < fieldCount; i++ {
		raw, err := readExact(table.handle, int64(32+32*i), 32)
		if err != nil {
			return newError("xbase-table-readstructure-4", err)
		}
		var descriptor fieldDescriptor
		if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &descriptor); err != nil {
			return newError("xbase-table-readstructure-5", err)
		}
		structure.Fields = append(structure.Fields, descriptor.field())
	}
	terminator, err := readExact(table.handle, int64(32+32*fieldCount), 1)
	if err != nil {
		return newError("xbase-table-readstructure-6", err)
	}
	if terminator[0] != FieldEnd {
		return newErrorf("xbase-table-readstructure-7", "%w: descriptor list is not terminated", ErrCorrupt)
	}
	table.structure = structure
	return nil
}

// rereadHeader refreshes the record count and the last update date so the
// cursor observes appends from other handles.
func (table *Table) rereadHeader() error {
	raw, err := readExact(table.handle, 0, 32)
	if err != nil {
		return newError("xbase-table-rereadheader-1", err)
	}
	var header tableHeader
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &header); err != nil {
		return newError("xbase-table-rereadheader-2", err)
	}
	table.structure.RecordCount = header.RecordCount
	table.structure.LastUpdated = NewDate(int(header.Month), int(header.Day), int(header.Year)+1900)
	return nil
}

// GoTo positions the cursor on the one based record n. Positions at or
// below zero clamp to the BOF state, positions past the last record to the
// EOF state.
func (table *Table) GoTo(n int) error {
	if table.config.ThreadSafe {
		table.mutex.Lock()
		defer table.mutex.Unlock()
	}
	return table.goTo(n)
}

func (table *Table) goTo(n int) error {
	if err := table.rereadHeader(); err != nil {
		return err
	}
	count := int(table.structure.RecordCount)
	switch {
	case n <= 0 || count == 0:
		table.recordNumber = RecordNumberBOF
	case n > count:
		table.recordNumber = RecordNumberEOF
	default:
		table.recordNumber = n
	}
	return table.readRecord()
}

// recordPosition returns the file offset of the one based record n.
func (table *Table) recordPosition(n int) int64 {
	return int64(table.structure.HeaderLength) + int64(n-1)*int64(table.structure.RecordLength)
}

// readRecord decodes the record under the cursor. On BOF and EOF the
// decoded values become the column defaults.
func (table *Table) readRecord() error {
	fields := table.structure.Fields
	table.values = make([]Value, len(fields))
	table.recordDeleted = false
	if table.recordNumber == RecordNumberBOF || table.recordNumber == RecordNumberEOF {
		for i, field := range fields {
			table.values[i] = field.DefaultValue()
		}
		return nil
	}
	position := table.recordPosition(table.recordNumber)
	length := int64(table.structure.RecordLength)
	lock, err := acquireRegion(table.config, table.handle, false, position, length)
	if err != nil {
		return err
	}
	defer lock.release()
	raw, err := readExact(table.handle, position, int(length))
	if err != nil {
		return newError("xbase-table-readrecord-1", err)
	}
	table.recordDeleted = raw[0] == Deleted
	offset := 1
	for i, field := range fields {
		value, err := table.interpretField(field, raw[offset:offset+int(field.Length)])
		if err != nil {
			return err
		}
		table.values[i] = value
		offset += int(field.Length)
	}
	return nil
}

// Replace writes a new value into the named column of the current record.
func (table *Table) Replace(name string, value Value) error {
	if table.config.ThreadSafe {
		table.mutex.Lock()
		defer table.mutex.Unlock()
	}
	return table.replace(name, value)
}

func (table *Table) replace(name string, value Value) error {
	if table.recordNumber == RecordNumberBOF || table.recordNumber == RecordNumberEOF {
		return newErrorf("xbase-table-replace-1", "%w: no current record", ErrInvalid)
	}
	position := table.structure.FieldPosition(name)
	if position == 0 {
		return newErrorf("xbase-table-replace-2", "%w: unknown field %q", ErrInvalid, name)
	}
	field := table.structure.Fields[position-1]
	if field.Type.IsMemo() {
		if err := table.replaceMemo(position, field, value); err != nil {
			return err
		}
	} else {
		raw, err := table.representField(field, value)
		if err != nil {
			return err
		}
		if err := table.writeFieldBytes(position, field, raw); err != nil {
			return err
		}
	}
	if err := table.updateLastModified(); err != nil {
		return err
	}
	return table.readRecord()
}

// writeFieldBytes writes the encoded column bytes of the current record
// under an exclusive region lock.
func (table *Table) writeFieldBytes(position int, field Field, raw []byte) error {
	offset := table.recordPosition(table.recordNumber) + int64(table.structure.fieldOffset(position))
	lock, err := acquireRegion(table.config, table.handle, true, offset, int64(field.Length))
	if err != nil {
		return err
	}
	defer lock.release()
	if _, err := table.handle.WriteAt(raw, offset); err != nil {
		return newError("xbase-table-writefieldbytes-1", err)
	}
	return nil
}

// replaceMemo routes a memo column write through the side file and
// rewrites the block number column when a fresh chain was appended.
func (table *Table) replaceMemo(position int, field Field, value Value) error {
	var payload []byte
	switch value.Kind() {
	case KindString:
		str, _ := value.AsString()
		encoded, err := table.config.converter().Encode([]byte(str))
		if err != nil {
			return err
		}
		payload = encoded
	case KindBytes:
		payload, _ = value.AsBytes()
	default:
		return newErrorf("xbase-table-replacememo-1", "%w: %v value cannot be stored in a memo field", ErrInvalid, value.Kind())
	}
	oldBlock, err := table.memoBlockNumber(position, field)
	if err != nil {
		return err
	}
	oldLength := 0
	if oldBlock != 0 {
		oldLength, err = readMemoLength(table.config, table.dbtPath, oldBlock)
		if err != nil {
			return err
		}
	}
	block, appended, err := writeMemo(table.config, table.dbtPath, oldBlock, oldLength, payload)
	if err != nil {
		return err
	}
	if appended {
		column := fmt.Sprintf("%10d", block)
		if err := table.writeFieldBytes(position, field, []byte(column)); err != nil {
			return err
		}
	}
	return nil
}

// memoBlockNumber reads the block number column of the current record,
// zero when the column is blank.
func (table *Table) memoBlockNumber(position int, field Field) (uint32, error) {
	offset := table.recordPosition(table.recordNumber) + int64(table.structure.fieldOffset(position))
	raw, err := readExact(table.handle, offset, int(field.Length))
	if err != nil {
		return 0, newError("xbase-table-memoblocknumber-1", err)
	}
	return parseBlockNumber(raw)
}

// SetDeleted sets or clears the deletion tombstone of the current record.
// Setting the present state is a no-op.
func (table *Table) SetDeleted(deleted bool) error {
	if table.config.ThreadSafe {
		table.mutex.Lock()
		defer table.mutex.Unlock()
	}
	return table.setDeleted(deleted)
}

func (table *Table) setDeleted(deleted bool) error {
	if table.recordNumber == RecordNumberBOF || table.recordNumber == RecordNumberEOF {
		return newErrorf("xbase-table-setdeleted-1", "%w: no current record", ErrInvalid)
	}
	if deleted == table.recordDeleted {
		return nil
	}
	position := table.recordPosition(table.recordNumber)
	lock, err := acquireRegion(table.config, table.handle, true, position, 1)
	if err != nil {
		return err
	}
	flag := []byte{Active}
	if deleted {
		flag[0] = Deleted
	}
	_, werr := table.handle.WriteAt(flag, position)
	lock.release()
	if werr != nil {
		return newError("xbase-table-setdeleted-2", werr)
	}
	table.recordDeleted = deleted
	return table.updateLastModified()
}

// Append adds a blank record after the last one and positions the cursor
// on it.
func (table *Table) Append() error {
	if table.config.ThreadSafe {
		table.mutex.Lock()
		defer table.mutex.Unlock()
	}
	return table.appendBlank()
}

func (table *Table) appendBlank() error {
	lock, err := acquireRegion(table.config, table.handle, true, 4, 4)
	if err != nil {
		return err
	}
	defer lock.release()
	raw, err := readExact(table.handle, 4, 4)
	if err != nil {
		return newError("xbase-table-appendblank-1", err)
	}
	count := binary.LittleEndian.Uint32(raw)
	position := table.recordPosition(int(count) + 1)
	if position+int64(table.structure.RecordLength)+1 > maxTableSize {
		return newErrorf("xbase-table-appendblank-2", "%w: table would grow past the maximum file size", ErrInvalid)
	}

	record := make([]byte, int(table.structure.RecordLength)+1)
	record[0] = Active
	offset := 1
	for _, field := range table.structure.Fields {
		encoded, err := table.representField(field, field.DefaultValue())
		if err != nil {
			return err
		}
		copy(record[offset:offset+int(field.Length)], encoded)
		offset += int(field.Length)
	}
	record[offset] = EOFMarker

	recordLock, err := acquireRegion(table.config, table.handle, true, position, int64(len(record)))
	if err != nil {
		return err
	}
	_, werr := table.handle.WriteAt(record, position)
	recordLock.release()
	if werr != nil {
		return newError("xbase-table-appendblank-3", werr)
	}

	updated := make([]byte, 4)
	binary.LittleEndian.PutUint32(updated, count+1)
	if _, err := table.handle.WriteAt(updated, 4); err != nil {
		return newError("xbase-table-appendblank-4", err)
	}
	table.structure.RecordCount = count + 1
	if err := table.updateLastModified(); err != nil {
		return err
	}
	return table.goTo(int(count) + 1)
}

// updateLastModified writes the current date into the header.
func (table *Table) updateLastModified() error {
	today := Today()
	lock, err := acquireRegion(table.config, table.handle, true, 1, 3)
	if err != nil {
		return err
	}
	defer lock.release()
	stamp := []byte{
		uint8(today.Year() - 1900),
		uint8(today.Month()),
		uint8(today.Day()),
	}
	if _, err := table.handle.WriteAt(stamp, 1); err != nil {
		return newError("xbase-table-updatelastmodified-1", err)
	}
	table.structure.LastUpdated = today
	return nil
}

// parseBlockNumber decodes the 10 byte ASCII block number of a memo
// column, zero when the column is blank.
func parseBlockNumber(raw []byte) (uint32, error) {
	trimmed := trimSpaces(raw)
	if trimmed == "" {
		return 0, nil
	}
	var block uint32
	if _, err := fmt.Sscanf(trimmed, "%d", &block); err != nil {
		return 0, newErrorf("xbase-table-parseblocknumber-1", "%w: memo column %q is not a block number", ErrCorrupt, trimmed)
	}
	return block, nil
}
