package xbase

// tableHeader is the 32 byte header at the start of every table file,
// laid out for binary.Read and binary.Write in little endian order.
type tableHeader struct {
	Signature         byte
	Year              uint8 // last update, year - 1900
	Month             uint8
	Day               uint8
	RecordCount       uint32
	HeaderLength      uint16
	RecordLength      uint16
	Reserved1         [2]byte
	TransactionActive byte
	DataEncrypted     byte
	MultiUser         [12]byte
	MdxPaired         byte
	Reserved2         [3]byte
}

func newTableHeader(structure *TableStructure) tableHeader {
	header := tableHeader{
		Signature:    structure.Version & versionMask,
		RecordCount:  structure.RecordCount,
		HeaderLength: structure.HeaderLength,
		RecordLength: structure.RecordLength,
	}
	if structure.MemoExists {
		header.Signature |= memoExistsBit
	}
	if structure.DbtPaired {
		header.Signature |= dbtPairedBit
	}
	if structure.TransactionActive {
		header.TransactionActive = 1
	}
	if structure.DataEncrypted {
		header.DataEncrypted = 1
	}
	if structure.MdxPaired {
		header.MdxPaired = 1
	}
	if !structure.LastUpdated.IsBlank() {
		header.Year = uint8(structure.LastUpdated.Year() - 1900)
		header.Month = uint8(structure.LastUpdated.Month())
		header.Day = uint8(structure.LastUpdated.Day())
	}
	return header
}

// apply copies the header fields onto the structure.
func (header tableHeader) apply(structure *TableStructure) {
	structure.Version = header.Signature & versionMask
	structure.MemoExists = header.Signature&memoExistsBit != 0
	structure.DbtPaired = header.Signature&dbtPairedBit != 0
	structure.MdxPaired = header.MdxPaired != 0
	structure.TransactionActive = header.TransactionActive != 0
	structure.DataEncrypted = header.DataEncrypted != 0
	structure.RecordCount = header.RecordCount
	structure.HeaderLength = header.HeaderLength
	structure.RecordLength = header.RecordLength
	structure.LastUpdated = NewDate(int(header.Month), int(header.Day), int(header.Year)+1900)
}

// fieldDescriptor is one 32 byte column descriptor behind the table
// header. The descriptor list is terminated by a single FieldEnd byte.
type fieldDescriptor struct {
	Name      [11]byte
	Type      byte
	Reserved1 [4]byte
	Length    uint8
	Decimals  uint8
	Reserved2 [14]byte
}

// field decodes the descriptor. Character columns longer than 255 bytes
// store the high length byte in the decimals slot.
func (descriptor fieldDescriptor) field() Field {
	fieldType := FieldTypeFromCode(descriptor.Type)
	length := uint16(descriptor.Length)
	decimals := descriptor.Decimals
	if fieldType == Character {
		length = uint16(descriptor.Decimals)<<8 | uint16(descriptor.Length)
		decimals = 0
	}
	return Field{
		Name:     asciiz(descriptor.Name[:]),
		Type:     fieldType,
		Length:   length,
		Decimals: decimals,
	}
}

func newFieldDescriptor(field Field) fieldDescriptor {
	descriptor := fieldDescriptor{
		Type:     byte(field.Type),
		Length:   uint8(field.Length),
		Decimals: field.Decimals,
	}
	if field.Type == Character {
		descriptor.Length = uint8(field.Length & 0xFF)
		descriptor.Decimals = uint8(field.Length >> 8)
	}
	copy(descriptor.Name[:], field.Name)
	return descriptor
}

// memoHeader is the leading part of block 0 of a DBT file.
type memoHeader struct {
	NextAvailable uint32
	InitialMark   uint32 // written as 1 on create
	BaseName      [8]byte
	Reserved      [4]byte
	BlockLength   uint16
}
