package xbase

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func writeNDXHeader(raw []byte, startPage uint32, totalPages uint32, keyLength int, dataType IndexDataType, expression string) {
	binary.LittleEndian.PutUint32(raw[0:4], startPage)
	binary.LittleEndian.PutUint32(raw[4:8], totalPages)
	binary.LittleEndian.PutUint16(raw[12:14], uint16(keyLength))
	binary.LittleEndian.PutUint16(raw[14:16], 24)
	binary.LittleEndian.PutUint16(raw[16:18], uint16(dataType))
	binary.LittleEndian.PutUint16(raw[18:20], uint16((keyLength+3)/4*4+8))
	copy(raw[24:], expression)
}

type ndxEntry struct {
	next   uint32
	record uint32
	key    []byte
}

func writeNDXPage(raw []byte, page uint32, keyRecordSize int, entries []ndxEntry) {
	offset := int(page) * BlockSize
	binary.LittleEndian.PutUint32(raw[offset:offset+4], uint32(len(entries)))
	for i, entry := range entries {
		base := offset + 4 + i*keyRecordSize
		binary.LittleEndian.PutUint32(raw[base:base+4], entry.next)
		binary.LittleEndian.PutUint32(raw[base+4:base+8], entry.record)
		copy(raw[base+8:], entry.key)
	}
}

// buildCharacterNDX writes a two level index over NAME with three keys
// spread over two leaves under one root page.
func buildCharacterNDX(t *testing.T, dir string) string {
	t.Helper()
	raw := make([]byte, 4*BlockSize)
	writeNDXHeader(raw, 3, 3, 12, CharacterIndex, "NAME")
	key := func(text string) []byte {
		padded := []byte("            ")
		copy(padded, text)
		return padded
	}
	writeNDXPage(raw, 1, 20, []ndxEntry{
		{next: 0, record: 3, key: key("apple")},
		{next: 0, record: 1, key: key("mango")},
	})
	writeNDXPage(raw, 2, 20, []ndxEntry{
		{next: 0, record: 2, key: key("test2")},
	})
	writeNDXPage(raw, 3, 20, []ndxEntry{
		{next: 1, record: 0, key: key("mango")},
		{next: 2, record: 0, key: key("test2")},
	})
	path := filepath.Join(dir, "name.ndx")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return path
}

func buildNumericNDX(t *testing.T, dir string) string {
	t.Helper()
	raw := make([]byte, 2*BlockSize)
	writeNDXHeader(raw, 1, 1, 8, NumericIndex, "AGE")
	key := func(value float64) []byte {
		encoded := make([]byte, 8)
		binary.LittleEndian.PutUint64(encoded, math.Float64bits(value))
		return encoded
	}
	writeNDXPage(raw, 1, 16, []ndxEntry{
		{next: 0, record: 1, key: key(10)},
		{next: 0, record: 3, key: key(15)},
		{next: 0, record: 2, key: key(20)},
	})
	path := filepath.Join(dir, "age.ndx")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return path
}

func TestNDXHeader(t *testing.T) {
	dir := t.TempDir()
	buildCharacterNDX(t, dir)
	index, err := OpenNDX(&Config{Filename: "name.ndx", WorkDir: dir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer index.Close()
	if index.StartPage() != 3 || index.TotalPages() != 3 {
		t.Errorf("Expected root 3 of 3 pages, got %d/%d", index.StartPage(), index.TotalPages())
	}
	if index.KeyLength() != 12 || index.KeysPerPage() != 24 {
		t.Errorf("Expected key length 12 and 24 keys per page, got %d/%d", index.KeyLength(), index.KeysPerPage())
	}
	if index.DataType() != CharacterIndex {
		t.Errorf("Expected a character index, got %v", index.DataType())
	}
	if index.Unique() {
		t.Error("Expected a non unique index")
	}
	if index.KeyExpression() != "NAME" {
		t.Errorf("Expected expression NAME, got %q", index.KeyExpression())
	}
}

func TestNDXFindCharacter(t *testing.T) {
	dir := t.TempDir()
	buildCharacterNDX(t, dir)
	index, err := OpenNDX(&Config{Filename: "name.ndx", WorkDir: dir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer index.Close()
	cases := []struct {
		search   string
		expected int
	}{
		{"apple", 3},
		{"mango", 1},
		{"test2", 2},
		{"banana", 1},
		{"zzz", RecordNumberEOF},
	}
	for _, c := range cases {
		if record, err := index.Find(NewStringValue(c.search)); err != nil || record != c.expected {
			t.Errorf("Expected record %d for %q, got %d (%v)", c.expected, c.search, record, err)
		}
	}
}

func TestNDXFindNumeric(t *testing.T) {
	dir := t.TempDir()
	buildNumericNDX(t, dir)
	index, err := OpenNDX(&Config{Filename: "age.ndx", WorkDir: dir})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer index.Close()
	cases := []struct {
		search   float64
		expected int
	}{
		{10, 1},
		{15, 3},
		{20, 2},
		{12, 3},
		{30, RecordNumberEOF},
	}
	for _, c := range cases {
		if record, err := index.Find(NewNumberValue(c.search)); err != nil || record != c.expected {
			t.Errorf("Expected record %d for %v, got %d (%v)", c.expected, c.search, record, err)
		}
	}
}

func TestNDXDateUnsupported(t *testing.T) {
	dir := t.TempDir()
	raw := make([]byte, 2*BlockSize)
	writeNDXHeader(raw, 1, 1, 8, DateIndex, "BIRTH")
	path := filepath.Join(dir, "birth.ndx")
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := OpenNDX(&Config{Filename: "birth.ndx", WorkDir: dir}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Expected ErrUnsupported for a date index, got %v", err)
	}
}

func TestNDXCorruptKeyRecordSize(t *testing.T) {
	dir := t.TempDir()
	path := buildCharacterNDX(t, dir)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	binary.LittleEndian.PutUint16(raw[18:20], 99)
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := OpenNDX(&Config{Filename: "name.ndx", WorkDir: dir}); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Expected ErrCorrupt for a key record size mismatch, got %v", err)
	}
}

func TestNDXTruncated(t *testing.T) {
	dir := t.TempDir()
	path := buildCharacterNDX(t, dir)
	if err := os.Truncate(path, 64); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := OpenNDX(&Config{Filename: "name.ndx", WorkDir: dir}); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated, got %v", err)
	}
}

func TestNDXMissingFile(t *testing.T) {
	if _, err := OpenNDX(&Config{Filename: "missing.ndx", WorkDir: t.TempDir()}); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
