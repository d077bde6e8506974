package xbase

import (
	"errors"
	"testing"
)

func TestNewFieldNormalization(t *testing.T) {
	date := NewField("birth", DateType, 20, 5)
	if date.Length != 8 || date.Decimals != 0 {
		t.Errorf("Expected date field to be 8/0, got %d/%d", date.Length, date.Decimals)
	}
	logical := NewField("flag", Logical, 20, 5)
	if logical.Length != 1 || logical.Decimals != 0 {
		t.Errorf("Expected logical field to be 1/0, got %d/%d", logical.Length, logical.Decimals)
	}
	memo := NewField("notes", Memo, 20, 5)
	if memo.Length != 10 || memo.Decimals != 0 {
		t.Errorf("Expected memo field to be 10/0, got %d/%d", memo.Length, memo.Decimals)
	}
	character := NewField("name", Character, 20, 5)
	if character.Decimals != 0 {
		t.Errorf("Expected character field without decimals, got %d", character.Decimals)
	}
	if character.Name != "NAME" {
		t.Errorf("Expected uppercased name, got %q", character.Name)
	}
	long := NewField("averylongfieldname", Character, 20, 0)
	if long.Name != "AVERYLONGF" {
		t.Errorf("Expected name cut to 10 bytes, got %q", long.Name)
	}
}

func TestFieldDefaultValue(t *testing.T) {
	if v := NewField("N", Numeric, 8, 2).DefaultValue(); v.Kind() != KindNumber {
		t.Errorf("Expected number default, got %v", v.Kind())
	}
	if v := NewField("L", Logical, 1, 0).DefaultValue(); v.Kind() != KindBool {
		t.Errorf("Expected bool default, got %v", v.Kind())
	}
	if v := NewField("D", DateType, 8, 0).DefaultValue(); v.Kind() != KindDate {
		t.Errorf("Expected date default, got %v", v.Kind())
	}
	date, _ := NewField("D", DateType, 8, 0).DefaultValue().AsDate()
	if !date.IsBlank() {
		t.Error("Expected blank date default")
	}
	if v := NewField("B", BinaryMemo, 10, 0).DefaultValue(); v.Kind() != KindBytes {
		t.Errorf("Expected bytes default, got %v", v.Kind())
	}
	if v := NewField("C", Character, 20, 0).DefaultValue(); v.Kind() != KindString {
		t.Errorf("Expected string default, got %v", v.Kind())
	}
}

func TestFieldTypePredicates(t *testing.T) {
	if !Memo.IsMemo() || !BinaryMemo.IsMemo() || !General.IsMemo() {
		t.Error("Expected all memo types to be memo like")
	}
	if Character.IsMemo() {
		t.Error("Expected character not to be memo like")
	}
	if !Numeric.IsNumeric() || !Float.IsNumeric() {
		t.Error("Expected numeric types to be numeric like")
	}
	if !DateType.IsDate() || !Logical.IsLogical() {
		t.Error("Expected date and logical predicates to hold")
	}
}

func TestFieldTypeFromCode(t *testing.T) {
	if FieldTypeFromCode('C') != Character {
		t.Error("Expected C to map to Character")
	}
	if FieldTypeFromCode('X') != Unknown {
		t.Error("Expected unrecognized code to map to Unknown")
	}
}

func TestStructureAddField(t *testing.T) {
	structure := NewTableStructure()
	if err := structure.AddField(NewField("NAME", Character, 20, 0)); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	err := structure.AddField(NewField("name", Character, 10, 0))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid for duplicate name, got %v", err)
	}
}

func TestStructureCalculateLengths(t *testing.T) {
	structure := NewTableStructure()
	structure.AddField(NewField("NAME", Character, 20, 0))
	structure.AddField(NewField("AGE", Numeric, 3, 0))
	structure.AddField(NewField("BIRTH", DateType, 8, 0))
	structure.CalculateLengths()
	if structure.HeaderLength != 32+32*3+1 {
		t.Errorf("Expected header length %d, got %d", 32+32*3+1, structure.HeaderLength)
	}
	if structure.RecordLength != 1+20+3+8 {
		t.Errorf("Expected record length %d, got %d", 1+20+3+8, structure.RecordLength)
	}
}

func TestStructureFieldLookup(t *testing.T) {
	structure := NewTableStructure()
	structure.AddField(NewField("NAME", Character, 20, 0))
	structure.AddField(NewField("AGE", Numeric, 3, 0))
	if structure.FieldPosition("age") != 2 {
		t.Errorf("Expected position 2, got %d", structure.FieldPosition("age"))
	}
	if structure.FieldPosition("missing") != 0 {
		t.Errorf("Expected position 0 for unknown name")
	}
	field, err := structure.Field(1)
	if err != nil || field.Name != "NAME" {
		t.Errorf("Expected NAME at position 1, got %q (%v)", field.Name, err)
	}
	if _, err := structure.Field(3); !errors.Is(err, ErrInvalid) {
		t.Errorf("Expected ErrInvalid out of range, got %v", err)
	}
	if structure.fieldOffset(2) != 21 {
		t.Errorf("Expected offset 21 for second field, got %d", structure.fieldOffset(2))
	}
}
