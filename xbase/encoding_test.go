package xbase

import (
	"bytes"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestConverterRoundTrip(t *testing.T) {
	converter := NewDefaultConverter(charmap.Windows1252)
	encoded, err := converter.Encode([]byte("Grüße"))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(encoded) != 5 {
		t.Errorf("Expected 5 single byte characters, got %d", len(encoded))
	}
	decoded, err := converter.Decode(encoded)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(decoded) != "Grüße" {
		t.Errorf("Expected Grüße, got %q", decoded)
	}
}

func TestConverterDecodeValidUTF8(t *testing.T) {
	converter := NewDefaultConverter(charmap.Windows1252)
	in := []byte("plain ascii")
	out, err := converter.Decode(in)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !bytes.Equal(in, out) {
		t.Error("Expected valid UTF-8 input to pass through unchanged")
	}
}

func TestConverterCodePage(t *testing.T) {
	if cp := NewDefaultConverter(charmap.Windows1252).CodePage(); cp != 0x03 {
		t.Errorf("Expected code page 0x03, got %#x", cp)
	}
	if cp := NewDefaultConverter(charmap.CodePage437).CodePage(); cp != 0x01 {
		t.Errorf("Expected code page 0x01, got %#x", cp)
	}
	if cp := NewDefaultConverter(charmap.ISO8859_1).CodePage(); cp != 0x00 {
		t.Errorf("Expected code page 0x00 for unmapped encoding, got %#x", cp)
	}
}

func TestConverterFromCodePage(t *testing.T) {
	for mark := range codePages {
		converter := ConverterFromCodePage(mark)
		if converter.CodePage() != mark {
			t.Errorf("Expected code page %#x to round trip, got %#x", mark, converter.CodePage())
		}
	}
	fallback := ConverterFromCodePage(0xFF)
	if fallback.CodePage() != 0x03 {
		t.Errorf("Expected fallback to Windows-1252, got %#x", fallback.CodePage())
	}
}
