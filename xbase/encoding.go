package xbase

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// EncodingConverter translates between the character columns stored in a
// table file and UTF-8. A converter is selected through Config, the default
// treats character data as Windows-1252.
type EncodingConverter interface {
	Decode(in []byte) ([]byte, error)
	Encode(in []byte) ([]byte, error)
	CodePage() byte
}

var defaultCharmap = charmap.Windows1252

// codePages maps the language driver byte of the table header to the
// corresponding charmap.
var codePages = map[byte]*charmap.Charmap{
	0x01: charmap.CodePage437,  // U.S. MS-DOS
	0x02: charmap.CodePage850,  // International MS-DOS
	0x03: charmap.Windows1252,  // Windows ANSI
	0x64: charmap.CodePage852,  // Eastern European MS-DOS
	0x65: charmap.CodePage866,  // Russian MS-DOS
	0x66: charmap.CodePage865,  // Nordic MS-DOS
	0x7C: charmap.Windows874,   // Thai Windows
	0x7D: charmap.Windows1255,  // Hebrew Windows
	0x7E: charmap.Windows1256,  // Arabic Windows
	0xC8: charmap.Windows1250,  // Central European Windows
	0xC9: charmap.Windows1251,  // Russian Windows
	0xCA: charmap.Windows1254,  // Turkish Windows
	0xCB: charmap.Windows1253,  // Greek Windows
}

// DefaultConverter converts between a single byte charmap and UTF-8.
type DefaultConverter struct {
	encoding *charmap.Charmap
}

func NewDefaultConverter(encoding *charmap.Charmap) DefaultConverter {
	return DefaultConverter{encoding: encoding}
}

// ConverterFromCodePage returns a converter for a language driver byte,
// falling back to Windows-1252 for unknown marks.
func ConverterFromCodePage(codePageMark byte) DefaultConverter {
	if cm, ok := codePages[codePageMark]; ok {
		return NewDefaultConverter(cm)
	}
	return NewDefaultConverter(defaultCharmap)
}

// Decode converts a byte slice in the converter encoding to UTF-8.
func (c DefaultConverter) Decode(in []byte) ([]byte, error) {
	if utf8.Valid(in) {
		return in, nil
	}
	r := transform.NewReader(bytes.NewReader(in), c.encoding.NewDecoder())
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, newError("xbase-encoding-decode-1", err)
	}
	return data, nil
}

// Encode converts a UTF-8 byte slice to the converter encoding.
func (c DefaultConverter) Encode(in []byte) ([]byte, error) {
	out := make([]byte, len(in))
	enc := c.encoding.NewEncoder()
	nDst, _, err := enc.Transform(out, in, false)
	if err != nil {
		return nil, newError("xbase-encoding-encode-1", err)
	}
	return out[:nDst], nil
}

// CodePage returns the language driver byte matching the converter encoding,
// zero when the encoding has no mark.
func (c DefaultConverter) CodePage() byte {
	for mark, cm := range codePages {
		if cm == c.encoding {
			return mark
		}
	}
	return 0x00
}
