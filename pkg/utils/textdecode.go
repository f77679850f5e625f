package utils

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// =============================================================================
// TEXT DECODING
// =============================================================================

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// DecodeText converts raw file bytes in the given encoding to a string.
//
// SUPPORTED ENCODINGS (case and punctuation are ignored):
//   - "UTF-8" (also the default for "")
//   - "Windows-1252", "CP1252"
//   - "ISO-8859-1", "Latin1"
//   - "UTF-16" (byte order taken from the BOM, little endian without one)
//
// A UTF-16 byte order mark wins over the configured encoding. A UTF-8 BOM is
// stripped. UTF-8 input is returned byte for byte otherwise, so X12 control
// characters such as 0x85 keep their position for delimiter detection.
func DecodeText(data []byte, encodingName string) (string, error) {
	if bytes.HasPrefix(data, utf16LEBOM) || bytes.HasPrefix(data, utf16BEBOM) {
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data)
	}

	switch normalizeEncodingName(encodingName) {
	case "", "UTF8":
		return string(bytes.TrimPrefix(data, utf8BOM)), nil
	case "WINDOWS1252", "CP1252":
		return decodeWith(charmap.Windows1252, data)
	case "ISO88591", "LATIN1":
		return decodeWith(charmap.ISO8859_1, data)
	case "UTF16":
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), data)
	default:
		return "", fmt.Errorf("unsupported encoding %q", encodingName)
	}
}

// SupportedEncoding reports whether DecodeText accepts the encoding name.
func SupportedEncoding(encodingName string) bool {
	_, err := DecodeText(nil, encodingName)
	return err == nil
}

func decodeWith(enc encoding.Encoding, data []byte) (string, error) {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", fmt.Errorf("failed to decode text: %w", err)
	}
	return string(bytes.TrimPrefix(decoded, utf8BOM)), nil
}

func normalizeEncodingName(name string) string {
	replacer := strings.NewReplacer("-", "", "_", "", " ", "")
	return strings.ToUpper(replacer.Replace(strings.TrimSpace(name)))
}
