package extract

import (
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Decoders tried in order for .txt/.md files; the first that yields valid
// text wins. Mirrors the usual utf-8 -> utf-16 -> latin-1 -> cp1252 ladder.
var plainTextDecoders = []*encoding.Decoder{
	// BOM required, otherwise any even-length byte soup "decodes" as utf-16
	unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(),
	charmap.ISO8859_1.NewDecoder(),
	charmap.Windows1252.NewDecoder(),
}

func extractPlainText(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if utf8.Valid(raw) {
		return string(raw), nil
	}

	for _, dec := range plainTextDecoders {
		out, err := dec.Bytes(raw)
		if err == nil && utf8.Valid(out) {
			return string(out), nil
		}
	}
	return "", ErrDecodingFailure
}
