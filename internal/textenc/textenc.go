// Package textenc decodes PDF text strings.
//
// PDF stores human-readable strings (annotation comments, bookmark titles,
// named destinations) either as UTF-16BE with a byte order mark or in
// PDFDocEncoding, a Latin-1 variant with typographic extras in the 0x18-0x1F
// and 0x80-0xA0 ranges. Decoded text is NFC-normalized so that visually
// identical strings compare equal regardless of how the producer composed
// its accents.
package textenc

import (
	"bytes"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/unicode/norm"
)

var utf16BOM = []byte{0xFE, 0xFF}

// Decode converts a raw PDF text string to UTF-8. Strings starting with the
// UTF-16BE byte order mark are decoded as UTF-16BE, best effort: malformed
// sequences become replacement characters instead of failing the whole
// string. Everything else is decoded as PDFDocEncoding.
func Decode(b []byte) string {
	if bytes.HasPrefix(b, utf16BOM) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		out, _ := dec.Bytes(b[2:])
		return norm.NFC.String(string(out))
	}
	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(pdfDocEncoding[c])
	}
	return norm.NFC.String(sb.String())
}

// pdfDocEncoding maps every PDFDocEncoding byte to its Unicode rune.
// The table is Latin-1 with the ranges 0x18-0x1F and 0x80-0xA0 replaced by
// accents and publishing symbols; undefined bytes map to the replacement
// character.
var pdfDocEncoding = buildPDFDocEncoding()

func buildPDFDocEncoding() [256]rune {
	var t [256]rune
	for i := range t {
		t[i] = rune(i)
	}

	accents := []rune{
		0x02d8, 0x02c7, 0x02c6, 0x02d9, // breve, caron, circumflex, dot accent
		0x02dd, 0x02db, 0x02da, 0x02dc, // double acute, ogonek, ring, tilde
	}
	copy(t[0x18:], accents)

	symbols := []rune{
		0x2022, 0x2020, 0x2021, 0x2026, // bullet, dagger, double dagger, ellipsis
		0x2014, 0x2013, 0x0192, 0x2044, // em dash, en dash, florin, fraction slash
		0x2039, 0x203a, 0x2212, 0x2030, // single guillemets, minus, per mille
		0x201e, 0x201c, 0x201d, 0x2018, // low/left/right double quote, left single
		0x2019, 0x201a, 0x2122, 0xfb01, // right single, low single, trademark, fi
		0xfb02, 0x0141, 0x0152, 0x0160, // fl, Lslash, OE, Scaron
		0x0178, 0x017d, 0x0131, 0x0142, // Ydieresis, Zcaron, dotless i, lslash
		0x0153, 0x0161, 0x017e, 0xfffd, // oe, scaron, zcaron, undefined
	}
	copy(t[0x80:], symbols)

	t[0x7f] = 0xfffd
	t[0xa0] = 0x20ac // euro
	t[0xad] = 0xfffd

	return t
}
