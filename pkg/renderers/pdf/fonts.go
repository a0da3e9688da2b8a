package pdf

import (
	"strings"
	"unicode"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const fontFamily = "body"

// FontSet holds the TrueType faces text is drawn with. Any face left empty
// falls back to Regular.
type FontSet struct {
	Regular []byte
	Bold    []byte
	Italic  []byte
}

// GoFonts is the default set: the Go font family, which covers Latin,
// Greek and Cyrillic scripts.
func GoFonts() FontSet {
	return FontSet{Regular: goregular.TTF, Bold: gobold.TTF, Italic: goitalic.TTF}
}

func (s FontSet) register(doc *fpdf.Fpdf) {
	regular := s.Regular
	if len(regular) == 0 {
		regular = goregular.TTF
	}
	faces := map[string][]byte{"": regular, "B": s.Bold, "I": s.Italic}
	for _, style := range []string{"", "B", "I"} {
		face := faces[style]
		if len(face) == 0 {
			face = regular
		}
		doc.AddUTF8FontFromBytes(fontFamily, style, face)
	}
}

// printable maps text onto what the UTF-8 font path can encode: runes
// outside the Basic Multilingual Plane become U+FFFD and control characters
// other than newlines and tabs are dropped.
func printable(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r > 0xFFFF:
			return unicode.ReplacementChar
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}
