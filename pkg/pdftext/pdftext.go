// Package pdftext extracts the plain text of PDF documents.
//
// Fonts with an Identity-H encoding, as written for embedded TrueType
// faces, are decoded as UTF-16BE; every other font goes through its own
// encoding.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf16"

	"github.com/ledongthuc/pdf"
)

// Extract returns the text of every page, one text object per line.
func Extract(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdftext: open: %w", err)
	}
	var out strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if err := extractPage(page, &out); err != nil {
			return "", fmt.Errorf("pdftext: page %d: %w", i, err)
		}
		out.WriteByte('\n')
	}
	return out.String(), nil
}

type decoder func(raw string) string

func extractPage(page pdf.Page, out *strings.Builder) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(fmt.Sprint(r))
		}
	}()

	contents := page.V.Key("Contents")
	if contents.IsNull() {
		return nil
	}

	fonts := make(map[string]decoder)
	for _, name := range page.Fonts() {
		fonts[name] = fontDecoder(page.Font(name))
	}
	decode := decoder(func(raw string) string { return raw })

	show := func(v pdf.Value) {
		if v.Kind() == pdf.String {
			out.WriteString(decode(v.RawString()))
		}
	}

	pdf.Interpret(contents, func(stk *pdf.Stack, op string) {
		args := make([]pdf.Value, stk.Len())
		for i := len(args) - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}
		switch op {
		case "BT":
			if out.Len() > 0 {
				out.WriteByte('\n')
			}
		case "T*":
			out.WriteByte('\n')
		case "Tf":
			if len(args) == 2 {
				if d, ok := fonts[args[0].Name()]; ok {
					decode = d
				}
			}
		case "Tj", "'":
			if len(args) == 1 {
				show(args[0])
			}
		case "\"":
			if len(args) == 3 {
				show(args[2])
			}
		case "TJ":
			if len(args) == 1 {
				for i := 0; i < args[0].Len(); i++ {
					show(args[0].Index(i))
				}
			}
		}
	})
	return nil
}

func fontDecoder(font pdf.Font) decoder {
	if font.V.Key("Encoding").Name() == "Identity-H" {
		return decodeUTF16BE
	}
	return font.Encoder().Decode
}

func decodeUTF16BE(raw string) string {
	units := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		units = append(units, uint16(raw[i])<<8|uint16(raw[i+1]))
	}
	return string(utf16.Decode(units))
}
