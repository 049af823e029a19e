package writer

import (
	"bytes"
	"compress/flate"
	"fmt"
	"sort"
	"strings"
	"unicode/utf16"

	"github.com/cvkit/cvkit/ir/raw"
	"github.com/cvkit/cvkit/ir/semantic"
)

func pdfVersion(cfg Config) string {
	if cfg.Version == "" {
		return string(PDF17)
	}
	return string(cfg.Version)
}

func flateEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// buildToUnicodeCMap renders the ToUnicode CMap stream for a composite font
// so extracted text maps CIDs back to Unicode.
func buildToUnicodeCMap(font *semantic.Font) []byte {
	if font == nil || len(font.ToUnicode) == 0 {
		return nil
	}
	keys := make([]int, 0, len(font.ToUnicode))
	for cid := range font.ToUnicode {
		keys = append(keys, cid)
	}
	sort.Ints(keys)
	registry, ordering, supplement := "Adobe", "Identity", 0
	if font.CIDSystemInfo != nil {
		if font.CIDSystemInfo.Registry != "" {
			registry = font.CIDSystemInfo.Registry
		}
		if font.CIDSystemInfo.Ordering != "" {
			ordering = font.CIDSystemInfo.Ordering
		}
		supplement = font.CIDSystemInfo.Supplement
	} else if font.DescendantFont != nil {
		registry = font.DescendantFont.CIDSystemInfo.Registry
		ordering = font.DescendantFont.CIDSystemInfo.Ordering
		supplement = font.DescendantFont.CIDSystemInfo.Supplement
	}
	name := font.BaseFont
	if name == "" {
		name = "ToUnicode"
	}
	name = strings.ReplaceAll(name, " ", "") + "-UTF16"
	minCID, maxCID := keys[0], keys[len(keys)-1]
	var buf bytes.Buffer
	buf.WriteString("/CIDInit /ProcSet findresource begin\n")
	buf.WriteString("12 dict begin\n")
	buf.WriteString("begincmap\n")
	buf.WriteString(fmt.Sprintf("/CIDSystemInfo << /Registry (%s) /Ordering (%s) /Supplement %d >> def\n", registry, ordering, supplement))
	buf.WriteString(fmt.Sprintf("/CMapName /%s def\n", name))
	buf.WriteString("/CMapType 2 def\n")
	buf.WriteString("1 begincodespacerange\n")
	buf.WriteString(fmt.Sprintf("<%04X> <%04X>\n", minCID, maxCID))
	buf.WriteString("endcodespacerange\n")
	for i := 0; i < len(keys); {
		chunk := len(keys) - i
		if chunk > 100 {
			chunk = 100
		}
		buf.WriteString(fmt.Sprintf("%d beginbfchar\n", chunk))
		for j := 0; j < chunk; j++ {
			cid := keys[i+j]
			buf.WriteString(fmt.Sprintf("<%04X> <%s>\n", cid, utf16Hex(font.ToUnicode[cid])))
		}
		buf.WriteString("endbfchar\n")
		i += chunk
	}
	buf.WriteString("endcmap\n")
	buf.WriteString("CMapName currentdict /CMap defineresource pop\n")
	buf.WriteString("end\nend\n")
	return buf.Bytes()
}

func utf16Hex(runes []rune) string {
	if len(runes) == 0 {
		return ""
	}
	encoded := utf16.Encode(runes)
	var b strings.Builder
	for _, u := range encoded {
		b.WriteString(fmt.Sprintf("%04X", u))
	}
	return b.String()
}

func encodeWidths(widths map[int]int) (first, last int, arr *raw.ArrayObj) {
	if len(widths) == 0 {
		return 0, 0, raw.NewArray()
	}
	first = int(^uint(0) >> 1)
	last = -1
	for k := range widths {
		if k < first {
			first = k
		}
		if k > last {
			last = k
		}
	}
	arr = raw.NewArray()
	for i := first; i <= last; i++ {
		if w, ok := widths[i]; ok {
			arr.Append(raw.NumberInt(int64(w)))
		} else {
			arr.Append(raw.NumberInt(0))
		}
	}
	return first, last, arr
}

// encodeCIDWidths emits the /W array using start/end/width run compression.
func encodeCIDWidths(widths map[int]int) *raw.ArrayObj {
	arr := raw.NewArray()
	if len(widths) == 0 {
		return arr
	}
	codes := make([]int, 0, len(widths))
	for c := range widths {
		codes = append(codes, c)
	}
	sort.Ints(codes)
	start := codes[0]
	prev := codes[0]
	current := widths[codes[0]]
	for i := 1; i < len(codes); i++ {
		code := codes[i]
		w := widths[code]
		if w == current && code == prev+1 {
			prev = code
			continue
		}
		arr.Append(raw.NumberInt(int64(start)))
		arr.Append(raw.NumberInt(int64(prev)))
		arr.Append(raw.NumberInt(int64(current)))
		start = code
		prev = code
		current = w
	}
	arr.Append(raw.NumberInt(int64(start)))
	arr.Append(raw.NumberInt(int64(prev)))
	arr.Append(raw.NumberInt(int64(current)))
	return arr
}

func fontDescriptor(cid *semantic.CIDFont, font *semantic.Font) *semantic.FontDescriptor {
	if cid != nil && cid.Descriptor != nil {
		return cid.Descriptor
	}
	if font != nil {
		return font.Descriptor
	}
	return nil
}

func serializeContentStream(cs semantic.ContentStream) []byte {
	if len(cs.RawBytes) > 0 {
		return cs.RawBytes
	}
	if len(cs.Operations) == 0 {
		return nil
	}
	var buf bytes.Buffer
	for _, op := range cs.Operations {
		for i, operand := range op.Operands {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.Write(serializeOperand(operand))
		}
		if len(op.Operands) > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(op.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func serializeOperand(op semantic.Operand) []byte {
	switch v := op.(type) {
	case semantic.NumberOperand:
		// %g keeps minimal form while preserving integer vs float readability.
		return []byte(fmt.Sprintf("%g", v.Value))
	case semantic.NameOperand:
		return []byte("/" + v.Value)
	case semantic.StringOperand:
		return escapeLiteralString(v.Value)
	case semantic.ArrayOperand:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, it := range v.Values {
			if i > 0 {
				buf.WriteByte(' ')
			}
			buf.Write(serializeOperand(it))
		}
		buf.WriteByte(']')
		return buf.Bytes()
	case semantic.DictOperand:
		var buf bytes.Buffer
		buf.WriteString("<<")
		keys := make([]string, 0, len(v.Values))
		for k := range v.Values {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteString("/" + k + " ")
			buf.Write(serializeOperand(v.Values[k]))
		}
		buf.WriteString(">>")
		return buf.Bytes()
	default:
		return []byte("null")
	}
}

func escapeLiteralString(rawBytes []byte) []byte {
	var b bytes.Buffer
	b.WriteByte('(')
	for _, ch := range rawBytes {
		switch ch {
		case '\\', '(', ')':
			b.WriteByte('\\')
			b.WriteByte(ch)
		case '\n':
			b.WriteString("\\n")
		case '\r':
			b.WriteString("\\r")
		case '\t':
			b.WriteString("\\t")
		case '\b':
			b.WriteString("\\b")
		case '\f':
			b.WriteString("\\f")
		default:
			if ch < 0x20 || ch >= 0x80 {
				fmt.Fprintf(&b, "\\%03o", ch)
			} else {
				b.WriteByte(ch)
			}
		}
	}
	b.WriteByte(')')
	return b.Bytes()
}
