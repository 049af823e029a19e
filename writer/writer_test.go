package writer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cvkit/cvkit/ir/semantic"
)

func sampleDoc() *semantic.Document {
	font := &semantic.Font{Subtype: "Type1", BaseFont: "Helvetica"}
	page := &semantic.Page{
		MediaBox:  semantic.Rectangle{URX: 595.28, URY: 841.89},
		Resources: &semantic.Resources{Fonts: map[string]*semantic.Font{"F1": font}},
		Contents: []semantic.ContentStream{{
			Operations: []semantic.Operation{
				{Operator: "BT"},
				{Operator: "Tf", Operands: []semantic.Operand{
					semantic.NameOperand{Value: "F1"},
					semantic.NumberOperand{Value: 12},
				}},
				{Operator: "Tm", Operands: []semantic.Operand{
					semantic.NumberOperand{Value: 1}, semantic.NumberOperand{Value: 0},
					semantic.NumberOperand{Value: 0}, semantic.NumberOperand{Value: 1},
					semantic.NumberOperand{Value: 50}, semantic.NumberOperand{Value: 780},
				}},
				{Operator: "Tj", Operands: []semantic.Operand{
					semantic.StringOperand{Value: []byte("Hello")},
				}},
				{Operator: "ET"},
			},
		}},
	}
	return &semantic.Document{
		Pages: []*semantic.Page{page},
		Info:  &semantic.DocumentInfo{Title: "sample", Producer: "cvkit"},
	}
}

func TestWriteProducesValidSkeleton(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(sampleDoc(), &buf, Config{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "%PDF-1.7") {
		t.Errorf("missing PDF header, got %q", out[:16])
	}
	if !strings.HasSuffix(out, "%%EOF\n") {
		t.Errorf("missing EOF marker")
	}
	for _, want := range []string{"/Type /Catalog", "/Type /Pages", "/Type /Page", "startxref", "trailer", "/Info"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if !strings.Contains(out, "(Hello) Tj") {
		t.Errorf("content stream not serialized inline")
	}
}

func TestWriteDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	if err := New().Write(sampleDoc(), &a, Config{}); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := New().Write(sampleDoc(), &b, Config{}); err != nil {
		t.Fatalf("second write: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("identical documents produced different bytes")
	}
}

func TestWriteFlateFilter(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(sampleDoc(), &buf, Config{ContentFilter: FilterFlate}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "/Filter /FlateDecode") {
		t.Error("expected FlateDecode filter entry")
	}
	if strings.Contains(out, "(Hello) Tj") {
		t.Error("content stream should be compressed")
	}
}

func TestWriteCompositeFont(t *testing.T) {
	doc := sampleDoc()
	doc.Pages[0].Resources.Fonts["F2"] = &semantic.Font{
		Subtype:  "Type0",
		BaseFont: "TestSans",
		Encoding: "Identity-H",
		ToUnicode: map[int][]rune{
			3: {'A'},
			4: {'B'},
		},
		DescendantFont: &semantic.CIDFont{
			Subtype:       "CIDFontType2",
			BaseFont:      "TestSans",
			CIDSystemInfo: semantic.CIDSystemInfo{Registry: "Adobe", Ordering: "Identity"},
			DW:            1000,
			W:             map[int]int{3: 600, 4: 650},
			Descriptor: &semantic.FontDescriptor{
				FontName: "TestSans",
				Ascent:   800,
				Descent:  -200,
				FontFile: []byte{0, 1, 0, 0},
			},
		},
	}
	var buf bytes.Buffer
	if err := New().Write(doc, &buf, Config{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"/Subtype /Type0", "/Encoding /Identity-H", "/DescendantFonts", "/FontFile2", "/ToUnicode", "beginbfchar"} {
		if !strings.Contains(out, want) {
			t.Errorf("composite font output missing %q", want)
		}
	}
}

func TestWriteEmptyDocumentFails(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(&semantic.Document{}, &buf, Config{}); err == nil {
		t.Fatal("expected error for document without pages")
	}
	if buf.Len() != 0 {
		t.Fatal("no bytes should be written on failure")
	}
}

func TestEncodeCIDWidthsRuns(t *testing.T) {
	arr := encodeCIDWidths(map[int]int{1: 500, 2: 500, 3: 500, 5: 700})
	if arr.Len() != 6 {
		t.Fatalf("expected two runs (6 numbers), got %d items", arr.Len())
	}
}
