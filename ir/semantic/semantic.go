package semantic

// Document is the semantic representation of an assembled PDF, ready for
// serialization. Pages appear in reading order.
type Document struct {
	Pages []*Page
	Info  *DocumentInfo
	Lang  string
}

// Page models a single PDF page. Contents accumulate positioned draw
// operations; the writer flushes them at end of document.
type Page struct {
	Index     int
	MediaBox  Rectangle
	Resources *Resources
	Contents  []ContentStream
}

// ContentStream is a sequence of operations on a page.
type ContentStream struct {
	Operations []Operation
	RawBytes   []byte
}

// Operation represents a PDF operator and operands.
type Operation struct {
	Operator string
	Operands []Operand
}

// Operand is a type-safe operand value.
type Operand interface {
	operand()
	Type() string
}

type NumberOperand struct{ Value float64 }

func (NumberOperand) operand()     {}
func (NumberOperand) Type() string { return "number" }

type NameOperand struct{ Value string }

func (NameOperand) operand()     {}
func (NameOperand) Type() string { return "name" }

type StringOperand struct{ Value []byte }

func (StringOperand) operand()     {}
func (StringOperand) Type() string { return "string" }

type ArrayOperand struct{ Values []Operand }

func (ArrayOperand) operand()     {}
func (ArrayOperand) Type() string { return "array" }

type DictOperand struct{ Values map[string]Operand }

func (DictOperand) operand()     {}
func (DictOperand) Type() string { return "dict" }

// Resources holds per-page resources.
type Resources struct {
	Fonts map[string]*Font
}

// Font represents a font resource.
type Font struct {
	Subtype        string // Type1 (default), TrueType, Type0
	BaseFont       string
	Encoding       string
	Widths         map[int]int // character code (or CID) -> width in 1/1000 em
	ToUnicode      map[int][]rune
	CIDSystemInfo  *CIDSystemInfo
	DescendantFont *CIDFont
	Descriptor     *FontDescriptor
}

// Embedded reports whether a full font program is available for shaping.
func (f *Font) Embedded() bool {
	return f != nil && f.Descriptor != nil && len(f.Descriptor.FontFile) > 0
}

// CIDSystemInfo describes the registry/ordering of a CID font.
type CIDSystemInfo struct {
	Registry   string
	Ordering   string
	Supplement int
}

// CIDFont is the descendant font of a Type0 composite font.
type CIDFont struct {
	Subtype       string // CIDFontType0 or CIDFontType2
	BaseFont      string
	CIDSystemInfo CIDSystemInfo
	DW            int
	W             map[int]int // CID -> width
	Descriptor    *FontDescriptor
}

// FontDescriptor carries metrics and font file embedding details.
type FontDescriptor struct {
	FontName     string
	Flags        int
	ItalicAngle  float64
	Ascent       float64
	Descent      float64
	CapHeight    float64
	StemV        int
	FontBBox     [4]float64
	FontFile     []byte
	FontFileType string // FontFile2 (TrueType) or FontFile3
}

// Rectangle represents a PDF rectangle.
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// DocumentInfo is the /Info dictionary.
type DocumentInfo struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string
	Keywords []string
}
