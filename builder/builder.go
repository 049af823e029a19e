package builder

import (
	"github.com/cvkit/cvkit/fonts"
	"github.com/cvkit/cvkit/ir/semantic"
)

// PDFBuilder provides a fluent API for PDF construction.
type PDFBuilder interface {
	NewPage(width, height float64) PageBuilder
	SetInfo(info *semantic.DocumentInfo) PDFBuilder
	SetLanguage(lang string) PDFBuilder
	RegisterFont(name string, font *semantic.Font) PDFBuilder
	MeasureText(text string, fontSize float64, fontName string) float64
	Build() (*semantic.Document, error)
}

// PageBuilder provides a fluent API for page construction.
type PageBuilder interface {
	DrawText(text string, x, y float64, opts TextOptions) PageBuilder
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder
	Finish() PDFBuilder
}

// TextOptions configures text drawing.
type TextOptions struct {
	Font        string
	FontSize    float64
	Color       Color
	CharSpacing float64
}

// LineOptions configures line drawing.
type LineOptions struct {
	StrokeColor Color
	LineWidth   float64
}

// Color represents an RGB color (alpha is ignored for now).
type Color struct {
	R, G, B float64
	A       float64
}

type fontResource struct {
	font      *semantic.Font
	runeToCID map[rune]int
	shaper    *fonts.Shaper
}

type builderImpl struct {
	pages       []*semantic.Page
	info        *semantic.DocumentInfo
	lang        string
	fonts       map[string]fontResource
	defaultFont string
}

type pageBuilderImpl struct {
	parent *builderImpl
	page   *semantic.Page
}

const (
	defaultFontResource = "F1"
	defaultBaseFont     = "Helvetica"
)

// NewBuilder constructs a PDFBuilder.
func NewBuilder() PDFBuilder { return &builderImpl{} }

func (b *builderImpl) NewPage(w, h float64) PageBuilder {
	p := &semantic.Page{MediaBox: semantic.Rectangle{LLX: 0, LLY: 0, URX: w, URY: h}}
	b.pages = append(b.pages, p)
	return &pageBuilderImpl{parent: b, page: p}
}

func (b *builderImpl) SetInfo(info *semantic.DocumentInfo) PDFBuilder {
	b.info = info
	return b
}

func (b *builderImpl) SetLanguage(lang string) PDFBuilder {
	b.lang = lang
	return b
}

func (b *builderImpl) RegisterFont(name string, font *semantic.Font) PDFBuilder {
	if font == nil {
		return b
	}
	if b.fonts == nil {
		b.fonts = make(map[string]fontResource)
	}
	res := fontResource{font: font, runeToCID: runeToCID(font)}
	if font.Embedded() {
		// Shaper construction may fail on exotic font programs; the widths
		// table below still serves measurement in that case.
		if sh, err := fonts.NewShaper(font); err == nil {
			res.shaper = sh
		}
	}
	b.fonts[name] = res
	if b.defaultFont == "" {
		b.defaultFont = name
	}
	return b
}

func (b *builderImpl) Build() (*semantic.Document, error) {
	for i, p := range b.pages {
		p.Index = i
	}
	return &semantic.Document{
		Pages: b.pages,
		Info:  b.info,
		Lang:  b.lang,
	}, nil
}

func (p *pageBuilderImpl) DrawText(text string, x, y float64, opts TextOptions) PageBuilder {
	if text == "" {
		return p
	}
	ops := p.ensureContentOps()
	res := p.ensureResources()

	font, fontName, cmap := p.parent.fontForName(opts.Font)
	if _, ok := res.Fonts[fontName]; !ok {
		res.Fonts[fontName] = font
	}
	size := opts.FontSize
	if size <= 0 {
		size = 12
	}

	*ops = append(*ops, semantic.Operation{Operator: "BT"})
	*ops = append(*ops, semantic.Operation{
		Operator: "Tf",
		Operands: []semantic.Operand{semantic.NameOperand{Value: fontName}, semantic.NumberOperand{Value: size}},
	})
	if opts.CharSpacing != 0 {
		*ops = append(*ops, semantic.Operation{Operator: "Tc", Operands: []semantic.Operand{semantic.NumberOperand{Value: opts.CharSpacing}}})
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "Tm",
		Operands: []semantic.Operand{
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 0},
			semantic.NumberOperand{Value: 1},
			semantic.NumberOperand{Value: x},
			semantic.NumberOperand{Value: y},
		},
	})
	if !isZeroColor(opts.Color) {
		*ops = append(*ops, semantic.Operation{
			Operator: "rg",
			Operands: colorOperands(opts.Color),
		})
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "Tj",
		Operands: []semantic.Operand{semantic.StringOperand{Value: encodeText(text, font, cmap)}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "ET"})
	return p
}

func (p *pageBuilderImpl) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) PageBuilder {
	ops := p.ensureContentOps()
	*ops = append(*ops, semantic.Operation{Operator: "q"})
	if !isZeroColor(opts.StrokeColor) {
		*ops = append(*ops, semantic.Operation{Operator: "RG", Operands: colorOperands(opts.StrokeColor)})
	}
	if opts.LineWidth > 0 {
		*ops = append(*ops, semantic.Operation{Operator: "w", Operands: []semantic.Operand{semantic.NumberOperand{Value: opts.LineWidth}}})
	}
	*ops = append(*ops, semantic.Operation{
		Operator: "m",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x1}, semantic.NumberOperand{Value: y1}},
	})
	*ops = append(*ops, semantic.Operation{
		Operator: "l",
		Operands: []semantic.Operand{semantic.NumberOperand{Value: x2}, semantic.NumberOperand{Value: y2}},
	})
	*ops = append(*ops, semantic.Operation{Operator: "S"})
	*ops = append(*ops, semantic.Operation{Operator: "Q"})
	return p
}

func (p *pageBuilderImpl) Finish() PDFBuilder { return p.parent }

// MeasureText returns the advance width of text in user units. Embedded
// fonts measure through the shaper; otherwise the widths table is used, and
// fonts without metrics fall back to a half-em-per-rune estimate.
func (b *builderImpl) MeasureText(text string, fontSize float64, fontName string) float64 {
	if text == "" {
		return 0
	}
	if fontSize <= 0 {
		fontSize = 12
	}
	res, ok := b.fonts[fontName]
	if !ok && fontName == "" {
		res, ok = b.fonts[b.defaultFont]
	}
	if ok && res.shaper != nil {
		if adv, err := res.shaper.Advance(text); err == nil {
			return adv / 1000 * fontSize
		}
	}
	if ok && res.font != nil && len(res.font.Widths) > 0 {
		widthSum := 0.0
		for _, r := range text {
			code := int(r)
			if res.font.Subtype == "Type0" && res.font.Encoding == "Identity-H" && res.runeToCID != nil {
				if cid, found := res.runeToCID[r]; found {
					code = cid
				}
			}
			if w, found := res.font.Widths[code]; found {
				widthSum += float64(w)
			} else {
				widthSum += 500 // default width in glyph space
			}
		}
		return widthSum / 1000 * fontSize
	}
	runes := 0
	for range text {
		runes++
	}
	return float64(runes) * fontSize * 0.5
}

func (b *builderImpl) fontForName(name string) (*semantic.Font, string, map[rune]int) {
	if name == "" {
		name = b.defaultFont
		if name == "" {
			name = defaultFontResource
		}
	}
	if b.fonts == nil {
		b.fonts = make(map[string]fontResource)
	}
	if f, ok := b.fonts[name]; ok {
		return f.font, name, f.runeToCID
	}
	font := &semantic.Font{BaseFont: defaultBaseFont}
	res := fontResource{font: font}
	b.fonts[name] = res
	return font, name, res.runeToCID
}

func runeToCID(font *semantic.Font) map[rune]int {
	if font == nil || len(font.ToUnicode) == 0 {
		return nil
	}
	m := make(map[rune]int)
	for cid, runes := range font.ToUnicode {
		for _, r := range runes {
			if _, exists := m[r]; !exists {
				m[r] = cid
			}
		}
	}
	return m
}

func encodeText(text string, font *semantic.Font, cmap map[rune]int) []byte {
	if font != nil && font.Subtype == "Type0" && font.Encoding == "Identity-H" && len(cmap) > 0 {
		buf := make([]byte, 0, len(text)*2)
		for _, r := range text {
			cid, ok := cmap[r]
			if !ok {
				cid = 0
			}
			buf = append(buf, byte(cid>>8), byte(cid))
		}
		return buf
	}
	return []byte(text)
}

func (p *pageBuilderImpl) ensureResources() *semantic.Resources {
	if p.page.Resources == nil {
		p.page.Resources = &semantic.Resources{}
	}
	if p.page.Resources.Fonts == nil {
		p.page.Resources.Fonts = make(map[string]*semantic.Font)
	}
	return p.page.Resources
}

func (p *pageBuilderImpl) ensureContentOps() *[]semantic.Operation {
	if len(p.page.Contents) == 0 {
		p.page.Contents = append(p.page.Contents, semantic.ContentStream{})
	}
	return &p.page.Contents[0].Operations
}

func isZeroColor(c Color) bool {
	return c.R == 0 && c.G == 0 && c.B == 0 && c.A == 0
}

func colorOperands(c Color) []semantic.Operand {
	return []semantic.Operand{
		semantic.NumberOperand{Value: c.R},
		semantic.NumberOperand{Value: c.G},
		semantic.NumberOperand{Value: c.B},
	}
}
