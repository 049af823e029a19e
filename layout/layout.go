// Package layout paginates résumé content onto PDF pages. The engine owns
// the page cursor; section renderers measure first and draw second, so every
// page break is decided before any ink hits the page.
package layout

import (
	"github.com/cvkit/cvkit/builder"
	"github.com/cvkit/cvkit/fonts"
	"github.com/cvkit/cvkit/observability"
)

// A4 in PDF points.
const (
	PaperWidthA4  = 595.28
	PaperHeightA4 = 841.89
)

// Type scale used throughout a document.
const (
	sizeName     = 18
	sizeHeader   = 12
	sizeTitle    = 11
	sizeBody     = 10
	sizeSmall    = 9
	bulletIndent = 12
)

// Engine drives pagination. The cursor starts at the top margin of page one
// and only ever moves down; a new page resets it. Engines are single-use and
// not safe for concurrent use; the composer creates one per render call.
type Engine struct {
	b builder.PDFBuilder

	FontRegular string
	FontBold    string
	FontItalic  string

	LineHeight float64 // multiplier on font size
	LineGap    float64 // extra points between lines
	Margins    Margins

	logger observability.Logger

	currentPage builder.PageBuilder
	pageCount   int
	cursorY     float64
	pageWidth   float64
	pageHeight  float64
}

// Margins defines page margins in points.
type Margins struct {
	Top, Bottom, Left, Right float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithMargins sets the page margins.
func WithMargins(m Margins) Option {
	return func(e *Engine) { e.Margins = m }
}

// WithPageSize sets the page dimensions in points.
func WithPageSize(width, height float64) Option {
	return func(e *Engine) {
		e.pageWidth = width
		e.pageHeight = height
	}
}

// WithLineHeight sets the line height multiplier.
func WithLineHeight(mult float64) Option {
	return func(e *Engine) { e.LineHeight = mult }
}

// WithLogger sets the logger used for layout diagnostics.
func WithLogger(l observability.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithFonts sets the resource names of the regular/bold/italic faces.
func WithFonts(regular, bold, italic string) Option {
	return func(e *Engine) {
		e.FontRegular = regular
		e.FontBold = bold
		e.FontItalic = italic
	}
}

// NewEngine creates a layout engine over a builder. Defaults are A4 with
// 50pt margins and the provider's logical body faces.
func NewEngine(b builder.PDFBuilder, opts ...Option) *Engine {
	e := &Engine{
		b:           b,
		FontRegular: fonts.BodyRegular,
		FontBold:    fonts.BodyBold,
		FontItalic:  fonts.BodyItalic,
		LineHeight:  1.2,
		LineGap:     2,
		Margins:     Margins{Top: 50, Bottom: 50, Left: 50, Right: 50},
		pageWidth:   PaperWidthA4,
		pageHeight:  PaperHeightA4,
		logger:      observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CursorY returns the current baseline-top position on the page.
func (e *Engine) CursorY() float64 { return e.cursorY }

// PageCount returns the number of pages started so far.
func (e *Engine) PageCount() int { return e.pageCount }

// ContentWidth is the usable width between the left and right margins.
func (e *Engine) ContentWidth() float64 {
	return e.pageWidth - e.Margins.Left - e.Margins.Right
}

// usableHeight is the full content height of an empty page.
func (e *Engine) usableHeight() float64 {
	return e.pageHeight - e.Margins.Top - e.Margins.Bottom
}

func (e *Engine) atPageTop() bool {
	return e.cursorY == e.pageHeight-e.Margins.Top
}

// ensurePage makes sure there is a current page and the cursor is valid.
func (e *Engine) ensurePage() {
	if e.currentPage == nil {
		e.newPage()
	}
}

// newPage starts a new page and resets the cursor to the top margin.
func (e *Engine) newPage() {
	e.currentPage = e.b.NewPage(e.pageWidth, e.pageHeight)
	e.pageCount++
	e.cursorY = e.pageHeight - e.Margins.Top
	e.logger.Debug("page started", observability.Int("page", e.pageCount))
}

// AdvancePage finishes the current page and starts a fresh one.
func (e *Engine) AdvancePage() {
	if e.currentPage != nil {
		e.currentPage.Finish()
	}
	e.newPage()
}

// EnsureFits guarantees that height points of vertical space are available
// below the cursor, advancing to a new page when they are not, and returns
// the cursor position drawing should start from. A block taller than an
// entire empty page stays at the top of a fresh page and overflows below
// the bottom margin rather than being split.
func (e *Engine) EnsureFits(height float64) float64 {
	e.ensurePage()
	if e.cursorY-height < e.Margins.Bottom && !e.atPageTop() {
		e.AdvancePage()
	}
	if height > e.usableHeight() {
		e.logger.Warn("block taller than page, overflowing",
			observability.Float64("height", height),
			observability.Int("page", e.pageCount))
	}
	return e.cursorY
}

// Finish closes the current page, if any.
func (e *Engine) Finish() {
	if e.currentPage != nil {
		e.currentPage.Finish()
		e.currentPage = nil
	}
}

// lineHeight is the vertical space one line of the given size occupies.
func (e *Engine) lineHeight(fontSize float64) float64 {
	return fontSize*e.LineHeight + e.LineGap
}
