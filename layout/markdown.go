package layout

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/cvkit/cvkit/builder"
)

// Prose sections (objective, free text, leadership) accept a small markdown
// subset: paragraphs, bullet lists, headings and bold/italic emphasis.
// Everything else flattens to plain text.

type spanStyle int

const (
	styleRegular spanStyle = iota
	styleItalic
	styleBold
)

type inlineSpan struct {
	text  string
	style spanStyle
}

type blockKind int

const (
	blockParagraph blockKind = iota
	blockBullet
	blockHeading
)

type proseBlock struct {
	kind  blockKind
	spans []inlineSpan
}

var proseParser = goldmark.New()

// parseProse parses markdown source into flat prose blocks.
func parseProse(source string) []proseBlock {
	src := []byte(source)
	doc := proseParser.Parser().Parse(text.NewReader(src))

	var blocks []proseBlock
	for child := doc.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Heading:
			blocks = append(blocks, proseBlock{kind: blockHeading, spans: collectSpans(n, src, styleBold)})
		case *ast.Paragraph:
			blocks = append(blocks, proseBlock{kind: blockParagraph, spans: collectSpans(n, src, styleRegular)})
		case *ast.List:
			for item := n.FirstChild(); item != nil; item = item.NextSibling() {
				blocks = append(blocks, proseBlock{kind: blockBullet, spans: collectItemSpans(item, src)})
			}
		}
	}
	return blocks
}

func collectItemSpans(item ast.Node, src []byte) []inlineSpan {
	var spans []inlineSpan
	for child := item.FirstChild(); child != nil; child = child.NextSibling() {
		spans = append(spans, collectSpans(child, src, styleRegular)...)
	}
	return spans
}

// collectSpans flattens inline content to styled text runs. Nested emphasis
// resolves to the innermost style.
func collectSpans(node ast.Node, src []byte, style spanStyle) []inlineSpan {
	var spans []inlineSpan
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch n := child.(type) {
		case *ast.Text:
			t := string(n.Segment.Value(src))
			if n.SoftLineBreak() || n.HardLineBreak() {
				t += " "
			}
			spans = append(spans, inlineSpan{text: t, style: style})
		case *ast.Emphasis:
			s := styleItalic
			if n.Level >= 2 {
				s = styleBold
			}
			spans = append(spans, collectSpans(n, src, s)...)
		case *ast.CodeSpan, *ast.Link:
			spans = append(spans, inlineSpan{text: string(child.Text(src)), style: style})
		default:
			spans = append(spans, inlineSpan{text: string(child.Text(src)), style: style})
		}
	}
	return spans
}

func (e *Engine) fontForStyle(s spanStyle) string {
	switch s {
	case styleBold:
		return e.FontBold
	case styleItalic:
		return e.FontItalic
	default:
		return e.FontRegular
	}
}

// renderProse draws parsed prose blocks starting at x. Prose is the one
// content class allowed to split across pages, so every line is preceded by
// a break check.
func (e *Engine) renderProse(blocks []proseBlock, x float64) {
	maxWidth := e.pageWidth - e.Margins.Right - x
	for _, block := range blocks {
		switch block.kind {
		case blockHeading:
			e.EnsureFits(e.lineHeight(sizeTitle))
			e.drawLine(spanText(block.spans), x, e.FontBold, sizeTitle)
		case blockBullet:
			e.EnsureFits(e.lineHeight(sizeBody))
			e.ensurePage()
			e.currentPage.DrawText("•", x, e.cursorY-sizeBody, builder.TextOptions{
				Font:     e.FontRegular,
				FontSize: sizeBody,
			})
			e.renderSpans(block.spans, x+bulletIndent, maxWidth-bulletIndent, sizeBody)
		case blockParagraph:
			e.renderSpans(block.spans, x, maxWidth, sizeBody)
			e.cursorY -= e.lineHeight(sizeBody) / 2
		}
	}
}

// renderSpans word-wraps styled runs onto lines and draws them, breaking
// pages between lines.
func (e *Engine) renderSpans(spans []inlineSpan, x, maxWidth float64, fontSize float64) {
	type word struct {
		text  string
		font  string
		width float64
	}

	var line []word
	lineWidth := 0.0
	lh := e.lineHeight(fontSize)

	flush := func() {
		if len(line) == 0 {
			return
		}
		e.EnsureFits(lh)
		e.ensurePage()
		curX := x
		for i, w := range line {
			e.currentPage.DrawText(w.text, curX, e.cursorY-fontSize, builder.TextOptions{
				Font:     w.font,
				FontSize: fontSize,
			})
			curX += w.width
			if i < len(line)-1 {
				curX += e.b.MeasureText(" ", fontSize, w.font)
			}
		}
		e.cursorY -= lh
		line = nil
		lineWidth = 0
	}

	for _, span := range spans {
		font := e.fontForStyle(span.style)
		spaceW := e.b.MeasureText(" ", fontSize, font)
		for _, tok := range strings.Fields(span.text) {
			w := e.b.MeasureText(tok, fontSize, font)
			needed := w
			if len(line) > 0 {
				needed += spaceW
			}
			if lineWidth+needed > maxWidth && len(line) > 0 {
				flush()
				needed = w
			}
			line = append(line, word{text: tok, font: font, width: w})
			lineWidth += needed
		}
	}
	flush()
}

func spanText(spans []inlineSpan) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.text)
	}
	return strings.TrimSpace(sb.String())
}
