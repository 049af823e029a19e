package layout

import (
	"strings"

	"github.com/cvkit/cvkit/builder"
)

// wrapText greedily breaks text into lines no wider than maxWidth. The same
// routine backs both measurement and drawing, so a measured height is always
// the height the draw will consume. Words wider than the line are split at
// character boundaries.
func (e *Engine) wrapText(text string, maxWidth float64, font string, fontSize float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	var line strings.Builder
	lineWidth := 0.0
	spaceWidth := e.b.MeasureText(" ", fontSize, font)

	flush := func() {
		if line.Len() > 0 {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
	}

	for _, word := range words {
		w := e.b.MeasureText(word, fontSize, font)
		if w > maxWidth {
			flush()
			for _, part := range e.splitWord(word, maxWidth, font, fontSize) {
				lines = append(lines, part)
			}
			// The last fragment could host following words, but keeping
			// fragments on their own lines keeps measurement and drawing
			// trivially in lockstep.
			continue
		}
		needed := w
		if line.Len() > 0 {
			needed += spaceWidth
		}
		if lineWidth+needed > maxWidth {
			flush()
			needed = w
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
		lineWidth += needed
	}
	flush()
	return lines
}

// splitWord chops a single over-wide word into maxWidth fragments.
func (e *Engine) splitWord(word string, maxWidth float64, font string, fontSize float64) []string {
	var parts []string
	var part strings.Builder
	partWidth := 0.0
	for _, r := range word {
		rw := e.b.MeasureText(string(r), fontSize, font)
		if partWidth+rw > maxWidth && part.Len() > 0 {
			parts = append(parts, part.String())
			part.Reset()
			partWidth = 0
		}
		part.WriteRune(r)
		partWidth += rw
	}
	if part.Len() > 0 {
		parts = append(parts, part.String())
	}
	return parts
}

// MeasureHeight returns the vertical space text will occupy when wrapped to
// maxWidth. Empty text measures zero. If measurement panics (a degenerate
// font), the estimate degrades to a single line rather than failing the
// render.
func (e *Engine) MeasureHeight(text string, maxWidth float64, font string, fontSize float64) (h float64) {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	defer func() {
		if recover() != nil {
			h = e.lineHeight(fontSize)
		}
	}()
	lines := e.wrapText(text, maxWidth, font, fontSize)
	return float64(len(lines)) * e.lineHeight(fontSize)
}

// MeasureWidth returns the advance width of a single unwrapped line.
func (e *Engine) MeasureWidth(text string, font string, fontSize float64) float64 {
	return e.b.MeasureText(text, fontSize, font)
}

// drawLine draws one line of text at x and moves the cursor down. It never
// checks for space; callers either reserved the height already (atomic
// blocks) or used writeWrapped.
func (e *Engine) drawLine(text string, x float64, font string, fontSize float64) {
	e.ensurePage()
	if text != "" {
		e.currentPage.DrawText(text, x, e.cursorY-fontSize, builder.TextOptions{
			Font:     font,
			FontSize: fontSize,
		})
	}
	e.cursorY -= e.lineHeight(fontSize)
}

// drawWrapped wraps text to maxWidth and draws every line without page-break
// checks. Used inside atomic blocks whose full height was reserved up front.
func (e *Engine) drawWrapped(text string, x, maxWidth float64, font string, fontSize float64) {
	for _, line := range e.wrapText(text, maxWidth, font, fontSize) {
		e.drawLine(line, x, font, fontSize)
	}
}

// writeWrapped wraps text to maxWidth and draws it with a page-break check
// before every line, so long prose flows across pages.
func (e *Engine) writeWrapped(text string, x, maxWidth float64, font string, fontSize float64) {
	lh := e.lineHeight(fontSize)
	for _, line := range e.wrapText(text, maxWidth, font, fontSize) {
		e.EnsureFits(lh)
		e.drawLine(line, x, font, fontSize)
	}
}

// rule draws a horizontal line across the content width at the cursor.
func (e *Engine) rule(width float64) {
	e.ensurePage()
	e.currentPage.DrawLine(e.Margins.Left, e.cursorY, e.Margins.Left+e.ContentWidth(), e.cursorY, builder.LineOptions{
		StrokeColor: builder.Color{R: 0.2, G: 0.2, B: 0.2, A: 1},
		LineWidth:   width,
	})
}
