package fonts

import (
	"bytes"
	"fmt"
	"unicode"

	"github.com/go-text/typesetting/di"
	gofont "github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/math/fixed"

	"github.com/cvkit/cvkit/ir/semantic"
)

// Shaper measures text through HarfBuzz shaping against an embedded font
// program. The face is parsed once per font and reused for every call.
type Shaper struct {
	face *gofont.Face
	hb   shaping.HarfbuzzShaper
}

// NewShaper parses the embedded font program of a semantic font.
func NewShaper(font *semantic.Font) (*Shaper, error) {
	if !font.Embedded() {
		return nil, fmt.Errorf("font %q has no embedded program", font.BaseFont)
	}
	face, err := gofont.ParseTTF(bytes.NewReader(font.Descriptor.FontFile))
	if err != nil {
		return nil, fmt.Errorf("parse font program: %w", err)
	}
	return &Shaper{face: face}, nil
}

// Advance returns the shaped advance width of text in 1/1000 em units.
func (s *Shaper) Advance(text string) (float64, error) {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0, nil
	}

	script := detectScript(runes)
	// Shape at 1000 units per em so advances come out in PDF glyph space.
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: scriptDirection(script),
		Face:      s.face,
		Size:      fixed.Int26_6(1000 * 64),
		Script:    script,
		Language:  language.DefaultLanguage(),
	}
	output := s.hb.Shape(input)

	total := 0.0
	for _, g := range output.Glyphs {
		total += float64(g.XAdvance) / 64.0
	}
	return total, nil
}

func scriptDirection(script language.Script) di.Direction {
	switch script {
	case language.Arabic, language.Hebrew:
		return di.DirectionRTL
	default:
		return di.DirectionLTR
	}
}

// detectScript picks the dominant script of the runes; Latin wins ties.
func detectScript(runes []rune) language.Script {
	counts := make(map[language.Script]int)
	maxCount := 0
	bestScript := language.Latin

	for _, r := range runes {
		script := scriptFromRune(r)
		if script == language.Unknown {
			continue
		}
		counts[script]++
		if counts[script] > maxCount {
			maxCount = counts[script]
			bestScript = script
		}
	}
	return bestScript
}

func scriptFromRune(r rune) language.Script {
	switch {
	case unicode.Is(unicode.Latin, r):
		return language.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return language.Cyrillic
	case unicode.Is(unicode.Greek, r):
		return language.Greek
	case unicode.Is(unicode.Arabic, r):
		return language.Arabic
	case unicode.Is(unicode.Hebrew, r):
		return language.Hebrew
	}
	return language.Unknown
}
