package layout

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cvkit/cvkit/fonts"
	"github.com/cvkit/cvkit/resume"
	"github.com/cvkit/cvkit/template"
	"github.com/cvkit/cvkit/writer"
)

// testComposer renders with base-14 fallbacks (no font files on disk) and
// uncompressed content streams so tests can inspect the output bytes.
func testComposer(t *testing.T, opts ...ComposerOption) *Composer {
	t.Helper()
	base := []ComposerOption{
		WithFontProvider(fonts.NewProvider(fonts.WithSearchDirs(t.TempDir()))),
		WithWriterConfig(writer.Config{ContentFilter: writer.FilterNone}),
	}
	return NewComposer(append(base, opts...)...)
}

func sampleDocument() *resume.Document {
	return &resume.Document{
		PersonalInfo: resume.PersonalInfo{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
		},
		Sections: []resume.Section{
			resume.Objective{Text: "Engine programmer with an analytical bent."},
			resume.ExperienceList{Items: []resume.ExperienceItem{{
				Title:        "Analyst",
				Organization: "Analytical Engines Ltd",
				Period:       resume.Period{StartYear: 1842, StartMonth: 1, EndYear: 1843, EndMonth: 9},
				Description:  "Wrote the first published program.",
			}}},
			resume.SkillList{Groups: []resume.SkillGroup{{
				Category: "Methods",
				Skills:   []string{"Loops", "Tables", "Notes"},
			}}},
			resume.Leadership{Text: "Corresponded widely and led collaborative annotation work."},
		},
	}
}

func TestRenderEmptyDocument(t *testing.T) {
	c := testComposer(t)
	for _, doc := range []*resume.Document{
		nil,
		{},
		{Sections: []resume.Section{resume.ExperienceList{}}},
	} {
		out, err := c.Render(doc, template.Variant{})
		if !errors.Is(err, resume.ErrEmptyDocument) {
			t.Errorf("Render(%+v) error = %v, want ErrEmptyDocument", doc, err)
		}
		if out != nil {
			t.Error("no bytes should be produced for an empty document")
		}
	}
}

func TestRenderMissingFontsStillProducesPDF(t *testing.T) {
	// The provider's search dir is empty, so every face degrades to a
	// built-in fallback. The render must still complete.
	c := testComposer(t)
	out, err := c.Render(sampleDocument(), template.Variant{Language: template.LanguageEnglish, Style: template.StyleGlobal})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-1.7")) {
		t.Errorf("output starts with %q, want a PDF header", out[:min(16, len(out))])
	}
	if !bytes.Contains(out, []byte("%%EOF")) {
		t.Error("output missing trailer")
	}
	if !bytes.Contains(out, []byte("Ada Lovelace")) {
		t.Error("name not present in content stream")
	}
}

func TestRenderDeterministic(t *testing.T) {
	c := testComposer(t)
	v := template.Variant{Language: template.LanguageEnglish, Style: template.StyleGlobal}
	a, err := c.Render(sampleDocument(), v)
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Render(sampleDocument(), v)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("identical input produced different bytes")
	}
}

func TestRenderVariantFiltersSections(t *testing.T) {
	c := testComposer(t)
	doc := sampleDocument()

	global, err := c.Render(doc, template.Variant{Language: template.LanguageEnglish, Style: template.StyleGlobal})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(global, []byte("TECHNICAL SKILLS")) {
		t.Error("global render missing the skills section")
	}
	if bytes.Contains(global, []byte("COMMUNICATION & LEADERSHIP")) {
		t.Error("global render must omit the leadership narrative")
	}

	turkey, err := c.Render(doc, template.Variant{Language: template.LanguageEnglish, Style: template.StyleTurkey})
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(turkey, []byte("TECHNICAL SKILLS")) {
		t.Error("turkey render must omit the skills grid")
	}
	if !bytes.Contains(turkey, []byte("COMMUNICATION & LEADERSHIP")) {
		t.Error("turkey render missing the leadership narrative")
	}
}

type brokenSection struct{}

func (brokenSection) Kind() resume.SectionKind { return resume.KindObjective }
func (brokenSection) Empty() bool              { return false }

func TestRenderSkipsFailingSection(t *testing.T) {
	c := testComposer(t)
	doc := sampleDocument()
	doc.Sections = append([]resume.Section{brokenSection{}}, doc.Sections...)

	out, err := c.Render(doc, template.Variant{Language: template.LanguageEnglish, Style: template.StyleGlobal})
	if err != nil {
		t.Fatalf("a failing section must not abort the render: %v", err)
	}
	if !bytes.Contains(out, []byte("WORK EXPERIENCE")) {
		t.Error("remaining sections must still render")
	}
}

func TestRenderScenarioPagination(t *testing.T) {
	// One long experience item plus a 9-skill grid: the long item must force
	// a break yet land intact, and the page count must be reproducible.
	long := strings.TrimSpace(strings.Repeat("shipped and maintained several subsystems ", 80))
	doc := &resume.Document{
		PersonalInfo: resume.PersonalInfo{Name: "Grace Hopper"},
		Sections: []resume.Section{
			resume.Objective{Text: "Compiler pioneer."},
			resume.ExperienceList{Items: []resume.ExperienceItem{
				{Title: "Lieutenant", Organization: "Navy", Description: "Programmed the Mark I."},
				{Title: "Director", Organization: "Eckert-Mauchly", Description: long, Achievements: []string{"marker-long-item-end"}},
				{Title: "Consultant", Organization: "DEC", Description: "Advised on standards."},
				{Title: "Lecturer", Organization: "Universities", Description: "Explained nanoseconds."},
			}},
			resume.SkillList{Groups: []resume.SkillGroup{{Skills: []string{
				"S1", "S2", "S3", "S4", "S5", "S6", "S7", "S8", "S9",
			}}}},
		},
	}

	c := testComposer(t)
	v := template.Variant{Language: template.LanguageEnglish, Style: template.StyleGlobal}
	out, err := c.Render(doc, v)
	if err != nil {
		t.Fatal(err)
	}
	pages := bytes.Count(out, []byte("/Type /Page>>"))
	if pages < 2 {
		t.Errorf("long content produced %d page(s), want at least 2", pages)
	}
	again, err := c.Render(doc, v)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Count(again, []byte("/Type /Page>>")) != pages {
		t.Error("page count changed between identical renders")
	}
	if !bytes.Contains(out, []byte("marker-long-item-end")) {
		t.Error("long item tail missing from output")
	}
}
