package layout

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/cvkit/cvkit/resume"
	"github.com/cvkit/cvkit/template"
)

var englishGlobal = template.Resolve(template.Variant{Language: template.LanguageEnglish, Style: template.StyleGlobal})

func TestSkillGridColumnMajor(t *testing.T) {
	e := testEngine()
	skills := make([]string, 9)
	for i := range skills {
		skills[i] = fmt.Sprintf("S%d", i+1)
	}
	err := e.renderSection(resume.SkillList{Groups: []resume.SkillGroup{{Skills: skills}}}, englishGlobal)
	if err != nil {
		t.Fatal(err)
	}
	pages := pageTexts(t, e)
	if len(pages) != 1 {
		t.Fatalf("grid spread over %d pages, want 1", len(pages))
	}

	pos := map[string]drawnText{}
	for _, d := range pages[0] {
		pos[d.text] = d
	}
	for i := 1; i <= 9; i++ {
		if _, ok := pos[fmt.Sprintf("S%d", i)]; !ok {
			t.Fatalf("S%d was not drawn", i)
		}
	}

	// 9 skills in 3 columns fill top to bottom, then left to right:
	// S1-S3 share the first column, S4 tops the second at S1's height.
	if pos["S1"].x != pos["S2"].x || pos["S2"].x != pos["S3"].x {
		t.Error("S1-S3 must share a column")
	}
	if !(pos["S1"].y > pos["S2"].y && pos["S2"].y > pos["S3"].y) {
		t.Error("column entries must descend top to bottom")
	}
	if pos["S4"].y != pos["S1"].y {
		t.Errorf("S4 must top the second column at S1's height: %g vs %g", pos["S4"].y, pos["S1"].y)
	}
	if pos["S4"].x <= pos["S1"].x || pos["S7"].x <= pos["S4"].x {
		t.Error("columns must advance left to right")
	}
	colWidth := e.ContentWidth() / skillColumns
	if got := pos["S4"].x - pos["S1"].x; math.Abs(got-colWidth) > 0.01 {
		t.Errorf("column spacing = %g, want %g", got, colWidth)
	}
}

func TestSkillGridRowCount(t *testing.T) {
	cases := map[int]int{0: 0, 1: 1, 3: 1, 4: 2, 7: 3, 9: 3, 10: 4}
	for n, want := range cases {
		if got := gridRows(n); got != want {
			t.Errorf("gridRows(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestExperienceItemsNeverSplit(t *testing.T) {
	e := testEngine(WithPageSize(200, 200), WithMargins(Margins{Top: 20, Bottom: 20, Left: 20, Right: 20}))
	desc := strings.TrimSpace(strings.Repeat("work ", 18))
	var items []resume.ExperienceItem
	for i := 1; i <= 4; i++ {
		items = append(items, resume.ExperienceItem{
			Title:        fmt.Sprintf("Role%d", i),
			Organization: "Org",
			Description:  desc,
			Achievements: []string{fmt.Sprintf("fin%d", i)},
		})
	}
	if err := e.renderSection(resume.ExperienceList{Items: items}, englishGlobal); err != nil {
		t.Fatal(err)
	}
	pages := pageTexts(t, e)
	if len(pages) < 2 {
		t.Fatalf("4 tall items on a tiny page produced %d page(s), expected breaks", len(pages))
	}
	for i := 1; i <= 4; i++ {
		head := findPage(pages, fmt.Sprintf("Role%d, Org", i))
		tail := findPage(pages, fmt.Sprintf("fin%d", i))
		if head == -1 || tail == -1 {
			t.Fatalf("item %d not fully drawn (head page %d, tail page %d)", i, head, tail)
		}
		if head != tail {
			t.Errorf("item %d split across pages %d and %d", i, head, tail)
		}
	}
}

func TestSectionHeaderStaysWithFirstItem(t *testing.T) {
	e := testEngine(WithPageSize(300, 300), WithMargins(Margins{Top: 20, Bottom: 20, Left: 20, Right: 20}))
	// Push the cursor low enough that the header alone would still fit but
	// header plus first item would not.
	e.ensurePage()
	e.cursorY = e.Margins.Bottom + e.headerHeight() + 5

	items := []resume.ExperienceItem{{Title: "Role1", Organization: "Org", Description: "did things"}}
	if err := e.renderSection(resume.ExperienceList{Items: items}, englishGlobal); err != nil {
		t.Fatal(err)
	}
	pages := pageTexts(t, e)
	label := englishGlobal.Label(resume.KindExperience)
	if findPage(pages, label) != findPage(pages, "Role1, Org") {
		t.Errorf("header on page %d but first item on page %d", findPage(pages, label), findPage(pages, "Role1, Org"))
	}
	if findPage(pages, label) != 1 {
		t.Errorf("header should have moved to page 2, found on page %d", findPage(pages, label)+1)
	}
}

func TestProjectTagsRightAligned(t *testing.T) {
	e := testEngine()
	list := resume.ProjectList{Items: []resume.ProjectItem{{
		Name:         "cvkit",
		Technologies: []string{"Go", "PDF"},
		Description:  "renders resumes",
	}}}
	if err := e.renderSection(list, englishGlobal); err != nil {
		t.Fatal(err)
	}
	pages := pageTexts(t, e)
	pos := map[string]drawnText{}
	for _, d := range pages[0] {
		pos[d.text] = d
	}
	name, ok := pos["cvkit"]
	if !ok {
		t.Fatal("project name not drawn")
	}
	tags, ok := pos["Go · PDF"]
	if !ok {
		t.Fatal("technology tags not drawn")
	}
	if tags.y != name.y {
		t.Errorf("short tag line should share the name baseline: %g vs %g", tags.y, name.y)
	}
	wantX := e.Margins.Left + e.ContentWidth() - e.MeasureWidth("Go · PDF", e.FontItalic, sizeSmall)
	if math.Abs(tags.x-wantX) > 0.01 {
		t.Errorf("tags at x=%g, want right-aligned at %g", tags.x, wantX)
	}
}

func TestProseSectionSplitsAcrossPages(t *testing.T) {
	e := testEngine(WithPageSize(200, 150), WithMargins(Margins{Top: 20, Bottom: 20, Left: 20, Right: 20}))
	text := strings.TrimSpace(strings.Repeat("prose ", 120))
	if err := e.renderSection(resume.FreeText{Title: "Letter", Text: text}, englishGlobal); err != nil {
		t.Fatal(err)
	}
	if e.PageCount() < 2 {
		t.Errorf("long free text stayed on %d page(s); prose must flow across pages", e.PageCount())
	}
}

func TestObjectiveMarkdownBullets(t *testing.T) {
	e := testEngine()
	text := "Summary line.\n\n- first point\n- second point"
	if err := e.renderSection(resume.Objective{Text: text}, englishGlobal); err != nil {
		t.Fatal(err)
	}
	pages := pageTexts(t, e)
	bullets := 0
	for _, d := range pages[0] {
		if d.text == "•" {
			bullets++
		}
	}
	if bullets != 2 {
		t.Errorf("drew %d bullets, want 2", bullets)
	}
	if findPage(pages, "first") != 0 && findPage(pages, "first point") != 0 {
		t.Error("bullet text not drawn")
	}
}

func TestEmptyRowsAreDropped(t *testing.T) {
	e := testEngine()
	rows := e.experienceRows(resume.ExperienceItem{Title: "Role", Organization: "Org"}, englishGlobal)
	if len(rows) != 1 {
		t.Fatalf("item with only a title produced %d rows, want 1", len(rows))
	}
	if rows[0].text != "Role, Org" {
		t.Errorf("title row = %q", rows[0].text)
	}
}

func TestContactHeaderOmitsEmptyLines(t *testing.T) {
	e := testEngine()
	e.renderContactHeader(resume.PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"})
	pages := pageTexts(t, e)
	if findPage(pages, "Ada Lovelace") != 0 {
		t.Fatal("name not drawn")
	}
	if findPage(pages, "ada@example.com") != 0 {
		t.Fatal("contact line not drawn")
	}
	for _, d := range pages[0] {
		if d.text == "" {
			t.Error("empty line drawn in contact header")
		}
	}
}
