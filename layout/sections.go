package layout

import (
	"fmt"
	"strings"

	"github.com/cvkit/cvkit/builder"
	"github.com/cvkit/cvkit/resume"
	"github.com/cvkit/cvkit/template"
)

const (
	headerGap    = 6 // between the section rule and first content
	itemGap      = 8 // between list items
	groupGap     = 4 // between skill groups
	skillColumns = 3
)

// renderSection dispatches one section to its renderer.
func (e *Engine) renderSection(s resume.Section, rv template.Resolved) error {
	switch sec := s.(type) {
	case resume.Objective:
		e.renderProseSection(rv.Label(resume.KindObjective), sec.Text)
	case resume.FreeText:
		e.renderProseSection(rv.Title(sec.Title), sec.Text)
	case resume.Leadership:
		e.renderProseSection(rv.Label(resume.KindLeadership), sec.Text)
	case resume.ExperienceList:
		e.renderItemList(rv.Label(resume.KindExperience), len(sec.Items), func(i int) []row {
			return e.experienceRows(sec.Items[i], rv)
		})
	case resume.EducationList:
		e.renderItemList(rv.Label(resume.KindEducation), len(sec.Items), func(i int) []row {
			return e.educationRows(sec.Items[i], rv)
		})
	case resume.CertificateList:
		e.renderItemList(rv.Label(resume.KindCertificates), len(sec.Items), func(i int) []row {
			return e.certificateRows(sec.Items[i])
		})
	case resume.ReferenceList:
		e.renderItemList(rv.Label(resume.KindReferences), len(sec.Items), func(i int) []row {
			return e.referenceRows(sec.Items[i])
		})
	case resume.SkillList:
		e.renderSkills(sec, rv)
	case resume.ProjectList:
		e.renderProjects(sec, rv)
	default:
		return fmt.Errorf("no renderer for section kind %q", s.Kind())
	}
	return nil
}

// headerHeight is the space a section header consumes: one header line, the
// rule and the gap below it.
func (e *Engine) headerHeight() float64 {
	return e.lineHeight(sizeHeader) + headerGap
}

// sectionHeader draws a section header, reserving enough space that the
// header is never stranded at a page bottom with its first content on the
// next page.
func (e *Engine) sectionHeader(label string, firstContentHeight float64) {
	e.EnsureFits(e.headerHeight() + firstContentHeight)
	e.drawLine(label, e.Margins.Left, e.FontBold, sizeHeader)
	e.cursorY += e.LineGap // rule sits just under the text
	e.rule(0.75)
	e.cursorY -= headerGap
}

// renderProseSection renders a markdown prose section. Prose may split
// across pages mid-paragraph.
func (e *Engine) renderProseSection(label, text string) {
	blocks := parseProse(text)
	if len(blocks) == 0 {
		return
	}
	if label != "" {
		// Reserve the first prose line with the header.
		e.sectionHeader(label, e.lineHeight(sizeBody))
	}
	e.renderProse(blocks, e.Margins.Left)
	e.cursorY -= itemGap - e.lineHeight(sizeBody)/2
}

// row is one wrapped text row of an atomic item. Measurement and drawing
// walk the same rows, so reserved space always matches consumed space.
type row struct {
	text   string
	font   string
	size   float64
	indent float64
	bullet bool
}

func (e *Engine) rowsHeight(rows []row) float64 {
	width := e.ContentWidth()
	total := 0.0
	for _, r := range rows {
		total += e.MeasureHeight(r.text, width-r.indent, r.font, r.size)
	}
	return total
}

func (e *Engine) drawRows(rows []row) {
	width := e.ContentWidth()
	for _, r := range rows {
		x := e.Margins.Left + r.indent
		if r.bullet {
			e.ensurePage()
			e.currentPage.DrawText("•", x-bulletIndent, e.cursorY-r.size, builder.TextOptions{
				Font:     r.font,
				FontSize: r.size,
			})
		}
		e.drawWrapped(r.text, x, width-r.indent, r.font, r.size)
	}
}

// renderItemList renders a section of atomic items: each item's full height
// is reserved before drawing, so no item ever straddles a page break.
func (e *Engine) renderItemList(label string, n int, rowsFor func(int) []row) {
	if n == 0 {
		return
	}
	first := rowsFor(0)
	e.sectionHeader(label, e.rowsHeight(first))
	for i := 0; i < n; i++ {
		rows := first
		if i > 0 {
			rows = rowsFor(i)
		}
		e.EnsureFits(e.rowsHeight(rows))
		e.drawRows(rows)
		e.cursorY -= itemGap
	}
}

func (e *Engine) experienceRows(it resume.ExperienceItem, rv template.Resolved) []row {
	rows := []row{
		{text: joinNonEmpty(", ", it.Title, it.Organization), font: e.FontBold, size: sizeTitle},
		{text: joinNonEmpty(" · ", it.Location, rv.FormatPeriod(it.Period)), font: e.FontItalic, size: sizeSmall},
		{text: it.Description, font: e.FontRegular, size: sizeBody},
	}
	for _, a := range it.Achievements {
		rows = append(rows, row{text: a, font: e.FontRegular, size: sizeBody, indent: bulletIndent, bullet: true})
	}
	if len(it.Technologies) > 0 {
		rows = append(rows, row{text: strings.Join(it.Technologies, " · "), font: e.FontItalic, size: sizeSmall})
	}
	return compactRows(rows)
}

func (e *Engine) educationRows(it resume.EducationItem, rv template.Resolved) []row {
	return compactRows([]row{
		{text: it.Institution, font: e.FontBold, size: sizeTitle},
		{text: joinNonEmpty(", ", it.Credential, it.Field), font: e.FontRegular, size: sizeBody},
		{text: joinNonEmpty(" · ", rv.FormatPeriod(it.Period), it.Grade), font: e.FontItalic, size: sizeSmall},
		{text: it.Detail, font: e.FontRegular, size: sizeBody},
	})
}

func (e *Engine) certificateRows(it resume.CertificateItem) []row {
	name := it.Name
	if it.Year != 0 {
		name = fmt.Sprintf("%s (%d)", it.Name, it.Year)
	}
	return compactRows([]row{
		{text: name, font: e.FontBold, size: sizeBody},
		{text: it.Issuer, font: e.FontItalic, size: sizeSmall},
		{text: it.Detail, font: e.FontRegular, size: sizeBody},
	})
}

func (e *Engine) referenceRows(it resume.ReferenceItem) []row {
	return compactRows([]row{
		{text: it.Name, font: e.FontBold, size: sizeBody},
		{text: joinNonEmpty(", ", it.Title, it.Organization), font: e.FontRegular, size: sizeBody},
		{text: joinNonEmpty(" · ", it.Email, it.Phone), font: e.FontItalic, size: sizeSmall},
	})
}

// renderProjects renders project items: the name sits left, the technology
// tags right-aligned on the same line when they fit, on their own
// right-aligned line otherwise.
func (e *Engine) renderProjects(list resume.ProjectList, rv template.Resolved) {
	if len(list.Items) == 0 {
		return
	}
	e.sectionHeader(rv.Label(resume.KindProjects), e.projectHeight(list.Items[0]))
	for _, it := range list.Items {
		e.EnsureFits(e.projectHeight(it))
		e.drawProject(it)
		e.cursorY -= itemGap
	}
}

// projectTagsInline reports whether the tag line shares the name line.
func (e *Engine) projectTagsInline(it resume.ProjectItem) (tags string, inline bool) {
	if len(it.Technologies) == 0 {
		return "", false
	}
	tags = strings.Join(it.Technologies, " · ")
	nameW := e.MeasureWidth(it.Name, e.FontBold, sizeTitle)
	tagsW := e.MeasureWidth(tags, e.FontItalic, sizeSmall)
	return tags, nameW+tagsW+10 <= e.ContentWidth()
}

func (e *Engine) projectHeight(it resume.ProjectItem) float64 {
	width := e.ContentWidth()
	h := e.lineHeight(sizeTitle) // name line
	if tags, inline := e.projectTagsInline(it); tags != "" && !inline {
		h += e.MeasureHeight(tags, width, e.FontItalic, sizeSmall)
	}
	h += e.MeasureHeight(it.Description, width, e.FontRegular, sizeBody)
	if it.URL != "" {
		h += e.lineHeight(sizeSmall)
	}
	return h
}

func (e *Engine) drawProject(it resume.ProjectItem) {
	e.ensurePage()
	width := e.ContentWidth()
	tags, inline := e.projectTagsInline(it)

	e.currentPage.DrawText(it.Name, e.Margins.Left, e.cursorY-sizeTitle, builder.TextOptions{
		Font:     e.FontBold,
		FontSize: sizeTitle,
	})
	if inline {
		tagsW := e.MeasureWidth(tags, e.FontItalic, sizeSmall)
		e.currentPage.DrawText(tags, e.Margins.Left+width-tagsW, e.cursorY-sizeTitle, builder.TextOptions{
			Font:     e.FontItalic,
			FontSize: sizeSmall,
		})
	}
	e.cursorY -= e.lineHeight(sizeTitle)

	if tags != "" && !inline {
		for _, line := range e.wrapText(tags, width, e.FontItalic, sizeSmall) {
			lw := e.MeasureWidth(line, e.FontItalic, sizeSmall)
			e.currentPage.DrawText(line, e.Margins.Left+width-lw, e.cursorY-sizeSmall, builder.TextOptions{
				Font:     e.FontItalic,
				FontSize: sizeSmall,
			})
			e.cursorY -= e.lineHeight(sizeSmall)
		}
	}
	e.drawWrapped(it.Description, e.Margins.Left, width, e.FontRegular, sizeBody)
	if it.URL != "" {
		e.drawLine(it.URL, e.Margins.Left, e.FontItalic, sizeSmall)
	}
}

// renderSkills renders the column-major skills grid: each group is a label
// followed by ceil(n/3) rows of three columns, filled top to bottom then
// left to right. A group is atomic.
func (e *Engine) renderSkills(list resume.SkillList, rv template.Resolved) {
	groups := make([]resume.SkillGroup, 0, len(list.Groups))
	for _, g := range list.Groups {
		if len(g.Skills) > 0 {
			groups = append(groups, g)
		}
	}
	if len(groups) == 0 {
		return
	}
	e.sectionHeader(rv.Label(resume.KindSkills), e.skillGroupHeight(groups[0]))
	for _, g := range groups {
		e.EnsureFits(e.skillGroupHeight(g))
		e.drawSkillGroup(g)
		e.cursorY -= groupGap
	}
	e.cursorY -= itemGap - groupGap
}

func gridRows(n int) int {
	return (n + skillColumns - 1) / skillColumns
}

func (e *Engine) skillGroupHeight(g resume.SkillGroup) float64 {
	h := float64(gridRows(len(g.Skills))) * e.lineHeight(sizeBody)
	if g.Category != "" {
		h += e.lineHeight(sizeBody)
	}
	return h
}

func (e *Engine) drawSkillGroup(g resume.SkillGroup) {
	e.ensurePage()
	if g.Category != "" {
		e.drawLine(g.Category, e.Margins.Left, e.FontBold, sizeBody)
	}
	rows := gridRows(len(g.Skills))
	colWidth := e.ContentWidth() / skillColumns
	lh := e.lineHeight(sizeBody)
	for i, skill := range g.Skills {
		col := i / rows
		rowIdx := i % rows
		x := e.Margins.Left + float64(col)*colWidth
		y := e.cursorY - float64(rowIdx)*lh - sizeBody
		e.currentPage.DrawText(skill, x, y, builder.TextOptions{
			Font:     e.FontRegular,
			FontSize: sizeBody,
		})
	}
	e.cursorY -= float64(rows) * lh
}

// renderContactHeader draws the name and contact lines at the top of the
// document, followed by a rule.
func (e *Engine) renderContactHeader(pi resume.PersonalInfo) {
	if pi.Name == "" {
		return
	}
	e.EnsureFits(e.lineHeight(sizeName) + 2*e.lineHeight(sizeBody) + headerGap)
	e.drawLine(pi.Name, e.Margins.Left, e.FontBold, sizeName)
	if contact := joinNonEmpty("  |  ", pi.Email, pi.Phone, pi.Location); contact != "" {
		e.drawLine(contact, e.Margins.Left, e.FontRegular, sizeBody)
	}
	if links := joinNonEmpty("  |  ", pi.LinkedIn, pi.GitHub, pi.Portfolio); links != "" {
		e.drawLine(links, e.Margins.Left, e.FontRegular, sizeBody)
	}
	e.rule(1)
	e.cursorY -= headerGap + itemGap
}

func compactRows(rows []row) []row {
	out := rows[:0]
	for _, r := range rows {
		if strings.TrimSpace(r.text) != "" {
			out = append(out, r)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
