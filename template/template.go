// Package template resolves language/style variants to section labels,
// section order and date formatting. It is pure data lookup: no page or
// measurement knowledge lives here.
package template

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cvkit/cvkit/resume"
)

// Language selects the label set.
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageTurkish Language = "tr"
)

// Style selects the regional convention: which optional sections appear and
// in what order.
type Style string

const (
	// StyleGlobal is the neutral international convention: skills by
	// category and projects, no narrative leadership section.
	StyleGlobal Style = "global"
	// StyleTurkey follows the local convention: a communication/leadership
	// narrative instead of the skills grid and project list.
	StyleTurkey Style = "turkey"
)

// Variant is the (language, style) pair controlling a render call.
type Variant struct {
	Language Language
	Style    Style
}

var matcher = language.NewMatcher([]language.Tag{
	language.English, // default
	language.Turkish,
})

// ParseLanguage canonicalizes an arbitrary BCP-47 tag onto the supported
// set; anything unrecognized maps to English.
func ParseLanguage(tag string) Language {
	parsed, err := language.Parse(tag)
	if err != nil {
		return LanguageEnglish
	}
	_, idx, _ := matcher.Match(parsed)
	if idx == 1 {
		return LanguageTurkish
	}
	return LanguageEnglish
}

var sectionLabels = map[Language]map[resume.SectionKind]string{
	LanguageEnglish: {
		resume.KindObjective:    "Professional Summary",
		resume.KindExperience:   "Work Experience",
		resume.KindEducation:    "Education",
		resume.KindSkills:       "Technical Skills",
		resume.KindCertificates: "Certificates",
		resume.KindProjects:     "Projects",
		resume.KindLeadership:   "Communication & Leadership",
		resume.KindReferences:   "References",
	},
	LanguageTurkish: {
		resume.KindObjective:    "Kariyer Hedefi",
		resume.KindExperience:   "İş Deneyimi",
		resume.KindEducation:    "Eğitim",
		resume.KindSkills:       "Teknik Beceriler",
		resume.KindCertificates: "Sertifikalar",
		resume.KindProjects:     "Projeler",
		resume.KindLeadership:   "İletişim ve Liderlik",
		resume.KindReferences:   "Referanslar",
	},
}

var sectionOrders = map[Style][]resume.SectionKind{
	StyleGlobal: {
		resume.KindObjective,
		resume.KindFreeText,
		resume.KindExperience,
		resume.KindEducation,
		resume.KindSkills,
		resume.KindCertificates,
		resume.KindProjects,
		resume.KindReferences,
	},
	StyleTurkey: {
		resume.KindObjective,
		resume.KindFreeText,
		resume.KindExperience,
		resume.KindEducation,
		resume.KindCertificates,
		resume.KindLeadership,
		resume.KindReferences,
	},
}

var monthNames = map[Language][12]string{
	LanguageEnglish: {"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"},
	LanguageTurkish: {"Oca", "Şub", "Mar", "Nis", "May", "Haz", "Tem", "Ağu", "Eyl", "Eki", "Kas", "Ara"},
}

var presentLabels = map[Language]string{
	LanguageEnglish: "Present",
	LanguageTurkish: "Devam Ediyor",
}

var caseTags = map[Language]language.Tag{
	LanguageEnglish: language.English,
	LanguageTurkish: language.Turkish,
}

// Resolved is the outcome of variant resolution. Resolving the same variant
// twice yields identical results; there is no hidden state.
type Resolved struct {
	Language Language
	Style    Style

	labels  map[resume.SectionKind]string
	order   []resume.SectionKind
	months  [12]string
	present string
	upper   cases.Caser
}

// Resolve looks up a variant. Unknown language or style combinations fall
// back to (en, global).
func Resolve(v Variant) Resolved {
	lang := v.Language
	if _, ok := sectionLabels[lang]; !ok {
		lang = LanguageEnglish
	}
	style := v.Style
	if _, ok := sectionOrders[style]; !ok {
		style = StyleGlobal
	}
	return Resolved{
		Language: lang,
		Style:    style,
		labels:   sectionLabels[lang],
		order:    sectionOrders[style],
		months:   monthNames[lang],
		present:  presentLabels[lang],
		upper:    cases.Upper(caseTags[lang]),
	}
}

// Label returns the upper-cased header for a section kind. Locale-aware
// casing matters here: Turkish dotted/dotless I would be corrupted by ASCII
// upper-casing.
func (r Resolved) Label(kind resume.SectionKind) string {
	return r.upper.String(r.labels[kind])
}

// Title upper-cases an arbitrary heading (e.g. a free-text section title)
// with the same locale-aware caser used for section labels.
func (r Resolved) Title(s string) string {
	if s == "" {
		return ""
	}
	return r.upper.String(s)
}

// Order returns the section kinds this style renders, in canonical order.
func (r Resolved) Order() []resume.SectionKind {
	out := make([]resume.SectionKind, len(r.order))
	copy(out, r.order)
	return out
}

// Includes reports whether the style renders the given section kind.
func (r Resolved) Includes(kind resume.SectionKind) bool {
	for _, k := range r.order {
		if k == kind {
			return true
		}
	}
	return false
}

// FormatPeriod renders a period like "Jan 2020 – Present" in the resolved
// language. A zero period renders empty.
func (r Resolved) FormatPeriod(p resume.Period) string {
	if p.StartYear == 0 {
		return ""
	}
	start := r.formatDate(p.StartYear, p.StartMonth)
	switch {
	case p.Current:
		return start + " – " + r.present
	case p.EndYear != 0:
		return start + " – " + r.formatDate(p.EndYear, p.EndMonth)
	default:
		return start
	}
}

func (r Resolved) formatDate(year, month int) string {
	if month >= 1 && month <= 12 {
		return fmt.Sprintf("%s %d", r.months[month-1], year)
	}
	return fmt.Sprintf("%d", year)
}
