package resume

import "errors"

// ErrEmptyDocument is returned when a document has no renderable content at
// all: no personal info and no non-empty sections.
var ErrEmptyDocument = errors.New("resume: document has no renderable content")

// SectionKind identifies the layout rule applied to a section.
type SectionKind string

const (
	KindObjective    SectionKind = "objective"
	KindExperience   SectionKind = "experience"
	KindEducation    SectionKind = "education"
	KindSkills       SectionKind = "skills"
	KindCertificates SectionKind = "certificates"
	KindProjects     SectionKind = "projects"
	KindLeadership   SectionKind = "leadership"
	KindReferences   SectionKind = "references"
	KindFreeText     SectionKind = "freetext"
)

// Document is the root input to one render call. It is never mutated by the
// engine; upstream validation is assumed, only defensive empty handling is
// performed here.
type Document struct {
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Sections     []Section    `json:"sections"`
}

// IsEmpty reports whether nothing in the document can be rendered.
func (d *Document) IsEmpty() bool {
	if d == nil {
		return true
	}
	if d.PersonalInfo.Name != "" {
		return false
	}
	for _, s := range d.Sections {
		if s != nil && !s.Empty() {
			return false
		}
	}
	return true
}

// PersonalInfo carries the contact header fields. Only Name is required.
type PersonalInfo struct {
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
}

// Section is one tagged variant of the document body.
type Section interface {
	Kind() SectionKind
	Empty() bool
}

// Period is a start/end range; End is ignored when Current is set.
type Period struct {
	StartYear  int  `json:"startYear"`
	StartMonth int  `json:"startMonth"` // 1-12, 0 when unknown
	EndYear    int  `json:"endYear,omitempty"`
	EndMonth   int  `json:"endMonth,omitempty"`
	Current    bool `json:"current,omitempty"`
}

// Objective is the summary/objective prose block. Markdown emphasis and
// bullet lists are honored.
type Objective struct {
	Text string `json:"text"`
}

func (Objective) Kind() SectionKind { return KindObjective }
func (o Objective) Empty() bool     { return o.Text == "" }

// FreeText is an arbitrary titled prose block (e.g. a cover letter body).
type FreeText struct {
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
}

func (FreeText) Kind() SectionKind { return KindFreeText }
func (f FreeText) Empty() bool     { return f.Text == "" }

// ExperienceItem is one work entry; it is atomic for pagination.
type ExperienceItem struct {
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	Location     string   `json:"location,omitempty"`
	Period       Period   `json:"period"`
	Description  string   `json:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// ExperienceList is the work history section.
type ExperienceList struct {
	Items []ExperienceItem `json:"items"`
}

func (ExperienceList) Kind() SectionKind { return KindExperience }
func (e ExperienceList) Empty() bool     { return len(e.Items) == 0 }

// EducationItem is one education entry; atomic for pagination.
type EducationItem struct {
	Institution string `json:"institution"`
	Credential  string `json:"credential"`
	Field       string `json:"field,omitempty"`
	Period      Period `json:"period"`
	Grade       string `json:"grade,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// EducationList is the education section.
type EducationList struct {
	Items []EducationItem `json:"items"`
}

func (EducationList) Kind() SectionKind { return KindEducation }
func (e EducationList) Empty() bool     { return len(e.Items) == 0 }

// SkillGroup is a category label plus ordered skill names, rendered as a
// column-major grid.
type SkillGroup struct {
	Category string   `json:"category"`
	Skills   []string `json:"skills"`
}

// SkillList is the technical-skills section.
type SkillList struct {
	Groups []SkillGroup `json:"groups"`
}

func (SkillList) Kind() SectionKind { return KindSkills }
func (s SkillList) Empty() bool {
	for _, g := range s.Groups {
		if len(g.Skills) > 0 {
			return false
		}
	}
	return true
}

// CertificateItem is one certificate entry; atomic for pagination.
type CertificateItem struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// CertificateList is the certificates section.
type CertificateList struct {
	Items []CertificateItem `json:"items"`
}

func (CertificateList) Kind() SectionKind { return KindCertificates }
func (c CertificateList) Empty() bool     { return len(c.Items) == 0 }

// ProjectItem is one project entry; atomic for pagination.
type ProjectItem struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies,omitempty"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
}

// ProjectList is the projects section.
type ProjectList struct {
	Items []ProjectItem `json:"items"`
}

func (ProjectList) Kind() SectionKind { return KindProjects }
func (p ProjectList) Empty() bool     { return len(p.Items) == 0 }

// Leadership is the communication/leadership narrative section.
type Leadership struct {
	Text string `json:"text"`
}

func (Leadership) Kind() SectionKind { return KindLeadership }
func (l Leadership) Empty() bool     { return l.Text == "" }

// ReferenceItem is one reference entry; atomic for pagination.
type ReferenceItem struct {
	Name         string `json:"name"`
	Title        string `json:"title,omitempty"`
	Organization string `json:"organization,omitempty"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// ReferenceList is the references section.
type ReferenceList struct {
	Items []ReferenceItem `json:"items"`
}

func (ReferenceList) Kind() SectionKind { return KindReferences }
func (r ReferenceList) Empty() bool     { return len(r.Items) == 0 }
