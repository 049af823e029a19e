package resume

import (
	"encoding/json"
	"fmt"
)

// Sections travel as tagged envelopes: the concrete section fields plus a
// "kind" discriminator, e.g. {"kind":"experience","items":[...]}.

// UnmarshalJSON decodes a document with tagged sections. Unknown section
// kinds are rejected rather than silently dropped.
func (d *Document) UnmarshalJSON(data []byte) error {
	var aux struct {
		PersonalInfo PersonalInfo      `json:"personalInfo"`
		Sections     []json.RawMessage `json:"sections"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	d.PersonalInfo = aux.PersonalInfo
	d.Sections = nil
	for i, raw := range aux.Sections {
		s, err := unmarshalSection(raw)
		if err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		d.Sections = append(d.Sections, s)
	}
	return nil
}

func unmarshalSection(data []byte) (Section, error) {
	var tag struct {
		Kind SectionKind `json:"kind"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	switch tag.Kind {
	case KindObjective:
		var s Objective
		return s, json.Unmarshal(data, &s)
	case KindFreeText:
		var s FreeText
		return s, json.Unmarshal(data, &s)
	case KindExperience:
		var s ExperienceList
		return s, json.Unmarshal(data, &s)
	case KindEducation:
		var s EducationList
		return s, json.Unmarshal(data, &s)
	case KindSkills:
		var s SkillList
		return s, json.Unmarshal(data, &s)
	case KindCertificates:
		var s CertificateList
		return s, json.Unmarshal(data, &s)
	case KindProjects:
		var s ProjectList
		return s, json.Unmarshal(data, &s)
	case KindLeadership:
		var s Leadership
		return s, json.Unmarshal(data, &s)
	case KindReferences:
		var s ReferenceList
		return s, json.Unmarshal(data, &s)
	}
	return nil, fmt.Errorf("unknown section kind %q", tag.Kind)
}

// MarshalJSON encodes the document with tagged section envelopes, the same
// shape UnmarshalJSON accepts.
func (d Document) MarshalJSON() ([]byte, error) {
	sections := make([]json.RawMessage, 0, len(d.Sections))
	for i, s := range d.Sections {
		raw, err := marshalSection(s)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		sections = append(sections, raw)
	}
	return json.Marshal(struct {
		PersonalInfo PersonalInfo      `json:"personalInfo"`
		Sections     []json.RawMessage `json:"sections"`
	}{d.PersonalInfo, sections})
}

func marshalSection(s Section) (json.RawMessage, error) {
	body, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	kind, err := json.Marshal(s.Kind())
	if err != nil {
		return nil, err
	}
	fields["kind"] = kind
	return json.Marshal(fields)
}
