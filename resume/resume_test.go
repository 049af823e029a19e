package resume

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDocumentIsEmpty(t *testing.T) {
	cases := []struct {
		name string
		doc  *Document
		want bool
	}{
		{"nil", nil, true},
		{"zero", &Document{}, true},
		{"name only", &Document{PersonalInfo: PersonalInfo{Name: "Ada"}}, false},
		{"empty sections", &Document{Sections: []Section{ExperienceList{}, SkillList{}}}, true},
		{"nil section entry", &Document{Sections: []Section{nil}}, true},
		{"one real section", &Document{Sections: []Section{Objective{Text: "hi"}}}, false},
	}
	for _, tc := range cases {
		if got := tc.doc.IsEmpty(); got != tc.want {
			t.Errorf("%s: IsEmpty = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestSectionEmpty(t *testing.T) {
	empties := []Section{
		Objective{},
		FreeText{Title: "titled but blank"},
		ExperienceList{},
		EducationList{},
		SkillList{Groups: []SkillGroup{{Category: "empty group"}}},
		CertificateList{},
		ProjectList{},
		Leadership{},
		ReferenceList{},
	}
	for _, s := range empties {
		if !s.Empty() {
			t.Errorf("%s: zero-content section reported non-empty", s.Kind())
		}
	}

	filled := []Section{
		Objective{Text: "x"},
		FreeText{Text: "x"},
		ExperienceList{Items: []ExperienceItem{{}}},
		EducationList{Items: []EducationItem{{}}},
		SkillList{Groups: []SkillGroup{{Skills: []string{"Go"}}}},
		CertificateList{Items: []CertificateItem{{}}},
		ProjectList{Items: []ProjectItem{{}}},
		Leadership{Text: "x"},
		ReferenceList{Items: []ReferenceItem{{}}},
	}
	for _, s := range filled {
		if s.Empty() {
			t.Errorf("%s: populated section reported empty", s.Kind())
		}
	}
}

func TestDocumentJSONRoundTrip(t *testing.T) {
	doc := Document{
		PersonalInfo: PersonalInfo{Name: "Ada Lovelace", Email: "ada@example.com"},
		Sections: []Section{
			Objective{Text: "Analytical work."},
			ExperienceList{Items: []ExperienceItem{{
				Title:        "Analyst",
				Organization: "Engines Ltd",
				Period:       Period{StartYear: 1842, StartMonth: 1, Current: true},
				Achievements: []string{"first program"},
				Technologies: []string{"punch cards"},
			}}},
			SkillList{Groups: []SkillGroup{{Category: "Math", Skills: []string{"Series"}}}},
			FreeText{Title: "Letter", Text: "Dear sir,"},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"kind":"experience"`) {
		t.Fatalf("envelope missing kind tag: %s", data)
	}

	var got Document
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.PersonalInfo != doc.PersonalInfo {
		t.Errorf("personal info drifted: %+v", got.PersonalInfo)
	}
	if len(got.Sections) != len(doc.Sections) {
		t.Fatalf("got %d sections, want %d", len(got.Sections), len(doc.Sections))
	}
	exp, ok := got.Sections[1].(ExperienceList)
	if !ok {
		t.Fatalf("section 1 decoded as %T", got.Sections[1])
	}
	if exp.Items[0].Period != doc.Sections[1].(ExperienceList).Items[0].Period {
		t.Errorf("period drifted: %+v", exp.Items[0].Period)
	}
	if ft, ok := got.Sections[3].(FreeText); !ok || ft.Title != "Letter" {
		t.Errorf("free text decoded as %#v", got.Sections[3])
	}
}

func TestUnmarshalUnknownKind(t *testing.T) {
	data := []byte(`{"personalInfo":{"name":"x"},"sections":[{"kind":"hobbies"}]}`)
	var doc Document
	if err := json.Unmarshal(data, &doc); err == nil {
		t.Fatal("expected error for unknown section kind")
	}
}

func TestUnmarshalSectionShape(t *testing.T) {
	data := []byte(`{
		"personalInfo": {"name": "Ada"},
		"sections": [
			{"kind": "skills", "groups": [{"category": "Langs", "skills": ["Go", "SQL"]}]},
			{"kind": "objective", "text": "Build things."}
		]
	}`)
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	sk, ok := doc.Sections[0].(SkillList)
	if !ok || len(sk.Groups) != 1 || len(sk.Groups[0].Skills) != 2 {
		t.Fatalf("skills decoded as %#v", doc.Sections[0])
	}
	if doc.Sections[1].(Objective).Text != "Build things." {
		t.Fatalf("objective decoded as %#v", doc.Sections[1])
	}
}
