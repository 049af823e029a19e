package template

import (
	"testing"

	"github.com/cvkit/cvkit/resume"
)

func TestResolveRoundTrip(t *testing.T) {
	for _, v := range []Variant{
		{LanguageEnglish, StyleGlobal},
		{LanguageEnglish, StyleTurkey},
		{LanguageTurkish, StyleGlobal},
		{LanguageTurkish, StyleTurkey},
	} {
		a := Resolve(v)
		b := Resolve(v)
		for _, kind := range a.Order() {
			if a.Label(kind) != b.Label(kind) {
				t.Errorf("%v: label for %s drifted between resolutions", v, kind)
			}
		}
		ao, bo := a.Order(), b.Order()
		if len(ao) != len(bo) {
			t.Fatalf("%v: order length drifted", v)
		}
		for i := range ao {
			if ao[i] != bo[i] {
				t.Errorf("%v: order drifted at %d: %s vs %s", v, i, ao[i], bo[i])
			}
		}
	}
}

func TestResolveUnknownFallsBack(t *testing.T) {
	r := Resolve(Variant{Language: "de", Style: "bavaria"})
	if r.Language != LanguageEnglish || r.Style != StyleGlobal {
		t.Fatalf("unknown variant resolved to (%s,%s), want (en,global)", r.Language, r.Style)
	}
}

func TestTurkishHeaderCasing(t *testing.T) {
	r := Resolve(Variant{LanguageTurkish, StyleTurkey})
	got := r.Label(resume.KindExperience)
	// Dotted capital İ must survive upper-casing.
	if got != "İŞ DENEYİMİ" {
		t.Fatalf("Turkish experience label = %q, want %q", got, "İŞ DENEYİMİ")
	}
	if lbl := r.Label(resume.KindEducation); lbl != "EĞİTİM" {
		t.Fatalf("Turkish education label = %q, want %q", lbl, "EĞİTİM")
	}
}

func TestStyleSectionInclusion(t *testing.T) {
	global := Resolve(Variant{LanguageEnglish, StyleGlobal})
	if !global.Includes(resume.KindSkills) || !global.Includes(resume.KindProjects) {
		t.Error("global style must include skills and projects")
	}
	if global.Includes(resume.KindLeadership) {
		t.Error("global style must not include the leadership narrative")
	}

	turkey := Resolve(Variant{LanguageTurkish, StyleTurkey})
	if !turkey.Includes(resume.KindLeadership) {
		t.Error("turkey style must include the leadership narrative")
	}
	if turkey.Includes(resume.KindSkills) || turkey.Includes(resume.KindProjects) {
		t.Error("turkey style must not include skills grid or projects")
	}
}

func TestFormatPeriod(t *testing.T) {
	en := Resolve(Variant{LanguageEnglish, StyleGlobal})
	tr := Resolve(Variant{LanguageTurkish, StyleTurkey})

	cases := []struct {
		name string
		r    Resolved
		p    resume.Period
		want string
	}{
		{"closed", en, resume.Period{StartYear: 2019, StartMonth: 3, EndYear: 2021, EndMonth: 7}, "Mar 2019 – Jul 2021"},
		{"current", en, resume.Period{StartYear: 2022, StartMonth: 1, Current: true}, "Jan 2022 – Present"},
		{"open", en, resume.Period{StartYear: 2020}, "2020"},
		{"zero", en, resume.Period{}, ""},
		{"turkish current", tr, resume.Period{StartYear: 2021, StartMonth: 8, Current: true}, "Ağu 2021 – Devam Ediyor"},
		{"turkish closed", tr, resume.Period{StartYear: 2018, StartMonth: 2, EndYear: 2019, EndMonth: 12}, "Şub 2018 – Ara 2019"},
	}
	for _, tc := range cases {
		if got := tc.r.FormatPeriod(tc.p); got != tc.want {
			t.Errorf("%s: FormatPeriod = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestParseLanguage(t *testing.T) {
	cases := map[string]Language{
		"tr":    LanguageTurkish,
		"tr-TR": LanguageTurkish,
		"en":    LanguageEnglish,
		"en-US": LanguageEnglish,
		"fr":    LanguageEnglish,
		"":      LanguageEnglish,
		"zzz":   LanguageEnglish,
	}
	for tag, want := range cases {
		if got := ParseLanguage(tag); got != want {
			t.Errorf("ParseLanguage(%q) = %s, want %s", tag, got, want)
		}
	}
}
