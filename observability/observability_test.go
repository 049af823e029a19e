package observability

import (
	"errors"
	"testing"
)

func TestFields(t *testing.T) {
	f := String("section", "experience")
	if f.Key() != "section" || f.Value() != "experience" {
		t.Fatalf("unexpected string field: %v=%v", f.Key(), f.Value())
	}
	n := Int("pages", 2)
	if n.Key() != "pages" || n.Value() != 2 {
		t.Fatalf("unexpected int field: %v=%v", n.Key(), n.Value())
	}
	fl := Float64("height", 14.4)
	if fl.Key() != "height" || fl.Value() != 14.4 {
		t.Fatalf("unexpected float field: %v=%v", fl.Key(), fl.Value())
	}
	err := errors.New("boom")
	e := Error("err", err)
	if e.Key() != "err" || e.Value() != err {
		t.Fatalf("unexpected error field: %v=%v", e.Key(), e.Value())
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	var l Logger = NopLogger{}
	l.Debug("d")
	l.Info("i", String("k", "v"))
	l.Warn("w")
	l.Error("e", Error("err", errors.New("x")))
	if l.With(Int("n", 1)) == nil {
		t.Fatal("With returned nil logger")
	}
}
