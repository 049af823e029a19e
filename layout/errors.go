package layout

import (
	"fmt"

	"github.com/cvkit/cvkit/resume"
)

// SectionRenderError wraps a failure inside one section renderer. The
// composer logs it and skips the section; the rest of the document still
// renders.
type SectionRenderError struct {
	Kind resume.SectionKind
	Err  error
}

func (e *SectionRenderError) Error() string {
	return fmt.Sprintf("render section %q: %v", e.Kind, e.Err)
}

func (e *SectionRenderError) Unwrap() error { return e.Err }
