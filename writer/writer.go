package writer

import (
	"io"

	"github.com/cvkit/cvkit/ir/raw"
	"github.com/cvkit/cvkit/ir/semantic"
)

type PDFVersion string

const (
	PDF17 PDFVersion = "1.7"
)

// ContentFilter selects the encoding applied to content streams.
type ContentFilter int

const (
	FilterNone ContentFilter = iota
	FilterFlate
)

// Config controls serialization. The zero value writes uncompressed
// PDF 1.7; identical input and config always produce identical bytes.
type Config struct {
	Version       PDFVersion
	ContentFilter ContentFilter
}

// Writer serializes a semantic document into a binary PDF stream.
type Writer interface {
	Write(doc *semantic.Document, w io.Writer, cfg Config) error
	SerializeObject(ref raw.ObjectRef, obj raw.Object) ([]byte, error)
}

// New constructs a Writer.
func New() Writer { return &impl{} }
