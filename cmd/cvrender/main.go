// Command cvrender reads a résumé document as JSON and writes a paginated
// PDF.
//
// Usage:
//
//	cvrender -in resume.json -out resume.pdf -lang tr -style turkey
//
// With -in - the document is read from stdin.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cvkit/cvkit/fonts"
	"github.com/cvkit/cvkit/layout"
	"github.com/cvkit/cvkit/observability"
	"github.com/cvkit/cvkit/resume"
	"github.com/cvkit/cvkit/template"
)

func main() {
	var (
		in      = flag.String("in", "-", "input JSON document, - for stdin")
		out     = flag.String("out", "resume.pdf", "output PDF path")
		lang    = flag.String("lang", "en", "label language (BCP-47, en or tr)")
		style   = flag.String("style", "global", "regional style: global or turkey")
		fontDir = flag.String("fonts", "", "extra font search directory")
		verbose = flag.Bool("v", false, "log layout diagnostics to stderr")
	)
	flag.Parse()

	var logger observability.Logger = observability.NopLogger{}
	if *verbose {
		logger = &stderrLogger{}
	}

	doc, err := readDocument(*in)
	if err != nil {
		fatal("read document: %v", err)
	}

	var popts []fonts.ProviderOption
	popts = append(popts, fonts.WithLogger(logger))
	if *fontDir != "" {
		popts = append(popts, fonts.WithSearchDirs(*fontDir))
	}

	composer := layout.NewComposer(
		layout.WithFontProvider(fonts.NewProvider(popts...)),
		layout.WithComposerLogger(logger),
	)
	variant := template.Variant{
		Language: template.ParseLanguage(*lang),
		Style:    template.Style(*style),
	}
	pdf, err := composer.Render(doc, variant)
	if err != nil {
		fatal("render: %v", err)
	}
	if err := os.WriteFile(*out, pdf, 0o644); err != nil {
		fatal("write %s: %v", *out, err)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", *out, len(pdf))
}

func readDocument(path string) (*resume.Document, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	var doc resume.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

// stderrLogger is a minimal structured logger for CLI diagnostics.
type stderrLogger struct {
	mu     sync.Mutex
	fields []observability.Field
}

func (l *stderrLogger) log(level, msg string, fields []observability.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(os.Stderr, "%s %s", level, msg)
	for _, f := range append(l.fields, fields...) {
		fmt.Fprintf(os.Stderr, " %s=%v", f.Key(), f.Value())
	}
	fmt.Fprintln(os.Stderr)
}

func (l *stderrLogger) Debug(msg string, fields ...observability.Field) { l.log("DEBUG", msg, fields) }
func (l *stderrLogger) Info(msg string, fields ...observability.Field)  { l.log("INFO", msg, fields) }
func (l *stderrLogger) Warn(msg string, fields ...observability.Field)  { l.log("WARN", msg, fields) }
func (l *stderrLogger) Error(msg string, fields ...observability.Field) { l.log("ERROR", msg, fields) }

func (l *stderrLogger) With(fields ...observability.Field) observability.Logger {
	return &stderrLogger{fields: append(append([]observability.Field{}, l.fields...), fields...)}
}
