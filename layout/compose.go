package layout

import (
	"bytes"
	"fmt"
	"time"

	"github.com/cvkit/cvkit/builder"
	"github.com/cvkit/cvkit/fonts"
	"github.com/cvkit/cvkit/ir/semantic"
	"github.com/cvkit/cvkit/observability"
	"github.com/cvkit/cvkit/resume"
	"github.com/cvkit/cvkit/template"
	"github.com/cvkit/cvkit/writer"
)

const producerName = "cvkit"

// Composer turns a résumé document into PDF bytes. A Composer is safe for
// concurrent Render calls: each call builds its own engine and page state,
// and the font provider handles shared caching.
type Composer struct {
	provider  *fonts.Provider
	logger    observability.Logger
	writerCfg writer.Config
	engineOpt []Option
}

// ComposerOption configures a Composer.
type ComposerOption func(*Composer)

// WithFontProvider sets the font provider. Defaults to a provider over the
// standard search directories.
func WithFontProvider(p *fonts.Provider) ComposerOption {
	return func(c *Composer) { c.provider = p }
}

// WithComposerLogger sets the logger used across a render.
func WithComposerLogger(l observability.Logger) ComposerOption {
	return func(c *Composer) { c.logger = l }
}

// WithWriterConfig overrides PDF serialization settings.
func WithWriterConfig(cfg writer.Config) ComposerOption {
	return func(c *Composer) { c.writerCfg = cfg }
}

// WithEngineOptions forwards options to every per-render engine.
func WithEngineOptions(opts ...Option) ComposerOption {
	return func(c *Composer) { c.engineOpt = opts }
}

// NewComposer constructs a Composer.
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{
		logger:    observability.NopLogger{},
		writerCfg: writer.Config{Version: writer.PDF17, ContentFilter: writer.FilterFlate},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.provider == nil {
		c.provider = fonts.NewProvider(fonts.WithLogger(c.logger))
	}
	return c
}

// Render lays out doc under the given variant and returns the serialized
// PDF. A document with no renderable content returns ErrEmptyDocument and no
// bytes. A section whose renderer fails is logged and skipped; missing fonts
// degrade to built-in base-14 faces. Identical input always yields identical
// bytes.
func (c *Composer) Render(doc *resume.Document, v template.Variant) ([]byte, error) {
	if doc.IsEmpty() {
		return nil, resume.ErrEmptyDocument
	}
	start := time.Now()
	rv := template.Resolve(v)

	b := builder.NewBuilder()
	c.registerFonts(b)
	b.SetLanguage(string(rv.Language))
	b.SetInfo(&semantic.DocumentInfo{
		Title:    doc.PersonalInfo.Name,
		Author:   doc.PersonalInfo.Name,
		Producer: producerName,
	})

	e := NewEngine(b, append([]Option{WithLogger(c.logger)}, c.engineOpt...)...)
	e.renderContactHeader(doc.PersonalInfo)

	rendered := 0
	for _, kind := range rv.Order() {
		for _, s := range doc.Sections {
			if s == nil || s.Kind() != kind || s.Empty() {
				continue
			}
			if err := c.renderSection(e, s, rv); err != nil {
				c.logger.Warn("section skipped",
					observability.String("kind", string(kind)),
					observability.Error("error", err))
				continue
			}
			rendered++
		}
	}
	e.Finish()

	sem, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build document: %w", err)
	}
	if len(sem.Pages) == 0 {
		return nil, resume.ErrEmptyDocument
	}

	var buf bytes.Buffer
	if err := writer.New().Write(sem, &buf, c.writerCfg); err != nil {
		return nil, fmt.Errorf("serialize pdf: %w", err)
	}
	c.logger.Info("render complete",
		observability.String("language", string(rv.Language)),
		observability.String("style", string(rv.Style)),
		observability.Int(observability.MetricPageCount, e.PageCount()),
		observability.Int(observability.MetricSectionCount, rendered),
		observability.Float64(observability.MetricRenderTime, time.Since(start).Seconds()))
	return buf.Bytes(), nil
}

// renderSection contains one section's failure: a panic inside a renderer
// becomes a SectionRenderError instead of aborting the document.
func (c *Composer) renderSection(e *Engine, s resume.Section, rv template.Resolved) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SectionRenderError{Kind: s.Kind(), Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	if rerr := e.renderSection(s, rv); rerr != nil {
		return &SectionRenderError{Kind: s.Kind(), Err: rerr}
	}
	return nil
}

// registerFonts loads the three body faces, substituting base-14 fallbacks
// for anything the provider cannot find. A résumé always renders even on a
// host without font files.
func (c *Composer) registerFonts(b builder.PDFBuilder) {
	for _, logical := range []string{fonts.BodyRegular, fonts.BodyBold, fonts.BodyItalic} {
		f, err := c.provider.Load(logical)
		if err != nil {
			c.logger.Warn("font unavailable, using fallback",
				observability.String("logical", logical),
				observability.Error("error", err))
			f = fonts.Fallback(logical)
		}
		b.RegisterFont(logical, f)
	}
}
