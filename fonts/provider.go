package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/cvkit/cvkit/ir/semantic"
	"github.com/cvkit/cvkit/observability"
)

// Logical font names understood by the Provider.
const (
	BodyRegular = "body-regular"
	BodyBold    = "body-bold"
	BodyItalic  = "body-italic"
)

// candidateFiles lists file names probed for each logical font, in priority
// order. The first existing file under any search directory wins.
var candidateFiles = map[string][]string{
	BodyRegular: {"DejaVuSans.ttf", "LiberationSans-Regular.ttf", "NotoSans-Regular.ttf"},
	BodyBold:    {"DejaVuSans-Bold.ttf", "LiberationSans-Bold.ttf", "NotoSans-Bold.ttf"},
	BodyItalic:  {"DejaVuSans-Oblique.ttf", "LiberationSans-Italic.ttf", "NotoSans-Italic.ttf"},
}

// defaultSearchDirs tolerates the common build/deploy layouts.
var defaultSearchDirs = []string{
	"fonts",
	"assets/fonts",
	"/usr/share/fonts/truetype/dejavu",
	"/usr/share/fonts/truetype/liberation",
	"/usr/share/fonts/truetype/noto",
}

// FontNotFoundError reports that no candidate file exists for a logical font.
type FontNotFoundError struct {
	Logical  string
	Searched []string
}

func (e *FontNotFoundError) Error() string {
	return fmt.Sprintf("font %q not found (searched %s)", e.Logical, strings.Join(e.Searched, ", "))
}

// Provider loads and caches embeddable font programs by logical name.
// The cache is populated once per logical name for the lifetime of the
// Provider and never evicted; concurrent first loads of the same name are
// coalesced so the font file is read and parsed exactly once.
type Provider struct {
	mu     sync.RWMutex
	cache  map[string]*semantic.Font
	group  singleflight.Group
	dirs   []string
	logger observability.Logger

	// parse is swappable in tests; production always uses LoadTrueType.
	parse func(name string, data []byte) (*semantic.Font, error)
}

// ProviderOption configures a Provider.
type ProviderOption func(*Provider)

// WithSearchDirs replaces the default candidate directories.
func WithSearchDirs(dirs ...string) ProviderOption {
	return func(p *Provider) { p.dirs = dirs }
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l observability.Logger) ProviderOption {
	return func(p *Provider) { p.logger = l }
}

// NewProvider constructs a Provider with the default search directories.
func NewProvider(opts ...ProviderOption) *Provider {
	p := &Provider{
		cache:  make(map[string]*semantic.Font),
		dirs:   defaultSearchDirs,
		logger: observability.NopLogger{},
		parse:  LoadTrueType,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load returns the font for a logical name, reading and parsing it on first
// use. It returns *FontNotFoundError when no candidate file exists.
func (p *Provider) Load(logical string) (*semantic.Font, error) {
	p.mu.RLock()
	font, ok := p.cache[logical]
	p.mu.RUnlock()
	if ok {
		return font, nil
	}

	v, err, _ := p.group.Do(logical, func() (interface{}, error) {
		// Re-check under the group: a previous flight may have populated
		// the cache between the fast path and Do.
		p.mu.RLock()
		cached, ok := p.cache[logical]
		p.mu.RUnlock()
		if ok {
			return cached, nil
		}
		font, err := p.load(logical)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		p.cache[logical] = font
		p.mu.Unlock()
		return font, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*semantic.Font), nil
}

func (p *Provider) load(logical string) (*semantic.Font, error) {
	names := candidateFiles[logical]
	searched := make([]string, 0, len(names)*len(p.dirs))
	for _, name := range names {
		for _, dir := range p.dirs {
			path := filepath.Join(dir, name)
			searched = append(searched, path)
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			font, err := p.parse(logical, data)
			if err != nil {
				return nil, fmt.Errorf("load %s from %s: %w", logical, path, err)
			}
			p.logger.Debug("font loaded",
				observability.String("logical", logical),
				observability.String("path", path))
			return font, nil
		}
	}
	return nil, &FontNotFoundError{Logical: logical, Searched: searched}
}

// Fallback returns the built-in base-14 family member for a logical name.
// These fonts carry no embedded program; measurement degrades to the
// heuristic path, but rendering always completes.
func Fallback(logical string) *semantic.Font {
	base := "Helvetica"
	switch logical {
	case BodyBold:
		base = "Helvetica-Bold"
	case BodyItalic:
		base = "Helvetica-Oblique"
	}
	return &semantic.Font{
		Subtype:  "Type1",
		BaseFont: base,
		Encoding: "WinAnsiEncoding",
	}
}
