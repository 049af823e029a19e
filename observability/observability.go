package observability

// Logger is the structured logging hook used across the rendering engine.
// The engine never fails a render because of logging; implementations must
// be safe for concurrent use.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

type Field interface {
	Key() string
	Value() interface{}
}

type stringField struct{ key, val string }

func (f stringField) Key() string        { return f.key }
func (f stringField) Value() interface{} { return f.val }

type intField struct {
	key string
	val int
}

func (f intField) Key() string        { return f.key }
func (f intField) Value() interface{} { return f.val }

type float64Field struct {
	key string
	val float64
}

func (f float64Field) Key() string        { return f.key }
func (f float64Field) Value() interface{} { return f.val }

type errorField struct {
	key string
	err error
}

func (f errorField) Key() string        { return f.key }
func (f errorField) Value() interface{} { return f.err }

func String(key, value string) Field          { return stringField{key, value} }
func Int(key string, value int) Field         { return intField{key, value} }
func Float64(key string, value float64) Field { return float64Field{key, value} }
func Error(key string, err error) Field       { return errorField{key, err} }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Standard metric names emitted by the engine.
const (
	MetricRenderTime   = "resume.render.duration"
	MetricPageCount    = "resume.pages.count"
	MetricSectionCount = "resume.sections.count"
	MetricFontLoadTime = "resume.font.load.duration"
	MetricWriteTime    = "resume.write.duration"
)
