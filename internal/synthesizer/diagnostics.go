package synthesizer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/mcncl/respexample/internal/models"
)

// DiagnosticKind classifies a non-fatal synthesis diagnostic.
type DiagnosticKind string

const (
	// DiagnosticMultipleSchemas is reported when a tuple array or a group has
	// more than one member and only the first is used.
	DiagnosticMultipleSchemas DiagnosticKind = "unsupported-multiplicity"
	// DiagnosticCyclicReference is reported when a reference leads back to a
	// schema already being synthesized on the current path.
	DiagnosticCyclicReference DiagnosticKind = "cyclic-reference"
	// DiagnosticDepthLimit is reported when nesting exceeds the configured
	// maximum depth.
	DiagnosticDepthLimit DiagnosticKind = "depth-limit"
)

// Diagnostic describes something the synthesizer could not represent
// faithfully. It never stops synthesis.
type Diagnostic struct {
	Kind DiagnosticKind
	// Path locates the affected node, e.g. "/users/[]/id".
	Path string
	// SchemaKind is the kind of the schema that was used (or skipped).
	SchemaKind models.SchemaKind
	Message    string
}

// DiagnosticSink receives diagnostics as they are produced.
type DiagnosticSink interface {
	Report(Diagnostic)
}

// DiagnosticFunc adapts a function to DiagnosticSink.
type DiagnosticFunc func(Diagnostic)

// Report calls f(d).
func (f DiagnosticFunc) Report(d Diagnostic) { f(d) }

// DiscardSink drops every diagnostic.
var DiscardSink DiagnosticSink = DiagnosticFunc(func(Diagnostic) {})

// Collector records diagnostics in order. It is safe for concurrent use.
type Collector struct {
	mu          sync.Mutex
	diagnostics []Diagnostic
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diagnostics = append(c.diagnostics, d)
}

// Diagnostics returns a copy of everything reported so far.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

// Count returns how many diagnostics of kind were reported.
func (c *Collector) Count(kind DiagnosticKind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, d := range c.diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// LogSink writes diagnostics to logger as warnings. A nil logger uses
// slog.Default.
func LogSink(logger *slog.Logger) DiagnosticSink {
	if logger == nil {
		logger = slog.Default()
	}
	return DiagnosticFunc(func(d Diagnostic) {
		logger.LogAttrs(context.Background(), slog.LevelWarn, d.Message,
			slog.String("kind", string(d.Kind)),
			slog.String("path", d.Path),
			slog.String("schema", d.SchemaKind.String()),
		)
	})
}
