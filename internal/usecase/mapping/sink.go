package mapping

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DiagnosticKind classifies a skipped scheme path.
type DiagnosticKind string

// Diagnostic kinds.
const (
	// MissingKey: the scheme key is absent from the document.
	MissingKey DiagnosticKind = "missing_key"
	// ShapeMismatch: the key is present but its value has the wrong kind for the scheme node.
	ShapeMismatch DiagnosticKind = "shape_mismatch"
)

// Sink receives diagnostics for scheme paths that could not be mapped.
// Diagnostics never stop a traversal.
type Sink interface {
	MissingKey(path []string, key string)
	ShapeMismatch(path []string, key string, want string)
}

// NopSink discards diagnostics.
type NopSink struct{}

// MissingKey implements Sink.
func (NopSink) MissingKey([]string, string) {}

// ShapeMismatch implements Sink.
func (NopSink) ShapeMismatch([]string, string, string) {}

// Diagnostic is one recorded skip.
type Diagnostic struct {
	Kind DiagnosticKind `json:"kind"`
	Path string         `json:"path"`
	Key  string         `json:"key"`
	Want string         `json:"want,omitempty"`
}

// Recorder collects diagnostics in memory.
type Recorder struct {
	Diagnostics []Diagnostic
}

// MissingKey implements Sink.
func (r *Recorder) MissingKey(path []string, key string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: MissingKey, Path: joinPath(path), Key: key})
}

// ShapeMismatch implements Sink.
func (r *Recorder) ShapeMismatch(path []string, key, want string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{Kind: ShapeMismatch, Path: joinPath(path), Key: key, Want: want})
}

// ZapSink logs diagnostics at debug level.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a logging sink.
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger}
}

// MissingKey implements Sink.
func (s *ZapSink) MissingKey(path []string, key string) {
	s.logger.Debug("Data could not be mapped to scheme: key not found",
		zap.String("path", joinPath(path)),
		zap.String("key", key),
	)
}

// ShapeMismatch implements Sink.
func (s *ZapSink) ShapeMismatch(path []string, key, want string) {
	s.logger.Debug("Data could not be mapped to scheme: unexpected value shape",
		zap.String("path", joinPath(path)),
		zap.String("key", key),
		zap.String("want", want),
	)
}

// CountingSink counts diagnostics by kind and forwards them to the inner sink.
// counter is a counter vec with label "kind", passed explicitly.
type CountingSink struct {
	inner   Sink
	counter *prometheus.CounterVec
}

// NewCountingSink wraps inner. A nil inner discards after counting.
func NewCountingSink(inner Sink, counter *prometheus.CounterVec) *CountingSink {
	if inner == nil {
		inner = NopSink{}
	}
	return &CountingSink{inner: inner, counter: counter}
}

// MissingKey implements Sink.
func (s *CountingSink) MissingKey(path []string, key string) {
	s.inc(MissingKey)
	s.inner.MissingKey(path, key)
}

// ShapeMismatch implements Sink.
func (s *CountingSink) ShapeMismatch(path []string, key, want string) {
	s.inc(ShapeMismatch)
	s.inner.ShapeMismatch(path, key, want)
}

func (s *CountingSink) inc(kind DiagnosticKind) {
	if s.counter != nil {
		s.counter.WithLabelValues(string(kind)).Inc()
	}
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}
