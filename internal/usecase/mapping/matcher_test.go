package mapping

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kailas-cloud/abmeta/internal/domain"
	"github.com/kailas-cloud/abmeta/internal/domain/composite"
	s "github.com/kailas-cloud/abmeta/internal/domain/scheme"
)

func collect(doc domain.Document, root *s.Node, acc *composite.Accumulator, sink Sink) []domain.Attribute {
	var out []domain.Attribute
	for a := range Walk(doc, root, acc, sink) {
		out = append(out, a)
	}
	return out
}

func keyScheme() *s.Node {
	return s.Nested(
		s.Key("key_key", s.Composite("initial_key", 0)),
		s.Key("key_scale", s.Composite("initial_key", 1)),
	)
}

func TestWalk_DirectNested(t *testing.T) {
	root := s.Nested(s.Key("mood_happy", s.Nested(s.Key("all", s.Nested(s.Key("happy", s.Direct("mood_happy")))))))
	doc := domain.Document{"mood_happy": map[string]any{"all": map[string]any{"happy": "0.7"}}}

	got := collect(doc, root, composite.New(composite.PolicyAppend), nil)
	assert.Equal(t, []domain.Attribute{{Name: "mood_happy", Value: "0.7"}}, got)
}

func TestWalk_MissingKeyRecordsDiagnostic(t *testing.T) {
	root := s.Nested(s.Key("a", s.Nested(s.Key("b", s.Direct("x")))))
	rec := &Recorder{}

	got := collect(domain.Document{}, root, composite.New(composite.PolicyAppend), rec)
	assert.Empty(t, got)
	require.Len(t, rec.Diagnostics, 1)
	assert.Equal(t, Diagnostic{Kind: MissingKey, Path: "", Key: "a"}, rec.Diagnostics[0])
}

func TestWalk_MissingNestedKeyPath(t *testing.T) {
	root := s.Nested(s.Key("a", s.Nested(s.Key("b", s.Direct("x")), s.Key("c", s.Direct("y")))))
	rec := &Recorder{}

	got := collect(domain.Document{"a": map[string]any{"c": true}}, root, nil, rec)
	assert.Equal(t, []domain.Attribute{{Name: "y", Value: true}}, got)
	require.Len(t, rec.Diagnostics, 1)
	assert.Equal(t, "a", rec.Diagnostics[0].Path)
	assert.Equal(t, "b", rec.Diagnostics[0].Key)
}

func TestWalk_ShapeMismatchSkips(t *testing.T) {
	root := s.Nested(
		s.Key("a", s.Nested(s.Key("b", s.Direct("x")))),
		s.Key("leaf", s.Direct("leaf")),
		s.Key("frag", s.Composite("c", 0)),
		s.Key("ok", s.Direct("ok")),
	)
	doc := domain.Document{
		"a":    "scalar where a document was expected",
		"leaf": map[string]any{"nested": 1},
		"frag": []any{"x"},
		"ok":   json.Number("1.5"),
	}
	rec := &Recorder{}
	acc := composite.New(composite.PolicyAppend)

	got := collect(doc, root, acc, rec)
	assert.Equal(t, []domain.Attribute{{Name: "ok", Value: json.Number("1.5")}}, got)
	assert.Equal(t, 0, acc.Len())
	assert.Equal(t, []Diagnostic{
		{Kind: ShapeMismatch, Key: "a", Want: "document"},
		{Kind: ShapeMismatch, Key: "leaf", Want: "scalar"},
		{Kind: ShapeMismatch, Key: "frag", Want: "scalar"},
	}, rec.Diagnostics)
}

func TestWalk_CompositeFragmentsYieldNothing(t *testing.T) {
	acc := composite.New(composite.PolicyAppend)
	got := collect(domain.Document{"key_key": "C", "key_scale": "major"}, keyScheme(), acc, nil)

	assert.Empty(t, got)
	assert.Equal(t, []domain.Attribute{{Name: "initial_key", Value: "C major"}}, acc.Finalize())
}

func TestWalk_ReorderedComposite(t *testing.T) {
	reordered := s.Nested(
		s.Key("key_scale", s.Composite("initial_key", 1)),
		s.Key("key_key", s.Composite("initial_key", 0)),
	)
	doc := domain.Document{"key_key": "C", "key_scale": "major"}

	appendAcc := composite.New(composite.PolicyAppend)
	collect(doc, reordered, appendAcc, nil)
	assert.Equal(t, " major C", appendAcc.Finalize()[0].Value)

	overwriteAcc := composite.New(composite.PolicyOverwrite)
	collect(doc, reordered, overwriteAcc, nil)
	assert.Equal(t, "C major", overwriteAcc.Finalize()[0].Value)
}

func TestWalk_OrderFollowsScheme(t *testing.T) {
	root := s.Nested(
		s.Key("z", s.Direct("z")),
		s.Key("n", s.Nested(s.Key("inner", s.Direct("inner")))),
		s.Key("a", s.Direct("a")),
	)
	doc := domain.Document{"a": 1, "n": domain.Document{"inner": 2}, "z": 3}

	for range 5 {
		got := collect(doc, root, nil, nil)
		assert.Equal(t, []domain.Attribute{
			{Name: "z", Value: 3},
			{Name: "inner", Value: 2},
			{Name: "a", Value: 1},
		}, got)
	}
}

func TestWalk_StopsWhenConsumerStops(t *testing.T) {
	root := s.Nested(s.Key("a", s.Direct("a")), s.Key("b", s.Direct("b")), s.Key("c", s.Direct("c")))
	rec := &Recorder{}

	var got []string
	for a := range Walk(domain.Document{"a": 1, "b": 2}, root, nil, rec) {
		got = append(got, a.Name)
		break
	}
	assert.Equal(t, []string{"a"}, got)
	assert.Empty(t, rec.Diagnostics, "walk must not continue past the consumer")
}

func TestWalk_NonNestedRootYieldsNothing(t *testing.T) {
	assert.Empty(t, collect(domain.Document{"x": 1}, s.Direct("x"), nil, nil))
	assert.Empty(t, collect(domain.Document{"x": 1}, nil, nil, nil))
}

func TestWalk_SkipsNilChild(t *testing.T) {
	root := s.Nested(s.Key("a", nil), s.Key("b", s.Direct("b")))
	rec := &Recorder{}

	got := collect(domain.Document{"a": 1, "b": 2}, root, nil, rec)
	assert.Equal(t, []domain.Attribute{{Name: "b", Value: 2}}, got)
	assert.Empty(t, rec.Diagnostics)
}

func TestWalk_NullValuePassesThrough(t *testing.T) {
	root := s.Nested(s.Key("v", s.Direct("v")))
	got := collect(domain.Document{"v": nil}, root, nil, nil)
	assert.Equal(t, []domain.Attribute{{Name: "v", Value: nil}}, got)
}

func TestCountingSink(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_diag_total"}, []string{"kind"})
	rec := &Recorder{}
	sink := NewCountingSink(rec, counter)

	sink.MissingKey([]string{"a"}, "b")
	sink.MissingKey(nil, "c")
	sink.ShapeMismatch(nil, "d", "scalar")

	assert.InDelta(t, 2, testutil.ToFloat64(counter.WithLabelValues("missing_key")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(counter.WithLabelValues("shape_mismatch")), 0)
	assert.Len(t, rec.Diagnostics, 3)

	NewCountingSink(nil, nil).MissingKey(nil, "x")
}

func TestZapSink(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	sink := NewZapSink(zap.New(core))

	sink.MissingKey([]string{"highlevel", "mood_sad"}, "all")
	sink.ShapeMismatch([]string{"tonal"}, "key_key", "scalar")

	require.Equal(t, 2, logs.Len())
	first := logs.All()[0]
	assert.Equal(t, "highlevel.mood_sad", first.ContextMap()["path"])
	assert.Equal(t, "all", first.ContextMap()["key"])
	assert.Equal(t, "scalar", logs.All()[1].ContextMap()["want"])
}
