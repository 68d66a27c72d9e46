package graph_test

import (
	"errors"
	"testing"

	"github.com/ravi-parthasarathy/strgraph/pkg/graph"
)

const pipelineJSON = `{
	"nodes": [
		{"id": "greeting", "type": "constant", "value": "hello"},
		{"id": "name", "type": "placeholder"},
		{"id": "msg", "type": "operation", "op": "concat", "inputs": ["greeting", "name"], "constants": ["!"]},
		{"id": "loud", "type": "operation", "op": "to_upper", "inputs": ["msg"]}
	],
	"target": "loud"
}`

func TestCompileAndRunRepeatedly(t *testing.T) {
	t.Parallel()
	cg := graph.Compile([]byte(pipelineJSON))
	if !cg.Valid() {
		t.Fatalf("compile failed: %v", cg.Err())
	}

	for _, name := range []string{" world", " there"} {
		got, err := cg.Run("", map[string]string{"name": name})
		must(t, err)
		want := "HELLO" + asciiUpper(name) + "!"
		if got != want {
			t.Errorf("Run(%q) = %q, want %q", name, got, want)
		}
	}

	got, err := cg.RunAuto("msg", map[string]string{"name": " again"})
	must(t, err)
	if got != "hello again!" {
		t.Errorf("RunAuto = %q, want %q", got, "hello again!")
	}
}

func asciiUpper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

func TestCompileInvalidDocument(t *testing.T) {
	t.Parallel()
	cg := graph.Compile([]byte(`{"nodes": [{"id": "a"}]}`))
	if cg.Valid() {
		t.Fatal("expected invalid compiled graph")
	}
	if cg.Err() == nil {
		t.Fatal("Err() = nil on invalid graph")
	}
	if cg.Graph() != nil {
		t.Error("Graph() should be nil on invalid graph")
	}

	_, err := cg.Run("a", nil)
	if !errors.Is(err, graph.ErrInvalidGraph) {
		t.Errorf("Run error = %v, want ErrInvalidGraph", err)
	}
	_, err = cg.RunAuto("a", nil)
	if !errors.Is(err, graph.ErrInvalidGraph) {
		t.Errorf("RunAuto error = %v, want ErrInvalidGraph", err)
	}
}

func TestNewCompiledGraphValidates(t *testing.T) {
	t.Parallel()
	g := graph.New()
	must(t, g.AddOperation("o", "reverse", []string{"ghost"}, nil))

	cg := graph.NewCompiledGraph(g)
	if cg.Valid() {
		t.Fatal("expected invalid compiled graph for unresolved input")
	}
	var unknown *graph.UnknownNodeError
	if !errors.As(cg.Err(), &unknown) {
		t.Errorf("Err = %v, want UnknownNodeError", cg.Err())
	}

	if graph.NewCompiledGraph(nil).Valid() {
		t.Error("nil graph must be invalid")
	}
}

func TestCompiledGraphReadOnlyView(t *testing.T) {
	t.Parallel()
	cg := graph.Compile([]byte(pipelineJSON))
	if !cg.Valid() {
		t.Fatalf("compile failed: %v", cg.Err())
	}
	g := cg.Graph()
	if g.Len() != 4 {
		t.Errorf("Len = %d, want 4", g.Len())
	}
	if g.DefaultTarget() != "loud" {
		t.Errorf("DefaultTarget = %q, want %q", g.DefaultTarget(), "loud")
	}
	ids := g.IDs()
	if len(ids) != 4 || ids[0] != "greeting" {
		t.Errorf("IDs = %v, want insertion order starting at greeting", ids)
	}
}
