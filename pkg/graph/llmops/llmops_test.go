package llmops_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ravi-parthasarathy/strgraph/pkg/graph"
	"github.com/ravi-parthasarathy/strgraph/pkg/graph/llmops"
)

type fakeClient struct {
	model string
}

func (f *fakeClient) Complete(_ context.Context, system, prompt string) (string, error) {
	if strings.Contains(prompt, "fail") {
		return "", errors.New("synthetic provider failure")
	}
	return "[" + f.model + "|" + system + "] " + prompt, nil
}

func init() {
	llmops.RegisterProvider("fake", func(modelName string) (llmops.Client, error) {
		return &fakeClient{model: modelName}, nil
	})
}

func TestGenerateThroughGraph(t *testing.T) {
	t.Parallel()
	g := graph.New()
	if err := g.AddConstant("q", "summarize: "); err != nil {
		t.Fatal(err)
	}
	if err := g.AddPlaceholder("doc"); err != nil {
		t.Fatal(err)
	}
	if err := g.AddOperation("answer", "llm_generate", []string{"q", "doc"}, []string{"fake:m1", "be brief"}); err != nil {
		t.Fatal(err)
	}

	got, err := graph.NewExecutor(g).EvaluateRecursive("answer", map[string]string{"doc": "hello"})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	want := "[m1|be brief] summarize: hello"
	if got != want {
		t.Errorf("answer = %q, want %q", got, want)
	}
}

func TestGenerateErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		inputs    []string
		constants []string
	}{
		{"no constants", []string{"x"}, nil},
		{"too many constants", []string{"x"}, []string{"fake:m", "sys", "extra"}},
		{"bad model id", []string{"x"}, []string{"fake"}},
		{"unknown provider", []string{"x"}, []string{"nope:m"}},
		{"provider failure", []string{"fail"}, []string{"fake:m"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			g := graph.New()
			refs := make([]string, len(tc.inputs))
			for i, v := range tc.inputs {
				id := "in" + string(rune('a'+i))
				if err := g.AddConstant(id, v); err != nil {
					t.Fatal(err)
				}
				refs[i] = id
			}
			if err := g.AddOperation("out", "llm_generate", refs, tc.constants); err != nil {
				t.Fatal(err)
			}

			_, err := graph.NewExecutor(g).EvaluateRecursive("out", nil)
			var opErr *graph.OperationError
			if !errors.As(err, &opErr) {
				t.Errorf("error = %v, want OperationError", err)
			}
		})
	}
}
