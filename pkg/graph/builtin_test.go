package graph_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/ravi-parthasarathy/strgraph/pkg/graph"
)

// runOp evaluates a single operation node over constant inputs.
func runOp(t *testing.T, op string, inputs, constants []string, target string) (string, error) {
	t.Helper()
	g := graph.New()
	refs := make([]string, len(inputs))
	for i, v := range inputs {
		id := "in" + strconv.Itoa(i)
		must(t, g.AddConstant(id, v))
		refs[i] = id
	}
	must(t, g.AddOperation("out", op, refs, constants))
	if target == "" {
		target = "out"
	}
	return graph.NewExecutor(g).EvaluateRecursive(target, nil)
}

func TestBuiltinSingleOutput(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		op        string
		inputs    []string
		constants []string
		want      string
	}{
		{"identity", "identity", []string{"abc"}, nil, "abc"},
		{"reverse", "reverse", []string{"hello"}, nil, "olleh"},
		{"reverse empty", "reverse", []string{""}, nil, ""},
		{"concat no args", "concat", nil, nil, ""},
		{"concat constants only", "concat", nil, []string{"a", "b"}, "ab"},
		{"concat mixed", "concat", []string{"x", "y"}, []string{"!"}, "xy!"},
		{"to_upper", "to_upper", []string{"MiXeD 123 ok"}, nil, "MIXED 123 OK"},
		{"to_lower", "to_lower", []string{"MiXeD 123 OK"}, nil, "mixed 123 ok"},
		{"trim", "trim", []string{" \t\n\r\f\vabc \t"}, nil, "abc"},
		{"trim all whitespace", "trim", []string{"  \t  "}, nil, ""},
		{"replace", "replace", []string{"aaa"}, []string{"aa", "b"}, "ba"},
		{"replace empty old", "replace", []string{"abc"}, []string{"", "x"}, "abc"},
		{"substring", "substring", []string{"hello world"}, []string{"6", "5"}, "world"},
		{"substring to end", "substring", []string{"hello"}, []string{"1", "-1"}, "ello"},
		{"substring empty len", "substring", []string{"hello"}, []string{"1", ""}, "ello"},
		{"substring start past end", "substring", []string{"hi"}, []string{"5", "1"}, ""},
		{"substring len clamped", "substring", []string{"hi"}, []string{"1", "99"}, "i"},
		{"repeat", "repeat", []string{"ab"}, []string{"3"}, "ababab"},
		{"repeat zero", "repeat", []string{"ab"}, []string{"0"}, ""},
		{"pad_left", "pad_left", []string{"7"}, []string{"3", "0"}, "007"},
		{"pad_left default fill", "pad_left", []string{"x"}, []string{"3"}, "  x"},
		{"pad_left already wide", "pad_left", []string{"wide"}, []string{"2", "."}, "wide"},
		{"pad_right", "pad_right", []string{"ab"}, []string{"4", "-"}, "ab--"},
		{"capitalize", "capitalize", []string{"hELLO wORLD"}, nil, "Hello world"},
		{"capitalize leading digits", "capitalize", []string{"123abC"}, nil, "123Abc"},
		{"title", "title", []string{"hello  wORLD\tfoo"}, nil, "Hello  World\tFoo"},
		{"title non-letter word start", "title", []string{"1ab 2CD"}, nil, "1Ab 2Cd"},
		{"join", "join", []string{"a", "b", "c"}, []string{", "}, "a, b, c"},
		{"join no sep", "join", []string{"a", "b"}, nil, "ab"},
		{"count", "count", []string{"banana"}, []string{"an"}, "2"},
		{"count none", "count", []string{"abc"}, []string{"z"}, "0"},
		{"regex_extract whole", "regex_extract", []string{"order #4521 shipped"}, []string{`#\d+`}, "#4521"},
		{"regex_extract group", "regex_extract", []string{"key=value"}, []string{`(\w+)=(\w+)`, "2"}, "value"},
		{"regex_extract no match", "regex_extract", []string{"abc"}, []string{`\d+`}, ""},
		{"regex_replace", "regex_replace", []string{"a1b22c"}, []string{`\d+`, "#"}, "a#b#c"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := runOp(t, tc.op, tc.inputs, tc.constants, "")
			must(t, err)
			if got != tc.want {
				t.Errorf("%s = %q, want %q", tc.op, got, tc.want)
			}
		})
	}
}

func TestSplitSemantics(t *testing.T) {
	t.Parallel()

	// Delimited split yields count(d in x)+1 outputs.
	got, err := runOp(t, "split", []string{"a,b,,c"}, []string{","}, "out:2")
	must(t, err)
	if got != "" {
		t.Errorf("out:2 = %q, want empty segment", got)
	}
	got, err = runOp(t, "split", []string{"a,b,,c"}, []string{","}, "out:3")
	must(t, err)
	if got != "c" {
		t.Errorf("out:3 = %q, want %q", got, "c")
	}

	// Splitting an empty string yields one empty output.
	got, err = runOp(t, "split", []string{""}, []string{","}, "out:0")
	must(t, err)
	if got != "" {
		t.Errorf("out:0 = %q, want %q", got, "")
	}

	// Empty delimiter: one output per byte.
	got, err = runOp(t, "split", []string{"abc"}, []string{""}, "out:1")
	must(t, err)
	if got != "b" {
		t.Errorf("out:1 = %q, want %q", got, "b")
	}

	// Empty delimiter over empty input: an empty sequence, so every
	// index is out of range.
	_, err = runOp(t, "split", []string{""}, []string{""}, "out:0")
	var addrErr *graph.AddressError
	if !errors.As(err, &addrErr) {
		t.Errorf("error = %v, want AddressError", err)
	}
}

func TestBuiltinArityErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name      string
		op        string
		inputs    []string
		constants []string
	}{
		{"identity two inputs", "identity", []string{"a", "b"}, nil},
		{"identity stray constant", "identity", []string{"a"}, []string{"c"}},
		{"reverse no input", "reverse", nil, nil},
		{"to_upper stray constant", "to_upper", []string{"a"}, []string{"c"}},
		{"split missing delimiter", "split", []string{"a"}, nil},
		{"replace one constant", "replace", []string{"a"}, []string{"x"}},
		{"substring one constant", "substring", []string{"a"}, []string{"0"}},
		{"repeat malformed n", "repeat", []string{"a"}, []string{"3x"}},
		{"pad_left no width", "pad_left", []string{"a"}, nil},
		{"pad_left malformed width", "pad_left", []string{"a"}, []string{"w"}},
		{"join two constants", "join", []string{"a"}, []string{",", ";"}},
		{"regex_extract group out of range", "regex_extract", []string{"ab"}, []string{"a", "3"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := runOp(t, tc.op, tc.inputs, tc.constants, "")
			var opErr *graph.OperationError
			if !errors.As(err, &opErr) {
				t.Errorf("error = %v, want OperationError", err)
			}
		})
	}
}
