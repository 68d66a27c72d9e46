package graph

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

func init() {
	RegisterOperation("identity", identityOp)
	RegisterOperation("reverse", reverseOp)
	RegisterOperation("concat", concatOp)
	RegisterOperation("to_upper", toUpperOp)
	RegisterOperation("to_lower", toLowerOp)
	RegisterOperation("split", splitOp)
	RegisterOperation("trim", trimOp)
	RegisterOperation("replace", replaceOp)
	RegisterOperation("substring", substringOp)
	RegisterOperation("repeat", repeatOp)
	RegisterOperation("pad_left", padLeftOp)
	RegisterOperation("pad_right", padRightOp)
	RegisterOperation("capitalize", capitalizeOp)
	RegisterOperation("title", titleOp)
	RegisterOperation("join", joinOp)
	RegisterOperation("count", countOp)
	RegisterOperation("regex_extract", regexExtractOp)
	RegisterOperation("regex_replace", regexReplaceOp)
}

// wantArity enforces an exact input/constant count.
func wantArity(op string, inputs, constants []string, nin, ncon int) error {
	if len(inputs) != nin || len(constants) != ncon {
		return fmt.Errorf("%s requires exactly %d input(s) and %d constant(s), got %d and %d",
			op, nin, ncon, len(inputs), len(constants))
	}
	return nil
}

// wantCount parses a decimal ASCII constant that must be >= 0.
func wantCount(op, name, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: %s must be a non-negative decimal number, got %q", op, name, s)
	}
	return n, nil
}

func identityOp(inputs, constants []string) (Result, error) {
	if err := wantArity("identity", inputs, constants, 1, 0); err != nil {
		return Result{}, err
	}
	return SingleResult(inputs[0]), nil
}

func reverseOp(inputs, constants []string) (Result, error) {
	if err := wantArity("reverse", inputs, constants, 1, 0); err != nil {
		return Result{}, err
	}
	b := []byte(inputs[0])
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return SingleResult(string(b)), nil
}

func concatOp(inputs, constants []string) (Result, error) {
	var sb strings.Builder
	for _, s := range inputs {
		sb.WriteString(s)
	}
	for _, s := range constants {
		sb.WriteString(s)
	}
	return SingleResult(sb.String()), nil
}

func toUpperOp(inputs, constants []string) (Result, error) {
	if err := wantArity("to_upper", inputs, constants, 1, 0); err != nil {
		return Result{}, err
	}
	return SingleResult(asciiMap(inputs[0], upperByte)), nil
}

func toLowerOp(inputs, constants []string) (Result, error) {
	if err := wantArity("to_lower", inputs, constants, 1, 0); err != nil {
		return Result{}, err
	}
	return SingleResult(asciiMap(inputs[0], lowerByte)), nil
}

// splitOp is multi-output. An empty delimiter yields one output per byte
// (and an empty sequence for an empty input); otherwise the maximal
// substrings between delimiter occurrences, count(d in x)+1 of them.
func splitOp(inputs, constants []string) (Result, error) {
	if err := wantArity("split", inputs, constants, 1, 1); err != nil {
		return Result{}, err
	}
	x, d := inputs[0], constants[0]
	if d == "" {
		parts := make([]string, len(x))
		for i := 0; i < len(x); i++ {
			parts[i] = x[i : i+1]
		}
		return MultiResult(parts), nil
	}
	return MultiResult(strings.Split(x, d)), nil
}

func trimOp(inputs, constants []string) (Result, error) {
	if err := wantArity("trim", inputs, constants, 1, 0); err != nil {
		return Result{}, err
	}
	return SingleResult(strings.Trim(inputs[0], " \t\n\r\f\v")), nil
}

// replaceOp substitutes left to right without overlap; an empty old
// string is a no-op.
func replaceOp(inputs, constants []string) (Result, error) {
	if err := wantArity("replace", inputs, constants, 1, 2); err != nil {
		return Result{}, err
	}
	x, oldS, newS := inputs[0], constants[0], constants[1]
	if oldS == "" {
		return SingleResult(x), nil
	}
	return SingleResult(strings.ReplaceAll(x, oldS, newS)), nil
}

// substringOp takes start and length constants. A start at or past the
// end yields ""; an empty or "-1" length means "to end".
func substringOp(inputs, constants []string) (Result, error) {
	if err := wantArity("substring", inputs, constants, 1, 2); err != nil {
		return Result{}, err
	}
	x := inputs[0]
	start, err := wantCount("substring", "start", constants[0])
	if err != nil {
		return Result{}, err
	}
	if start >= len(x) {
		return SingleResult(""), nil
	}
	rest := x[start:]
	if constants[1] == "" || constants[1] == "-1" {
		return SingleResult(rest), nil
	}
	length, err := wantCount("substring", "len", constants[1])
	if err != nil {
		return Result{}, err
	}
	if length > len(rest) {
		length = len(rest)
	}
	return SingleResult(rest[:length]), nil
}

func repeatOp(inputs, constants []string) (Result, error) {
	if err := wantArity("repeat", inputs, constants, 1, 1); err != nil {
		return Result{}, err
	}
	n, err := wantCount("repeat", "n", constants[0])
	if err != nil {
		return Result{}, err
	}
	return SingleResult(strings.Repeat(inputs[0], n)), nil
}

func padLeftOp(inputs, constants []string) (Result, error) {
	return pad("pad_left", inputs, constants, true)
}

func padRightOp(inputs, constants []string) (Result, error) {
	return pad("pad_right", inputs, constants, false)
}

// pad widens x to w using the first byte of the fill constant (space when
// fill is absent or empty). Strings already at least w bytes long pass
// through unchanged.
func pad(op string, inputs, constants []string, left bool) (Result, error) {
	if len(inputs) != 1 || len(constants) < 1 || len(constants) > 2 {
		return Result{}, fmt.Errorf("%s requires exactly 1 input and 1 or 2 constants, got %d and %d",
			op, len(inputs), len(constants))
	}
	x := inputs[0]
	w, err := wantCount(op, "width", constants[0])
	if err != nil {
		return Result{}, err
	}
	fill := byte(' ')
	if len(constants) == 2 && constants[1] != "" {
		fill = constants[1][0]
	}
	if len(x) >= w {
		return SingleResult(x), nil
	}
	padding := strings.Repeat(string(fill), w-len(x))
	if left {
		return SingleResult(padding + x), nil
	}
	return SingleResult(x + padding), nil
}

func capitalizeOp(inputs, constants []string) (Result, error) {
	if err := wantArity("capitalize", inputs, constants, 1, 0); err != nil {
		return Result{}, err
	}
	return SingleResult(capitalizeRun(inputs[0])), nil
}

// titleOp uppercases the first letter of each whitespace-delimited run
// and lowercases the rest of the run's letters.
func titleOp(inputs, constants []string) (Result, error) {
	if err := wantArity("title", inputs, constants, 1, 0); err != nil {
		return Result{}, err
	}
	b := []byte(inputs[0])
	first := true
	for i := 0; i < len(b); i++ {
		if isSpaceByte(b[i]) {
			first = true
			continue
		}
		if !isLetterByte(b[i]) {
			continue
		}
		if first {
			b[i] = upperByte(b[i])
			first = false
		} else {
			b[i] = lowerByte(b[i])
		}
	}
	return SingleResult(string(b)), nil
}

func joinOp(inputs, constants []string) (Result, error) {
	if len(constants) > 1 {
		return Result{}, fmt.Errorf("join takes at most one separator constant, got %d", len(constants))
	}
	sep := ""
	if len(constants) == 1 {
		sep = constants[0]
	}
	return SingleResult(strings.Join(inputs, sep)), nil
}

func countOp(inputs, constants []string) (Result, error) {
	if err := wantArity("count", inputs, constants, 1, 1); err != nil {
		return Result{}, err
	}
	if constants[0] == "" {
		return Result{}, fmt.Errorf("count: substring must not be empty")
	}
	return SingleResult(strconv.Itoa(strings.Count(inputs[0], constants[0]))), nil
}

// regexExtractOp returns the first match of the given capture group
// (whole match by default), or "" when nothing matches.
func regexExtractOp(inputs, constants []string) (Result, error) {
	if len(inputs) != 1 || len(constants) < 1 || len(constants) > 2 {
		return Result{}, fmt.Errorf("regex_extract requires exactly 1 input and 1 or 2 constants, got %d and %d",
			len(inputs), len(constants))
	}
	re, err := regexp.Compile(constants[0])
	if err != nil {
		return Result{}, fmt.Errorf("regex_extract: invalid pattern: %v", err)
	}
	group := 0
	if len(constants) == 2 {
		group, err = wantCount("regex_extract", "group", constants[1])
		if err != nil {
			return Result{}, err
		}
	}
	matches := re.FindStringSubmatch(inputs[0])
	if matches == nil {
		return SingleResult(""), nil
	}
	if group >= len(matches) {
		return Result{}, fmt.Errorf("regex_extract: group %d out of range (pattern has %d groups)", group, len(matches)-1)
	}
	return SingleResult(matches[group]), nil
}

func regexReplaceOp(inputs, constants []string) (Result, error) {
	if err := wantArity("regex_replace", inputs, constants, 1, 2); err != nil {
		return Result{}, err
	}
	re, err := regexp.Compile(constants[0])
	if err != nil {
		return Result{}, fmt.Errorf("regex_replace: invalid pattern: %v", err)
	}
	return SingleResult(re.ReplaceAllString(inputs[0], constants[1])), nil
}

// ─── ASCII byte helpers ──────────────────────────────────────────────────────

func isSpaceByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

func isLetterByte(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func upperByte(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func lowerByte(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func asciiMap(s string, f func(byte) byte) string {
	b := []byte(s)
	for i := range b {
		b[i] = f(b[i])
	}
	return string(b)
}

// capitalizeRun uppercases the first letter of s and lowercases every
// later letter, leaving non-letters untouched.
func capitalizeRun(s string) string {
	b := []byte(s)
	first := true
	for i := range b {
		if !isLetterByte(b[i]) {
			continue
		}
		if first {
			b[i] = upperByte(b[i])
			first = false
		} else {
			b[i] = lowerByte(b[i])
		}
	}
	return string(b)
}
