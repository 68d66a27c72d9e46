package graph

// Result is the cached value of a computed node: either a single string
// or an ordered sequence of strings produced by a multi-output operation.
// Which variant a node holds is determined by the operation that ran, not
// by any static declaration.
type Result struct {
	values []string
	multi  bool
}

// SingleResult wraps one string as a single-output result.
func SingleResult(v string) Result {
	return Result{values: []string{v}}
}

// MultiResult wraps a sequence of strings as a multi-output result.
// The slice is copied; the sequence may be empty (e.g. splitting an empty
// string on an empty delimiter).
func MultiResult(vs []string) Result {
	cp := make([]string, len(vs))
	copy(cp, vs)
	return Result{values: cp, multi: true}
}

// IsMulti reports whether the result is a sequence.
func (r Result) IsMulti() bool { return r.multi }

// Single returns the value of a single-output result.
// Only valid when IsMulti is false.
func (r Result) Single() string { return r.values[0] }

// Len returns the number of outputs in a multi-output result.
func (r Result) Len() int { return len(r.values) }

// At returns the k-th output of a multi-output result.
func (r Result) At(k int) string { return r.values[k] }

// Values returns a copy of all outputs.
func (r Result) Values() []string {
	cp := make([]string, len(r.values))
	copy(cp, r.values)
	return cp
}
