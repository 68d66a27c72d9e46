package graph

import (
	"fmt"
	"strconv"
)

// ref is a parsed input or target reference. "id" addresses the sole
// output of a node; "id:k" addresses the k-th output of a multi-output
// node.
type ref struct {
	id       string
	index    int
	hasIndex bool
}

func (r ref) String() string {
	if r.hasIndex {
		return r.id + ":" + strconv.Itoa(r.index)
	}
	return r.id
}

// parseRef splits a reference into its node id and optional output index.
func parseRef(s string) (ref, error) {
	if s == "" {
		return ref{}, &AddressError{Ref: s, Message: "empty reference"}
	}
	colon := -1
	for i := 0; i < len(s); i++ {
		if s[i] != ':' {
			continue
		}
		if colon >= 0 {
			return ref{}, &AddressError{Ref: s, Message: "more than one ':' in reference"}
		}
		colon = i
	}
	if colon < 0 {
		return ref{id: s}, nil
	}
	id, idx := s[:colon], s[colon+1:]
	if id == "" {
		return ref{}, &AddressError{Ref: s, Message: "empty node id"}
	}
	if idx == "" {
		return ref{}, &AddressError{Ref: s, Message: "empty output index"}
	}
	for i := 0; i < len(idx); i++ {
		if idx[i] < '0' || idx[i] > '9' {
			return ref{}, &AddressError{Ref: s, Message: "output index must be decimal digits"}
		}
	}
	k, err := strconv.Atoi(idx)
	if err != nil {
		return ref{}, &AddressError{Ref: s, Message: "output index out of range"}
	}
	return ref{id: id, index: k, hasIndex: true}, nil
}

// valueAt resolves a parsed reference against a node's cached result,
// enforcing the addressing protocol: single-output results must be
// addressed without an index, multi-output results with an in-range one.
func valueAt(n *Node, r ref) (string, error) {
	if n.Result == nil {
		return "", fmt.Errorf("node %q has no computed result", n.ID)
	}
	if !n.Result.IsMulti() {
		if r.hasIndex {
			return "", &AddressError{Ref: r.String(), Message: "index used on single-output node"}
		}
		return n.Result.Single(), nil
	}
	if !r.hasIndex {
		return "", &AddressError{Ref: r.String(), Message: "multi-output node requires an output index"}
	}
	if r.index >= n.Result.Len() {
		return "", &AddressError{
			Ref:     r.String(),
			Message: "output index out of range (node has " + strconv.Itoa(n.Result.Len()) + " outputs)",
		}
	}
	return n.Result.At(r.index), nil
}
