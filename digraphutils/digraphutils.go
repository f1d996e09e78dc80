// Package digraphutils provides small helpers for directed graphs
// represented as a node set plus an edge function.
package digraphutils

import (
	"bytes"
	"fmt"
	"slices"

	"github.com/modelbind/jsbridge/textutils"
)

// Reachable returns the set of nodes reachable from roots, including
// the roots themselves. The walk is a worklist, so cyclic graphs are
// fine.
func Reachable[K comparable](roots []K, edges func(K) []K) map[K]struct{} {
	seen := map[K]struct{}{}
	next := slices.Clone(roots)
	var newNext []K
	for len(next) > 0 {
		for _, n := range next {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			newNext = append(newNext, edges(n)...)
		}
		next, newNext = newNext, next[:0]
	}
	return seen
}

// DOTCode renders the graph spanned by nodes as graphviz DOT code.
// Edges leading outside the node set are dropped. prelude is inserted
// verbatim (indented) after the digraph header; nodeAttrs may be nil.
func DOTCode[K comparable](nodes []K, edges func(K) []K, name, prelude string, nodeAttrs func(K) string) []byte {
	ids := make(map[K]int, len(nodes))
	for i, n := range nodes {
		ids[n] = i
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "digraph %v {\n", name)
	if prelude != "" {
		b.WriteString(textutils.IndentString(prelude, "  ", 1))
		if !bytes.HasSuffix(b.Bytes(), []byte("\n")) {
			b.WriteByte('\n')
		}
	}
	for i, n := range nodes {
		fmt.Fprintf(&b, "  %v", i)
		if nodeAttrs != nil {
			if attrs := nodeAttrs(n); attrs != "" {
				b.WriteByte(' ')
				b.WriteString(attrs)
			}
		}
		b.WriteByte('\n')
	}
	for i, n := range nodes {
		var targets []int
		for _, e := range edges(n) {
			if id, ok := ids[e]; ok {
				targets = append(targets, id)
			}
		}
		if len(targets) == 0 {
			continue
		}
		slices.Sort(targets)
		targets = slices.Compact(targets)
		fmt.Fprintf(&b, "  %v -> {", i)
		for j, id := range targets {
			if j != 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%v", id)
		}
		b.WriteString("}\n")
	}
	b.WriteString("}\n")
	return b.Bytes()
}
