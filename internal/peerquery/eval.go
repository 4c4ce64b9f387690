package peerquery

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/willcl-ark/bitcoin-tui/internal/model"
)

// Apply filters and sorts peers by q, returning indices into peers. The zero
// query returns every index in natural order.
func Apply(peers []model.Peer, q Query) []int {
	idx := make([]int, 0, len(peers))
	for i := range peers {
		if matchesAll(peers[i].Tree(), q.Conditions) {
			idx = append(idx, i)
		}
	}

	if q.Sort != nil {
		field, desc := q.Sort.Field, q.Sort.Descending
		less := func(i, j int) bool {
			return compareRecords(peers[idx[i]].Tree(), peers[idx[j]].Tree(), field) < 0
		}
		if desc {
			// The whole comparator is reversed, absence rule included,
			// so records missing the field come first when descending.
			less = func(i, j int) bool {
				return compareRecords(peers[idx[j]].Tree(), peers[idx[i]].Tree(), field) < 0
			}
		}
		sort.SliceStable(idx, less)
	}
	return idx
}

// lookup resolves a dot-separated path in a value tree. Arrays are opaque:
// any path step landing on a non-object fails.
func lookup(tree map[string]any, path string) (any, bool) {
	var cur any = tree
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = obj[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func matchesAll(tree map[string]any, conds []Condition) bool {
	for _, c := range conds {
		if !matches(tree, c) {
			return false
		}
	}
	return true
}

// matches evaluates one condition. An unresolvable path matches only the
// "== null" form. An incomparable field/literal pair has no ordering: it is
// "not equal", so != matches it and every other operator does not.
func matches(tree map[string]any, c Condition) bool {
	v, ok := lookup(tree, c.Field)
	if !ok {
		return c.Op == OpEq && c.Value.Kind == LitNull
	}

	if c.Op == OpContains {
		s, ok := v.(string)
		return c.Value.Kind == LitString && ok && strings.Contains(s, c.Value.Str)
	}

	cmp, comparable := compareLiteral(v, c.Value)
	if !comparable {
		return c.Op == OpNe
	}
	return ordered(c.Op, cmp)
}

// compareLiteral orders a field value against a literal, reporting false
// when the pair is incomparable: null against any non-null value, or
// mismatched types that do not coerce.
func compareLiteral(v any, lit Literal) (int, bool) {
	switch lit.Kind {
	case LitNull:
		if v == nil {
			return 0, true
		}
		return 0, false
	case LitBool:
		b, ok := v.(bool)
		if !ok {
			return 0, false
		}
		return compareBools(b, lit.Bool), true
	case LitNumber:
		n, ok := numericValue(v)
		if !ok {
			return 0, false
		}
		return compareFloats(n, lit.Num), true
	case LitString:
		switch fv := v.(type) {
		case string:
			return strings.Compare(fv, lit.Str), true
		case float64:
			// A string literal against a numeric field compares
			// numerically when the literal parses.
			n, err := strconv.ParseFloat(lit.Str, 64)
			if err != nil {
				return 0, false
			}
			return compareFloats(fv, n), true
		}
		return 0, false
	}
	return 0, false
}

// numericValue extracts a number from a numeric field or a numeric-looking
// string field.
func numericValue(v any) (float64, bool) {
	switch fv := v.(type) {
	case float64:
		return fv, true
	case string:
		n, err := strconv.ParseFloat(fv, 64)
		return n, err == nil
	}
	return 0, false
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	default:
		return 1
	}
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func ordered(op Op, cmp int) bool {
	switch op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpGt:
		return cmp > 0
	case OpGe:
		return cmp >= 0
	case OpLt:
		return cmp < 0
	case OpLe:
		return cmp <= 0
	}
	return false
}

// compareRecords orders two records by one field ascending. A record whose
// field is absent sorts after one whose field is present.
func compareRecords(a, b map[string]any, field string) int {
	av, aok := lookup(a, field)
	bv, bok := lookup(b, field)
	switch {
	case !aok && !bok:
		return 0
	case !aok:
		return 1
	case !bok:
		return -1
	}
	return compareValues(av, bv)
}

// compareValues orders two leaf values: numerically when both are numbers,
// lexically when both are strings, false before true for bools, and by JSON
// rendering for everything else.
func compareValues(a, b any) int {
	if an, ok := a.(float64); ok {
		if bn, ok := b.(float64); ok {
			return compareFloats(an, bn)
		}
	}
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return strings.Compare(as, bs)
		}
	}
	if ab, ok := a.(bool); ok {
		if bb, ok := b.(bool); ok {
			return compareBools(ab, bb)
		}
	}
	return strings.Compare(jsonString(a), jsonString(b))
}

func jsonString(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
