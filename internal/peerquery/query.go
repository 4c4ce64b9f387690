// Package peerquery implements the peer filter/sort command language: a
// tokenizer and parser for the command grammar, an evaluator over generic
// peer value trees and context-aware completion. Everything here is a pure
// function over explicit Query values; the package holds no state.
package peerquery

// Op is a comparison operator of a filter condition.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpGt
	OpGe
	OpLt
	OpLe
	// OpContains is substring containment, strings only.
	OpContains
)

func (o Op) String() string {
	switch o {
	case OpEq:
		return "=="
	case OpNe:
		return "!="
	case OpGt:
		return ">"
	case OpGe:
		return ">="
	case OpLt:
		return "<"
	case OpLe:
		return "<="
	case OpContains:
		return "~="
	default:
		return "?"
	}
}

// LiteralKind tags the parsed type of a right-hand-side value.
type LiteralKind int

const (
	LitString LiteralKind = iota
	LitNumber
	LitBool
	LitNull
)

// Literal is a parsed right-hand-side value.
type Literal struct {
	Kind LiteralKind
	Str  string
	Num  float64
	Bool bool
}

// Condition is one field comparison. Field is a dot-separated path into the
// peer value tree.
type Condition struct {
	Field string
	Op    Op
	Value Literal
}

// Sort orders results by one field.
type Sort struct {
	Field      string
	Descending bool
}

// Query is the active filter and sort. Conditions are AND-ed. The zero value
// matches every record in natural order.
type Query struct {
	Conditions []Condition
	Sort       *Sort
}

// Empty reports whether the query has neither conditions nor a sort.
func (q Query) Empty() bool {
	return len(q.Conditions) == 0 && q.Sort == nil
}
