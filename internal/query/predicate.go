// Package query composes the parameterized SQL behind every dashboard report.
// Values never reach the SQL text; they travel as positional arguments.
package query

import "strings"

// Op is a comparison operator a predicate may use.
type Op string

const (
	Eq  Op = "="
	Gte Op = ">="
	Lte Op = "<="
)

// Predicate is a single "column op ?" condition.
type Predicate struct {
	Column string
	Op     Op
	Value  any
}

// Predicates is an ordered conjunction.
type Predicates []Predicate

// Compile renders the conjunction and its arguments in order. An empty list
// renders as an empty string.
func (p Predicates) Compile() (string, []any) {
	if len(p) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(p))
	args := make([]any, 0, len(p))
	for _, pred := range p {
		parts = append(parts, pred.Column+" "+string(pred.Op)+" ?")
		args = append(args, pred.Value)
	}
	return strings.Join(parts, " AND "), args
}

// Where renders a WHERE clause, or nothing when the list is empty.
func (p Predicates) Where() (string, []any) {
	clause, args := p.Compile()
	if clause == "" {
		return "", nil
	}
	return " WHERE " + clause, args
}
