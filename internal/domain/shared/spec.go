package shared

import "strings"

// Field names a filterable attribute of an entity.
// Persistence resolves fields through a per-entity whitelist, never by interpolation.
type Field string

// Operator is the comparison applied by a Criterion
type Operator int

const (
	// OpEq matches an exact value
	OpEq Operator = iota + 1
	// OpContains matches a case-insensitive substring
	OpContains
	// OpGte matches values greater than or equal to the bound
	OpGte
	// OpLte matches values less than or equal to the bound
	OpLte
	// OpHas matches rows that have (Value true) or lack (Value false) related rows
	OpHas
	// OpOr matches when any child criterion matches
	OpOr
	// OpAll matches when every child criterion matches
	OpAll
)

// Criterion is one structured predicate clause
type Criterion struct {
	Field    Field
	Op       Operator
	Value    any
	Children []Criterion
}

// Eq builds an equality criterion
func Eq(field Field, value any) Criterion {
	return Criterion{Field: field, Op: OpEq, Value: value}
}

// Contains builds a case-insensitive substring criterion
func Contains(field Field, text string) Criterion {
	return Criterion{Field: field, Op: OpContains, Value: text}
}

// Gte builds an inclusive lower bound criterion
func Gte(field Field, value any) Criterion {
	return Criterion{Field: field, Op: OpGte, Value: value}
}

// Lte builds an inclusive upper bound criterion
func Lte(field Field, value any) Criterion {
	return Criterion{Field: field, Op: OpLte, Value: value}
}

// Has builds a related-rows existence criterion
func Has(field Field, want bool) Criterion {
	return Criterion{Field: field, Op: OpHas, Value: want}
}

// Or builds a disjunction of criteria
func Or(children ...Criterion) Criterion {
	return Criterion{Op: OpOr, Children: children}
}

// All builds a conjunction of criteria
func All(children ...Criterion) Criterion {
	return Criterion{Op: OpAll, Children: children}
}

// Spec is an immutable conjunction of criteria. The zero value matches everything.
type Spec struct {
	criteria []Criterion
}

// And returns a new spec with the given criteria appended
func (s Spec) And(criteria ...Criterion) Spec {
	next := make([]Criterion, 0, len(s.criteria)+len(criteria))
	next = append(next, s.criteria...)
	next = append(next, criteria...)
	return Spec{criteria: next}
}

// Criteria returns the criteria of the spec
func (s Spec) Criteria() []Criterion {
	return s.criteria
}

// IsEmpty reports whether the spec has no criteria
func (s Spec) IsEmpty() bool {
	return len(s.criteria) == 0
}

// TextFilter returns the trimmed text and true when p holds a non-blank string
func TextFilter(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	text := strings.TrimSpace(*p)
	return text, text != ""
}

// NameWords builds a criterion requiring every word of text to appear in one of the name fields.
// "jane austen" matches first=Jane last=Austen as well as first=Austen last=Jane.
func NameWords(text string, fields ...Field) Criterion {
	words := strings.Fields(text)
	perWord := make([]Criterion, 0, len(words))
	for _, word := range words {
		alternatives := make([]Criterion, 0, len(fields))
		for _, f := range fields {
			alternatives = append(alternatives, Contains(f, word))
		}
		perWord = append(perWord, Or(alternatives...))
	}
	if len(perWord) == 1 {
		return perWord[0]
	}
	return All(perWord...)
}
