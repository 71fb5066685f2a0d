// Package query composes list predicates: one scoping condition supplied by the
// service plus optional caller filters, ANDed together. Only whitelisted fields
// may be filtered or sorted on, and the same predicate renders to SQL or is
// evaluated in memory.
package query

import (
	"fmt"
	"strings"

	dErrors "catalog/pkg/domain-errors"
)

type Op string

const (
	OpEq       Op = "eq"
	OpContains Op = "contains"
)

// Condition is a single field comparison.
type Condition struct {
	Field string
	Op    Op
	Value string
}

// Column describes how a field renders to SQL.
type Column struct {
	// Expr is the SQL expression compared against the bound argument.
	Expr string
	// Render overrides the default "Expr op $n" rendering, e.g. for EXISTS subqueries.
	Render func(placeholder string) string
	Ops    []Op
	// Sortable fields may appear in ORDER BY.
	Sortable bool
}

func (c Column) supports(op Op) bool {
	for _, o := range c.Ops {
		if o == op {
			return true
		}
	}
	return false
}

// Schema is the whitelist of fields for one entity.
type Schema struct {
	name        string
	columns     map[string]Column
	defaultSort string
	tieBreaker  string
}

// NewSchema builds a schema. defaultSort must name a sortable column; tieBreaker
// is an SQL expression appended to every ORDER BY for stable paging.
func NewSchema(name string, columns map[string]Column, defaultSort, tieBreaker string) *Schema {
	return &Schema{name: name, columns: columns, defaultSort: defaultSort, tieBreaker: tieBreaker}
}

func (s *Schema) DefaultSort() string { return s.defaultSort }

func (s *Schema) column(field string) (Column, bool) {
	c, ok := s.columns[field]
	return c, ok
}

// Predicate is a conjunction of an optional scope and caller filters.
type Predicate struct {
	schema  *Schema
	scope   *Condition
	filters []Condition
}

// Conditions returns the scope (if any) followed by the filters.
func (p Predicate) Conditions() []Condition {
	out := make([]Condition, 0, len(p.filters)+1)
	if p.scope != nil {
		out = append(out, *p.scope)
	}
	return append(out, p.filters...)
}

// Builder accumulates conditions. Errors are deferred to Build so calls chain.
type Builder struct {
	schema  *Schema
	scope   *Condition
	filters []Condition
	err     error
}

// Scoped starts a predicate that always includes field = value.
func Scoped(schema *Schema, field, value string) *Builder {
	b := &Builder{schema: schema}
	cond := Condition{Field: field, Op: OpEq, Value: value}
	if err := b.check(cond); err != nil {
		b.err = err
	}
	b.scope = &cond
	return b
}

// Unscoped starts a predicate for top-level entities that have no parent.
func Unscoped(schema *Schema) *Builder {
	return &Builder{schema: schema}
}

// Eq adds field = value; an empty value adds nothing.
func (b *Builder) Eq(field, value string) *Builder {
	return b.add(Condition{Field: field, Op: OpEq, Value: value})
}

// Contains adds a case-insensitive substring match; an empty value adds nothing.
func (b *Builder) Contains(field, value string) *Builder {
	return b.add(Condition{Field: field, Op: OpContains, Value: value})
}

func (b *Builder) add(c Condition) *Builder {
	if b.err != nil || c.Value == "" {
		return b
	}
	if err := b.check(c); err != nil {
		b.err = err
		return b
	}
	b.filters = append(b.filters, c)
	return b
}

func (b *Builder) check(c Condition) error {
	col, ok := b.schema.column(c.Field)
	if !ok {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown %s filter: %s", b.schema.name, c.Field))
	}
	if !col.supports(c.Op) {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("filter %s does not support %s", c.Field, c.Op))
	}
	return nil
}

func (b *Builder) Build() (Predicate, error) {
	if b.err != nil {
		return Predicate{}, b.err
	}
	return Predicate{schema: b.schema, scope: b.scope, filters: b.filters}, nil
}

// Where renders the predicate as a WHERE clause with numbered placeholders
// starting at $firstArg. An empty predicate renders to "".
func (p Predicate) Where(firstArg int) (string, []any) {
	conds := p.Conditions()
	if len(conds) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(conds))
	args := make([]any, 0, len(conds))
	for i, c := range conds {
		col, _ := p.schema.column(c.Field)
		placeholder := fmt.Sprintf("$%d", firstArg+i)
		value := c.Value
		var part string
		switch {
		case col.Render != nil:
			part = col.Render(placeholder)
		case c.Op == OpContains:
			part = fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, col.Expr, placeholder)
		default:
			part = fmt.Sprintf("%s = %s", col.Expr, placeholder)
		}
		if c.Op == OpContains {
			value = "%" + escapeLike(value) + "%"
		}
		parts = append(parts, part)
		args = append(args, value)
	}
	return "WHERE " + strings.Join(parts, " AND "), args
}

// Matches evaluates the predicate in memory. get returns a record's value for a
// field, formatted the way filter values are.
func (p Predicate) Matches(get func(field string) string) bool {
	for _, c := range p.Conditions() {
		v := get(c.Field)
		switch c.Op {
		case OpContains:
			if !strings.Contains(strings.ToLower(v), strings.ToLower(c.Value)) {
				return false
			}
		default:
			if v != c.Value {
				return false
			}
		}
	}
	return true
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
