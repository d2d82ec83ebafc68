package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/bookstore/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// relation correlates a related table with the table being listed.
// Conditions on a relation are rendered as EXISTS subqueries, so the
// listed rows are never multiplied by a join.
type relation struct {
	table string
	on    clause.Eq
}

// column resolves a filter field to a physical column, possibly on a related table
type column struct {
	col clause.Column
	rel *relation
}

// fieldSet is the whitelist of filterable fields of one listed table
type fieldSet struct {
	table   string
	columns map[shared.Field]column
	has     map[shared.Field]relation
}

func ownColumn(table, name string) column {
	return column{col: clause.Column{Table: table, Name: name}}
}

func relatedColumn(rel *relation, name string) column {
	return column{col: clause.Column{Table: rel.table, Name: name}, rel: rel}
}

// link builds a relation whose rows satisfy related.relatedKey = outer.outerKey
func link(related, relatedKey, outer, outerKey string) *relation {
	return &relation{
		table: related,
		on: clause.Eq{
			Column: clause.Column{Table: related, Name: relatedKey},
			Value:  clause.Column{Table: outer, Name: outerKey},
		},
	}
}

// where translates a spec into WHERE expressions
func (fs fieldSet) where(db *gorm.DB, spec shared.Spec) ([]clause.Expression, error) {
	exprs := make([]clause.Expression, 0, len(spec.Criteria()))
	for _, c := range spec.Criteria() {
		expr, err := fs.expression(db, c)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

func (fs fieldSet) expression(db *gorm.DB, c shared.Criterion) (clause.Expression, error) {
	switch c.Op {
	case shared.OpOr, shared.OpAll:
		children := make([]clause.Expression, 0, len(c.Children))
		for _, child := range c.Children {
			expr, err := fs.expression(db, child)
			if err != nil {
				return nil, err
			}
			children = append(children, expr)
		}
		switch len(children) {
		case 0:
			return nil, fmt.Errorf("empty composite filter on %s", fs.table)
		case 1:
			// a lone OR condition would be joined to its siblings with OR
			return children[0], nil
		}
		if c.Op == shared.OpOr {
			return clause.Or(children...), nil
		}
		return clause.And(children...), nil

	case shared.OpHas:
		rel, ok := fs.has[c.Field]
		if !ok {
			return nil, fmt.Errorf("unsupported filter field %q on %s", c.Field, fs.table)
		}
		want, _ := c.Value.(bool)
		return exists(db, &rel, nil, want), nil
	}

	col, ok := fs.columns[c.Field]
	if !ok {
		return nil, fmt.Errorf("unsupported filter field %q on %s", c.Field, fs.table)
	}
	cond, err := comparison(col.col, c)
	if err != nil {
		return nil, err
	}
	if col.rel == nil {
		return cond, nil
	}
	return exists(db, col.rel, cond, true), nil
}

func comparison(col clause.Column, c shared.Criterion) (clause.Expression, error) {
	switch c.Op {
	case shared.OpEq:
		return clause.Eq{Column: col, Value: c.Value}, nil
	case shared.OpGte:
		return clause.Gte{Column: col, Value: c.Value}, nil
	case shared.OpLte:
		return clause.Lte{Column: col, Value: c.Value}, nil
	case shared.OpContains:
		text, _ := c.Value.(string)
		return clause.Expr{
			SQL:  "LOWER(?) LIKE ? ESCAPE '!'",
			Vars: []any{col, "%" + escapeLike(strings.ToLower(text)) + "%"},
		}, nil
	default:
		return nil, fmt.Errorf("unsupported filter operator %d on %s", c.Op, col.Name)
	}
}

// exists renders [NOT] EXISTS (SELECT 1 FROM rel WHERE rel.on AND cond)
func exists(db *gorm.DB, rel *relation, cond clause.Expression, want bool) clause.Expression {
	sub := db.Session(&gorm.Session{NewDB: true}).
		Table(rel.table).
		Select("1").
		Where(rel.on)
	if cond != nil {
		sub = sub.Where(cond)
	}
	sql := "EXISTS (?)"
	if !want {
		sql = "NOT EXISTS (?)"
	}
	return clause.Expr{SQL: sql, Vars: []any{sub}}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes LIKE wildcards in user text match literally
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// listQuery describes one filtered, paginated fetch
type listQuery struct {
	fields  fieldSet
	spec    shared.Spec
	page    shared.PageRequest
	orderBy []clause.OrderByColumn
	preload func(*gorm.DB) *gorm.DB
}

func orderBy(table string, columns ...string) []clause.OrderByColumn {
	order := make([]clause.OrderByColumn, 0, len(columns))
	for _, name := range columns {
		order = append(order, clause.OrderByColumn{Column: clause.Column{Table: table, Name: name}})
	}
	return order
}

// findPage counts the filtered set and fetches the requested page of it.
// Both statements run in one transaction so the count matches the page.
func findPage[M any](ctx context.Context, db *gorm.DB, q listQuery) ([]M, int64, error) {
	if err := q.page.Validate(); err != nil {
		return nil, 0, err
	}

	var (
		rows  []M
		total int64
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exprs, err := q.fields.where(tx, q.spec)
		if err != nil {
			return err
		}
		filtered := func() *gorm.DB {
			query := tx.Model(new(M))
			if len(exprs) > 0 {
				query = query.Clauses(clause.Where{Exprs: exprs})
			}
			return query
		}

		if err := filtered().Count(&total).Error; err != nil {
			return err
		}
		if total == 0 {
			return nil
		}

		query := filtered().
			Clauses(clause.OrderBy{Columns: q.orderBy}).
			Offset(q.page.Offset()).
			Limit(q.page.PageSize)
		if q.preload != nil {
			query = q.preload(query)
		}
		return query.Find(&rows).Error
	})
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// toPage converts fetched models into a domain page
func toPage[M, D any](rows []M, total int64, req shared.PageRequest, convert func(*M) *D) *shared.Page[D] {
	items := make([]D, len(rows))
	for i := range rows {
		items[i] = *convert(&rows[i])
	}
	return shared.NewPage(items, total, req)
}
