package sqlkit

import (
	"strings"
)

// SelectSQL builds a SELECT statement. Clauses render in the usual textual
// order regardless of the order the methods were called in, so bound values
// always line up with their markers.
type SelectSQL struct {
	SQL
	sqlConditions
	fields  []string
	from    string
	ctes    []cte
	joins   []string
	groupBy []string
	having  *Fragment
	orderBy []string
	limit   *Fragment
	offset  *Fragment
}

type cte struct {
	name string
	body *Subquery
}

// Select creates a SELECT builder. With no fields, "*" is selected.
func (m *Model) Select(fields ...string) *SelectSQL {
	s := &SelectSQL{SQL: SQL{model: m}, fields: fields, from: m.tableName}
	s.sqlConditions.init(m.dialect)
	return s
}

// From overrides the source, e.g. to select from a joined alias or a CTE.
func (s *SelectSQL) From(from string) *SelectSQL {
	s.from = from
	return s
}

// With prepends a common table expression. MySQL before 8.0 has no CTE
// support, but the statement is rendered anyway; the server reports the error.
func (s *SelectSQL) With(name string, body *Subquery) *SelectSQL {
	if body.err != nil {
		s.setErr(body.err)
	}
	s.ctes = append(s.ctes, cte{name: name, body: body})
	return s
}

// Join appends a join expression verbatim, e.g.
// "LEFT JOIN orders ON orders.user_id = users.id".
func (s *SelectSQL) Join(expr string) *SelectSQL {
	s.joins = append(s.joins, expr)
	return s
}

// Where replaces nothing; it adds the first predicate. Each "?" in cond binds
// one of args, in order.
func (s *SelectSQL) Where(cond string, args ...interface{}) *SelectSQL {
	s.add("AND", cond, toValues(args))
	return s
}

// AndWhere adds a predicate joined with AND.
func (s *SelectSQL) AndWhere(cond string, args ...interface{}) *SelectSQL {
	s.add("AND", cond, toValues(args))
	return s
}

// OrWhere adds a predicate joined with OR. No parentheses are added; group
// explicitly in the predicate text when mixing AND and OR.
func (s *SelectSQL) OrWhere(cond string, args ...interface{}) *SelectSQL {
	s.add("OR", cond, toValues(args))
	return s
}

// WhereIn adds "column IN (?,...)" with one marker per value.
func (s *SelectSQL) WhereIn(column string, values ...interface{}) *SelectSQL {
	s.addIn("AND", column, toValues(values))
	return s
}

// OrWhereIn adds "column IN (?,...)" joined with OR.
func (s *SelectSQL) OrWhereIn(column string, values ...interface{}) *SelectSQL {
	s.addIn("OR", column, toValues(values))
	return s
}

// WhereInQuery adds "column IN (subquery)". The subquery's bound values are
// spliced at the position of its markers.
func (s *SelectSQL) WhereInQuery(column string, sub *Subquery) *SelectSQL {
	if sub.err != nil {
		s.setErr(sub.err)
	}
	s.addInQuery("AND", column, sub)
	return s
}

func (s *SelectSQL) GroupBy(exprs ...string) *SelectSQL {
	s.groupBy = append(s.groupBy, exprs...)
	return s
}

func (s *SelectSQL) Having(cond string, args ...interface{}) *SelectSQL {
	if s.having == nil {
		s.having = s.model.fragment()
	} else {
		s.having.AppendText(" AND ")
	}
	s.having.AppendExpr(cond, toValues(args)...)
	return s
}

func (s *SelectSQL) OrderBy(exprs ...string) *SelectSQL {
	s.orderBy = append(s.orderBy, exprs...)
	return s
}

func (s *SelectSQL) Limit(n int64) *SelectSQL {
	s.limit = s.model.fragment()
	s.limit.AppendText(" LIMIT ")
	s.limit.AppendValue(Int(n))
	return s
}

func (s *SelectSQL) Offset(n int64) *SelectSQL {
	s.offset = s.model.fragment()
	s.offset.AppendText(" OFFSET ")
	s.offset.AppendValue(Int(n))
	return s
}

// Paginate sets LIMIT and OFFSET from a 1-based page number. Page 0 or page
// size 0 is rejected when the statement renders.
func (s *SelectSQL) Paginate(page, pageSize uint64) *SelectSQL {
	limit, offset, err := pageBounds(page, pageSize)
	if err != nil {
		s.setErr(err)
		return s
	}
	return s.Limit(limit).Offset(offset)
}

// Count rewrites the field list to a count expression, keeping every other
// clause. With no expression, COUNT(*) is used.
func (s *SelectSQL) Count(expr ...string) *SelectSQL {
	e := "COUNT(*)"
	if len(expr) > 0 && expr[0] != "" {
		e = expr[0]
	}
	c := *s
	c.fields = []string{e}
	c.orderBy = nil
	c.limit = nil
	c.offset = nil
	return &c
}

// Exists rewrites the statement into an existence probe: SELECT 1 AS one,
// with the same predicates and LIMIT 1.
func (s *SelectSQL) Exists() *SelectSQL {
	e := *s
	e.fields = []string{"1 AS one"}
	e.orderBy = nil
	e.offset = nil
	return e.Limit(1)
}

// Build assembles the statement into a single fragment.
func (s *SelectSQL) Build() (*Fragment, error) {
	if s.err != nil {
		return nil, s.err
	}
	f := s.model.fragment()
	if len(s.ctes) > 0 {
		f.AppendText("WITH ")
		for i, c := range s.ctes {
			if i > 0 {
				f.AppendText(", ")
			}
			f.AppendText(c.name + " AS ")
			c.body.AppendTo(f)
		}
		f.AppendText(" ")
	}
	fields := "*"
	if len(s.fields) > 0 {
		fields = strings.Join(s.fields, ", ")
	}
	f.AppendText("SELECT " + fields + " FROM " + s.from)
	for _, j := range s.joins {
		f.AppendText(" " + j)
	}
	s.appendWhere(f)
	if len(s.groupBy) > 0 {
		f.AppendText(" GROUP BY " + strings.Join(s.groupBy, ", "))
	}
	if s.having != nil {
		f.AppendText(" HAVING ")
		f.AppendFragment(s.having)
	}
	if len(s.orderBy) > 0 {
		f.AppendText(" ORDER BY " + strings.Join(s.orderBy, ", "))
	}
	if s.limit != nil {
		f.AppendFragment(s.limit)
	}
	if s.offset != nil {
		f.AppendFragment(s.offset)
	}
	return f, nil
}

// Render returns the statement text and its bound values in marker order.
func (s *SelectSQL) Render() (string, []interface{}, error) {
	f, err := s.Build()
	if err != nil {
		return "", nil, err
	}
	return f.Render()
}

// Subquery freezes the current state of the builder for splicing into another
// statement, in an IN list or as a CTE body.
func (s *SelectSQL) Subquery() *Subquery {
	f, err := s.Build()
	return &Subquery{frag: f, err: err}
}

// Subquery is a built SELECT kept in marker form so it can be spliced into an
// outer statement without renumbering.
type Subquery struct {
	frag *Fragment
	err  error
}

// NewSubquery wraps raw SQL text and its bound values as a subquery. The text
// must contain one "?" per value.
func NewSubquery(text string, args ...interface{}) *Subquery {
	// the dialect only matters at render time and a subquery never renders
	// itself, so any value works here
	f := NewFragment(Sqlite)
	f.AppendExpr(text, toValues(args)...)
	return &Subquery{frag: f}
}

// AppendTo splices the subquery's text, wrapped in parentheses, and its values
// into dst. A subquery never renders standalone.
func (q *Subquery) AppendTo(dst *Fragment) {
	if q.frag == nil {
		return
	}
	dst.AppendText("(")
	dst.AppendFragment(q.frag)
	dst.AppendText(")")
}
