package sqlkit

import (
	"fmt"
	"strings"
)

// UpdateSQL builds an UPDATE statement.
type UpdateSQL struct {
	SQL
	sqlConditions
	set       *Fragment
	returning []string
}

// Update creates an UPDATE from a record: every present non-key field goes
// into SET, and the key columns become the WHERE predicate. A record with a
// missing key value fails.
func (m *Model) Update(record interface{}) *UpdateSQL {
	s := m.UpdateSet("")
	_, fields, err := m.checkTable(record)
	if err != nil {
		s.setErr(err)
		return s
	}
	key := make(map[string]bool, 2)
	for _, c := range m.primaryKey.Columns() {
		key[c] = true
	}
	for _, f := range fields {
		if !f.Present || key[f.Column] {
			continue
		}
		s.Set(f.Column+" = ?", f.Value)
	}
	if s.set == nil {
		s.setErr(ErrNoColumns)
		return s
	}
	keyValues, err := primaryKeyValues(record, m.primaryKey)
	if err != nil {
		s.setErr(err)
		return s
	}
	for i, c := range m.primaryKey.Columns() {
		if keyValues[i].IsNull() {
			s.setErr(fmt.Errorf("%w: %s is null", ErrInvalidKey, c))
			return s
		}
		s.AndWhere(c+" = ?", keyValues[i])
	}
	return s
}

// UpdateSet creates a manual UPDATE starting with one SET expression. An
// empty expression creates an empty builder; add assignments with Set.
func (m *Model) UpdateSet(expr string, args ...interface{}) *UpdateSQL {
	s := &UpdateSQL{SQL: SQL{model: m}}
	s.sqlConditions.init(m.dialect)
	if expr != "" {
		s.Set(expr, args...)
	}
	return s
}

// Set appends one assignment, e.g. Set("name = ?", name).
func (s *UpdateSQL) Set(expr string, args ...interface{}) *UpdateSQL {
	if s.set == nil {
		s.set = s.model.fragment()
	} else {
		s.set.AppendText(", ")
	}
	s.set.AppendExpr(expr, toValues(args)...)
	return s
}

func (s *UpdateSQL) Where(cond string, args ...interface{}) *UpdateSQL {
	s.add("AND", cond, toValues(args))
	return s
}

func (s *UpdateSQL) AndWhere(cond string, args ...interface{}) *UpdateSQL {
	s.add("AND", cond, toValues(args))
	return s
}

func (s *UpdateSQL) OrWhere(cond string, args ...interface{}) *UpdateSQL {
	s.add("OR", cond, toValues(args))
	return s
}

func (s *UpdateSQL) WhereIn(column string, values ...interface{}) *UpdateSQL {
	s.addIn("AND", column, toValues(values))
	return s
}

// Returning adds a RETURNING clause; not available on MySQL.
func (s *UpdateSQL) Returning(columns ...string) *UpdateSQL {
	s.returning = columns
	return s
}

// Build assembles the statement into a single fragment.
func (s *UpdateSQL) Build() (*Fragment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.set == nil {
		return nil, ErrNoColumns
	}
	if len(s.returning) > 0 && !s.model.dialect.SupportsReturning() {
		return nil, fmt.Errorf("%w: RETURNING on %s", ErrUnsupportedByDialect, s.model.dialect)
	}
	f := s.model.fragment()
	f.AppendText("UPDATE " + s.model.tableName + " SET ")
	f.AppendFragment(s.set)
	s.appendWhere(f)
	if len(s.returning) > 0 {
		f.AppendText(" RETURNING " + strings.Join(s.returning, ", "))
	}
	return f, nil
}

// Render returns the statement text and its bound values in marker order.
func (s *UpdateSQL) Render() (string, []interface{}, error) {
	f, err := s.Build()
	if err != nil {
		return "", nil, err
	}
	return f.Render()
}
