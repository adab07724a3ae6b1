package sqlkit

import (
	"fmt"
	"strings"
)

// DeleteSQL builds a DELETE statement.
type DeleteSQL struct {
	SQL
	sqlConditions
	returning []string
}

// Delete creates a DELETE with no predicate. Without a Where call the
// statement deletes every row; callers that want that must say so explicitly
// with Where("1 = 1") or similar, since Build rejects an empty predicate.
func (m *Model) Delete() *DeleteSQL {
	s := &DeleteSQL{SQL: SQL{model: m}}
	s.sqlConditions.init(m.dialect)
	return s
}

// DeleteByKey creates a DELETE for one row identified by its key values, one
// value per key column in declaration order.
func (m *Model) DeleteByKey(keyValues ...interface{}) *DeleteSQL {
	s := m.Delete()
	s.whereKey(keyValues)
	return s
}

// DeleteByKeys creates a DELETE for several rows. For a single-column key the
// predicate is one IN list; for a composite key each row becomes a
// parenthesized AND group and the groups are joined with OR, still as one
// statement.
func (m *Model) DeleteByKeys(keys ...[]interface{}) *DeleteSQL {
	s := m.Delete()
	if len(keys) == 0 {
		s.setErr(ErrNoRecords)
		return s
	}
	columns := m.primaryKey.Columns()
	if !m.primaryKey.IsComposite() {
		flat := make([]interface{}, len(keys))
		for i, k := range keys {
			if len(k) != 1 {
				s.setErr(fmt.Errorf("%w: expected 1 value, got %d", ErrInvalidKey, len(k)))
				return s
			}
			flat[i] = k[0]
		}
		s.WhereIn(columns[0], flat...)
		return s
	}
	for _, k := range keys {
		if len(k) != len(columns) {
			s.setErr(fmt.Errorf("%w: expected %d values, got %d", ErrInvalidKey, len(columns), len(k)))
			return s
		}
		var parts []string
		for _, c := range columns {
			parts = append(parts, c+" = ?")
		}
		s.OrWhere("("+strings.Join(parts, " AND ")+")", k...)
	}
	return s
}

func (s *DeleteSQL) whereKey(keyValues []interface{}) {
	columns := s.model.primaryKey.Columns()
	if len(keyValues) != len(columns) {
		s.setErr(fmt.Errorf("%w: expected %d values, got %d", ErrInvalidKey, len(columns), len(keyValues)))
		return
	}
	for i, c := range columns {
		s.AndWhere(c+" = ?", keyValues[i])
	}
}

func (s *DeleteSQL) Where(cond string, args ...interface{}) *DeleteSQL {
	s.add("AND", cond, toValues(args))
	return s
}

func (s *DeleteSQL) AndWhere(cond string, args ...interface{}) *DeleteSQL {
	s.add("AND", cond, toValues(args))
	return s
}

func (s *DeleteSQL) OrWhere(cond string, args ...interface{}) *DeleteSQL {
	s.add("OR", cond, toValues(args))
	return s
}

func (s *DeleteSQL) WhereIn(column string, values ...interface{}) *DeleteSQL {
	s.addIn("AND", column, toValues(values))
	return s
}

// WhereInQuery adds "column IN (subquery)".
func (s *DeleteSQL) WhereInQuery(column string, sub *Subquery) *DeleteSQL {
	if sub.err != nil {
		s.setErr(sub.err)
	}
	s.addInQuery("AND", column, sub)
	return s
}

// Returning adds a RETURNING clause; not available on MySQL.
func (s *DeleteSQL) Returning(columns ...string) *DeleteSQL {
	s.returning = columns
	return s
}

// Build assembles the statement into a single fragment. A DELETE with no
// predicate is rejected.
func (s *DeleteSQL) Build() (*Fragment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.empty() {
		return nil, fmt.Errorf("%w: DELETE without a predicate", ErrInvalidKey)
	}
	if len(s.returning) > 0 && !s.model.dialect.SupportsReturning() {
		return nil, fmt.Errorf("%w: RETURNING on %s", ErrUnsupportedByDialect, s.model.dialect)
	}
	f := s.model.fragment()
	f.AppendText("DELETE FROM " + s.model.tableName)
	s.appendWhere(f)
	if len(s.returning) > 0 {
		f.AppendText(" RETURNING " + strings.Join(s.returning, ", "))
	}
	return f, nil
}

// Render returns the statement text and its bound values in marker order.
func (s *DeleteSQL) Render() (string, []interface{}, error) {
	f, err := s.Build()
	if err != nil {
		return "", nil, err
	}
	return f.Render()
}
