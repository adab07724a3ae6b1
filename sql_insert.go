package sqlkit

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertSQL builds an INSERT statement, optionally with a conflict clause and
// a RETURNING list.
type InsertSQL struct {
	SQL
	columns         []string
	rows            [][]Value
	conflictTargets []string
	conflictAction  conflictAction
	conflictSet     []string
	returning       []string
}

type conflictAction int

const (
	conflictNone conflictAction = iota
	conflictDoNothing
	conflictDoUpdate
	conflictDoUpdateAll
)

// Insert creates an INSERT from a record's present fields. Nil pointer fields
// are omitted so column defaults apply. Auto-generated key columns are always
// omitted.
func (m *Model) Insert(record interface{}) *InsertSQL {
	s := &InsertSQL{SQL: SQL{model: m}}
	_, fields, err := m.checkTable(record)
	if err != nil {
		s.setErr(err)
		return s
	}
	row := make([]Value, 0, len(fields))
	for _, f := range fields {
		if !f.Present || m.isAutoKeyColumn(f.Column) {
			continue
		}
		s.columns = append(s.columns, f.Column)
		row = append(row, f.Value)
	}
	if len(s.columns) == 0 {
		s.setErr(ErrNoColumns)
		return s
	}
	s.rows = append(s.rows, row)
	return s
}

// InsertMany creates a multi-row INSERT. The first record fixes the column
// set; every other record must have the same fields present.
func (m *Model) InsertMany(records interface{}) *InsertSQL {
	s := &InsertSQL{SQL: SQL{model: m}}
	rv := reflect.ValueOf(records)
	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		s.setErr(fmt.Errorf("%w: expected a slice of records", ErrInvalidRecord))
		return s
	}
	if rv.Len() == 0 {
		s.setErr(ErrNoRecords)
		return s
	}
	for i := 0; i < rv.Len(); i++ {
		_, fields, err := m.checkTable(rv.Index(i).Interface())
		if err != nil {
			s.setErr(err)
			return s
		}
		byColumn := make(map[string]Value, len(fields))
		var columns []string
		for _, f := range fields {
			if !f.Present || m.isAutoKeyColumn(f.Column) {
				continue
			}
			byColumn[f.Column] = f.Value
			columns = append(columns, f.Column)
		}
		if i == 0 {
			if len(columns) == 0 {
				s.setErr(ErrNoColumns)
				return s
			}
			s.columns = columns
		} else if len(columns) != len(s.columns) {
			// a record with a column the first record lacks must not have
			// that value dropped
			s.setErr(fmt.Errorf("%w: record %d has %d present columns, record 0 has %d",
				ErrSchemaMismatch, i, len(columns), len(s.columns)))
			return s
		}
		row := make([]Value, 0, len(s.columns))
		for _, c := range s.columns {
			v, ok := byColumn[c]
			if !ok {
				s.setErr(fmt.Errorf("%w: record %d is missing column %q", ErrSchemaMismatch, i, c))
				return s
			}
			row = append(row, v)
		}
		s.rows = append(s.rows, row)
	}
	return s
}

// InsertColumns creates a manual INSERT for the given columns; add rows with
// Values.
func (m *Model) InsertColumns(columns ...string) *InsertSQL {
	s := &InsertSQL{SQL: SQL{model: m}, columns: columns}
	if len(columns) == 0 {
		s.setErr(ErrNoColumns)
	}
	return s
}

// Values appends one row. The number of args must match the column count.
func (s *InsertSQL) Values(args ...interface{}) *InsertSQL {
	if len(args) != len(s.columns) {
		s.setErr(fmt.Errorf("%w: %d values for %d columns", ErrSchemaMismatch, len(args), len(s.columns)))
		return s
	}
	s.rows = append(s.rows, toValues(args))
	return s
}

func (m *Model) isAutoKeyColumn(column string) bool {
	if !m.primaryKey.Auto() {
		return false
	}
	for _, c := range m.primaryKey.Columns() {
		if c == column {
			return true
		}
	}
	return false
}

// OnConflict sets the conflict target columns. Targets default to the primary
// key columns if none are given before a Do* method. MySQL ignores targets;
// ON DUPLICATE KEY UPDATE always keys on the table's unique indexes.
func (s *InsertSQL) OnConflict(targets ...string) *InsertSQL {
	s.conflictTargets = targets
	return s
}

// DoNothing keeps the existing row on conflict. On MySQL this renders a no-op
// assignment, since ON DUPLICATE KEY UPDATE requires one.
func (s *InsertSQL) DoNothing() *InsertSQL {
	s.conflictAction = conflictDoNothing
	return s
}

// DoUpdate overwrites the given columns with the incoming row's values on
// conflict.
func (s *InsertSQL) DoUpdate(columns ...string) *InsertSQL {
	s.conflictAction = conflictDoUpdate
	s.conflictSet = columns
	return s
}

// DoUpdateAll overwrites every inserted column except the conflict targets.
func (s *InsertSQL) DoUpdateAll() *InsertSQL {
	s.conflictAction = conflictDoUpdateAll
	return s
}

// DoUpdateAllExcept overwrites every inserted column except the conflict
// targets and the given columns.
func (s *InsertSQL) DoUpdateAllExcept(columns ...string) *InsertSQL {
	s.conflictAction = conflictDoUpdateAll
	s.conflictSet = columns
	return s
}

// Returning adds a RETURNING clause. MySQL does not support RETURNING; the
// statement fails to render with ErrUnsupportedByDialect.
func (s *InsertSQL) Returning(columns ...string) *InsertSQL {
	s.returning = columns
	return s
}

func (s *InsertSQL) conflictColumns() []string {
	targets := s.conflictTargets
	if len(targets) == 0 {
		targets = s.model.primaryKey.Columns()
	}
	switch s.conflictAction {
	case conflictDoUpdate:
		return s.conflictSet
	case conflictDoUpdateAll:
		skip := make(map[string]bool, len(targets)+len(s.conflictSet))
		for _, c := range targets {
			skip[c] = true
		}
		for _, c := range s.conflictSet {
			skip[c] = true
		}
		var out []string
		for _, c := range s.columns {
			if !skip[c] {
				out = append(out, c)
			}
		}
		return out
	}
	return nil
}

// Build assembles the statement into a single fragment.
func (s *InsertSQL) Build() (*Fragment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.rows) == 0 {
		return nil, ErrNoRecords
	}
	if len(s.returning) > 0 && !s.model.dialect.SupportsReturning() {
		return nil, fmt.Errorf("%w: RETURNING on %s", ErrUnsupportedByDialect, s.model.dialect)
	}
	f := s.model.fragment()
	f.AppendText("INSERT INTO " + s.model.tableName + " (" + strings.Join(s.columns, ", ") + ") VALUES ")
	for i, row := range s.rows {
		if i > 0 {
			f.AppendText(", ")
		}
		f.AppendText("(")
		f.AppendValues(row...)
		f.AppendText(")")
	}
	if s.conflictAction != conflictNone {
		targets := s.conflictTargets
		if len(targets) == 0 {
			targets = s.model.primaryKey.Columns()
		}
		if len(targets) == 0 {
			return nil, fmt.Errorf("%w: conflict clause needs target columns", ErrNoColumns)
		}
		f.AppendText(s.model.dialect.conflictClause(targets, s.conflictColumns()))
	}
	if len(s.returning) > 0 {
		f.AppendText(" RETURNING " + strings.Join(s.returning, ", "))
	}
	return f, nil
}

// Render returns the statement text and its bound values in marker order.
func (s *InsertSQL) Render() (string, []interface{}, error) {
	f, err := s.Build()
	if err != nil {
		return "", nil, err
	}
	return f.Render()
}
