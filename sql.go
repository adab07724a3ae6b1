package sqlkit

import (
	"fmt"
	"reflect"

	"github.com/gopsql/db"
	"github.com/gopsql/logger"
)

// Model carries everything a statement builder needs to produce SQL text for
// one table: the table name, its primary key, the target dialect and,
// optionally, a database connection and a logger. A Model built from a struct
// type remembers the struct's schema, so entity-driven builders can reflect
// column values out of records.
type Model struct {
	tableName  string
	primaryKey PrimaryKey
	dialect    Dialect
	connection db.DB
	logger     logger.Logger
	schema     *schema
}

// NewModel creates a Model for a table that has no backing struct type.
// Options may contain a Dialect, a db.DB connection, a logger.Logger or a
// table name override (string), in any order.
func NewModel(tableName string, key PrimaryKey, options ...interface{}) *Model {
	m := &Model{
		tableName:  tableName,
		primaryKey: key,
		dialect:    Postgres,
	}
	m.SetOptions(options...)
	return m
}

// NewModelOf creates a Model from a struct type. The table name is the
// struct name in snake_case, an exact, invertible mapping with no override on
// the entity-driven path; use NewModel for arbitrary table names.
func NewModelOf(record interface{}, key PrimaryKey, options ...interface{}) (*Model, error) {
	rt := reflect.TypeOf(record)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidRecord, rt)
	}
	s, err := schemaOf(rt)
	if err != nil {
		return nil, err
	}
	m := NewModel(s.table, key, options...)
	// a string option must not displace the derived name
	m.tableName = s.table
	m.schema = s
	return m, nil
}

// SetOptions assigns options to the model. Unknown option types are ignored.
func (m *Model) SetOptions(options ...interface{}) *Model {
	for _, option := range options {
		switch o := option.(type) {
		case Dialect:
			m.dialect = o
		case db.DB:
			m.connection = o
		case logger.Logger:
			m.logger = o
		case string:
			if o != "" {
				m.tableName = o
			}
		}
	}
	return m
}

func (m *Model) SetConnection(conn db.DB) *Model {
	m.connection = conn
	return m
}

func (m *Model) SetLogger(l logger.Logger) *Model {
	m.logger = l
	return m
}

func (m *Model) SetDialect(d Dialect) *Model {
	m.dialect = d
	return m
}

// Clone returns a copy of the model. Statement builders never mutate their
// model, so clones are only needed when two tables share options.
func (m *Model) Clone() *Model {
	c := *m
	return &c
}

func (m *Model) TableName() string { return m.tableName }

func (m *Model) PrimaryKey() PrimaryKey { return m.primaryKey }

func (m *Model) Dialect() Dialect { return m.dialect }

func (m *Model) Connection() db.DB { return m.connection }

func (m *Model) fragment() *Fragment { return NewFragment(m.dialect) }

func (m *Model) log(sql string, args []interface{}) {
	if m.logger == nil {
		return
	}
	m.logger.Debug(sql, args)
}

// checkTable verifies that the record's struct-derived table name matches the
// model's table name, so an entity-driven statement can never silently target
// another table. Models created without a schema adopt the record's schema on
// first use instead.
func (m *Model) checkTable(record interface{}) (*schema, []Field, error) {
	s, fields, err := fieldsOf(record)
	if err != nil {
		return nil, nil, err
	}
	if s.table != m.tableName {
		return nil, nil, fmt.Errorf("%w: record table %q, model table %q",
			ErrTableNameMismatch, s.table, m.tableName)
	}
	if m.schema == nil {
		m.schema = s
	}
	return s, fields, nil
}

// SQL is the common state shared by every statement builder: the model it was
// created from and the first error hit while the statement was assembled.
// Builder methods keep accepting calls after an error; the error surfaces when
// the statement renders.
type SQL struct {
	model *Model
	err   error
}

func (s *SQL) setErr(err error) {
	if s.err == nil && err != nil {
		s.err = err
	}
}

// Err returns the first error recorded while building the statement.
func (s *SQL) Err() error { return s.err }

// sqlConditions accumulates WHERE predicates. Predicates are joined in the
// order they were added, with no added parentheses; callers group with
// explicit parens inside the predicate text when needed.
type sqlConditions struct {
	frag *Fragment
}

func (c *sqlConditions) init(d Dialect) {
	if c.frag == nil {
		c.frag = NewFragment(d)
	}
}

func (c *sqlConditions) add(connector, cond string, values []Value) {
	if !c.frag.Empty() {
		c.frag.AppendText(" " + connector + " ")
	}
	c.frag.AppendExpr(cond, values...)
}

func (c *sqlConditions) addIn(connector, column string, values []Value) {
	if !c.frag.Empty() {
		c.frag.AppendText(" " + connector + " ")
	}
	c.frag.AppendText(column + " IN (")
	c.frag.AppendValues(values...)
	c.frag.AppendText(")")
}

func (c *sqlConditions) addFragment(connector string, frag *Fragment) {
	if frag == nil || frag.Empty() {
		return
	}
	if !c.frag.Empty() {
		c.frag.AppendText(" " + connector + " ")
	}
	c.frag.AppendFragment(frag)
}

func (c *sqlConditions) addInQuery(connector, column string, sub *Subquery) {
	if !c.frag.Empty() {
		c.frag.AppendText(" " + connector + " ")
	}
	c.frag.AppendText(column + " IN ")
	sub.AppendTo(c.frag)
}

func (c *sqlConditions) empty() bool {
	return c.frag == nil || c.frag.Empty()
}

// appendWhere writes " WHERE ..." to dst if any predicate was added.
func (c *sqlConditions) appendWhere(dst *Fragment) {
	if c.empty() {
		return
	}
	dst.AppendText(" WHERE ")
	dst.AppendFragment(c.frag)
}
