package sqlkit

import (
	"fmt"
	"reflect"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

type (
	// Field is one reflected field of a record: its struct field name, the
	// database column it maps to, its bound value and whether it was set at
	// all. Present is false for nil pointer fields, which distinguishes
	// "omit from statement" from "set to NULL".
	Field struct {
		Name    string
		Column  string
		Value   Value
		Present bool
	}

	// PrimaryKey describes the key shape of a table: either a single column,
	// optionally auto-generated by the database, or an ordered set of columns
	// forming a composite key. The column order of a composite key defines
	// the tuple order used in generated predicates.
	PrimaryKey struct {
		columns []string
		auto    bool
	}

	schema struct {
		table    string
		fields   []schemaField
		byColumn map[string]int
	}

	schemaField struct {
		name   string
		column string
		index  []int
		isPtr  bool
	}
)

// Key returns a single-column primary key. autoGenerated marks a key the
// database fills in, which entity-driven inserts skip unless explicitly
// provided.
func Key(column string, autoGenerated bool) PrimaryKey {
	return PrimaryKey{columns: []string{column}, auto: autoGenerated}
}

// CompositeKey returns a multi-column primary key. It panics on an empty
// column list; a keyless table is a construction defect.
func CompositeKey(columns ...string) PrimaryKey {
	if len(columns) == 0 {
		panic("sqlkit: composite key must have at least one column")
	}
	return PrimaryKey{columns: append([]string{}, columns...)}
}

// Columns returns the key columns in tuple order.
func (k PrimaryKey) Columns() []string { return k.columns }

// Auto reports whether the key is database-generated. Composite keys are
// never auto-generated.
func (k PrimaryKey) Auto() bool { return k.auto && len(k.columns) == 1 }

// IsComposite reports whether the key spans more than one column.
func (k PrimaryKey) IsComposite() bool { return len(k.columns) > 1 }

// schemaCache keeps parsed record schemas. Parsing walks struct tags and is
// not free; records are reflected on every statement build.
var schemaCache, _ = lru.New[string, *schema](256)

func schemaOf(rt reflect.Type) (*schema, error) {
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRecord, rt.Kind())
	}
	key := rt.PkgPath() + "|" + rt.String()
	if s, ok := schemaCache.Get(key); ok {
		return s, nil
	}
	s := &schema{
		table:    ToUnderscore(rt.Name()),
		byColumn: map[string]int{},
	}
	parseFields(rt, s, nil)
	schemaCache.Add(key, s)
	return s, nil
}

// parseFields collects column mappings from struct fields. Unexported fields
// are skipped, exported anonymous structs are flattened, and the "column" tag
// overrides the snake_case default ("-" skips the field). Unexported embedded
// structs are skipped too; reflect cannot read their fields without panicking.
func parseFields(rt reflect.Type, s *schema, prefix []int) {
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		index := append(append([]int{}, prefix...), i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.PkgPath == "" {
			parseFields(f.Type, s, index)
			continue
		}
		if f.PkgPath != "" {
			continue
		}
		column := f.Tag.Get("column")
		if column == "-" {
			continue
		}
		if idx := strings.Index(column, ","); idx != -1 {
			column = column[:idx]
		}
		if column == "" {
			column = ToUnderscore(f.Name)
		}
		s.byColumn[column] = len(s.fields)
		s.fields = append(s.fields, schemaField{
			name:   f.Name,
			column: column,
			index:  index,
			isPtr:  f.Type.Kind() == reflect.Ptr,
		})
	}
}

// fieldsOf enumerates the fields of a record in declaration order as (name,
// value, present) triples. A nil pointer field is returned with Present set
// to false and a Null value.
func fieldsOf(record interface{}) (*schema, []Field, error) {
	rv := reflect.ValueOf(record)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil, ErrInvalidRecord
		}
		rv = rv.Elem()
	}
	s, err := schemaOf(rv.Type())
	if err != nil {
		return nil, nil, err
	}
	fields := make([]Field, 0, len(s.fields))
	for _, sf := range s.fields {
		fv := rv.FieldByIndex(sf.index)
		field := Field{Name: sf.name, Column: sf.column}
		if sf.isPtr && fv.IsNil() {
			field.Value = Null()
		} else {
			field.Value = toValue(fv.Interface())
			field.Present = true
		}
		fields = append(fields, field)
	}
	return s, fields, nil
}

// primaryKeyValues extracts the key values of a record in the key's tuple
// order. A key column that matches no reflected column is a schema mismatch.
func primaryKeyValues(record interface{}, key PrimaryKey) ([]Value, error) {
	_, fields, err := fieldsOf(record)
	if err != nil {
		return nil, err
	}
	values := make([]Value, 0, len(key.columns))
	for _, column := range key.columns {
		found := false
		for _, f := range fields {
			if f.Column == column {
				values = append(values, f.Value)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, column)
		}
	}
	return values, nil
}

// keyColumnsCovered verifies every key column maps to a reflected column of
// the schema.
func (s *schema) keyColumnsCovered(key PrimaryKey) error {
	for _, column := range key.columns {
		if _, ok := s.byColumn[column]; !ok {
			return fmt.Errorf("%w: %s", ErrSchemaMismatch, column)
		}
	}
	return nil
}
