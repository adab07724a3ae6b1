package sqlkit

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/gopsql/db"
)

// Table is a typed facade over one table: it builds statements from T's
// schema, injects the soft-delete and global-filter predicates, executes
// against the model's connection and scans results back into T.
type Table[T any] struct {
	model        *Model
	interception *Interception
	tx           *Tx
}

// NewTable creates a Table for the struct type T. Options may contain a
// Dialect, a db.DB connection, a logger.Logger or an *Interception override,
// in any order.
func NewTable[T any](key PrimaryKey, options ...interface{}) (*Table[T], error) {
	var zero T
	model, err := NewModelOf(zero, key, options...)
	if err != nil {
		return nil, err
	}
	if err := model.schema.keyColumnsCovered(key); err != nil {
		return nil, err
	}
	t := &Table[T]{model: model}
	for _, option := range options {
		if i, ok := option.(*Interception); ok {
			t.interception = i
		}
	}
	return t, nil
}

// MustNewTable is like NewTable but panics on error.
func MustNewTable[T any](key PrimaryKey, options ...interface{}) *Table[T] {
	t, err := NewTable[T](key, options...)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table[T]) Model() *Model { return t.model }

// WithInterception returns a copy of the table using the given interception
// instead of the process-wide one. Pass an empty Interception to opt out of
// global rules for this table.
func (t *Table[T]) WithInterception(i *Interception) *Table[T] {
	c := *t
	c.interception = i
	return &c
}

// WithTx returns a copy of the table that runs every statement inside tx.
// Several tables bound to the same Tx share its connection and its sticky
// error; none of them commits on its own.
func (t *Table[T]) WithTx(tx *Tx) *Table[T] {
	c := *t
	c.tx = tx
	return &c
}

func (t *Table[T]) interceptionFor() Interception {
	if t.interception != nil {
		return *t.interception
	}
	return currentInterception()
}

// select_ creates a SELECT over the schema's column list with the
// interception predicates already in place.
func (t *Table[T]) select_(i Interception) *SelectSQL {
	s := t.model.Select(t.model.schema.columnList())
	i.apply(t.model.tableName, &s.sqlConditions)
	return s
}

func (t *Table[T]) exec(ctx context.Context, sql string, args []interface{}, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	t.model.log(sql, args)
	var result db.Result
	if t.tx != nil {
		result, err = t.tx.exec(ctx, sql, args)
	} else if t.model.connection == nil {
		err = ErrNoConnection
	} else {
		result, err = t.model.connection.Exec(sql, args...)
	}
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (t *Table[T]) query(ctx context.Context, sql string, args []interface{}, err error) (db.Rows, error) {
	if err != nil {
		return nil, err
	}
	t.model.log(sql, args)
	if t.tx != nil {
		return t.tx.query(ctx, sql, args)
	}
	if t.model.connection == nil {
		return nil, ErrNoConnection
	}
	return t.model.connection.Query(sql, args...)
}

func (t *Table[T]) queryRow(ctx context.Context, sql string, args []interface{}, err error) (db.Scannable, error) {
	if err != nil {
		return nil, err
	}
	t.model.log(sql, args)
	if t.tx != nil {
		return t.tx.queryRow(ctx, sql, args)
	}
	if t.model.connection == nil {
		return nil, ErrNoConnection
	}
	return t.model.connection.QueryRow(sql, args...), nil
}

func (t *Table[T]) isNoRows(err error) bool {
	return t.model.connection != nil && err == t.model.connection.ErrNoRows()
}

// InsertOne inserts one record and returns the affected row count.
func (t *Table[T]) InsertOne(ctx context.Context, record T) (int64, error) {
	sql, args, err := t.model.Insert(record).Render()
	return t.exec(ctx, sql, args, err)
}

// InsertMany inserts the records in a single multi-row statement.
func (t *Table[T]) InsertMany(ctx context.Context, records []T) (int64, error) {
	sql, args, err := t.model.InsertMany(records).Render()
	return t.exec(ctx, sql, args, err)
}

// UpsertOne inserts the record, overwriting the existing row on a key
// conflict. With no columns given every inserted column except the key is
// overwritten.
func (t *Table[T]) UpsertOne(ctx context.Context, record T, updateColumns ...string) (int64, error) {
	s := t.model.Insert(record).OnConflict()
	if len(updateColumns) > 0 {
		s.DoUpdate(updateColumns...)
	} else {
		s.DoUpdateAll()
	}
	sql, args, err := s.Render()
	return t.exec(ctx, sql, args, err)
}

// UpsertMany is UpsertOne over a multi-row insert.
func (t *Table[T]) UpsertMany(ctx context.Context, records []T, updateColumns ...string) (int64, error) {
	s := t.model.InsertMany(records).OnConflict()
	if len(updateColumns) > 0 {
		s.DoUpdate(updateColumns...)
	} else {
		s.DoUpdateAll()
	}
	sql, args, err := s.Render()
	return t.exec(ctx, sql, args, err)
}

// UpdateByEntity updates the row identified by the record's key columns,
// setting every present non-key field.
func (t *Table[T]) UpdateByEntity(ctx context.Context, record T) (int64, error) {
	i := t.interceptionFor()
	s := t.model.Update(record)
	t.applyTail(&i, &s.sqlConditions)
	sql, args, err := s.Render()
	return t.exec(ctx, sql, args, err)
}

// UpdateByCond runs an UPDATE shaped by the query closure, which must add at
// least one Set assignment. The interception predicates are added before the
// closure's own.
func (t *Table[T]) UpdateByCond(ctx context.Context, query func(*UpdateSQL)) (int64, error) {
	i := t.interceptionFor()
	s := t.model.UpdateSet("")
	i.apply(t.model.tableName, &s.sqlConditions)
	if query != nil {
		query(s)
	}
	sql, args, err := s.Render()
	return t.exec(ctx, sql, args, err)
}

// applyTail appends the interception predicates after predicates that are
// already present. Used where the key predicate comes from the record itself.
func (t *Table[T]) applyTail(i *Interception, c *sqlConditions) {
	i.apply(t.model.tableName, c)
}

// DeleteByKey deletes the row with the given key values. Under a soft-delete
// rule the delete becomes an UPDATE setting the rule's column to TRUE;
// excluded tables keep physical deletes.
func (t *Table[T]) DeleteByKey(ctx context.Context, keyValues ...interface{}) (int64, error) {
	return t.DeleteMany(ctx, keyValues)
}

// DeleteMany deletes several rows by key in one statement. Each element of
// keys holds one row's key values in key column order.
func (t *Table[T]) DeleteMany(ctx context.Context, keys ...[]interface{}) (int64, error) {
	i := t.interceptionFor()
	if column, ok := i.softDeleteColumn(t.model.tableName); ok {
		s := t.model.UpdateSet(column+" = ?", true)
		i.apply(t.model.tableName, &s.sqlConditions)
		if err := keyPredicate(&s.sqlConditions, t.model.primaryKey, keys); err != nil {
			return 0, err
		}
		sql, args, err := s.Render()
		return t.exec(ctx, sql, args, err)
	}
	s := t.model.Delete()
	i.apply(t.model.tableName, &s.sqlConditions)
	if err := keyPredicate(&s.sqlConditions, t.model.primaryKey, keys); err != nil {
		return 0, err
	}
	sql, args, err := s.Render()
	return t.exec(ctx, sql, args, err)
}

// DeleteByCond deletes the rows matched by the query closure, converting to a
// soft delete when a rule applies.
func (t *Table[T]) DeleteByCond(ctx context.Context, query func(*DeleteSQL)) (int64, error) {
	i := t.interceptionFor()
	if column, ok := i.softDeleteColumn(t.model.tableName); ok {
		s := t.model.UpdateSet(column+" = ?", true)
		i.apply(t.model.tableName, &s.sqlConditions)
		if query != nil {
			d := t.model.Delete()
			query(d)
			if d.err != nil {
				return 0, d.err
			}
			s.sqlConditions.addFragment("AND", d.frag)
		}
		sql, args, err := s.Render()
		return t.exec(ctx, sql, args, err)
	}
	s := t.model.Delete()
	i.apply(t.model.tableName, &s.sqlConditions)
	if query != nil {
		query(s)
	}
	sql, args, err := s.Render()
	return t.exec(ctx, sql, args, err)
}

// RestoreByKey clears the soft-delete mark on the rows with the given keys.
// Fails unless a soft-delete rule applies to this table.
func (t *Table[T]) RestoreByKey(ctx context.Context, keyValues ...interface{}) (int64, error) {
	return t.RestoreMany(ctx, keyValues)
}

// RestoreMany restores several soft-deleted rows by key in one statement.
func (t *Table[T]) RestoreMany(ctx context.Context, keys ...[]interface{}) (int64, error) {
	i := t.interceptionFor()
	column, ok := i.softDeleteColumn(t.model.tableName)
	if !ok {
		return 0, fmt.Errorf("%w: table %s", ErrSoftDeleteNotConfigured, t.model.tableName)
	}
	s := t.model.UpdateSet(column+" = ?", false)
	if cond, args, ok := i.filterFor(t.model.tableName); ok {
		s.AndWhere(cond, args...)
	}
	if err := keyPredicate(&s.sqlConditions, t.model.primaryKey, keys); err != nil {
		return 0, err
	}
	sql, args, err := s.Render()
	return t.exec(ctx, sql, args, err)
}

// RestoreByCond restores the soft-deleted rows matched by the query closure.
func (t *Table[T]) RestoreByCond(ctx context.Context, query func(*UpdateSQL)) (int64, error) {
	i := t.interceptionFor()
	column, ok := i.softDeleteColumn(t.model.tableName)
	if !ok {
		return 0, fmt.Errorf("%w: table %s", ErrSoftDeleteNotConfigured, t.model.tableName)
	}
	s := t.model.UpdateSet(column+" = ?", false)
	if cond, args, ok := i.filterFor(t.model.tableName); ok {
		s.AndWhere(cond, args...)
	}
	if query != nil {
		query(s)
	}
	sql, args, err := s.Render()
	return t.exec(ctx, sql, args, err)
}

// GetByKey fetches one row by key. Returns (nil, nil) when no row matches.
func (t *Table[T]) GetByKey(ctx context.Context, keyValues ...interface{}) (*T, error) {
	i := t.interceptionFor()
	s := t.select_(i)
	columns := t.model.primaryKey.Columns()
	if len(keyValues) != len(columns) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidKey, len(columns), len(keyValues))
	}
	for idx, c := range columns {
		s.AndWhere(c+" = ?", keyValues[idx])
	}
	sql, args, err := s.Render()
	row, err := t.queryRow(ctx, sql, args, err)
	if err != nil {
		return nil, err
	}
	item, err := scanOne[T](t.model.schema, row)
	if err != nil {
		if t.isNoRows(err) {
			return nil, nil
		}
		if t.tx != nil {
			t.tx.fail(err)
		}
		return nil, err
	}
	return item, nil
}

// GetOne fetches the first row matched by the query closure. Returns
// (nil, nil) when no row matches.
func (t *Table[T]) GetOne(ctx context.Context, query func(*SelectSQL)) (*T, error) {
	i := t.interceptionFor()
	s := t.select_(i)
	if query != nil {
		query(s)
	}
	s.Limit(1)
	sql, args, err := s.Render()
	row, err := t.queryRow(ctx, sql, args, err)
	if err != nil {
		return nil, err
	}
	item, err := scanOne[T](t.model.schema, row)
	if err != nil {
		if t.isNoRows(err) {
			return nil, nil
		}
		if t.tx != nil {
			t.tx.fail(err)
		}
		return nil, err
	}
	return item, nil
}

// GetList fetches every row matched by the query closure.
func (t *Table[T]) GetList(ctx context.Context, query func(*SelectSQL)) ([]T, error) {
	i := t.interceptionFor()
	s := t.select_(i)
	if query != nil {
		query(s)
	}
	return t.fetch(ctx, s)
}

func (t *Table[T]) fetch(ctx context.Context, s *SelectSQL) ([]T, error) {
	sql, args, err := s.Render()
	rows, err := t.query(ctx, sql, args, err)
	if err != nil {
		return nil, err
	}
	items, err := scanAll[T](t.model.schema, rows)
	if err != nil {
		if t.tx != nil {
			t.tx.fail(err)
		}
		return nil, err
	}
	return items, nil
}

// GetListPaginated fetches one page plus the total row count. Two statements
// run: a COUNT with the same predicates, then the page itself.
func (t *Table[T]) GetListPaginated(ctx context.Context, page, pageSize uint64, query func(*SelectSQL)) (PaginatedResult[T], error) {
	var zero PaginatedResult[T]
	if _, _, err := pageBounds(page, pageSize); err != nil {
		return zero, err
	}
	i := t.interceptionFor()
	s := t.select_(i)
	if query != nil {
		query(s)
	}
	total, err := t.count(ctx, s.Count())
	if err != nil {
		return zero, err
	}
	items, err := t.fetch(ctx, s.Paginate(page, pageSize))
	if err != nil {
		return zero, err
	}
	return newPaginatedResult(items, total, page, pageSize), nil
}

// GetListByCursor fetches one keyset page. The cursor column must be
// strictly monotonic over the matched set.
func (t *Table[T]) GetListByCursor(ctx context.Context, cursor Cursor, query func(*SelectSQL)) (CursorResult[T], error) {
	var zero CursorResult[T]
	i := t.interceptionFor()
	s := t.select_(i)
	if query != nil {
		query(s)
	}
	items, err := t.fetch(ctx, cursor.apply(s))
	if err != nil {
		return zero, err
	}
	result := CursorResult[T]{Items: items}
	if uint64(len(items)) > cursor.PageSize {
		result.Items = items[:cursor.PageSize]
		result.HasMore = true
	}
	if result.HasMore && len(result.Items) > 0 {
		last := result.Items[len(result.Items)-1]
		next, err := t.columnValue(last, cursor.Column)
		if err != nil {
			return zero, err
		}
		result.NextCursor = next
	}
	return result, nil
}

func (t *Table[T]) columnValue(record T, column string) (interface{}, error) {
	s := t.model.schema
	idx, ok := s.byColumn[column]
	if !ok {
		return nil, fmt.Errorf("%w: no column %q in %s", ErrSchemaMismatch, column, s.table)
	}
	fv := reflect.ValueOf(record).FieldByIndex(s.fields[idx].index)
	for fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return nil, nil
		}
		fv = fv.Elem()
	}
	return fv.Interface(), nil
}

// Exists reports whether any row matches the query closure.
func (t *Table[T]) Exists(ctx context.Context, query func(*SelectSQL)) (bool, error) {
	i := t.interceptionFor()
	s := t.select_(i)
	if query != nil {
		query(s)
	}
	sql, args, err := s.Exists().Render()
	row, err := t.queryRow(ctx, sql, args, err)
	if err != nil {
		return false, err
	}
	var one int
	if err := row.Scan(&one); err != nil {
		if t.isNoRows(err) {
			return false, nil
		}
		if t.tx != nil {
			t.tx.fail(err)
		}
		return false, err
	}
	return true, nil
}

// Count counts the rows matched by the query closure.
func (t *Table[T]) Count(ctx context.Context, query func(*SelectSQL)) (int64, error) {
	i := t.interceptionFor()
	s := t.select_(i)
	if query != nil {
		query(s)
	}
	return t.count(ctx, s.Count())
}

func (t *Table[T]) count(ctx context.Context, s *SelectSQL) (int64, error) {
	sql, args, err := s.Render()
	row, err := t.queryRow(ctx, sql, args, err)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := row.Scan(&n); err != nil {
		if t.tx != nil {
			t.tx.fail(err)
		}
		return 0, err
	}
	return n, nil
}

// keyPredicate adds a key match over one or more rows to the conditions: an
// IN list for a single-column key, OR-joined AND groups for a composite key.
func keyPredicate(c *sqlConditions, key PrimaryKey, keys [][]interface{}) error {
	if len(keys) == 0 {
		return ErrNoRecords
	}
	columns := key.Columns()
	if !key.IsComposite() {
		values := make([]Value, len(keys))
		for i, k := range keys {
			if len(k) != 1 {
				return fmt.Errorf("%w: expected 1 value, got %d", ErrInvalidKey, len(k))
			}
			values[i] = toValue(k[0])
		}
		c.addIn("AND", columns[0], values)
		return nil
	}
	var eq []string
	for _, col := range columns {
		eq = append(eq, col+" = ?")
	}
	group := strings.Join(eq, " AND ")
	var groups []string
	values := make([]Value, 0, len(keys)*len(columns))
	for _, k := range keys {
		if len(k) != len(columns) {
			return fmt.Errorf("%w: expected %d values, got %d", ErrInvalidKey, len(columns), len(k))
		}
		if len(keys) > 1 {
			groups = append(groups, "("+group+")")
		} else {
			groups = append(groups, group)
		}
		values = append(values, toValues(k)...)
	}
	cond := strings.Join(groups, " OR ")
	if len(keys) > 1 {
		// keeps the OR groups from leaking past predicates added before
		cond = "(" + cond + ")"
	}
	c.add("AND", cond, values)
	return nil
}
