package sqlkit

import (
	"errors"
	"reflect"
	"testing"
)

func TestFragmentRender(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		dialect  Dialect
		build    func(*Fragment)
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "postgres numbering",
			dialect: Postgres,
			build: func(f *Fragment) {
				f.AppendText("SELECT * FROM t WHERE a = ")
				f.AppendValue(Int(1))
				f.AppendText(" AND b = ")
				f.AppendValue(Text("x"))
			},
			wantSQL:  "SELECT * FROM t WHERE a = $1 AND b = $2",
			wantArgs: []interface{}{int64(1), "x"},
		},
		{
			name:    "mysql keeps question marks",
			dialect: MySQL,
			build: func(f *Fragment) {
				f.AppendText("a = ")
				f.AppendValue(Int(1))
			},
			wantSQL:  "a = ?",
			wantArgs: []interface{}{int64(1)},
		},
		{
			name:    "marker list",
			dialect: Postgres,
			build: func(f *Fragment) {
				f.AppendText("status IN (")
				f.AppendValues(Text("a"), Text("b"), Text("c"))
				f.AppendText(")")
			},
			wantSQL:  "status IN ($1,$2,$3)",
			wantArgs: []interface{}{"a", "b", "c"},
		},
		{
			name:    "question mark in string literal is not a marker",
			dialect: Postgres,
			build: func(f *Fragment) {
				f.AppendText("name = '?' AND id = ")
				f.AppendValue(Int(2))
			},
			wantSQL:  "name = '?' AND id = $1",
			wantArgs: []interface{}{int64(2)},
		},
		{
			name:    "spliced fragments keep value order",
			dialect: Postgres,
			build: func(f *Fragment) {
				inner := NewFragment(Postgres)
				inner.AppendText("SELECT id FROM roles WHERE level > ")
				inner.AppendValue(Int(3))
				f.AppendText("a = ")
				f.AppendValue(Int(1))
				f.AppendText(" AND role_id IN (")
				f.AppendFragment(inner)
				f.AppendText(")")
			},
			wantSQL:  "a = $1 AND role_id IN (SELECT id FROM roles WHERE level > $2)",
			wantArgs: []interface{}{int64(1), int64(3)},
		},
		{
			name:    "null binds nil",
			dialect: Sqlite,
			build: func(f *Fragment) {
				f.AppendText("deleted_at = ")
				f.AppendValue(Null())
			},
			wantSQL:  "deleted_at = ?",
			wantArgs: []interface{}{nil},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFragment(tt.dialect)
			tt.build(f)
			sql, args, err := f.Render()
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if sql != tt.wantSQL {
				t.Errorf("sql = %q, want %q", sql, tt.wantSQL)
			}
			if !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("args = %#v, want %#v", args, tt.wantArgs)
			}
		})
	}
}

func TestFragmentRenderMismatch(t *testing.T) {
	t.Parallel()
	f := NewFragment(Postgres)
	f.AppendExpr("a = ? AND b = ?", Int(1))
	if _, _, err := f.Render(); !errors.Is(err, ErrPlaceholderMismatch) {
		t.Errorf("err = %v, want ErrPlaceholderMismatch", err)
	}
	f = NewFragment(MySQL)
	f.AppendExpr("a = ?", Int(1), Int(2))
	if _, _, err := f.Render(); !errors.Is(err, ErrPlaceholderMismatch) {
		t.Errorf("err = %v, want ErrPlaceholderMismatch", err)
	}
}

func TestConflictClause(t *testing.T) {
	t.Parallel()
	targets := []string{"id"}
	actions := []string{"name", "age"}
	if got := Postgres.conflictClause(targets, actions); got != " ON CONFLICT(id) DO UPDATE SET name = EXCLUDED.name, age = EXCLUDED.age" {
		t.Errorf("postgres: %q", got)
	}
	if got := Sqlite.conflictClause(targets, nil); got != " ON CONFLICT(id) DO NOTHING" {
		t.Errorf("sqlite: %q", got)
	}
	if got := MySQL.conflictClause(targets, actions); got != " ON DUPLICATE KEY UPDATE name = VALUES(name), age = VALUES(age)" {
		t.Errorf("mysql: %q", got)
	}
	if got := MySQL.conflictClause(targets, nil); got != " ON DUPLICATE KEY UPDATE id = id" {
		t.Errorf("mysql no-op: %q", got)
	}
}
