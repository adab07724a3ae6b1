package sqlkit

import (
	"errors"
	"math"
	"testing"
)

func TestPageBounds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		page, size uint64
		limit      int64
		offset     int64
		wantErr    bool
	}{
		{"first page", 1, 10, 10, 0, false},
		{"third page", 3, 25, 25, 50, false},
		{"page zero", 0, 10, 0, 0, true},
		{"size zero", 1, 0, 0, 0, true},
		{"offset overflow", math.MaxUint64, math.MaxUint64, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset, err := pageBounds(tt.page, tt.size)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPage) {
					t.Fatalf("err = %v, want ErrInvalidPage", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if limit != tt.limit || offset != tt.offset {
				t.Errorf("bounds = (%d, %d), want (%d, %d)", limit, offset, tt.limit, tt.offset)
			}
		})
	}
}

func TestNewPaginatedResult(t *testing.T) {
	t.Parallel()
	r := newPaginatedResult([]int{1, 2, 3}, 23, 1, 10)
	if r.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", r.TotalPages)
	}
	r = newPaginatedResult([]int{}, 0, 1, 10)
	if r.TotalPages != 0 {
		t.Errorf("TotalPages = %d, want 0", r.TotalPages)
	}
	r = newPaginatedResult([]int{1}, 10, 1, 10)
	if r.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", r.TotalPages)
	}
}

func TestCursorApply(t *testing.T) {
	t.Parallel()
	m := NewModel("events", Key("id", true))

	sql, args, err := Cursor{Column: "id", PageSize: 10, After: 100}.apply(m.Select("id")).Render()
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT id FROM events WHERE id > $1 ORDER BY id ASC LIMIT $2"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 2 || args[0] != int64(100) || args[1] != int64(11) {
		t.Errorf("args = %v", args)
	}

	sql, _, err = Cursor{Column: "id", Desc: true, PageSize: 5}.apply(m.Select("id")).Render()
	if err != nil {
		t.Fatal(err)
	}
	want = "SELECT id FROM events ORDER BY id DESC LIMIT $1"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
}

func TestCursorValidate(t *testing.T) {
	t.Parallel()
	if err := (Cursor{Column: "", PageSize: 10}).validate(); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("missing column: err = %v", err)
	}
	if err := (Cursor{Column: "id", PageSize: 0}).validate(); !errors.Is(err, ErrInvalidPage) {
		t.Errorf("zero size: err = %v", err)
	}
}
