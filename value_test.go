package sqlkit

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestToValue(t *testing.T) {
	t.Parallel()
	now := time.Now()
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	price := decimal.RequireFromString("19.99")

	tests := []struct {
		name     string
		in       interface{}
		wantKind Kind
		wantBind interface{}
	}{
		{"nil", nil, KindNull, nil},
		{"bool", true, KindBool, true},
		{"int", 42, KindInt, int64(42)},
		{"int64", int64(-7), KindInt, int64(-7)},
		{"uint32", uint32(7), KindInt, int64(7)},
		{"uint64 in range", uint64(7), KindInt, int64(7)},
		{"uint64 above int64 binds as text", uint64(1) << 63, KindText, "9223372036854775808"},
		{"float", 1.5, KindFloat, 1.5},
		{"string", "hi", KindText, "hi"},
		{"time", now, KindTime, now},
		{"uuid", id, KindUUID, id},
		{"decimal", price, KindDecimal, price},
		{"raw json", json.RawMessage(`{"a":1}`), KindJSON, `{"a":1}`},
		{"value passthrough", Int(9), KindInt, int64(9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := toValue(tt.in)
			if v.Kind() != tt.wantKind {
				t.Errorf("Kind() = %v, want %v", v.Kind(), tt.wantKind)
			}
			if got := v.Bind(); got != tt.wantBind {
				t.Errorf("Bind() = %#v, want %#v", got, tt.wantBind)
			}
		})
	}
}

func TestToValuePointers(t *testing.T) {
	t.Parallel()
	n := 5
	v := toValue(&n)
	if v.Kind() != KindInt || v.Bind() != int64(5) {
		t.Errorf("pointer deref failed: %v", v)
	}
	var p *int
	if v := toValue(p); !v.IsNull() {
		t.Errorf("nil pointer should be null, got %v", v)
	}
}

func TestToValueJSONFallback(t *testing.T) {
	t.Parallel()
	type meta struct {
		Tags []string `json:"tags"`
	}
	v := toValue(meta{Tags: []string{"a", "b"}})
	if v.Kind() != KindJSON {
		t.Fatalf("Kind() = %v, want KindJSON", v.Kind())
	}
	if got := v.Bind(); got != `{"tags":["a","b"]}` {
		t.Errorf("Bind() = %v", got)
	}
	if v := toValue(map[string]int{"n": 1}); v.Kind() != KindJSON {
		t.Errorf("map should marshal to JSON, got %v", v.Kind())
	}
}

func TestValueString(t *testing.T) {
	t.Parallel()
	if got := Null().String(); got != "NULL" {
		t.Errorf("Null().String() = %q", got)
	}
	if got := Int(3).String(); got != "3" {
		t.Errorf("Int(3).String() = %q", got)
	}
}
