package sqlkit

import (
	"encoding/json"
	"fmt"
	"net"
	"net/netip"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gopsql/db"
	"github.com/shopspring/decimal"
)

// columnList is the schema's columns in declaration order, for SELECT lists.
// Statements built by Table always select this list, so rows scan positionally
// without consulting result metadata.
func (s *schema) columnList() string {
	columns := make([]string, len(s.fields))
	for i, f := range s.fields {
		columns[i] = f.column
	}
	return strings.Join(columns, ", ")
}

// scanTargets returns one scan destination per column, in declaration order.
// rv must be an addressable struct value. Types that bind as text on the way
// in (inet, MAC) get matching text scanners on the way out; maps, slices and
// plain structs get JSON scanners, mirroring the encoding rules in toValue.
func (s *schema) scanTargets(rv reflect.Value) []interface{} {
	targets := make([]interface{}, len(s.fields))
	for i, f := range s.fields {
		fv := rv.FieldByIndex(f.index)
		switch fv.Type() {
		case inetType:
			targets[i] = textScanner{dest: fv.Addr().Interface().(*netip.Addr)}
		case macType:
			targets[i] = macScanner{dest: fv.Addr().Interface().(*net.HardwareAddr)}
		default:
			if needsJSONScan(fv.Type()) {
				targets[i] = jsonScanner{dest: fv.Addr().Interface()}
			} else {
				targets[i] = fv.Addr().Interface()
			}
		}
	}
	return targets
}

var (
	inetType = reflect.TypeOf(netip.Addr{})
	macType  = reflect.TypeOf(net.HardwareAddr(nil))
)

// needsJSONScan reports whether a field type round-trips through a JSON
// column.
func needsJSONScan(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t {
	case reflect.TypeOf(time.Time{}),
		reflect.TypeOf(uuid.UUID{}),
		reflect.TypeOf(decimal.Decimal{}),
		reflect.TypeOf([]byte(nil)),
		inetType,
		macType:
		return false
	}
	switch t.Kind() {
	case reflect.Map, reflect.Slice, reflect.Struct:
		return true
	}
	return false
}

// textScanner fills a netip.Addr from its text form.
type textScanner struct {
	dest *netip.Addr
}

func (t textScanner) Scan(src interface{}) error {
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		return t.dest.UnmarshalText(s)
	case string:
		return t.dest.UnmarshalText([]byte(s))
	}
	return fmt.Errorf("cannot scan %T into inet field", src)
}

// macScanner fills a net.HardwareAddr from its text form.
type macScanner struct {
	dest *net.HardwareAddr
}

func (m macScanner) Scan(src interface{}) error {
	var text string
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		text = string(s)
	case string:
		text = s
	default:
		return fmt.Errorf("cannot scan %T into macaddr field", src)
	}
	addr, err := net.ParseMAC(text)
	if err != nil {
		return err
	}
	*m.dest = addr
	return nil
}

// jsonScanner unmarshals a JSON column into a struct, map or slice field.
type jsonScanner struct {
	dest interface{}
}

func (j jsonScanner) Scan(src interface{}) error {
	var data []byte
	switch s := src.(type) {
	case nil:
		return nil
	case []byte:
		data = s
	case string:
		data = []byte(s)
	default:
		return fmt.Errorf("cannot scan %T into JSON field", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, j.dest)
}

// scanOne scans a single row into a new T.
func scanOne[T any](s *schema, row db.Scannable) (*T, error) {
	item := new(T)
	rv := reflect.ValueOf(item).Elem()
	if err := row.Scan(s.scanTargets(rv)...); err != nil {
		return nil, err
	}
	return item, nil
}

// scanAll drains rows into a slice of T, closing rows on the way out.
func scanAll[T any](s *schema, rows db.Rows) ([]T, error) {
	defer rows.Close()
	var items []T
	for rows.Next() {
		var item T
		rv := reflect.ValueOf(&item).Elem()
		if err := rows.Scan(s.scanTargets(rv)...); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
