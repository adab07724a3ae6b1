package sqlkit

import (
	"encoding/json"
	"fmt"
	"math"
	"net"
	"net/netip"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies the scalar kind carried by a Value.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindFloat
	KindText
	KindBool
	KindTime
	KindBytes
	KindUUID
	KindJSON
	KindDecimal
	KindInet
	KindMacAddr
)

// Value is the uniform runtime representation of a bound scalar crossing the
// builder/driver boundary. Null is a distinct kind, not absence; absence is
// expressed by Field.Present.
type Value struct {
	kind Kind
	data interface{}
}

func Null() Value                      { return Value{kind: KindNull} }
func Int(v int64) Value                { return Value{kind: KindInt, data: v} }
func Float(v float64) Value            { return Value{kind: KindFloat, data: v} }
func Text(v string) Value              { return Value{kind: KindText, data: v} }
func Bool(v bool) Value                { return Value{kind: KindBool, data: v} }
func Time(v time.Time) Value           { return Value{kind: KindTime, data: v} }
func Bytes(v []byte) Value             { return Value{kind: KindBytes, data: v} }
func UUID(v uuid.UUID) Value           { return Value{kind: KindUUID, data: v} }
func JSON(v json.RawMessage) Value     { return Value{kind: KindJSON, data: v} }
func Decimal(v decimal.Decimal) Value  { return Value{kind: KindDecimal, data: v} }
func Inet(v netip.Addr) Value          { return Value{kind: KindInet, data: v} }
func MacAddr(v net.HardwareAddr) Value { return Value{kind: KindMacAddr, data: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Bind returns the driver-facing argument for this value. Kinds without a
// driver-native representation (inet, MAC) bind as their text form.
func (v Value) Bind() interface{} {
	switch v.kind {
	case KindNull:
		return nil
	case KindJSON:
		return string(v.data.(json.RawMessage))
	case KindInet:
		return v.data.(netip.Addr).String()
	case KindMacAddr:
		return v.data.(net.HardwareAddr).String()
	default:
		return v.data
	}
}

func (v Value) String() string {
	if v.kind == KindNull {
		return "NULL"
	}
	return fmt.Sprint(v.data)
}

// toValue converts an arbitrary Go value into a Value. Pointers are
// dereferenced; nil pointers and nil interfaces become Null. Maps, slices and
// structs without a dedicated kind are marshaled to JSON.
func toValue(in interface{}) Value {
	switch v := in.(type) {
	case nil:
		return Null()
	case Value:
		return v
	case bool:
		return Bool(v)
	case int:
		return Int(int64(v))
	case int8:
		return Int(int64(v))
	case int16:
		return Int(int64(v))
	case int32:
		return Int(int64(v))
	case int64:
		return Int(v)
	case uint:
		return Int(int64(v))
	case uint8:
		return Int(int64(v))
	case uint16:
		return Int(int64(v))
	case uint32:
		return Int(int64(v))
	case uint64:
		if v > math.MaxInt64 {
			// out of int64 range; bind as text instead of wrapping negative
			return Text(strconv.FormatUint(v, 10))
		}
		return Int(int64(v))
	case float32:
		return Float(float64(v))
	case float64:
		return Float(v)
	case string:
		return Text(v)
	case []byte:
		return Bytes(v)
	case time.Time:
		return Time(v)
	case uuid.UUID:
		return UUID(v)
	case decimal.Decimal:
		return Decimal(v)
	case json.RawMessage:
		return JSON(v)
	case netip.Addr:
		return Inet(v)
	case net.HardwareAddr:
		return MacAddr(v)
	}

	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Ptr:
		if rv.IsNil() {
			return Null()
		}
		return toValue(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Struct:
		j, err := json.Marshal(in)
		if err == nil {
			return JSON(j)
		}
	}
	return Text(fmt.Sprint(in))
}

// toValues converts a list of arbitrary Go values.
func toValues(in []interface{}) []Value {
	out := make([]Value, len(in))
	for i, v := range in {
		out[i] = toValue(v)
	}
	return out
}
