package sqlkit

import "strings"

// Fragment is an append-only buffer of SQL text interleaved with placeholder
// markers and a parallel ordered list of bound values. Builders write one "?"
// marker per bound value; the marker style of the target dialect is applied at
// render time. Once a value is appended its position is fixed and corresponds
// 1:1 to the marker at the same ordinal position.
type Fragment struct {
	text    strings.Builder
	values  []Value
	dialect Dialect
}

// NewFragment creates an empty fragment for the given dialect.
func NewFragment(d Dialect) *Fragment {
	return &Fragment{dialect: d}
}

// AppendText appends raw SQL text. Any "?" in s is treated as a placeholder
// marker at render time, so callers appending predicates must append exactly
// one value per marker.
func (f *Fragment) AppendText(s string) *Fragment {
	f.text.WriteString(s)
	return f
}

// AppendValue appends one placeholder marker and binds v at the matching
// position.
func (f *Fragment) AppendValue(v Value) *Fragment {
	f.text.WriteByte('?')
	f.values = append(f.values, v)
	return f
}

// AppendValues appends a comma-separated marker list ("?,?,?") binding the
// given values, as used inside IN (...) predicates.
func (f *Fragment) AppendValues(values ...Value) *Fragment {
	for i, v := range values {
		if i > 0 {
			f.text.WriteByte(',')
		}
		f.AppendValue(v)
	}
	return f
}

// AppendExpr appends raw predicate text together with the values bound by its
// markers. The text must contain exactly one "?" per value; the invariant is
// checked when the whole fragment renders.
func (f *Fragment) AppendExpr(s string, values ...Value) *Fragment {
	f.text.WriteString(s)
	f.values = append(f.values, values...)
	return f
}

// AppendFragment splices another fragment: its text is appended verbatim and
// its values are appended in order, preserving ordinal correspondence.
func (f *Fragment) AppendFragment(other *Fragment) *Fragment {
	f.text.WriteString(other.text.String())
	f.values = append(f.values, other.values...)
	return f
}

// Len returns the number of bound values.
func (f *Fragment) Len() int {
	return len(f.values)
}

// Empty reports whether the fragment holds no text.
func (f *Fragment) Empty() bool {
	return f.text.Len() == 0
}

// Render produces the final SQL text with dialect placeholders and the
// driver-facing argument list. It fails with ErrPlaceholderMismatch when the
// marker count differs from the bound value count; that is a construction
// defect, not a recoverable condition.
func (f *Fragment) Render() (string, []interface{}, error) {
	text, markers := f.dialect.placeholders(f.text.String())
	if markers != len(f.values) {
		return "", nil, ErrPlaceholderMismatch
	}
	args := make([]interface{}, len(f.values))
	for i, v := range f.values {
		args[i] = v.Bind()
	}
	return text, args, nil
}
