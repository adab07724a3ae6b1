package sqlkit

import (
	"strconv"
	"strings"
)

// Dialect selects the SQL variant used when a statement is rendered. All
// builder logic is dialect-agnostic; the dialect is consumed only at render
// time for placeholder style and conflict-clause syntax.
type Dialect int

const (
	Sqlite Dialect = iota
	MySQL
	Postgres
)

func (d Dialect) String() string {
	switch d {
	case Sqlite:
		return "sqlite"
	case MySQL:
		return "mysql"
	case Postgres:
		return "postgres"
	}
	return "unknown"
}

// SupportsReturning reports whether the dialect accepts a RETURNING clause.
func (d Dialect) SupportsReturning() bool {
	return d != MySQL
}

// placeholders renders the text of a fragment for this dialect. The input uses
// one "?" marker per bound value; Postgres markers are rewritten to $1..$n in
// order. Markers inside single-quoted literal runs are left untouched. The
// returned count is the number of markers seen.
func (d Dialect) placeholders(text string) (string, int) {
	if !strings.ContainsRune(text, '?') {
		return text, 0
	}
	var out strings.Builder
	out.Grow(len(text) + 16)
	n := 0
	quoted := false
	for _, r := range text {
		switch {
		case r == '\'':
			quoted = !quoted
			out.WriteRune(r)
		case r == '?' && !quoted:
			n++
			if d == Postgres {
				out.WriteByte('$')
				out.WriteString(strconv.Itoa(n))
			} else {
				out.WriteByte('?')
			}
		default:
			out.WriteRune(r)
		}
	}
	return out.String(), n
}

// conflictClause renders the upsert clause for this dialect. Targets are the
// conflict (unique) columns, actions the columns to overwrite on conflict. An
// empty action list renders the dialect's "do nothing" form.
func (d Dialect) conflictClause(targets, actions []string) string {
	if d == MySQL {
		if len(actions) == 0 {
			// MySQL has no DO NOTHING; updating a key column to itself is
			// the conventional no-op form.
			col := targets[0]
			return " ON DUPLICATE KEY UPDATE " + col + " = " + col
		}
		set := make([]string, 0, len(actions))
		for _, col := range actions {
			set = append(set, col+" = VALUES("+col+")")
		}
		return " ON DUPLICATE KEY UPDATE " + strings.Join(set, ", ")
	}
	clause := " ON CONFLICT(" + strings.Join(targets, ", ") + ")"
	if len(actions) == 0 {
		return clause + " DO NOTHING"
	}
	set := make([]string, 0, len(actions))
	for _, col := range actions {
		set = append(set, col+" = EXCLUDED."+col)
	}
	return clause + " DO UPDATE SET " + strings.Join(set, ", ")
}
