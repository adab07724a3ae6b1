package sqlkit

import (
	"sync"
)

// FilterFunc returns an extra predicate for a table, e.g. a tenant scope.
// Returning ok == false leaves the statement alone.
type FilterFunc func(table string) (cond string, args []interface{}, ok bool)

// SoftDeleteRule marks rows deleted by flipping a boolean column instead of
// removing them. Reads gain a "column = FALSE" predicate, deletes become
// updates, and excluded tables keep physical delete semantics.
type SoftDeleteRule struct {
	Column  string
	Exclude []string
}

func (r *SoftDeleteRule) appliesTo(table string) bool {
	if r == nil || r.Column == "" {
		return false
	}
	for _, t := range r.Exclude {
		if t == table {
			return false
		}
	}
	return true
}

// Interception rewrites statements before they render: the soft-delete
// predicate first, then the global filter, then whatever the caller adds.
// The zero value intercepts nothing.
type Interception struct {
	softDelete    *SoftDeleteRule
	filter        FilterFunc
	filterExclude []string
}

// SetSoftDelete enables soft deletion on the boolean column for every table
// except the excluded ones.
func (i *Interception) SetSoftDelete(column string, exclude ...string) *Interception {
	i.softDelete = &SoftDeleteRule{Column: column, Exclude: exclude}
	return i
}

// SetFilter installs a global filter for every table except the excluded
// ones.
func (i *Interception) SetFilter(fn FilterFunc, exclude ...string) *Interception {
	i.filter = fn
	i.filterExclude = exclude
	return i
}

// softDeleteColumn reports the soft-delete column for a table, if the rule
// applies to it.
func (i *Interception) softDeleteColumn(table string) (string, bool) {
	if !i.softDelete.appliesTo(table) {
		return "", false
	}
	return i.softDelete.Column, true
}

func (i *Interception) filterFor(table string) (string, []interface{}, bool) {
	if i.filter == nil {
		return "", nil, false
	}
	for _, t := range i.filterExclude {
		if t == table {
			return "", nil, false
		}
	}
	return i.filter(table)
}

// apply adds the interception predicates to a statement's conditions. Called
// before any caller predicates, so the injected ones always come first and
// value order stays deterministic.
func (i *Interception) apply(table string, c *sqlConditions) {
	if column, ok := i.softDeleteColumn(table); ok {
		c.add("AND", column+" = ?", []Value{Bool(false)})
	}
	if cond, args, ok := i.filterFor(table); ok {
		c.add("AND", cond, toValues(args))
	}
}

// Process-wide interception, used by every Table that has no explicit
// override. Guarded so tables on different goroutines see a consistent
// snapshot.
var (
	globalMu           sync.RWMutex
	globalInterception Interception
)

// SetSoftDelete enables soft deletion process-wide. See
// Interception.SetSoftDelete.
func SetSoftDelete(column string, exclude ...string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalInterception.SetSoftDelete(column, exclude...)
}

// SetGlobalFilter installs a process-wide filter. See Interception.SetFilter.
func SetGlobalFilter(fn FilterFunc, exclude ...string) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalInterception.SetFilter(fn, exclude...)
}

// ResetInterception removes the process-wide soft-delete rule and filter.
func ResetInterception() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalInterception = Interception{}
}

func currentInterception() Interception {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalInterception
}
