// Package table implements the generic two-level lookup structure used to
// represent automaton transition tables: an ordered sequence of rows, each
// keyed by column name, with a defaulted missing-key policy shared across the
// whole table.
package table

import (
	"reflect"
	"sort"
)

// Default describes what a Row returns for a column it has no entry for. It
// is either a fixed Constant or a Factory that is invoked fresh on every
// lookup, mirroring the source's "callable vs value" default.
type Default[V any] struct {
	constant   V
	factory    func() V
	hasFactory bool
}

// Const returns a Default that always yields v.
func Const[V any](v V) Default[V] {
	return Default[V]{constant: v}
}

// Factory returns a Default that constructs a fresh value on every lookup.
func Factory[V any](f func() V) Default[V] {
	return Default[V]{factory: f, hasFactory: true}
}

// Value produces the default value, invoking the factory if one is set.
func (d Default[V]) Value() V {
	if d.hasFactory {
		return d.factory()
	}
	return d.constant
}

// Equal compares two defaults. Factories compare by identity (same
// underlying function pointer); constants compare by deep equality.
func (d Default[V]) Equal(o Default[V]) bool {
	if d.hasFactory != o.hasFactory {
		return false
	}
	if d.hasFactory {
		return reflect.ValueOf(d.factory).Pointer() == reflect.ValueOf(o.factory).Pointer()
	}
	return reflect.DeepEqual(d.constant, o.constant)
}

// Row is a defaulted map from column key to value. A missing key yields the
// row's default, constructed fresh if the default is a Factory.
type Row[V any] struct {
	data map[string]V
	def  Default[V]
}

// NewRow creates an empty Row sharing the given default.
func NewRow[V any](def Default[V]) *Row[V] {
	return &Row[V]{data: map[string]V{}, def: def}
}

// RowFrom creates a Row pre-populated from data, sharing the given default.
func RowFrom[V any](data map[string]V, def Default[V]) *Row[V] {
	r := NewRow(def)
	for k, v := range data {
		r.data[k] = v
	}
	return r
}

// Get returns the value at key, or the row's default if key is absent.
func (r *Row[V]) Get(key string) V {
	if v, ok := r.data[key]; ok {
		return v
	}
	return r.def.Value()
}

// Set assigns the value at key.
func (r *Row[V]) Set(key string, v V) {
	r.data[key] = v
}

// Has reports whether key has an explicit entry in the row (not merely a
// defaulted one).
func (r *Row[V]) Has(key string) bool {
	_, ok := r.data[key]
	return ok
}

// Columns returns the sorted list of keys present in the row.
func (r *Row[V]) Columns() []string {
	cols := make([]string, 0, len(r.data))
	for k := range r.data {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Map returns a new Row with every value transformed by f, preserving the
// default.
func (r *Row[V]) Map(f func(V) V) *Row[V] {
	newData := make(map[string]V, len(r.data))
	for k, v := range r.data {
		newData[k] = f(v)
	}
	return &Row[V]{data: newData, def: r.def}
}

// Equal compares the row's data and default against another row.
func (r *Row[V]) Equal(o *Row[V]) bool {
	if o == nil {
		return false
	}
	if !r.def.Equal(o.def) {
		return false
	}
	if len(r.data) != len(o.data) {
		return false
	}
	for k, v := range r.data {
		ov, ok := o.data[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// Table is an ordered sequence of Rows, each normalized to share the table's
// default.
type Table[V any] struct {
	Rows []*Row[V]
	def  Default[V]
}

// New builds a Table from raw row data, normalizing every row to the given
// default.
func New[V any](def Default[V], rows ...map[string]V) *Table[V] {
	t := &Table[V]{def: def}
	for _, row := range rows {
		t.Rows = append(t.Rows, RowFrom(row, def))
	}
	return t
}

// WithEmptyRow returns a table containing a single row with no keys.
func WithEmptyRow[V any](def Default[V]) *Table[V] {
	return New(def, map[string]V{})
}

// Default returns the table's shared default policy.
func (t *Table[V]) Default() Default[V] {
	return t.def
}

// Len returns the number of rows.
func (t *Table[V]) Len() int {
	return len(t.Rows)
}

// Final returns the index of the last row.
func (t *Table[V]) Final() int {
	return len(t.Rows) - 1
}

// Columns returns the sorted union of all row keys.
func (t *Table[V]) Columns() []string {
	seen := map[string]struct{}{}
	for _, row := range t.Rows {
		for _, c := range row.Columns() {
			seen[c] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for c := range seen {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

// Map applies f to every value in the table, row by row.
func (t *Table[V]) Map(f func(V) V) *Table[V] {
	newTable := &Table[V]{def: t.def}
	for _, row := range t.Rows {
		newTable.Rows = append(newTable.Rows, row.Map(f))
	}
	return newTable
}

// AppendRow appends a new row built from data, normalized to the table's
// default, and returns its index.
func (t *Table[V]) AppendRow(data map[string]V) int {
	t.Rows = append(t.Rows, RowFrom(data, t.def))
	return len(t.Rows) - 1
}
