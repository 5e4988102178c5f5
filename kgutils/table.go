// ===========================================================================
//
//                            PUBLIC DOMAIN NOTICE
//            National Center for Biotechnology Information (NCBI)
//
//  This software/database is a "United States Government Work" under the
//  terms of the United States Copyright Act. It was written as part of
//  the author's official duties as a United States Government employee and
//  thus cannot be copyrighted. This software/database is freely available
//  to the public for use. The National Library of Medicine and the U.S.
//  Government do not place any restriction on its use or reproduction.
//  We would, however, appreciate having the NCBI and the author cited in
//  any work or product based on this material.
//
//  Although all reasonable efforts have been taken to ensure the accuracy
//  and reliability of the software and data, the NLM and the U.S.
//  Government do not and cannot warrant the performance or results that
//  may be obtained by using this software or data. The NLM and the U.S.
//  Government disclaim all warranties, express or implied, including
//  warranties of performance, merchantability or fitness for any particular
//  purpose.
//
// ===========================================================================
//
// File Name:  table.go
//
// ==========================================================================

package kgutils

import (
	"fmt"
	"strconv"
	"strings"
)

// DataType is the scalar type shared by every value in a column
type DataType int

// column datatypes
const (
	String DataType = iota
	Int64
	Float64
	Bool
)

var dataTypeNames = map[DataType]string{
	String:  "string",
	Int64:   "int64",
	Float64: "float64",
	Bool:    "bool",
}

func (dt DataType) String() string {

	if str, ok := dataTypeNames[dt]; ok {
		return str
	}
	return "unknown(" + strconv.Itoa(int(dt)) + ")"
}

// Value is a nullable scalar held as its canonical text form. Keeping every
// datatype as text lets join keys compare by representation.
type Value struct {
	Text  string
	Valid bool
}

// Null returns the missing value
func Null() Value {
	return Value{}
}

// Str wraps non-null text
func Str(str string) Value {
	return Value{Text: str, Valid: true}
}

// IsNull reports a missing value
func (v Value) IsNull() bool {
	return !v.Valid
}

func (v Value) String() string {

	if !v.Valid {
		return ""
	}
	return v.Text
}

// NewValue canonicalizes raw text for a datatype. Empty text is null.
func NewValue(dt DataType, raw string) (Value, error) {

	if raw == "" {
		return Null(), nil
	}

	switch dt {
	case Int64:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return Null(), err
		}
		return Str(strconv.FormatInt(n, 10)), nil
	case Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Null(), err
		}
		return Str(strconv.FormatFloat(f, 'g', -1, 64)), nil
	case Bool:
		// case-insensitive, matching type inference
		b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(raw)))
		if err != nil {
			return Null(), err
		}
		return Str(strconv.FormatBool(b)), nil
	}

	return Str(raw), nil
}

// Column is a named, homogeneously typed sequence of nullable values
type Column struct {
	Name   string
	Type   DataType
	Values []Value
}

// NewStringColumn builds a String column, treating empty strings as null
func NewStringColumn(name string, values ...string) *Column {

	col := &Column{Name: name, Type: String, Values: make([]Value, len(values))}
	for i, str := range values {
		if str != "" {
			col.Values[i] = Str(str)
		}
	}
	return col
}

// NewTypedColumn canonicalizes raw text for the given datatype
func NewTypedColumn(name string, dt DataType, values ...string) (*Column, error) {

	col := &Column{Name: name, Type: dt, Values: make([]Value, len(values))}
	for i, str := range values {
		val, err := NewValue(dt, str)
		if err != nil {
			return nil, &TypeMismatchError{Column: name, Left: dt, Right: String, Value: str}
		}
		col.Values[i] = val
	}
	return col, nil
}

// NullColumn returns a column of n nulls
func NullColumn(name string, dt DataType, n int) *Column {

	return &Column{Name: name, Type: dt, Values: make([]Value, n)}
}

// renamed shares the value slice, columns are never written after construction
func (c *Column) renamed(name string) *Column {

	return &Column{Name: name, Type: c.Type, Values: c.Values}
}

// gather picks values by row index, -1 yields null
func (c *Column) gather(name string, dt DataType, idx []int) *Column {

	out := &Column{Name: name, Type: dt, Values: make([]Value, len(idx))}
	for i, r := range idx {
		if r >= 0 {
			out.Values[i] = c.Values[r]
		}
	}
	return out
}

// NullCount returns the number of missing values
func (c *Column) NullCount() int {

	n := 0
	for _, v := range c.Values {
		if !v.Valid {
			n++
		}
	}
	return n
}

// Table is an ordered set of uniquely named columns of equal length.
// Operations return new tables and leave their inputs untouched.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable checks name uniqueness and equal column lengths
func NewTable(cols ...*Column) (*Table, error) {

	tbl := &Table{index: make(map[string]int, len(cols))}

	for i, col := range cols {
		if col == nil {
			return nil, &SchemaError{Reason: fmt.Sprintf("column %d is nil", i)}
		}
		if _, dup := tbl.index[col.Name]; dup {
			return nil, &SchemaError{Column: col.Name, Reason: "duplicate column name"}
		}
		if i == 0 {
			tbl.rows = len(col.Values)
		} else if len(col.Values) != tbl.rows {
			return nil, &SchemaError{Column: col.Name, Reason: fmt.Sprintf("has %d rows, expected %d", len(col.Values), tbl.rows)}
		}
		tbl.index[col.Name] = i
		tbl.columns = append(tbl.columns, col)
	}

	return tbl, nil
}

// MustTable is NewTable for literals known to be well formed
func MustTable(cols ...*Column) *Table {

	tbl, err := NewTable(cols...)
	if err != nil {
		panic(err)
	}
	return tbl
}

// EmptyTable declares columns with zero rows, used to seed a merge
func EmptyTable(dt DataType, names ...string) (*Table, error) {

	cols := make([]*Column, len(names))
	for i, name := range names {
		cols[i] = &Column{Name: name, Type: dt}
	}
	return NewTable(cols...)
}

// NumRows returns the shared column length
func (t *Table) NumRows() int {
	return t.rows
}

// NumCols returns the column count
func (t *Table) NumCols() int {
	return len(t.columns)
}

// Shape returns rows and columns
func (t *Table) Shape() (int, int) {
	return t.rows, len(t.columns)
}

// Names lists column names in order
func (t *Table) Names() []string {

	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Has reports whether a column exists
func (t *Table) Has(name string) bool {

	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {

	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Columns returns the column list; callers must not modify it
func (t *Table) Columns() []*Column {
	return t.columns
}

// Value fetches one cell
func (t *Table) Value(row int, name string) (Value, bool) {

	col, ok := t.Column(name)
	if !ok || row < 0 || row >= t.rows {
		return Null(), false
	}
	return col.Values[row], true
}

// Rename changes one column name
func (t *Table) Rename(from, to string) (*Table, error) {

	i, ok := t.index[from]
	if !ok {
		return nil, &SchemaError{Column: from, Reason: "column not found"}
	}
	if from == to {
		return t, nil
	}
	if t.Has(to) {
		return nil, &SchemaError{Column: to, Reason: "rename target already exists"}
	}

	cols := append([]*Column(nil), t.columns...)
	cols[i] = cols[i].renamed(to)
	return NewTable(cols...)
}

// Drop removes the named columns, ignoring names that are absent
func (t *Table) Drop(names ...string) *Table {

	skip := make(map[string]bool, len(names))
	for _, name := range names {
		skip[name] = true
	}

	var cols []*Column
	for _, col := range t.columns {
		if !skip[col.Name] {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		return &Table{index: map[string]int{}}
	}
	return MustTable(cols...)
}

// Select projects the named columns in the given order
func (t *Table) Select(names ...string) (*Table, error) {

	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		col, ok := t.Column(name)
		if !ok {
			return nil, &SchemaError{Column: name, Reason: "column not found"}
		}
		cols = append(cols, col)
	}
	return NewTable(cols...)
}

// WithColumn replaces a same-named column in place or appends a new one
func (t *Table) WithColumn(col *Column) (*Table, error) {

	if len(t.columns) > 0 && len(col.Values) != t.rows {
		return nil, &SchemaError{Column: col.Name, Reason: fmt.Sprintf("has %d rows, expected %d", len(col.Values), t.rows)}
	}

	cols := append([]*Column(nil), t.columns...)
	if i, ok := t.index[col.Name]; ok {
		cols[i] = col
	} else {
		cols = append(cols, col)
	}
	return NewTable(cols...)
}

// Take gathers rows by index; -1 produces an all-null row
func (t *Table) Take(idx []int) *Table {

	cols := make([]*Column, len(t.columns))
	for i, col := range t.columns {
		cols[i] = col.gather(col.Name, col.Type, idx)
	}
	out := MustTable(cols...)
	out.rows = len(idx)
	return out
}

// Filter keeps rows for which keep returns true
func (t *Table) Filter(keep func(row int) bool) *Table {

	var idx []int
	for r := 0; r < t.rows; r++ {
		if keep(r) {
			idx = append(idx, r)
		}
	}
	if idx == nil {
		idx = []int{}
	}
	return t.Take(idx)
}

// Head keeps at most n leading rows
func (t *Table) Head(n int) *Table {

	if n >= t.rows {
		return t
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Take(idx)
}

// Equal compares names, datatypes and values, in order
func (t *Table) Equal(other *Table) bool {

	if t == nil || other == nil {
		return t == other
	}
	if t.rows != other.rows || len(t.columns) != len(other.columns) {
		return false
	}
	for i, col := range t.columns {
		oc := other.columns[i]
		if col.Name != oc.Name || col.Type != oc.Type {
			return false
		}
		for r, v := range col.Values {
			if v != oc.Values[r] {
				return false
			}
		}
	}
	return true
}

// String renders a small tab-separated preview, mostly for test failures
func (t *Table) String() string {

	var buffer strings.Builder

	buffer.WriteString(strings.Join(t.Names(), "\t"))
	buffer.WriteString("\n")
	for r := 0; r < t.rows; r++ {
		for i, col := range t.columns {
			if i > 0 {
				buffer.WriteString("\t")
			}
			if col.Values[r].Valid {
				buffer.WriteString(col.Values[r].Text)
			} else {
				buffer.WriteString("<null>")
			}
		}
		buffer.WriteString("\n")
	}

	return buffer.String()
}
