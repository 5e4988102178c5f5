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
// File Name:  join.go
//
// ==========================================================================

package kgutils

import (
	"strings"

	"golang.org/x/sync/errgroup"
)

// RightSuffix marks a right-side column whose name collided during a join
const RightSuffix = "_right"

// MaxKeyColumns bounds the width of a join key
const MaxKeyColumns = 3

// JoinKey is an ordered list of one to three column names
type JoinKey []string

// ParseJoinKey splits a comma-separated key list
func ParseJoinKey(str string) JoinKey {

	var key JoinKey
	for _, name := range strings.Split(str, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			key = append(key, name)
		}
	}
	return key
}

func (k JoinKey) validate() error {

	if len(k) == 0 {
		return &SchemaError{Reason: "join key is empty"}
	}
	if len(k) > MaxKeyColumns {
		return &SchemaError{Reason: "join key has more than 3 columns"}
	}
	seen := make(map[string]bool, len(k))
	for _, name := range k {
		if name == "" {
			return &SchemaError{Reason: "join key has an empty column name"}
		}
		if seen[name] {
			return &SchemaError{Column: name, Reason: "repeated in join key"}
		}
		seen[name] = true
	}
	return nil
}

func (k JoinKey) contains(name string) bool {

	for _, str := range k {
		if str == name {
			return true
		}
	}
	return false
}

// commonType decides whether two datatypes may be compared or combined.
// Identical types stay as they are, a String on exactly one side absorbs the
// other, Int64 widens to Float64, anything else is a mismatch.
func commonType(column string, left, right DataType) (DataType, error) {

	if left == right {
		return left, nil
	}
	if left == String || right == String {
		return String, nil
	}
	if isNumeric(left) && isNumeric(right) {
		return Float64, nil
	}
	return String, &TypeMismatchError{Column: column, Left: left, Right: right}
}

func isNumeric(dt DataType) bool {
	return dt == Int64 || dt == Float64
}

// widen recasts an Int64 column as Float64 so that its canonical text
// compares equal to the same number read as a float; other columns are
// returned as they are
func widen(col *Column, dt DataType) *Column {

	if dt != Float64 || col.Type != Int64 {
		return col
	}

	out := &Column{Name: col.Name, Type: Float64, Values: make([]Value, len(col.Values))}
	for i, v := range col.Values {
		if !v.Valid {
			continue
		}
		wide, err := NewValue(Float64, v.Text)
		if err != nil {
			// canonical Int64 text always parses as a float
			wide = v
		}
		out.Values[i] = wide
	}
	return out
}

// keyText joins canonical key values; ok is false when any part is null
func keyText(cols []*Column, row int) (string, bool) {

	if len(cols) == 1 {
		v := cols[0].Values[row]
		return v.Text, v.Valid
	}

	var buffer strings.Builder
	for i, col := range cols {
		v := col.Values[row]
		if !v.Valid {
			return "", false
		}
		if i > 0 {
			buffer.WriteByte(0)
		}
		buffer.WriteString(v.Text)
	}
	return buffer.String(), true
}

func keyColumns(tbl *Table, key JoinKey, side string) ([]*Column, error) {

	cols := make([]*Column, len(key))
	for i, name := range key {
		col, ok := tbl.Column(name)
		if !ok {
			return nil, &SchemaError{Column: name, Reason: "key column missing from " + side + " table"}
		}
		cols[i] = col
	}
	return cols, nil
}

// outputColumn describes how one result column is gathered
type outputColumn struct {
	name  string
	dtype DataType
	left  *Column
	right *Column
}

// OuterJoin performs a full outer join of left and right on key.
//
// The result holds the key columns once, then every non-key left column, then
// every non-key right column. A right column is renamed with RightSuffix only
// when a left column already uses its name. Rows sharing a key value are
// cross-multiplied; rows that match nothing are kept with the other side's
// columns null. Null key values never match but their rows are emitted.
func OuterJoin(left, right *Table, key JoinKey) (*Table, error) {

	if left == nil || right == nil {
		return nil, &SchemaError{Reason: "join input is nil"}
	}
	if err := key.validate(); err != nil {
		return nil, err
	}

	lkeys, err := keyColumns(left, key, "left")
	if err != nil {
		return nil, err
	}
	rkeys, err := keyColumns(right, key, "right")
	if err != nil {
		return nil, err
	}

	keyTypes := make([]DataType, len(key))
	for i, name := range key {
		dt, err := commonType(name, lkeys[i].Type, rkeys[i].Type)
		if err != nil {
			return nil, err
		}
		keyTypes[i] = dt
		lkeys[i] = widen(lkeys[i], dt)
		rkeys[i] = widen(rkeys[i], dt)
	}

	// build on the right side
	build := make(map[string][]int, right.NumRows())
	for r := 0; r < right.NumRows(); r++ {
		if k, ok := keyText(rkeys, r); ok {
			build[k] = append(build[k], r)
		}
	}

	// probe with the left side, preserving left row order
	lidx := make([]int, 0, left.NumRows())
	ridx := make([]int, 0, left.NumRows())
	matched := make([]bool, right.NumRows())

	for l := 0; l < left.NumRows(); l++ {
		if k, ok := keyText(lkeys, l); ok {
			if rows, hit := build[k]; hit {
				for _, r := range rows {
					lidx = append(lidx, l)
					ridx = append(ridx, r)
					matched[r] = true
				}
				continue
			}
		}
		lidx = append(lidx, l)
		ridx = append(ridx, -1)
	}

	// unmatched right rows follow in right row order
	for r, hit := range matched {
		if !hit {
			lidx = append(lidx, -1)
			ridx = append(ridx, r)
		}
	}

	plan, err := planJoinColumns(left, right, key, lkeys, rkeys, keyTypes)
	if err != nil {
		return nil, err
	}

	cols := make([]*Column, len(plan))

	var g errgroup.Group
	g.SetLimit(NumWorkers())

	for i, oc := range plan {
		i, oc := i, oc
		g.Go(func() error {
			cols[i] = assembleColumn(oc, lidx, ridx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	out.rows = len(lidx)
	return out, nil
}

func planJoinColumns(left, right *Table, key JoinKey, lkeys, rkeys []*Column, keyTypes []DataType) ([]outputColumn, error) {

	var plan []outputColumn
	used := make(map[string]bool, left.NumCols()+right.NumCols())

	for i, name := range key {
		plan = append(plan, outputColumn{name: name, dtype: keyTypes[i], left: lkeys[i], right: rkeys[i]})
		used[name] = true
	}

	for _, col := range left.Columns() {
		if key.contains(col.Name) {
			continue
		}
		plan = append(plan, outputColumn{name: col.Name, dtype: col.Type, left: col})
		used[col.Name] = true
	}

	for _, col := range right.Columns() {
		if key.contains(col.Name) {
			continue
		}
		name := col.Name
		if used[name] {
			name += RightSuffix
			if used[name] || (right.Has(name) && !key.contains(name)) {
				return nil, &SchemaError{Column: name, Reason: "collision suffix clashes with an existing column; add '" + col.Name + "' to the coalesce list"}
			}
		}
		plan = append(plan, outputColumn{name: name, dtype: col.Type, right: col})
		used[name] = true
	}

	return plan, nil
}

// assembleColumn gathers one output column; key columns take the left value
// when the row has a left side and the right value otherwise
func assembleColumn(oc outputColumn, lidx, ridx []int) *Column {

	out := &Column{Name: oc.name, Type: oc.dtype, Values: make([]Value, len(lidx))}

	for i := range lidx {
		switch {
		case oc.left != nil && lidx[i] >= 0:
			out.Values[i] = oc.left.Values[lidx[i]]
		case oc.right != nil && ridx[i] >= 0:
			out.Values[i] = oc.right.Values[ridx[i]]
		}
	}

	return out
}
