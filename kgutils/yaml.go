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
// File Name:  yaml.go
//
// ==========================================================================

package kgutils

import (
	"fmt"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
)

// decodeYAML converts YAML to JSON and decodes it, so configuration structs
// only carry json tags
func decodeYAML(data []byte, v interface{}) error {

	buff, err := yaml.YAMLToJSON(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(buff, v)
}

// recordBuilder assembles a table from keyed records, keeping first-seen key
// order and the scalar kinds the decoder reported
type recordBuilder struct {
	file  string
	names []string
	index map[string]int
	cols  []map[int]interface{}
	rows  int
}

func newRecordBuilder(file string) *recordBuilder {
	return &recordBuilder{file: file, index: make(map[string]int)}
}

func (b *recordBuilder) add(rec yaml.MapSlice) {

	for _, item := range rec {
		name := fmt.Sprint(item.Key)
		i, ok := b.index[name]
		if !ok {
			i = len(b.names)
			b.index[name] = i
			b.names = append(b.names, name)
			b.cols = append(b.cols, make(map[int]interface{}))
		}
		if item.Value != nil {
			b.cols[i][b.rows] = item.Value
		}
	}
	b.rows++
}

func kindOf(v interface{}) DataType {

	switch v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int64
	case float32, float64:
		return Float64
	case bool:
		return Bool
	}
	return String
}

func scalarText(v interface{}) string {

	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(val)
	case yaml.MapSlice, []interface{}, map[string]interface{}:
		buff, err := json.Marshal(toJSONValue(val))
		if err == nil {
			return string(buff)
		}
	}
	return fmt.Sprint(v)
}

// toJSONValue rewrites ordered YAML maps so nested values marshal in order
func toJSONValue(v interface{}) interface{} {

	switch val := v.(type) {
	case yaml.MapSlice:
		obj := make(map[string]interface{}, len(val))
		for _, item := range val {
			obj[fmt.Sprint(item.Key)] = toJSONValue(item.Value)
		}
		return obj
	case []interface{}:
		arr := make([]interface{}, len(val))
		for i, elem := range val {
			arr[i] = toJSONValue(elem)
		}
		return arr
	}
	return v
}

func (b *recordBuilder) build() (*Table, error) {

	cols := make([]*Column, len(b.names))

	for i, name := range b.names {
		cells := b.cols[i]

		dt := String
		first := true
		for _, v := range cells {
			kind := kindOf(v)
			switch {
			case first:
				dt = kind
				first = false
			case dt == kind:
			case dt == Int64 && kind == Float64, dt == Float64 && kind == Int64:
				dt = Float64
			default:
				dt = String
			}
		}

		col := &Column{Name: name, Type: dt, Values: make([]Value, b.rows)}
		for r, v := range cells {
			val, err := NewValue(dt, scalarText(v))
			if err != nil {
				return nil, &ParseError{File: b.file, Line: r + 1, Reason: "column " + name, Err: err}
			}
			col.Values[r] = val
		}
		cols[i] = col
	}

	tbl, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	tbl.rows = b.rows
	return tbl, nil
}

// ReadYAMLTable decodes a sequence of mappings, one mapping per row
func ReadYAMLTable(data []byte, file string) (*Table, error) {

	var rows []yaml.MapSlice
	if err := yaml.Unmarshal(data, &rows); err != nil {
		return nil, &ParseError{File: file, Reason: "expected a list of mappings", Err: err}
	}

	bldr := newRecordBuilder(file)
	for _, rec := range rows {
		bldr.add(rec)
	}
	return bldr.build()
}

// typedValue returns the native Go value for encoders; nulls become nil
func typedValue(dt DataType, v Value) interface{} {

	if !v.Valid {
		return nil
	}

	switch dt {
	case Int64:
		if n, err := strconv.ParseInt(v.Text, 10, 64); err == nil {
			return n
		}
	case Float64:
		if f, err := strconv.ParseFloat(v.Text, 64); err == nil {
			return f
		}
	case Bool:
		if ok, err := strconv.ParseBool(v.Text); err == nil {
			return ok
		}
	}
	return v.Text
}

// WriteYAMLTable encodes each row as an ordered mapping
func WriteYAMLTable(tbl *Table) ([]byte, error) {

	rows := make([]yaml.MapSlice, tbl.NumRows())
	cols := tbl.Columns()

	for r := range rows {
		rec := make(yaml.MapSlice, len(cols))
		for i, col := range cols {
			rec[i] = yaml.MapItem{Key: col.Name, Value: typedValue(col.Type, col.Values[r])}
		}
		rows[r] = rec
	}

	return yaml.Marshal(rows)
}
