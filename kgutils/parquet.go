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
// File Name:  parquet.go
//
// ==========================================================================

package kgutils

import (
	"bytes"
	"context"
	"strconv"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/apache/arrow/go/v18/parquet"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// dataTypeForArrow maps arrow types onto the four table datatypes; anything
// without a direct counterpart is kept as its string rendering
func dataTypeForArrow(dt arrow.DataType) DataType {

	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return Int64
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return Float64
	case arrow.BOOL:
		return Bool
	case arrow.DICTIONARY:
		if dict, ok := dt.(*arrow.DictionaryType); ok {
			return dataTypeForArrow(dict.ValueType)
		}
	}
	return String
}

func arrowType(dt DataType) arrow.DataType {

	switch dt {
	case Int64:
		return arrow.PrimitiveTypes.Int64
	case Float64:
		return arrow.PrimitiveTypes.Float64
	case Bool:
		return arrow.FixedWidthTypes.Boolean
	}
	return arrow.BinaryTypes.String
}

// ReadParquet decodes a parquet file held in memory
func ReadParquet(ctx context.Context, data []byte, file string) (*Table, error) {

	mem := memory.DefaultAllocator

	atbl, err := pqarrow.ReadTable(ctx, bytes.NewReader(data), parquet.NewReaderProperties(mem),
		pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, &IOError{Op: "decode parquet", Path: file, Err: err}
	}
	defer atbl.Release()

	cols := make([]*Column, 0, int(atbl.NumCols()))

	for i := 0; i < int(atbl.NumCols()); i++ {
		acol := atbl.Column(i)
		dt := dataTypeForArrow(acol.DataType())

		col := &Column{Name: acol.Name(), Type: dt, Values: make([]Value, 0, acol.Len())}

		for _, chunk := range acol.Data().Chunks() {
			for j := 0; j < chunk.Len(); j++ {
				if chunk.IsNull(j) {
					col.Values = append(col.Values, Null())
					continue
				}
				val, err := NewValue(dt, chunk.ValueStr(j))
				if err != nil {
					return nil, &ParseError{File: file, Line: len(col.Values) + 1, Reason: "column " + acol.Name(), Err: err}
				}
				col.Values = append(col.Values, val)
			}
		}

		cols = append(cols, col)
	}

	tbl, err := NewTable(cols...)
	if err != nil {
		return nil, err
	}
	tbl.rows = int(atbl.NumRows())
	return tbl, nil
}

// WriteParquet encodes a table as a single-row-group parquet file
func WriteParquet(tbl *Table) ([]byte, error) {

	mem := memory.DefaultAllocator

	fields := make([]arrow.Field, tbl.NumCols())
	for i, col := range tbl.Columns() {
		fields[i] = arrow.Field{Name: col.Name, Type: arrowType(col.Type), Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	bldr := array.NewRecordBuilder(mem, schema)
	defer bldr.Release()

	for i, col := range tbl.Columns() {
		if err := appendColumn(bldr.Field(i), col); err != nil {
			return nil, err
		}
	}

	rec := bldr.NewRecord()
	defer rec.Release()

	var buf bytes.Buffer

	wrtr, err := pqarrow.NewFileWriter(schema, &buf, parquet.NewWriterProperties(), pqarrow.DefaultWriterProps())
	if err != nil {
		return nil, err
	}
	if err := wrtr.Write(rec); err != nil {
		wrtr.Close()
		return nil, err
	}
	if err := wrtr.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func appendColumn(fb array.Builder, col *Column) error {

	for _, v := range col.Values {
		if !v.Valid {
			fb.AppendNull()
			continue
		}

		switch b := fb.(type) {
		case *array.Int64Builder:
			n, err := strconv.ParseInt(v.Text, 10, 64)
			if err != nil {
				return &TypeMismatchError{Column: col.Name, Left: Int64, Right: String, Value: v.Text}
			}
			b.Append(n)
		case *array.Float64Builder:
			f, err := strconv.ParseFloat(v.Text, 64)
			if err != nil {
				return &TypeMismatchError{Column: col.Name, Left: Float64, Right: String, Value: v.Text}
			}
			b.Append(f)
		case *array.BooleanBuilder:
			ok, err := strconv.ParseBool(v.Text)
			if err != nil {
				return &TypeMismatchError{Column: col.Name, Left: Bool, Right: String, Value: v.Text}
			}
			b.Append(ok)
		case *array.StringBuilder:
			b.Append(v.Text)
		}
	}

	return nil
}
