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
// File Name:  format.go
//
// ==========================================================================

package kgutils

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"
)

// Format identifies an on-disk table encoding
type Format int

// supported formats
const (
	FormatDelimited Format = iota
	FormatParquet
	FormatJSON
	FormatJSONL
	FormatYAML
	FormatXLSX
)

var formatNames = map[string]Format{
	"tsv":     FormatDelimited,
	"csv":     FormatDelimited,
	"txt":     FormatDelimited,
	"parquet": FormatParquet,
	"json":    FormatJSON,
	"jsonl":   FormatJSONL,
	"ndjson":  FormatJSONL,
	"yaml":    FormatYAML,
	"yml":     FormatYAML,
	"xlsx":    FormatXLSX,
}

// ParseFormat accepts an extension or format name, without the dot
func ParseFormat(str string) (Format, bool) {

	f, ok := formatNames[strings.ToLower(strings.TrimPrefix(str, "."))]
	return f, ok
}

// FileType describes how a location is encoded
type FileType struct {
	Format    Format
	Delimiter string
	Gzip      bool
}

// DetectFormat inspects the file extension; unknown extensions are read as
// tab-delimited text
func DetectFormat(location string) FileType {

	name := strings.ToLower(path.Base(strings.ReplaceAll(location, "\\", "/")))

	ft := FileType{Format: FormatDelimited, Delimiter: "\t"}

	if strings.HasSuffix(name, ".gz") {
		ft.Gzip = true
		name = strings.TrimSuffix(name, ".gz")
	}

	ext := path.Ext(name)
	if f, ok := ParseFormat(ext); ok {
		ft.Format = f
	}
	if ext == ".csv" {
		ft.Delimiter = ","
	}

	return ft
}

// DecodeTable parses a complete in-memory object
func DecodeTable(ctx context.Context, data []byte, ft FileType, file string, opts ReadOptions) (*Table, error) {

	if ft.Gzip {
		zr, err := pgzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, &IOError{Op: "decompress", Path: file, Err: err}
		}
		defer zr.Close()
		if ft.Format == FormatDelimited {
			return ReadDelimited(zr, delimiterFor(ft, opts), file, opts)
		}
		unzipped, err := io.ReadAll(zr)
		if err != nil {
			return nil, &IOError{Op: "decompress", Path: file, Err: err}
		}
		data = unzipped
	}

	switch ft.Format {
	case FormatParquet:
		return ReadParquet(ctx, data, file)
	case FormatJSON:
		return ReadJSONTable(data, file)
	case FormatJSONL:
		return ReadJSONLines(bytes.NewReader(data), file, opts)
	case FormatYAML:
		return ReadYAMLTable(data, file)
	case FormatXLSX:
		return ReadXLSX(data, file, opts)
	}

	return ReadDelimited(bytes.NewReader(data), delimiterFor(ft, opts), file, opts)
}

// EncodeTable renders a table in the requested format
func EncodeTable(tbl *Table, ft FileType) ([]byte, error) {

	var data []byte
	var err error

	switch ft.Format {
	case FormatParquet:
		data, err = WriteParquet(tbl)
	case FormatJSON:
		data, err = WriteJSONTable(tbl)
	case FormatJSONL:
		var buf bytes.Buffer
		err = WriteJSONLines(&buf, tbl)
		data = buf.Bytes()
	case FormatYAML:
		data, err = WriteYAMLTable(tbl)
	case FormatXLSX:
		data, err = WriteXLSX(tbl)
	default:
		var buf bytes.Buffer
		err = WriteDelimited(&buf, tbl, ft.Delimiter)
		data = buf.Bytes()
	}
	if err != nil {
		return nil, err
	}

	if !ft.Gzip {
		return data, nil
	}

	var buf bytes.Buffer
	zw := pgzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func delimiterFor(ft FileType, opts ReadOptions) string {

	if opts.Delimiter != "" {
		return opts.Delimiter
	}
	return ft.Delimiter
}

// ReadTable loads a table from a local path or storage URL, choosing the
// decoder from the extension
func ReadTable(ctx context.Context, location string, opts ReadOptions) (*Table, error) {

	data, err := NewStore().Download(ctx, location)
	if err != nil {
		return nil, err
	}

	tbl, err := DecodeTable(ctx, data, DetectFormat(location), location, opts)
	if err != nil {
		return nil, err
	}

	log.Debugf("read %s: %d rows, %d columns", location, tbl.NumRows(), tbl.NumCols())

	return tbl, nil
}

// WriteOptions controls table output
type WriteOptions struct {
	// Delimiter overrides the one implied by the file extension
	Delimiter string
	// Format overrides the extension, e.g. "parquet"
	Format string
}

// WriteTable stores a table at a local path or storage URL
func WriteTable(ctx context.Context, tbl *Table, location string, opts WriteOptions) error {

	ft := DetectFormat(location)
	if opts.Format != "" {
		f, ok := ParseFormat(opts.Format)
		if !ok {
			return &IOError{Op: "write", Path: location, Err: errUnknownFormat(opts.Format)}
		}
		ft.Format = f
		if strings.EqualFold(opts.Format, "csv") {
			ft.Delimiter = ","
		}
	}
	if opts.Delimiter != "" {
		ft.Delimiter = opts.Delimiter
	}

	data, err := EncodeTable(tbl, ft)
	if err != nil {
		return &IOError{Op: "encode", Path: location, Err: err}
	}

	return NewStore().Upload(ctx, location, data)
}

// ReadTables loads several locations concurrently; results keep input order
func ReadTables(ctx context.Context, locations []string, opts ReadOptions) ([]*Table, error) {

	tables := make([]*Table, len(locations))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(NumWorkers())

	for i, loc := range locations {
		i, loc := i, loc
		g.Go(func() error {
			tbl, err := ReadTable(ctx, loc, opts)
			if err != nil {
				return err
			}
			tables[i] = tbl
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tables, nil
}

type errUnknownFormat string

func (e errUnknownFormat) Error() string {
	return "unknown format '" + string(e) + "'"
}
