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
// File Name:  header.go
//
// ==========================================================================

package kgutils

import (
	"sort"
	"strings"

	"github.com/gedex/inflector"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPrimaryColumns are the node columns kept without an underscore prefix
var DefaultPrimaryColumns = []string{
	"id",
	"category",
	"original_id",
	"all_categories",
	"name",
	"description",
	"equivalent_identifiers",
	"publications",
	"labels",
	"international_resource_identifier",
}

// DefaultEdgeColumns are the optional edge attributes added as empty columns
var DefaultEdgeColumns = []string{
	"knowledge_level",
	"primary_knowledge_source",
	"aggregator_knowledge_source",
	"publications",
	"subject_aspect_qualifier",
	"subject_direction_qualifier",
	"object_aspect_qualifier",
	"object_direction_qualifier",
}

// CleanHeaderName maps one column name: ":LABEL" becomes "_label", a ":type"
// suffix is dropped, and names outside primary gain a leading underscore
func CleanHeaderName(name string, primary map[string]bool) string {

	if name == ":LABEL" {
		return "_label"
	}
	if pos := strings.Index(name, ":"); pos >= 0 {
		name = name[:pos]
	}
	if !primary[name] {
		name = "_" + name
	}
	return name
}

// CleanNodesHeader renames every column with CleanHeaderName. Names that end
// up equal are a SchemaError.
func CleanNodesHeader(tbl *Table, primary []string) (*Table, error) {

	if primary == nil {
		primary = DefaultPrimaryColumns
	}
	keep := make(map[string]bool, len(primary))
	for _, name := range primary {
		keep[name] = true
	}

	cols := make([]*Column, tbl.NumCols())
	for i, col := range tbl.Columns() {
		cols[i] = col.renamed(CleanHeaderName(col.Name, keep))
	}

	return NewTable(cols...)
}

// FixArrayDelimiter swaps ArraySeparator for "|" in cells of column and
// reports how many cells changed
func FixArrayDelimiter(tbl *Table, column string) (*Table, int, error) {

	col, ok := tbl.Column(column)
	if !ok {
		return nil, 0, &SchemaError{Column: column, Reason: "column not found"}
	}

	vals := make([]Value, len(col.Values))
	count := 0
	for i, v := range col.Values {
		vals[i] = v
		if !v.Valid {
			continue
		}
		str := strings.ReplaceAll(v.Text, ArraySeparator, "|")
		if str != v.Text {
			vals[i] = Str(str)
			count++
		}
	}

	out, err := tbl.WithColumn(&Column{Name: column, Type: String, Values: vals})
	if err != nil {
		return nil, 0, err
	}
	return out, count, nil
}

// AddEmptyColumns appends all-null String columns for names not yet present
func AddEmptyColumns(tbl *Table, names ...string) (*Table, error) {

	out := tbl
	for _, name := range names {
		if out.Has(name) {
			continue
		}
		next, err := out.WithColumn(NullColumn(name, String, tbl.NumRows()))
		if err != nil {
			return nil, err
		}
		out = next
	}
	return out, nil
}

// CollapseIndicatorColumns replaces boolean columns named prefix+label (with
// an optional ":type" suffix) by one column target listing, per row, the
// labels whose cell is true, joined by sep
func CollapseIndicatorColumns(tbl *Table, prefix, target, sep string) (*Table, error) {

	type indicator struct {
		label string
		col   *Column
	}

	var inds []indicator
	var drop []string

	for _, col := range tbl.Columns() {
		if !strings.HasPrefix(col.Name, prefix) {
			continue
		}
		label := strings.TrimPrefix(col.Name, prefix)
		if pos := strings.Index(label, ":"); pos >= 0 {
			label = label[:pos]
		}
		label = strings.TrimPrefix(label, "_")
		inds = append(inds, indicator{label: label, col: col})
		drop = append(drop, col.Name)
	}

	if len(inds) == 0 {
		return nil, &SchemaError{Column: prefix, Reason: "no indicator columns with this prefix"}
	}

	out := tbl.Drop(drop...)
	if out.Has(target) {
		return nil, &SchemaError{Column: target, Reason: "collapse target already exists"}
	}

	vals := make([]Value, tbl.NumRows())
	for r := range vals {
		var labels []string
		for _, ind := range inds {
			if v := ind.col.Values[r]; v.Valid && strings.EqualFold(v.Text, "true") {
				labels = append(labels, ind.label)
			}
		}
		if len(labels) > 0 {
			vals[r] = Str(strings.Join(labels, sep))
		}
	}

	if out.NumCols() == 0 {
		return NewTable(&Column{Name: target, Type: String, Values: vals})
	}
	return out.WithColumn(&Column{Name: target, Type: String, Values: vals})
}

// PluralSiblings pairs columns whose names differ only by plural form, such
// as "source" and "sources", a common sign of drift between merged sources
func PluralSiblings(tbl *Table) [][2]string {

	lower := cases.Lower(language.Und)

	byName := make(map[string]string, tbl.NumCols())
	for _, name := range tbl.Names() {
		byName[lower.String(name)] = name
	}

	var pairs [][2]string
	for _, name := range tbl.Names() {
		key := lower.String(name)
		sing := inflector.Singularize(key)
		if sing == key {
			continue
		}
		if other, ok := byName[sing]; ok {
			pairs = append(pairs, [2]string{other, name})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		return pairs[i][0] < pairs[j][0]
	})
	return pairs
}
