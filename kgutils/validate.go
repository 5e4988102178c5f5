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
// File Name:  validate.go
//
// ==========================================================================

package kgutils

import (
	"fmt"
	"regexp"
	"sort"

	"golang.org/x/sync/errgroup"
)

var (
	curieRegex   = regexp.MustCompile(`^[A-Za-z_]+:.+$`)
	biolinkRegex = regexp.MustCompile(`^biolink:.+$`)
)

// Infraction is one cell that failed a validation check. Row counts from 1.
type Infraction struct {
	Row     int
	Column  string
	Value   string
	Message string
}

func (i Infraction) String() string {
	return fmt.Sprintf("row %d: %s: %s '%s'", i.Row, i.Column, i.Message, i.Value)
}

type columnCheck struct {
	column  string
	pattern *regexp.Regexp
	message string
}

// checkColumns runs each check over its column concurrently; results are
// ordered by row, then by check order
func checkColumns(tbl *Table, checks []columnCheck) ([]Infraction, error) {

	cols := make([]*Column, len(checks))
	for i, chk := range checks {
		col, ok := tbl.Column(chk.column)
		if !ok {
			return nil, &SchemaError{Column: chk.column, Reason: "required column not found"}
		}
		cols[i] = col
	}

	found := make([][]Infraction, len(checks))

	var g errgroup.Group
	for i, chk := range checks {
		i, chk := i, chk
		g.Go(func() error {
			for r, v := range cols[i].Values {
				if v.Valid && chk.pattern.MatchString(v.Text) {
					continue
				}
				found[i] = append(found[i], Infraction{Row: r + 1, Column: chk.column, Value: v.Text, Message: chk.message})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var res []Infraction
	for _, list := range found {
		res = append(res, list...)
	}
	sort.SliceStable(res, func(a, b int) bool {
		return res[a].Row < res[b].Row
	})
	return res, nil
}

// ValidateNodes requires a CURIE id and a biolink category on every row
func ValidateNodes(tbl *Table) ([]Infraction, error) {

	return checkColumns(tbl, []columnCheck{
		{column: "id", pattern: curieRegex, message: "not a valid CURIE"},
		{column: "category", pattern: biolinkRegex, message: "does not start with 'biolink:'"},
	})
}

// ValidateEdges requires CURIE endpoints and a biolink predicate on every row
func ValidateEdges(tbl *Table) ([]Infraction, error) {

	return checkColumns(tbl, []columnCheck{
		{column: "subject", pattern: curieRegex, message: "not a valid CURIE"},
		{column: "predicate", pattern: biolinkRegex, message: "does not start with 'biolink:'"},
		{column: "object", pattern: curieRegex, message: "not a valid CURIE"},
	})
}

// IDDifference lists identifiers found on only one side, sorted
type IDDifference struct {
	NodesOnly []string
	EdgesOnly []string
}

func distinctValues(cols ...*Column) map[string]bool {

	set := make(map[string]bool)
	for _, col := range cols {
		for _, v := range col.Values {
			if v.Valid {
				set[v.Text] = true
			}
		}
	}
	return set
}

func missingFrom(src, other map[string]bool) []string {

	var res []string
	for id := range src {
		if !other[id] {
			res = append(res, id)
		}
	}
	sort.Strings(res)
	return res
}

// CheckEdgeIDs compares node ids with the subjects and objects of edges
func CheckEdgeIDs(nodes, edges *Table) (IDDifference, error) {

	var diff IDDifference

	ids, ok := nodes.Column("id")
	if !ok {
		return diff, &SchemaError{Column: "id", Reason: "nodes table has no id column"}
	}
	subj, ok := edges.Column("subject")
	if !ok {
		return diff, &SchemaError{Column: "subject", Reason: "edges table has no subject column"}
	}
	obj, ok := edges.Column("object")
	if !ok {
		return diff, &SchemaError{Column: "object", Reason: "edges table has no object column"}
	}

	nodeSet := distinctValues(ids)
	edgeSet := distinctValues(subj, obj)

	diff.NodesOnly = missingFrom(nodeSet, edgeSet)
	diff.EdgesOnly = missingFrom(edgeSet, nodeSet)
	return diff, nil
}
