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
// File Name:  sample.go
//
// ==========================================================================

package kgutils

// Sample draws a connected subset of a graph: the first size/2 distinct
// endpoint identifiers (subjects first, then objects), at most size edges
// touching any of them, and every node those edges reference
func Sample(nodes, edges *Table, size int) (*Table, *Table, error) {

	if size < 2 {
		return nil, nil, &SchemaError{Reason: "sample size must be at least 2"}
	}

	subj, ok := edges.Column("subject")
	if !ok {
		return nil, nil, &SchemaError{Column: "subject", Reason: "edges table has no subject column"}
	}
	obj, ok := edges.Column("object")
	if !ok {
		return nil, nil, &SchemaError{Column: "object", Reason: "edges table has no object column"}
	}
	ids, ok := nodes.Column("id")
	if !ok {
		return nil, nil, &SchemaError{Column: "id", Reason: "nodes table has no id column"}
	}

	limit := size / 2
	picked := make(map[string]bool, limit)

	for _, col := range []*Column{subj, obj} {
		for _, v := range col.Values {
			if len(picked) >= limit {
				break
			}
			if v.Valid {
				picked[v.Text] = true
			}
		}
	}

	touches := func(v Value) bool {
		return v.Valid && picked[v.Text]
	}

	kept := 0
	sampledEdges := edges.Filter(func(r int) bool {
		if kept >= size {
			return false
		}
		if touches(subj.Values[r]) || touches(obj.Values[r]) {
			kept++
			return true
		}
		return false
	})

	endpoints := make(map[string]bool)
	es, _ := sampledEdges.Column("subject")
	eo, _ := sampledEdges.Column("object")
	for _, col := range []*Column{es, eo} {
		for _, v := range col.Values {
			if v.Valid {
				endpoints[v.Text] = true
			}
		}
	}

	sampledNodes := nodes.Filter(func(r int) bool {
		v := ids.Values[r]
		return v.Valid && endpoints[v.Text]
	})

	return sampledNodes, sampledEdges, nil
}
