package kgutils

import "testing"

func TestDistinct(t *testing.T) {

	tbl := tsvTable(t, "subject\tpredicate\tobject\tsource\n"+
		"A\tp\tB\tkg1\n"+
		"A\tp\tB\tkg2\n"+
		"A\tp\tB\tkg1\n"+
		"A\tp\t\tkg1\n"+
		"A\tp\t\tkg1\n")

	all, err := Distinct(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if all.NumRows() != 3 {
		t.Errorf("distinct rows = %d, expected 3\n%s", all.NumRows(), all)
	}

	byTriple, err := Distinct(tbl, "subject", "predicate", "object")
	if err != nil {
		t.Fatal(err)
	}
	if byTriple.NumRows() != 2 || cell(byTriple, 0, "source") != "kg1" || cell(byTriple, 1, "object") != "<null>" {
		t.Errorf("first occurrence not kept\n%s", byTriple)
	}

	unique := tsvTable(t, "id\nA\nB\n")
	same, err := Distinct(unique)
	if err != nil {
		t.Fatal(err)
	}
	if same != unique {
		t.Error("table without duplicates should be returned as is")
	}

	if _, err := Distinct(tbl, "missing"); err == nil {
		t.Error("missing column accepted")
	}
}

func TestRowHasher(t *testing.T) {

	// adjacent cells must not run together, and null differs from empty
	tbl := MustTable(
		&Column{Name: "a", Values: []Value{Str("ab"), Str("a"), Null(), Str("")}},
		&Column{Name: "b", Values: []Value{Str("c"), Str("bc"), Str(""), Null()}},
	)

	rh, err := hasherFor(tbl, nil)
	if err != nil {
		t.Fatal(err)
	}
	sums := make([]uint64, tbl.NumRows())
	for r := range sums {
		sums[r] = rh.sum(r)
	}

	seen := make(map[uint64]int)
	for r, sum := range sums {
		if prev, dup := seen[sum]; dup {
			t.Errorf("rows %d and %d share fingerprint %x", prev, r, sum)
		}
		seen[sum] = r
	}

	for r := range sums {
		if sums[r] != rh.sum(r) {
			t.Error("fingerprints are not stable")
		}
	}
}
