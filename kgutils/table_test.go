package kgutils

import (
	"errors"
	"testing"
)

func TestNewValue(t *testing.T) {

	canon := func(dt DataType) func(string) string {
		return func(str string) string {
			v, err := NewValue(dt, str)
			if err != nil {
				return "error"
			}
			if !v.Valid {
				return "<null>"
			}
			return v.Text
		}
	}

	stringTestMatch(t, "NewValue(Int64)", canon(Int64),
		[]stringTable{
			{"42", "42"},
			{"007", "7"},
			{" -3 ", "-3"},
			{"", "<null>"},
			{"4.5", "error"},
		})

	stringTestMatch(t, "NewValue(Float64)", canon(Float64),
		[]stringTable{
			{"1.50", "1.5"},
			{"2", "2"},
			{"1e3", "1000"},
			{"abc", "error"},
		})

	stringTestMatch(t, "NewValue(Bool)", canon(Bool),
		[]stringTable{
			{"TRUE", "true"},
			{"tRuE", "true"},
			{"0", "false"},
			{"maybe", "error"},
		})

	stringTestMatch(t, "NewValue(String)", canon(String),
		[]stringTable{
			{" padded ", " padded "},
			{"", "<null>"},
		})
}

func TestNewTableRejectsBadShapes(t *testing.T) {

	_, err := NewTable(NewStringColumn("a", "1"), NewStringColumn("a", "2"))
	var serr *SchemaError
	if !errors.As(err, &serr) || serr.Column != "a" {
		t.Errorf("duplicate name: got %v", err)
	}

	_, err = NewTable(NewStringColumn("a", "1", "2"), NewStringColumn("b", "1"))
	if !errors.As(err, &serr) || serr.Column != "b" {
		t.Errorf("ragged columns: got %v", err)
	}

	_, err = NewTypedColumn("n", Int64, "1", "x")
	var terr *TypeMismatchError
	if !errors.As(err, &terr) || terr.Value != "x" {
		t.Errorf("typed column: got %v", err)
	}
}

func TestTableTransforms(t *testing.T) {

	tbl := tsvTable(t, "id\tname\tscore\nA\talpha\t1\nB\t\t2\nC\tgamma\t3\n")

	if rows, cols := tbl.Shape(); rows != 3 || cols != 3 {
		t.Fatalf("shape = %d x %d", rows, cols)
	}
	if cell(tbl, 1, "name") != "<null>" {
		t.Errorf("empty cell should be null, got %s", cell(tbl, 1, "name"))
	}

	renamed, err := tbl.Rename("name", "label")
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, renamed, "id", "label", "score")
	assertNames(t, tbl, "id", "name", "score")

	if _, err := tbl.Rename("name", "id"); err == nil {
		t.Error("rename onto an existing column should fail")
	}

	assertNames(t, tbl.Drop("score", "missing"), "id", "name")
	if tbl.Drop("id", "name", "score").NumCols() != 0 {
		t.Error("dropping every column should leave none")
	}

	sel, err := tbl.Select("score", "id")
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, sel, "score", "id")

	filtered := tbl.Filter(func(r int) bool { return cell(tbl, r, "id") != "B" })
	if filtered.NumRows() != 2 || cell(filtered, 1, "id") != "C" {
		t.Errorf("filter:\n%s", filtered)
	}

	taken := tbl.Take([]int{2, -1})
	if cell(taken, 0, "id") != "C" || cell(taken, 1, "id") != "<null>" {
		t.Errorf("take:\n%s", taken)
	}

	if tbl.Head(2).NumRows() != 2 || tbl.Head(10) != tbl {
		t.Error("head returned the wrong rows")
	}

	extra, err := tbl.WithColumn(NewStringColumn("name", "x", "y", "z"))
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, extra, "id", "name", "score")
	if cell(extra, 1, "name") != "y" {
		t.Errorf("replaced column not in place:\n%s", extra)
	}
	if _, err := tbl.WithColumn(NewStringColumn("short", "x")); err == nil {
		t.Error("short column should be rejected")
	}
}
