package kgutils

import (
	"strings"
	"testing"
)

type stringTable struct {
	input    string
	expected string
}

func stringTestMatch(t *testing.T, name string, proc func(str string) string, data []stringTable) {

	for _, test := range data {
		actual := proc(test.input)
		if actual != test.expected {
			t.Errorf("%s(%s) = %s, expected %s", name, test.input, actual, test.expected)
		}
	}
}

// tsvTable reads a literal tab-delimited table, failing the test on error
func tsvTable(t *testing.T, text string) *Table {

	t.Helper()

	tbl, err := ReadDelimited(strings.NewReader(text), "\t", "literal", ReadOptions{})
	if err != nil {
		t.Fatalf("unable to read literal table: %v", err)
	}
	return tbl
}

// typedTable reads a literal table with type inference
func typedTable(t *testing.T, text string) *Table {

	t.Helper()

	tbl, err := ReadDelimited(strings.NewReader(text), "\t", "literal", ReadOptions{InferTypes: true})
	if err != nil {
		t.Fatalf("unable to read literal table: %v", err)
	}
	return tbl
}

// cell returns a value as text, with "<null>" for missing values
func cell(tbl *Table, row int, name string) string {

	v, ok := tbl.Value(row, name)
	if !ok {
		return "<absent>"
	}
	if !v.Valid {
		return "<null>"
	}
	return v.Text
}

func assertNames(t *testing.T, tbl *Table, expected ...string) {

	t.Helper()

	actual := tbl.Names()
	if strings.Join(actual, ",") != strings.Join(expected, ",") {
		t.Errorf("columns = %v, expected %v", actual, expected)
	}
}

func assertEqualTables(t *testing.T, actual, expected *Table) {

	t.Helper()

	if !actual.Equal(expected) {
		t.Errorf("tables differ\nactual:\n%s\nexpected:\n%s", actual, expected)
	}
}
