package kgutils

import (
	"reflect"
	"testing"
)

func TestCleanHeaderName(t *testing.T) {

	primary := map[string]bool{"id": true, "name": true, "category": true}

	stringTestMatch(t, "CleanHeaderName",
		func(str string) string { return CleanHeaderName(str, primary) },
		[]stringTable{
			{":LABEL", "_label"},
			{"id:ID", "id"},
			{"name", "name"},
			{"category:string[]", "category"},
			{"synonym:string[]", "_synonym"},
			{"taxon", "_taxon"},
		})
}

func TestCleanNodesHeader(t *testing.T) {

	tbl := tsvTable(t, "id:ID\tname\t:LABEL\tsynonym:string[]\nA:1\tx\tGene\ty\n")

	out, err := CleanNodesHeader(tbl, nil)
	if err != nil {
		t.Fatal(err)
	}
	assertNames(t, out, "id", "name", "_label", "_synonym")
	if cell(out, 0, "_synonym") != "y" {
		t.Errorf("values lost\n%s", out)
	}

	clash := tsvTable(t, "id:ID\tid:string\nA\tB\n")
	if _, err := CleanNodesHeader(clash, nil); err == nil {
		t.Error("colliding cleaned names accepted")
	}
}

func TestFixArrayDelimiter(t *testing.T) {

	sep := ArraySeparator
	tbl := MustTable(
		NewStringColumn("id", "A", "B", "C", "D"),
		NewStringColumn("publications", "PMID:1"+sep+"PMID:2", "PMID:3", "", "a,b"),
	)

	out, count, err := FixArrayDelimiter(tbl, "publications")
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count = %d, expected 1", count)
	}
	if cell(out, 0, "publications") != "PMID:1|PMID:2" || cell(out, 3, "publications") != "a,b" {
		t.Errorf("unexpected result\n%s", out)
	}

	if _, _, err := FixArrayDelimiter(tbl, "xrefs"); err == nil {
		t.Error("missing column accepted")
	}
}

func TestAddEmptyColumns(t *testing.T) {

	tbl := tsvTable(t, "subject\tpredicate\tobject\tpublications\nA\tp\tB\tPMID:1\n")

	out, err := AddEmptyColumns(tbl, DefaultEdgeColumns...)
	if err != nil {
		t.Fatal(err)
	}

	if out.NumCols() != 4+len(DefaultEdgeColumns)-1 {
		t.Errorf("columns = %v", out.Names())
	}
	if cell(out, 0, "publications") != "PMID:1" || cell(out, 0, "knowledge_level") != "<null>" {
		t.Errorf("unexpected values\n%s", out)
	}
}

func TestCollapseIndicatorColumns(t *testing.T) {

	tbl := tsvTable(t, "id\tlabel_Gene:boolean\tlabel_Protein:boolean\tname\n"+
		"A\ttrue\tfalse\tx\n"+
		"B\tTRUE\ttrue\ty\n"+
		"C\tfalse\t\tz\n")

	out, err := CollapseIndicatorColumns(tbl, "label", "labels", "|")
	if err != nil {
		t.Fatal(err)
	}

	assertNames(t, out, "id", "name", "labels")

	col, _ := out.Column("labels")
	var got []string
	for _, v := range col.Values {
		got = append(got, v.String())
	}
	if !reflect.DeepEqual(got, []string{"Gene", "Gene|Protein", ""}) {
		t.Errorf("labels = %q", got)
	}

	if _, err := CollapseIndicatorColumns(tbl, "flag", "flags", "|"); err == nil {
		t.Error("missing prefix accepted")
	}
	if _, err := CollapseIndicatorColumns(tbl, "label", "name", "|"); err == nil {
		t.Error("existing target accepted")
	}
}

func TestPluralSiblings(t *testing.T) {

	tbl := tsvTable(t, "id\tsource\tSources\tcategory\tcategories\tname\nA\t\t\t\t\t\n")

	pairs := PluralSiblings(tbl)
	expected := [][2]string{{"category", "categories"}, {"source", "Sources"}}
	if !reflect.DeepEqual(pairs, expected) {
		t.Errorf("pairs = %v, expected %v", pairs, expected)
	}
}
