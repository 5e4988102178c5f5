package kgutils

import (
	"strings"
	"testing"
)

func TestCoalesceLeftBias(t *testing.T) {

	tbl := tsvTable(t, "id\tname\tname_right\nA\tFoo\tBar\nB\t\tBaz\nC\tQux\t\nD\t\t\n")

	out, diags, err := CoalesceColumns(tbl, []string{"name"})
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics %v", diags)
	}

	expected := tsvTable(t, "id\tname\nA\tFoo\nB\tBaz\nC\tQux\nD\t\n")
	assertEqualTables(t, out, expected)

	if tbl.NumCols() != 3 {
		t.Error("input table was modified")
	}
}

func TestCoalesceColumnCount(t *testing.T) {

	tbl := tsvTable(t, "id\ta\tb\tc\ta_right\tb_right\nX\t1\t\t3\t4\t5\n")

	out, _, err := CoalesceColumns(tbl, []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}

	// each present pair removes exactly one column
	if out.NumCols() != tbl.NumCols()-2 {
		t.Errorf("columns = %d, expected %d", out.NumCols(), tbl.NumCols()-2)
	}
	assertNames(t, out, "id", "a", "b", "c")
	if cell(out, 0, "a") != "1" || cell(out, 0, "b") != "5" {
		t.Errorf("wrong coalesced values\n%s", out)
	}
}

func TestCoalesceIdempotent(t *testing.T) {

	tbl := tsvTable(t, "id\tname\tname_right\tsource_right\tother_right\nA\t\tx\ty\tz\n")
	candidates := []string{"name", "source"}

	once, _, err := CoalesceColumns(tbl, candidates)
	if err != nil {
		t.Fatal(err)
	}
	twice, diags, err := CoalesceColumns(once, candidates)
	if err != nil {
		t.Fatal(err)
	}

	assertEqualTables(t, twice, once)

	// only the unlisted collision is reported again
	if len(diags) != 1 || diags[0].Kind != DiagnosticUnlistedCollision {
		t.Errorf("second pass diagnostics %v", diags)
	}
}

func TestCoalesceOrphanRenamed(t *testing.T) {

	tbl := tsvTable(t, "id\tsource_right\nA\tkg2\n")

	out, diags, err := CoalesceColumns(tbl, []string{"source"})
	if err != nil {
		t.Fatal(err)
	}

	assertNames(t, out, "id", "source")
	if cell(out, 0, "source") != "kg2" {
		t.Errorf("orphan values lost\n%s", out)
	}
	if len(diags) != 1 || diags[0].Kind != DiagnosticOrphanRenamed || diags[0].Column != "source_right" {
		t.Fatalf("diagnostics %v", diags)
	}
	if !strings.Contains(diags[0].String(), "renamed to 'source'") {
		t.Errorf("message %q", diags[0].String())
	}
}

func TestCoalesceUnlistedCollision(t *testing.T) {

	tbl := tsvTable(t, "id\tname\tname_right\nA\tx\ty\n")

	out, diags, err := CoalesceColumns(tbl, nil)
	if err != nil {
		t.Fatal(err)
	}

	assertEqualTables(t, out, tbl)
	if len(diags) != 1 || diags[0].Kind != DiagnosticUnlistedCollision || diags[0].Column != "name_right" {
		t.Fatalf("diagnostics %v", diags)
	}

	diags[0].Step = 2
	diags[0].Source = "kg2.tsv"
	msg := diags[0].String()
	if !strings.HasPrefix(msg, "step 2 (kg2.tsv): ") || !strings.Contains(msg, "add 'name'") {
		t.Errorf("message %q", msg)
	}
}

func TestCoalesceTypes(t *testing.T) {

	ints := MustTable(
		NewStringColumn("id", "A", "B"),
		&Column{Name: "n", Type: Int64, Values: []Value{Str("1"), Null()}},
		&Column{Name: "n_right", Type: String, Values: []Value{Str("one"), Str("two")}},
	)

	out, _, err := CoalesceColumns(ints, []string{"n"})
	if err != nil {
		t.Fatal(err)
	}
	col, _ := out.Column("n")
	if col.Type != String || cell(out, 1, "n") != "two" {
		t.Errorf("string should absorb int64\n%s", out)
	}

	mixed := MustTable(
		&Column{Name: "n", Type: Int64, Values: []Value{Str("1")}},
		&Column{Name: "n_right", Type: Bool, Values: []Value{Str("true")}},
	)
	if _, _, err := CoalesceColumns(mixed, []string{"n"}); err == nil {
		t.Error("int64 vs bool should fail")
	}

	numeric := MustTable(
		&Column{Name: "score", Type: Int64, Values: []Value{Null(), Str("3")}},
		&Column{Name: "score_right", Type: Float64, Values: []Value{Str("2.5"), Str("9")}},
	)
	out, _, err = CoalesceColumns(numeric, []string{"score"})
	if err != nil {
		t.Fatal(err)
	}
	col, _ = out.Column("score")
	if col.Type != Float64 || cell(out, 0, "score") != "2.5" || cell(out, 1, "score") != "3" {
		t.Errorf("int64 should widen to float64\n%s", out)
	}
}
