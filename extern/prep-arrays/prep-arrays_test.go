package main

import (
	"bytes"
	"strings"
	"testing"

	"matrixio/kgutils"
)

func TestFixArrays(t *testing.T) {

	sep := kgutils.ArraySeparator
	inp := "id\tpublications\n" +
		"A\tPMID:1" + sep + "PMID:2\n" +
		"B\ta,b\n" +
		"C\n"

	var out bytes.Buffer
	count, err := fixArrays(strings.NewReader(inp), &out, "publications")
	if err != nil {
		t.Fatal(err)
	}

	if count != 1 {
		t.Errorf("count = %d, expected 1", count)
	}
	expected := "id\tpublications\nA\tPMID:1|PMID:2\nB\ta,b\nC\n"
	if out.String() != expected {
		t.Errorf("fixArrays = %q, expected %q", out.String(), expected)
	}

	if _, err := fixArrays(strings.NewReader(inp), &out, "xrefs"); err == nil {
		t.Error("missing column accepted")
	}
}
