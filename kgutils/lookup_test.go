package kgutils

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeNormServer(t *testing.T) *httptest.Server {

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		if strings.HasSuffix(r.URL.Path, "/ancestors") {
			if r.URL.Query().Get("version") != DefaultBiolinkVersion {
				http.Error(w, "bad version", http.StatusBadRequest)
				return
			}
			if r.URL.Path != "/biolink:Gene/ancestors" {
				http.NotFound(w, r)
				return
			}
			json.NewEncoder(w).Encode([]string{"biolink:Gene", "biolink:BiologicalEntity", "biolink:NamedThing"})
			return
		}

		var req nodeNormRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Conflate || !req.DrugChemicalConflate {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		res := make(map[string]*NormalizedNode)
		for _, id := range req.Curies {
			switch {
			case strings.HasPrefix(id, "FAIL:"):
				http.Error(w, "upstream failure", http.StatusInternalServerError)
				return
			case strings.HasPrefix(id, "CHEBI:"):
				res[id] = &NormalizedNode{
					ID:    IdentifierLabel{Identifier: id},
					Types: []string{"biolink:SmallMolecule", "biolink:ChemicalEntity"},
				}
			case strings.HasPrefix(id, "MONDO:"):
				res[id] = nil
			}
		}
		json.NewEncoder(w).Encode(res)
	}))
}

func TestNormalizeCategories(t *testing.T) {

	srv := nodeNormServer(t)
	defer srv.Close()

	client := NewNodeNormClient(srv.Client(), srv.URL)

	tbl := tsvTable(t, "id\tcategory\n"+
		"CHEBI:1\tbiolink:ChemicalEntity\n"+
		"MONDO:2\tbiolink:Disease\n"+
		"FAIL:3\tbiolink:Gene\n"+
		"HP:4\tbiolink:PhenotypicFeature\n"+
		"CHEBI:1\tbiolink:ChemicalEntity\n"+
		"X:5\tbiolink:Thing\n")

	fallback := map[string]string{"biolink:Disease": "biolink:Disease" + ArraySeparator + "biolink:DiseaseOrPhenotypicFeature"}

	out, report, err := NormalizeCategories(context.Background(), client, tbl, "id", "category", 2, fallback)
	require.NoError(t, err)

	assert.Equal(t, NormalizeReport{Batches: 3, FailedBatches: 1, Updated: 2, Fallback: 1}, report)

	chem := "biolink:SmallMolecule" + ArraySeparator + "biolink:ChemicalEntity"
	assert.Equal(t, chem, cell(out, 0, "category"))
	assert.Equal(t, fallback["biolink:Disease"], cell(out, 1, "category"))
	assert.Equal(t, "biolink:Gene", cell(out, 2, "category"))
	assert.Equal(t, "biolink:PhenotypicFeature", cell(out, 3, "category"))
	assert.Equal(t, chem, cell(out, 4, "category"))
	assert.Equal(t, "biolink:Thing", cell(out, 5, "category"))

	_, _, err = NormalizeCategories(context.Background(), client, tbl, "curie", "category", 2, nil)
	assert.Error(t, err)
}

// staticLookup answers from a fixed map
type staticLookup map[string]*NormalizedNode

func (s staticLookup) Lookup(ctx context.Context, ids []string) (map[string]*NormalizedNode, error) {

	res := make(map[string]*NormalizedNode)
	for _, id := range ids {
		if node, ok := s[id]; ok {
			res[id] = node
		}
	}
	return res, nil
}

func TestNormalizeCategoriesUnresolved(t *testing.T) {

	svc := staticLookup{"A:1": nil, "A:2": {Types: nil}}
	tbl := tsvTable(t, "id\tcategory\nA:1\tbiolink:Gene\nA:2\t\n\tbiolink:Gene\n")

	out, report, err := NormalizeCategories(context.Background(), svc, tbl, "id", "category", 0, nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Batches)
	assert.Equal(t, 2, report.Unresolved)
	assertEqualTables(t, out, tbl)
}

func TestAncestorMapping(t *testing.T) {

	srv := nodeNormServer(t)
	defer srv.Close()

	client := NewNodeNormClient(srv.Client(), srv.URL)
	client.BiolinkURL = srv.URL + "/"

	ancestors, err := client.Ancestors(context.Background(), "Gene")
	require.NoError(t, err)
	assert.Equal(t, []string{"biolink:Gene", "biolink:BiologicalEntity", "biolink:NamedThing"}, ancestors)

	mapping := client.AncestorMapping(context.Background(), []string{"biolink:Gene", "biolink:Unknown", "biolink:Gene"})
	assert.Len(t, mapping, 1)
	assert.Equal(t, strings.Join(ancestors, ArraySeparator), mapping["biolink:Gene"])
}

func TestHTTPClientRedirectLimit(t *testing.T) {

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/again", http.StatusFound)
	}))
	defer srv.Close()

	client := NewHTTPClient(5 * time.Second)
	_, err := client.Get(srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stopped after 5 redirects")

	assert.Equal(t, DefaultLookupTimeout, NewHTTPClient(0).Timeout)
}
