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
// File Name:  lookup.go
//
// ==========================================================================

package kgutils

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// default service endpoints
const (
	DefaultNodeNormURL     = "https://nodenormalization-sri.renci.org/1.5/get_normalized_nodes"
	DefaultBiolinkURL      = "https://biolink-lookup.ci.transltr.io/bl"
	DefaultBiolinkVersion  = "v4.2.2"
	DefaultLookupBatchSize = 2000
	DefaultLookupTimeout   = 900 * time.Second
)

// ArraySeparator joins multi-valued cells such as category ancestor lists
const ArraySeparator = "\x1f"

// IdentifierLabel is an identifier with its preferred label
type IdentifierLabel struct {
	Identifier string `json:"identifier"`
	Label      string `json:"label,omitempty"`
}

// NormalizedNode is one record returned by the normalization service
type NormalizedNode struct {
	ID                    IdentifierLabel   `json:"id"`
	EquivalentIdentifiers []IdentifierLabel `json:"equivalent_identifiers"`
	Types                 []string          `json:"type"`
	InformationContent    float64           `json:"information_content,omitempty"`
}

// LookupService maps identifiers to normalized records. An identifier present
// with a nil record was not found; an absent identifier was not answered.
type LookupService interface {
	Lookup(ctx context.Context, ids []string) (map[string]*NormalizedNode, error)
}

// NewHTTPClient returns a client with the service timeout and a five-hop
// redirect limit
func NewHTTPClient(timeout time.Duration) *http.Client {

	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}

	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("stopped after 5 redirects")
			}
			return nil
		},
	}
}

// NodeNormClient talks to the node normalization and biolink lookup services.
// Construct one per process and pass it to the code that needs it.
type NodeNormClient struct {
	HTTP           *http.Client
	URL            string
	BiolinkURL     string
	BiolinkVersion string
}

// NewNodeNormClient fills in default endpoints for empty arguments
func NewNodeNormClient(httpClient *http.Client, nodeNormURL string) *NodeNormClient {

	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultLookupTimeout)
	}
	if nodeNormURL == "" {
		nodeNormURL = DefaultNodeNormURL
	}

	return &NodeNormClient{
		HTTP:           httpClient,
		URL:            nodeNormURL,
		BiolinkURL:     DefaultBiolinkURL,
		BiolinkVersion: DefaultBiolinkVersion,
	}
}

type nodeNormRequest struct {
	Curies               []string `json:"curies"`
	Conflate             bool     `json:"conflate"`
	Description          bool     `json:"description"`
	DrugChemicalConflate bool     `json:"drug_chemical_conflate"`
}

func (c *NodeNormClient) do(req *http.Request, v interface{}) error {

	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %s: %s", req.Method, req.URL.Redacted(), resp.Status)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

// Lookup posts one batch of CURIEs
func (c *NodeNormClient) Lookup(ctx context.Context, ids []string) (map[string]*NormalizedNode, error) {

	payload, err := json.Marshal(nodeNormRequest{
		Curies:               ids,
		Conflate:             true,
		Description:          false,
		DrugChemicalConflate: true,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res := make(map[string]*NormalizedNode, len(ids))
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res, nil
}

// Ancestors returns the biolink ancestors of a category such as "Gene" or
// "biolink:Gene"
func (c *NodeNormClient) Ancestors(ctx context.Context, category string) ([]string, error) {

	name := strings.TrimPrefix(category, "biolink:")
	endpoint := fmt.Sprintf("%s/%s/ancestors?version=%s",
		strings.TrimSuffix(c.BiolinkURL, "/"), url.PathEscape("biolink:"+name), url.QueryEscape(c.BiolinkVersion))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var ancestors []string
	if err := c.do(req, &ancestors); err != nil {
		return nil, err
	}
	return ancestors, nil
}

// AncestorMapping builds the not-found fallback for NormalizeCategories:
// category to its ancestors joined by ArraySeparator. Failed lookups are
// logged and left out.
func (c *NodeNormClient) AncestorMapping(ctx context.Context, categories []string) map[string]string {

	mapping := make(map[string]string, len(categories))
	for _, cat := range categories {
		if _, ok := mapping[cat]; ok {
			continue
		}
		ancestors, err := c.Ancestors(ctx, cat)
		if err != nil {
			log.Warningf("ancestors of %s: %v", cat, err)
			continue
		}
		mapping[cat] = strings.Join(ancestors, ArraySeparator)
	}
	return mapping
}

// NormalizeReport summarizes a normalization run
type NormalizeReport struct {
	Batches       int
	FailedBatches int
	Updated       int
	Fallback      int
	Unresolved    int
}

// NormalizeCategories replaces each row's category with the type ancestors
// the service reports for its identifier, joined by ArraySeparator. Rows the
// service reports as not found take fallback[category] when present. A batch
// whose request fails is logged and its rows are left unmodified.
func NormalizeCategories(ctx context.Context, svc LookupService, tbl *Table, idColumn, categoryColumn string, batchSize int, fallback map[string]string) (*Table, NormalizeReport, error) {

	var report NormalizeReport

	ids, ok := tbl.Column(idColumn)
	if !ok {
		return nil, report, &SchemaError{Column: idColumn, Reason: "identifier column not found"}
	}
	cats, ok := tbl.Column(categoryColumn)
	if !ok {
		return nil, report, &SchemaError{Column: categoryColumn, Reason: "category column not found"}
	}
	if batchSize < 1 {
		batchSize = DefaultLookupBatchSize
	}

	// rows per identifier, identifiers in first-seen order
	rowsFor := make(map[string][]int)
	var order []string
	for r, v := range ids.Values {
		if !v.Valid {
			continue
		}
		if _, seen := rowsFor[v.Text]; !seen {
			order = append(order, v.Text)
		}
		rowsFor[v.Text] = append(rowsFor[v.Text], r)
	}

	vals := make([]Value, len(cats.Values))
	copy(vals, cats.Values)

	for start := 0; start < len(order); start += batchSize {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		end := start + batchSize
		if end > len(order) {
			end = len(order)
		}
		batch := order[start:end]
		report.Batches++

		res, err := svc.Lookup(ctx, batch)
		if err != nil {
			report.FailedBatches++
			log.Warningf("lookup batch %d (%d identifiers) failed: %v", report.Batches, len(batch), err)
			continue
		}

		for _, id := range batch {
			node, answered := res[id]
			if !answered {
				continue
			}
			for _, r := range rowsFor[id] {
				switch {
				case node != nil && len(node.Types) > 0:
					vals[r] = Str(strings.Join(node.Types, ArraySeparator))
					report.Updated++
				case vals[r].Valid && fallback[vals[r].Text] != "":
					vals[r] = Str(fallback[vals[r].Text])
					report.Fallback++
				default:
					report.Unresolved++
				}
			}
		}

		log.Debugf("lookup batch %d: %d identifiers", report.Batches, len(batch))
	}

	out, err := tbl.WithColumn(&Column{Name: categoryColumn, Type: String, Values: vals})
	if err != nil {
		return nil, report, err
	}
	return out, report, nil
}
