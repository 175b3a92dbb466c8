package resolve

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/turtacn/SciText-Prep/pkg/errors"
)

// DefaultPubChemBaseURL is the PubChem PUG REST endpoint.
const DefaultPubChemBaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"

// PubChemClient implements ChemLookup against the PubChem PUG REST API.
// Per-attempt deadlines come from the caller's context; the resolver owns
// the retry policy.
type PubChemClient struct {
	http *resty.Client
}

// PubChemOption customises the client.
type PubChemOption func(*PubChemClient)

// WithBaseURL overrides the API endpoint, used by tests to point at a stub
// server.
func WithBaseURL(base string) PubChemOption {
	return func(c *PubChemClient) { c.http.SetBaseURL(base) }
}

// NewPubChemClient constructs a PubChem lookup client.
func NewPubChemClient(opts ...PubChemOption) *PubChemClient {
	c := &PubChemClient{
		http: resty.New().
			SetBaseURL(DefaultPubChemBaseURL).
			SetHeader("Accept", "application/json").
			SetTimeout(30 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// propertyTableResponse mirrors the PUG REST property-table JSON shape.
type propertyTableResponse struct {
	PropertyTable struct {
		Properties []struct {
			CID       int    `json:"CID"`
			IUPACName string `json:"IUPACName"`
		} `json:"Properties"`
	} `json:"PropertyTable"`
}

// LookupByName queries /compound/name/<name>/property/IUPACName/JSON and
// returns the best-match compound, or (nil, nil) when PubChem has no record
// for the name.
func (c *PubChemClient) LookupByName(ctx context.Context, name string) (*Compound, error) {
	var body propertyTableResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&body).
		Get("/compound/name/" + url.PathEscape(name) + "/property/IUPACName/JSON")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "pubchem request failed")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, errors.Newf(errors.ErrCodeLookupBadReply, "pubchem returned status %d for %q", resp.StatusCode(), name)
	}
	if len(body.PropertyTable.Properties) == 0 {
		return nil, nil
	}
	best := body.PropertyTable.Properties[0]
	return &Compound{CID: best.CID, IUPACName: best.IUPACName}, nil
}
