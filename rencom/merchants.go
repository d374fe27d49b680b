package rencom

import (
	"context"
	"iter"
	"net/url"

	"github.com/rencom-ai/rencom-go/httpclient"
)

const defaultUCPLimit = 20

// MerchantSearchParams filters a merchant search. Unset filters are
// omitted from the request entirely.
type MerchantSearchParams struct {
	// Capabilities filters by UCP capability identifiers, e.g.
	// "dev.ucp.shopping.checkout".
	Capabilities []string

	// Industry filters by industry, e.g. "retail".
	Industry string

	// Region filters by region code, e.g. "US".
	Region string

	// HasCatalog filters for merchants with (or without) a native
	// catalog API. Nil means no filter.
	HasCatalog *bool

	// Limit is the page size (1-100). Default: 20.
	Limit int

	// Offset is the pagination offset.
	Offset int

	// SessionID correlates searches for analytics. See NewSessionID.
	SessionID string
}

func (p *MerchantSearchParams) query() *httpclient.Query {
	limit := defaultUCPLimit
	offset := 0
	q := httpclient.NewQuery()
	if p != nil {
		if p.Limit > 0 {
			limit = p.Limit
		}
		offset = p.Offset
		q.SetList("capabilities", p.Capabilities)
		if p.Industry != "" {
			q.Set("industry", p.Industry)
		}
		if p.Region != "" {
			q.Set("region", p.Region)
		}
		if p.HasCatalog != nil {
			q.SetBool("has_catalog", *p.HasCatalog)
		}
		if p.SessionID != "" {
			q.Set("session_id", p.SessionID)
		}
	}
	return q.SetInt("limit", limit).SetInt("offset", offset)
}

// MerchantsClient discovers merchants on the UCP network.
type MerchantsClient struct {
	exec *httpclient.Executor
}

// Search returns one page of merchants matching the filters.
//
//	page, err := client.UCP.Merchants.Search(ctx, &rencom.MerchantSearchParams{
//	    Capabilities: []string{"dev.ucp.shopping.checkout"},
//	    Industry:     "retail",
//	})
func (c *MerchantsClient) Search(ctx context.Context, p *MerchantSearchParams) (*MerchantPage, error) {
	var page MerchantPage
	if err := c.exec.Get(ctx, "/ucp/v1/merchants", p.query(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get fetches full details for a single merchant by domain.
func (c *MerchantsClient) Get(ctx context.Context, domain string) (*Merchant, error) {
	var m Merchant
	if err := c.exec.Get(ctx, "/ucp/v1/merchants/"+url.PathEscape(domain), nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SearchAll iterates over every matching merchant, fetching pages on
// demand. The Offset field is ignored; iteration always starts at the
// beginning.
func (c *MerchantsClient) SearchAll(ctx context.Context, p *MerchantSearchParams) iter.Seq2[Merchant, error] {
	params := MerchantSearchParams{Limit: defaultUCPLimit}
	if p != nil {
		params = *p
		params.Offset = 0
		if params.Limit <= 0 {
			params.Limit = defaultUCPLimit
		}
	}

	return paginate(params.Limit, func(offset int) ([]Merchant, bool, error) {
		params.Offset = offset
		page, err := c.Search(ctx, &params)
		if err != nil {
			return nil, false, err
		}
		return page.Merchants, page.HasMore, nil
	})
}
