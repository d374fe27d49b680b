package rencom

import (
	"context"
	"iter"

	"github.com/rencom-ai/rencom-go/httpclient"
)

// Sort orders accepted by resource search.
const (
	SortRecommended = "recommended"
	SortPriceLow    = "price_low"
	SortPriceHigh   = "price_high"
	SortNewest      = "newest"
	SortMostPopular = "most_popular"
	SortMostUsed    = "most_used"
)

const (
	defaultSearchLimit = 3
	defaultIterLimit   = 5
)

// ResourceSearchParams tunes a resource search. The zero value gives the
// API defaults: recommended sort, 3 results, offset 0.
type ResourceSearchParams struct {
	// SortBy is one of the Sort* constants. Default: recommended.
	SortBy string

	// Limit is the page size (1-5). Default: 3.
	Limit int

	// Offset is the pagination offset.
	Offset int
}

func (p *ResourceSearchParams) query(q string) *httpclient.Query {
	sortBy := SortRecommended
	limit := defaultSearchLimit
	offset := 0
	if p != nil {
		if p.SortBy != "" {
			sortBy = p.SortBy
		}
		if p.Limit > 0 {
			limit = p.Limit
		}
		offset = p.Offset
	}
	return httpclient.NewQuery().
		Set("q", q).
		Set("sort_by", sortBy).
		SetInt("limit", limit).
		SetInt("offset", offset)
}

// X402Client searches resources that accept x402 blockchain payments.
// Results are ranked by a combination of text relevance, semantic
// similarity, usage, and quality signals.
type X402Client struct {
	exec *httpclient.Executor
}

// Search runs one resource search and returns a single page.
//
//	page, err := client.X402.Search(ctx, "weather api", &rencom.ResourceSearchParams{
//	    SortBy: rencom.SortPriceLow,
//	    Limit:  5,
//	})
func (c *X402Client) Search(ctx context.Context, query string, p *ResourceSearchParams) (*SearchPage, error) {
	var page SearchPage
	if err := c.exec.Get(ctx, "/x402/v1/search", p.query(query), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PaidSearch is Search against the pay-per-call endpoint, settled through
// the x402 payment protocol instead of API-key quotas.
func (c *X402Client) PaidSearch(ctx context.Context, query string, p *ResourceSearchParams) (*SearchPage, error) {
	var page SearchPage
	if err := c.exec.Get(ctx, "/x402/v1/paid/search", p.query(query), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchAll iterates over every matching resource, fetching pages on
// demand. Breaking out of the loop stops further requests.
//
//	for res, err := range client.X402.SearchAll(ctx, "weather", nil) {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(res.Resource)
//	}
func (c *X402Client) SearchAll(ctx context.Context, query string, p *ResourceSearchParams) iter.Seq2[ResourceResult, error] {
	params := ResourceSearchParams{Limit: defaultIterLimit}
	if p != nil {
		params.SortBy = p.SortBy
		if p.Limit > 0 {
			params.Limit = p.Limit
		}
	}

	return paginate(params.Limit, func(offset int) ([]ResourceResult, bool, error) {
		params.Offset = offset
		page, err := c.Search(ctx, query, &params)
		if err != nil {
			return nil, false, err
		}
		return page.Results, page.HasMore, nil
	})
}
