package rencom

import (
	"context"
	"iter"

	"github.com/rencom-ai/rencom-go/httpclient"
)

// Product conditions accepted by the condition filter.
const (
	ConditionNew         = "new"
	ConditionUsed        = "used"
	ConditionRefurbished = "refurbished"
)

// ProductSearchParams filters a product search. Unset filters are omitted
// from the request entirely. Prices are in atomic currency units (cents
// for USD), so PriceMax 150000 means $1500.00.
type ProductSearchParams struct {
	// PriceMin is the minimum price in cents. Nil means no floor.
	PriceMin *int64

	// PriceMax is the maximum price in cents. Nil means no ceiling.
	PriceMax *int64

	// Category is a single category filter.
	Category string

	// Categories filters by multiple categories at once.
	Categories []string

	// Brand filters by brand name.
	Brand string

	// Condition is one of the Condition* constants.
	Condition string

	// MerchantDomains limits the search to specific merchants.
	MerchantDomains []string

	// Limit is the page size (1-100). Default: 20.
	Limit int

	// Offset is the pagination offset.
	Offset int

	// SessionID correlates searches for analytics. See NewSessionID.
	SessionID string
}

func (p *ProductSearchParams) query(searchQuery string) *httpclient.Query {
	limit := defaultUCPLimit
	offset := 0
	q := httpclient.NewQuery().Set("q", searchQuery)
	if p != nil {
		if p.Limit > 0 {
			limit = p.Limit
		}
		offset = p.Offset
		if p.PriceMin != nil {
			q.SetInt64("price_min", *p.PriceMin)
		}
		if p.PriceMax != nil {
			q.SetInt64("price_max", *p.PriceMax)
		}
		if p.Category != "" {
			q.Set("category", p.Category)
		}
		q.SetList("categories", p.Categories)
		if p.Brand != "" {
			q.Set("brand", p.Brand)
		}
		if p.Condition != "" {
			q.Set("condition", p.Condition)
		}
		q.SetList("merchant_domains", p.MerchantDomains)
		if p.SessionID != "" {
			q.Set("session_id", p.SessionID)
		}
	}
	return q.SetInt("limit", limit).SetInt("offset", offset)
}

// ProductsClient searches products across UCP merchant catalogs.
type ProductsClient struct {
	exec *httpclient.Executor
}

// Search returns one page of products matching the query and filters.
//
//	max := int64(150000) // $1500.00
//	page, err := client.UCP.Products.Search(ctx, "laptop", &rencom.ProductSearchParams{
//	    PriceMax:  &max,
//	    Category:  "electronics",
//	    Condition: rencom.ConditionNew,
//	})
func (c *ProductsClient) Search(ctx context.Context, query string, p *ProductSearchParams) (*ProductPage, error) {
	var page ProductPage
	if err := c.exec.Get(ctx, "/ucp/v1/products/search", p.query(query), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SearchAll iterates over every matching product, fetching pages on
// demand. The Offset field is ignored; iteration always starts at the
// beginning.
func (c *ProductsClient) SearchAll(ctx context.Context, query string, p *ProductSearchParams) iter.Seq2[Product, error] {
	params := ProductSearchParams{Limit: defaultUCPLimit}
	if p != nil {
		params = *p
		params.Offset = 0
		if params.Limit <= 0 {
			params.Limit = defaultUCPLimit
		}
	}

	return paginate(params.Limit, func(offset int) ([]Product, bool, error) {
		params.Offset = offset
		page, err := c.Search(ctx, query, &params)
		if err != nil {
			return nil, false, err
		}
		return page.Products, page.HasMore, nil
	})
}
