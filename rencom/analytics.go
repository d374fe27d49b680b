package rencom

import (
	"context"

	"github.com/rencom-ai/rencom-go/httpclient"
)

// ClickParams describes which search result was clicked. At least one of
// the clicked fields should be set.
type ClickParams struct {
	// ClickedProductID is the product that was clicked.
	ClickedProductID *int64

	// ClickedMerchantID is the merchant that was clicked.
	ClickedMerchantID *int64

	// ClickedPosition is the 0-indexed position of the result in the
	// page it came from.
	ClickedPosition *int
}

type clickEvent struct {
	SearchLogID       int64  `json:"search_log_id"`
	ClickedProductID  *int64 `json:"clicked_product_id,omitempty"`
	ClickedMerchantID *int64 `json:"clicked_merchant_id,omitempty"`
	ClickedPosition   *int   `json:"clicked_position,omitempty"`
}

// AnalyticsClient reports user interactions with search results back to
// the ranking pipeline.
type AnalyticsClient struct {
	exec *httpclient.Executor
}

// LogClick records a click on a search result. searchLogID comes from the
// SearchLogID field of the page the result appeared on.
//
//	page, err := client.UCP.Products.Search(ctx, "laptop", nil)
//	...
//	pos := 0
//	err = client.UCP.Analytics.LogClick(ctx, page.SearchLogID, rencom.ClickParams{
//	    ClickedProductID: &page.Products[0].ID,
//	    ClickedPosition:  &pos,
//	})
func (c *AnalyticsClient) LogClick(ctx context.Context, searchLogID int64, p ClickParams) error {
	event := clickEvent{
		SearchLogID:       searchLogID,
		ClickedProductID:  p.ClickedProductID,
		ClickedMerchantID: p.ClickedMerchantID,
		ClickedPosition:   p.ClickedPosition,
	}
	return c.exec.Post(ctx, "/ucp/v1/analytics/click", event, nil)
}
