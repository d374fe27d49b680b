// Package rencom is the Go SDK for the Rencom remote search and commerce
// API.
//
// # Quick Start
//
//	client, err := rencom.New(rencom.WithAPIKey("rk_live_..."))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	page, err := client.X402.Search(ctx, "weather api", nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, res := range page.Results {
//	    fmt.Println(res.Resource, res.Description)
//	}
//
// With no explicit credential, New falls back to the RENCOM_API_KEY
// environment variable, loading a .env file first if one exists.
//
// # Namespaces
//
//   - X402: search resources that accept x402 blockchain payments
//   - UCP.Merchants: discover merchants on the Universal Commerce Protocol
//   - UCP.Products: search products across merchant catalogs
//   - UCP.Analytics: report result clicks back to the ranking pipeline
//   - Auth: magic-link login, API keys, usage statistics
//
// # Pagination
//
// Search methods return one page. Every search has a SearchAll variant
// returning an iter.Seq2 that fetches pages lazily:
//
//	for product, err := range client.UCP.Products.SearchAll(ctx, "laptop", nil) {
//	    if err != nil {
//	        return err
//	    }
//	    if product.Price.Amount > 200000 {
//	        break // stops fetching further pages
//	    }
//	}
//
// # Errors
//
// All failures are typed by the httpclient package:
//
//	_, err := client.UCP.Merchants.Get(ctx, "nosuch.example")
//	if errors.Is(err, httpclient.ErrNotFound) {
//	    // 404
//	}
//
// Transient failures (5xx, network errors) are retried automatically; see
// the httpclient package for retry and resilience configuration.
//
// # Blocking facade
//
// BlockingClient offers context-free synchronous calls for simple
// scripts, admitting one call at a time. See NewBlocking.
package rencom
