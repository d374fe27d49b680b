package rencom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rencom-ai/rencom-go/httpclient"
)

const sampleMerchantPage = `{
	"merchants": [
		{
			"id": 1,
			"domain": "shop.example.com",
			"name": "Example Shop",
			"industry": "retail",
			"region": "US",
			"capabilities": ["dev.ucp.shopping.checkout"],
			"has_native_catalog": true,
			"endpoints": {"rest": "https://shop.example.com/ucp/v1", "mcp": null, "a2a": null},
			"ucp_profile_url": "https://shop.example.com/.well-known/ucp"
		}
	],
	"total": 1,
	"has_more": false,
	"limit": 20,
	"offset": 0,
	"session_id": "sess_123",
	"search_log_id": 456
}`

func TestMerchants_Search(t *testing.T) {
	mock := httpclient.NewMockTransport().StubResponse(200, sampleMerchantPage)
	client := newTestClient(t, mock)

	page, err := client.UCP.Merchants.Search(context.Background(), &MerchantSearchParams{Industry: "retail"})

	require.NoError(t, err)
	require.Len(t, page.Merchants, 1)
	m := page.Merchants[0]
	assert.Equal(t, "shop.example.com", m.Domain)
	assert.Equal(t, "Example Shop", m.Name)
	assert.Equal(t, []string{"dev.ucp.shopping.checkout"}, m.Capabilities)
	assert.True(t, m.HasNativeCatalog)
	require.NotNil(t, m.Endpoints)
	require.NotNil(t, m.Endpoints.REST)
	assert.Equal(t, "https://shop.example.com/ucp/v1", *m.Endpoints.REST)
	assert.Nil(t, m.Endpoints.MCP)
	assert.Equal(t, int64(456), page.SearchLogID)
	assert.Equal(t, "sess_123", page.SessionID)

	assert.Equal(t, "/ucp/v1/merchants", mock.LastRequest().URL.Path)
}

func TestMerchants_SearchFilterOmission(t *testing.T) {
	mock := httpclient.NewMockTransport().StubResponse(200, sampleMerchantPage)
	client := newTestClient(t, mock)

	_, err := client.UCP.Merchants.Search(context.Background(), &MerchantSearchParams{Industry: "retail"})
	require.NoError(t, err)

	params := mock.LastRequest().URL.Query()
	assert.Equal(t, "retail", params.Get("industry"))
	assert.Equal(t, "20", params.Get("limit"))
	assert.Equal(t, "0", params.Get("offset"))
	// Unset filters never appear, not even empty.
	for _, absent := range []string{"region", "capabilities", "has_catalog", "session_id"} {
		_, present := params[absent]
		assert.False(t, present, absent)
	}
}

func TestMerchants_SearchAllFilters(t *testing.T) {
	mock := httpclient.NewMockTransport().StubResponse(200, sampleMerchantPage)
	client := newTestClient(t, mock)

	hasCatalog := true
	_, err := client.UCP.Merchants.Search(context.Background(), &MerchantSearchParams{
		Capabilities: []string{"dev.ucp.shopping.checkout", "dev.ucp.shopping.cart"},
		Industry:     "retail",
		Region:       "US",
		HasCatalog:   &hasCatalog,
		Limit:        50,
		Offset:       10,
		SessionID:    "sess_abc",
	})
	require.NoError(t, err)

	params := mock.LastRequest().URL.Query()
	assert.Equal(t, []string{"dev.ucp.shopping.checkout", "dev.ucp.shopping.cart"}, params["capabilities"])
	assert.Equal(t, "US", params.Get("region"))
	assert.Equal(t, "true", params.Get("has_catalog"))
	assert.Equal(t, "50", params.Get("limit"))
	assert.Equal(t, "10", params.Get("offset"))
	assert.Equal(t, "sess_abc", params.Get("session_id"))
}

func TestMerchants_SearchNilParams(t *testing.T) {
	mock := httpclient.NewMockTransport().StubResponse(200, sampleMerchantPage)
	client := newTestClient(t, mock)

	_, err := client.UCP.Merchants.Search(context.Background(), nil)
	require.NoError(t, err)

	params := mock.LastRequest().URL.Query()
	assert.Equal(t, "20", params.Get("limit"))
	assert.Equal(t, "0", params.Get("offset"))
	assert.Len(t, params, 2)
}

func TestMerchants_Get(t *testing.T) {
	body := `{
		"id": 1,
		"domain": "shop.example.com",
		"name": "Example Shop",
		"industry": "retail",
		"region": "US",
		"capabilities": ["dev.ucp.shopping.checkout"],
		"has_native_catalog": true
	}`
	mock := httpclient.NewMockTransport().StubResponse(200, body)
	client := newTestClient(t, mock)

	m, err := client.UCP.Merchants.Get(context.Background(), "shop.example.com")

	require.NoError(t, err)
	assert.Equal(t, "shop.example.com", m.Domain)
	assert.Equal(t, "Example Shop", m.Name)
	assert.Equal(t, "/ucp/v1/merchants/shop.example.com", mock.LastRequest().URL.Path)
}

func TestMerchants_GetNotFound(t *testing.T) {
	mock := httpclient.NewMockTransport().StubResponse(404, `{"detail":"merchant not found"}`)
	client := newTestClient(t, mock)

	_, err := client.UCP.Merchants.Get(context.Background(), "nosuch.example.com")

	assert.ErrorIs(t, err, httpclient.ErrNotFound)
}

func TestMerchants_SearchAll(t *testing.T) {
	page1 := `{
		"merchants": [{"id": 1, "domain": "shop1.example.com", "name": "Shop 1", "capabilities": [], "has_native_catalog": false}],
		"total": 2, "has_more": true, "limit": 1, "offset": 0, "search_log_id": 456
	}`
	page2 := `{
		"merchants": [{"id": 2, "domain": "shop2.example.com", "name": "Shop 2", "capabilities": [], "has_native_catalog": false}],
		"total": 2, "has_more": false, "limit": 1, "offset": 1, "search_log_id": 456
	}`
	mock := httpclient.NewMockTransport()
	mock.EnqueueResponse(200, page1, nil)
	mock.EnqueueResponse(200, page2, nil)
	client := newTestClient(t, mock)

	var domains []string
	for m, err := range client.UCP.Merchants.SearchAll(context.Background(), &MerchantSearchParams{Limit: 1, Industry: "retail"}) {
		require.NoError(t, err)
		domains = append(domains, m.Domain)
	}

	assert.Equal(t, []string{"shop1.example.com", "shop2.example.com"}, domains)
	assert.Equal(t, 2, mock.RequestCount())

	// The industry filter carries through every page request.
	for _, req := range mock.Requests() {
		assert.Equal(t, "retail", req.URL.Query().Get("industry"))
	}
}
