package rencom

import "time"

// ResourceResult is one x402 resource returned by a search.
type ResourceResult struct {
	ID          int64  `json:"id"`
	Resource    string `json:"resource"`
	Description string `json:"description"`

	// MaxAmountRequired is the maximum payment in atomic units.
	MaxAmountRequired int64 `json:"max_amount_required"`

	// Network is the blockchain network (e.g. "base").
	Network string `json:"network"`

	// FinalScore is the combined ranking score.
	FinalScore float64 `json:"final_score"`
}

// SearchPage is one page of x402 search results.
type SearchPage struct {
	Results []ResourceResult `json:"results"`
	HasMore bool             `json:"has_more"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
	Query   string           `json:"query"`
	SortBy  string           `json:"sort_by"`
}

// MerchantEndpoints lists the transport endpoints a merchant exposes.
// Absent transports are nil.
type MerchantEndpoints struct {
	REST *string `json:"rest"`
	MCP  *string `json:"mcp"`
	A2A  *string `json:"a2a"`
}

// Merchant describes one merchant on the UCP network.
type Merchant struct {
	ID       int64  `json:"id"`
	Domain   string `json:"domain"`
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Region   string `json:"region,omitempty"`

	// Capabilities are UCP capability identifiers, e.g.
	// "dev.ucp.shopping.checkout".
	Capabilities []string `json:"capabilities"`

	// HasNativeCatalog reports whether the merchant serves its own
	// catalog API.
	HasNativeCatalog bool `json:"has_native_catalog"`

	Endpoints     *MerchantEndpoints `json:"endpoints,omitempty"`
	UCPProfileURL string             `json:"ucp_profile_url,omitempty"`
}

// MerchantPage is one page of merchant search results.
type MerchantPage struct {
	Merchants   []Merchant `json:"merchants"`
	Total       int        `json:"total"`
	HasMore     bool       `json:"has_more"`
	Limit       int        `json:"limit"`
	Offset      int        `json:"offset"`
	SessionID   string     `json:"session_id,omitempty"`
	SearchLogID int64      `json:"search_log_id,omitempty"`
}

// Price is a product price in atomic currency units (cents for USD).
type Price struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Product is one product from a UCP catalog search.
type Product struct {
	ID             int64  `json:"id"`
	MerchantID     int64  `json:"merchant_id"`
	MerchantDomain string `json:"merchant_domain"`
	MerchantName   string `json:"merchant_name"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	Price          Price  `json:"price"`
	ImageURL       string `json:"image_url,omitempty"`
	ProductURL     string `json:"product_url"`

	// UCPCheckoutAvailable reports whether the product can be bought
	// through UCP checkout rather than the merchant's own site.
	UCPCheckoutAvailable bool `json:"ucp_checkout_available"`

	// DataSource is where the listing came from, e.g. "ucp_catalog".
	DataSource string `json:"data_source,omitempty"`

	QualityScore float64 `json:"quality_score,omitempty"`
}

// ProductPage is one page of product search results.
type ProductPage struct {
	Products    []Product `json:"products"`
	Total       int       `json:"total"`
	HasMore     bool      `json:"has_more"`
	Limit       int       `json:"limit"`
	Offset      int       `json:"offset"`
	Query       string    `json:"query"`
	SessionID   string    `json:"session_id,omitempty"`
	SearchLogID int64     `json:"search_log_id,omitempty"`
}

// LoginResponse confirms that a magic link was sent.
type LoginResponse struct {
	Message string `json:"message"`
}

// User is the authenticated user's profile.
type User struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// VerifyResponse is the result of verifying a magic link. AccessToken is
// the JWT to use as a session token; APIKey is the user's default API key.
type VerifyResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        User   `json:"user"`
	APIKey      string `json:"api_key,omitempty"`
}

// APIKeySummary is one entry from the key listing. The secret itself is
// never included; only its prefix.
type APIKeySummary struct {
	KeyPrefix        string     `json:"key_prefix"`
	OrganizationName string     `json:"organization_name"`
	RequestsCount    int64      `json:"requests_count"`
	LastUsedAt       *time.Time `json:"last_used_at"`
	CreatedAt        time.Time  `json:"created_at"`
	IsActive         bool       `json:"is_active"`
}

// APIKey is a freshly created key. APIKey holds the full secret and is
// only ever returned at creation time.
type APIKey struct {
	APIKey             string    `json:"api_key"`
	KeyPrefix          string    `json:"key_prefix"`
	OrganizationName   string    `json:"organization_name"`
	RateLimitPerMinute int64     `json:"rate_limit_per_minute"`
	RateLimitPerDay    int64     `json:"rate_limit_per_day"`
	CreatedAt          time.Time `json:"created_at"`
}

// APIKeyUsage is the per-key breakdown inside a usage report.
type APIKeyUsage struct {
	KeyPrefix string `json:"key_prefix"`
	Requests  int64  `json:"requests"`
}

// Usage is the account-level usage report.
type Usage struct {
	TotalRequests int64         `json:"total_requests"`
	CurrentPeriod string        `json:"current_period"`
	APIKeys       []APIKeyUsage `json:"api_keys"`
}
