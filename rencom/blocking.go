package rencom

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrBusy is returned when a BlockingClient method is entered while
	// another call is still in flight. The facade is strictly one call
	// at a time; concurrent use gets an immediate error, never a
	// deadlock or a queue.
	ErrBusy = errors.New("rencom: blocking client already in a call")

	// ErrClosed is returned by every method after Close.
	ErrClosed = errors.New("rencom: blocking client is closed")
)

// BlockingClient is a context-free facade over Client for callers that
// want plain synchronous calls. It owns a root context that is cancelled
// on Close, aborting any in-flight call.
//
// A BlockingClient admits one call at a time. Code that needs
// concurrency, streaming iteration, or per-call deadlines should use
// Client directly.
//
//	client, err := rencom.NewBlocking(rencom.WithAPIKey("rk_live_..."))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	page, err := client.SearchResources("weather api", nil)
type BlockingClient struct {
	client *Client

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// NewBlocking constructs a BlockingClient with the same options as New.
func NewBlocking(opts ...Option) (*BlockingClient, error) {
	client, err := New(opts...)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BlockingClient{client: client, ctx: ctx, cancel: cancel}, nil
}

// enter admits exactly one caller. A second caller while the lock is held
// gets ErrBusy immediately.
func (b *BlockingClient) enter() (context.Context, func(), error) {
	if !b.mu.TryLock() {
		return nil, nil, ErrBusy
	}
	if b.closed {
		b.mu.Unlock()
		return nil, nil, ErrClosed
	}
	return b.ctx, b.mu.Unlock, nil
}

// Close aborts any in-flight call, marks the facade closed, and releases
// the underlying client. Safe to call more than once.
func (b *BlockingClient) Close() {
	b.cancel()
	b.mu.Lock()
	alreadyClosed := b.closed
	b.closed = true
	b.mu.Unlock()
	if !alreadyClosed {
		b.client.Close()
	}
}

// SearchResources is X402Client.Search without a context.
func (b *BlockingClient) SearchResources(query string, p *ResourceSearchParams) (*SearchPage, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.X402.Search(ctx, query, p)
}

// PaidSearchResources is X402Client.PaidSearch without a context.
func (b *BlockingClient) PaidSearchResources(query string, p *ResourceSearchParams) (*SearchPage, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.X402.PaidSearch(ctx, query, p)
}

// SearchMerchants is MerchantsClient.Search without a context.
func (b *BlockingClient) SearchMerchants(p *MerchantSearchParams) (*MerchantPage, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.UCP.Merchants.Search(ctx, p)
}

// GetMerchant is MerchantsClient.Get without a context.
func (b *BlockingClient) GetMerchant(domain string) (*Merchant, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.UCP.Merchants.Get(ctx, domain)
}

// SearchProducts is ProductsClient.Search without a context.
func (b *BlockingClient) SearchProducts(query string, p *ProductSearchParams) (*ProductPage, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.UCP.Products.Search(ctx, query, p)
}

// LogClick is AnalyticsClient.LogClick without a context.
func (b *BlockingClient) LogClick(searchLogID int64, p ClickParams) error {
	ctx, release, err := b.enter()
	if err != nil {
		return err
	}
	defer release()
	return b.client.UCP.Analytics.LogClick(ctx, searchLogID, p)
}

// RequestMagicLink is AuthClient.RequestMagicLink without a context.
func (b *BlockingClient) RequestMagicLink(email string) (*LoginResponse, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.Auth.RequestMagicLink(ctx, email)
}

// VerifyMagicLink is AuthClient.VerifyMagicLink without a context.
func (b *BlockingClient) VerifyMagicLink(token string) (*VerifyResponse, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.Auth.VerifyMagicLink(ctx, token)
}

// Me is AuthClient.Me without a context.
func (b *BlockingClient) Me() (*User, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.Auth.Me(ctx)
}

// ListAPIKeys is AuthClient.ListAPIKeys without a context.
func (b *BlockingClient) ListAPIKeys() ([]APIKeySummary, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.Auth.ListAPIKeys(ctx)
}

// CreateAPIKey is AuthClient.CreateAPIKey without a context.
func (b *BlockingClient) CreateAPIKey(organizationName string) (*APIKey, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.Auth.CreateAPIKey(ctx, organizationName)
}

// DeleteAPIKey is AuthClient.DeleteAPIKey without a context.
func (b *BlockingClient) DeleteAPIKey(keyPrefix string) error {
	ctx, release, err := b.enter()
	if err != nil {
		return err
	}
	defer release()
	return b.client.Auth.DeleteAPIKey(ctx, keyPrefix)
}

// Usage is AuthClient.Usage without a context.
func (b *BlockingClient) Usage() (*Usage, error) {
	ctx, release, err := b.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return b.client.Auth.Usage(ctx)
}
