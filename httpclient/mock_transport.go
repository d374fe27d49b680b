package httpclient

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"sync"
)

// MockTransport is a configurable http.RoundTripper for testing. It stubs
// responses, supports ordered sequences (e.g. two 503s then a 200), and
// records every request for assertions.
type MockTransport struct {
	mu          sync.Mutex
	sequence    []step
	defaultResp *http.Response
	defaultErr  error
	requests    []*http.Request
	requestHook func(*http.Request)
}

type step struct {
	response *http.Response
	err      error
}

// NewMockTransport creates an empty MockTransport.
func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

// StubResponse makes every request return the given response unless a
// queued sequence step matches first.
func (m *MockTransport) StubResponse(statusCode int, body string) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultResp = newStubResponse(statusCode, body, nil)
	return m
}

// StubError makes every request fail with err unless a queued sequence
// step matches first.
func (m *MockTransport) StubError(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultErr = err
	return m
}

// EnqueueResponse appends a one-shot response to the ordered sequence.
// Sequence steps are consumed before the default stub applies.
func (m *MockTransport) EnqueueResponse(statusCode int, body string, header http.Header) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = append(m.sequence, step{response: newStubResponse(statusCode, body, header)})
	return m
}

// EnqueueError appends a one-shot transport error to the ordered sequence.
func (m *MockTransport) EnqueueError(err error) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sequence = append(m.sequence, step{err: err})
	return m
}

// OnRequest sets a hook invoked for each request, before the stub lookup.
func (m *MockTransport) OnRequest(fn func(*http.Request)) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestHook = fn
	return m
}

// RoundTrip implements http.RoundTripper.
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	hook := m.requestHook

	var next *step
	if len(m.sequence) > 0 {
		s := m.sequence[0]
		m.sequence = m.sequence[1:]
		next = &s
	}
	defaultResp, defaultErr := m.defaultResp, m.defaultErr
	m.mu.Unlock()

	if hook != nil {
		hook(req)
	}

	if next != nil {
		if next.err != nil {
			return nil, next.err
		}
		return cloneResponse(next.response), nil
	}
	if defaultErr != nil {
		return nil, defaultErr
	}
	if defaultResp != nil {
		return cloneResponse(defaultResp), nil
	}
	return nil, errors.New("no stub found for request: " + req.Method + " " + req.URL.String())
}

// Requests returns a copy of all recorded requests.
func (m *MockTransport) Requests() []*http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*http.Request{}, m.requests...)
}

// RequestCount returns the number of requests made.
func (m *MockTransport) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// LastRequest returns the most recent request, or nil if none.
func (m *MockTransport) LastRequest() *http.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		return nil
	}
	return m.requests[len(m.requests)-1]
}

// Reset clears recorded requests and all stubs.
func (m *MockTransport) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.sequence = nil
	m.defaultResp = nil
	m.defaultErr = nil
	m.requestHook = nil
}

func newStubResponse(statusCode int, body string, header http.Header) *http.Response {
	h := make(http.Header)
	for k, vs := range header {
		h[http.CanonicalHeaderKey(k)] = vs
	}
	return &http.Response{
		StatusCode: statusCode,
		Status:     http.StatusText(statusCode),
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     h,
	}
}

func cloneResponse(resp *http.Response) *http.Response {
	if resp == nil {
		return nil
	}

	var bodyBytes []byte
	if resp.Body != nil {
		bodyBytes, _ = io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
	}

	return &http.Response{
		Status:        resp.Status,
		StatusCode:    resp.StatusCode,
		Header:        resp.Header.Clone(),
		Body:          io.NopCloser(bytes.NewBuffer(bodyBytes)),
		ContentLength: resp.ContentLength,
		Request:       resp.Request,
	}
}
