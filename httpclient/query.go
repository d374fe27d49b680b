package httpclient

import (
	"net/url"
	"strconv"
)

// Query builds request query parameters. Only keys that are explicitly set
// are serialized: an unset optional filter never appears in the outgoing
// URL, not even as an empty value.
//
//	q := httpclient.NewQuery().
//	    Set("q", "laptop").
//	    SetInt("limit", 20).
//	    SetList("categories", []string{"electronics", "office"})
type Query struct {
	values url.Values
}

// NewQuery returns an empty Query.
func NewQuery() *Query {
	return &Query{values: make(url.Values)}
}

// Set adds a string parameter.
func (q *Query) Set(key, value string) *Query {
	q.values.Set(key, value)
	return q
}

// SetInt adds an integer parameter.
func (q *Query) SetInt(key string, value int) *Query {
	q.values.Set(key, strconv.Itoa(value))
	return q
}

// SetInt64 adds a 64-bit integer parameter.
func (q *Query) SetInt64(key string, value int64) *Query {
	q.values.Set(key, strconv.FormatInt(value, 10))
	return q
}

// SetBool adds a boolean parameter serialized as "true" or "false".
func (q *Query) SetBool(key string, value bool) *Query {
	q.values.Set(key, strconv.FormatBool(value))
	return q
}

// SetList adds a list parameter serialized as repeated keys. An empty list
// sets nothing.
func (q *Query) SetList(key string, values []string) *Query {
	for _, v := range values {
		q.values.Add(key, v)
	}
	return q
}

// Has reports whether the key was set.
func (q *Query) Has(key string) bool {
	if q == nil {
		return false
	}
	return q.values.Has(key)
}

// Encode returns the URL-encoded parameter string. Safe on a nil Query.
func (q *Query) Encode() string {
	if q == nil {
		return ""
	}
	return q.values.Encode()
}
