package client

import (
	"net/http"
)

// Transport is an http.RoundTripper that attaches the session's bearer token
// to outgoing requests. Requests made while logged out go out untouched.
type Transport struct {
	Session *Session
	Base    http.RoundTripper
}

var _ http.RoundTripper = (*Transport)(nil)

func NewTransport(session *Session, base http.RoundTripper) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Session: session, Base: base}
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := ""
	if t.Session != nil {
		token = t.Session.Token()
	}

	if token == "" || req.Header.Get("Authorization") != "" {
		return t.base().RoundTrip(req)
	}

	// RoundTrippers must not mutate the original request
	cloned := req.Clone(req.Context())
	cloned.Header.Set("Authorization", "Bearer "+token)
	return t.base().RoundTrip(cloned)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// HTTPClient returns an http.Client wired through the session transport.
func (t *Transport) HTTPClient() *http.Client {
	return &http.Client{Transport: t}
}
