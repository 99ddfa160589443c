package logging

import (
	"net/http"
	"time"
)

// Transport logs each request at debug level. Headers are never logged, so
// the Authorization token stays out of the output.
type Transport struct {
	Base   http.RoundTripper
	Logger Logger
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip implements http.RoundTripper
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base().RoundTrip(req)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		t.Logger.Debugf("%s %s failed after %s: %v", req.Method, req.URL.Redacted(), elapsed, err)
		return nil, err
	}

	t.Logger.Debugf("%s %s -> %d (%s)", req.Method, req.URL.Redacted(), resp.StatusCode, elapsed)
	return resp, nil
}
