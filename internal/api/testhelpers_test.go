package api

import (
	"fmt"
	"net/http"
)

// errRT is a RoundTripper that always fails, for exercising transport errors.
type errRT struct{}

func (errRT) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, fmt.Errorf("dial tcp: connection refused")
}
