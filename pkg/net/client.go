package net

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// GetHTTPClient returns an HTTP client configured for polite API use:
// shared transport, cookie jar, and an overall request timeout.
func GetHTTPClient() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("error creating cookie jar: %w", err)
	}

	return &http.Client{
		Transport: reqTransport,
		Jar:       jar,
		Timeout:   timeoutInSeconds * time.Second,
	}, nil
}
