// Package misc provides miscellaneous utility functions for the PayPay client.
// It includes helper functions for HTTP header manipulation, random values,
// and callback URL parsing that don't fit into more specific packages.
package misc

import (
	"net/http"
	"strings"
)

// EnsureHeader ensures that a header exists in the target header map by checking
// multiple sources in order of priority: source headers, existing target headers,
// and finally the default value. It only sets the header if it's not already present
// and the value is not empty after trimming whitespace.
func EnsureHeader(target http.Header, source http.Header, key, defaultValue string) {
	if target == nil {
		return
	}
	if source != nil {
		if val := strings.TrimSpace(source.Get(key)); val != "" {
			target.Set(key, val)
			return
		}
	}
	if strings.TrimSpace(target.Get(key)) != "" {
		return
	}
	if val := strings.TrimSpace(defaultValue); val != "" {
		target.Set(key, val)
	}
}

// ApplyHeaders copies every header of src onto dst, replacing existing values.
// The Host header is skipped; net/http derives it from the request URL.
func ApplyHeaders(dst, src http.Header) {
	if dst == nil {
		return
	}
	for key, values := range src {
		if strings.EqualFold(key, "Host") {
			continue
		}
		dst.Del(key)
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}
