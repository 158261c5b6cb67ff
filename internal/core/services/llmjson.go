package services

import (
	"fmt"
	"strings"

	"github.com/trust-chain-organization/sagebase-sub000/internal/core/domain"
)

// Completion models return the requested JSON wrapped in prose or code
// fences often enough that responses are trimmed to the outermost JSON
// value before decoding. Anything that still fails to decode is a
// malformed response, never silently coerced.

// jsonArrayBlock returns the outermost [...] block of s.
func jsonArrayBlock(s string) (string, error) {
	return jsonBlock(s, '[', ']')
}

// jsonObjectBlock returns the outermost {...} block of s.
func jsonObjectBlock(s string) (string, error) {
	return jsonBlock(s, '{', '}')
}

func jsonBlock(s string, open, closing byte) (string, error) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closing)
	if start < 0 || end < start {
		return "", fmt.Errorf("%w: no %c...%c block in %q",
			domain.ErrMalformedResponse, open, closing, truncate(s, 120))
	}
	return s[start : end+1], nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
