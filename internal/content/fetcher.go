// Package content resolves deliverable references into retrievable bytes.
//
// A reference is classified by shape: content-addressed IPFS hashes are
// dereferenced through the configured gateway, absolute URLs are fetched
// directly, and anything else is treated as literal inline content.
package content

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxFetchBytes caps how much of a remote deliverable is read. The
// verification pipeline only ever classifies a bounded prefix anyway.
const maxFetchBytes = 1 << 20

// Fetcher resolves a deliverable reference into its content.
type Fetcher interface {
	// Fetch never fails: any retrieval error is swallowed into an empty
	// result, which the caller treats as a quality-fail outcome.
	Fetch(ctx context.Context, ref string) string
}

// HTTPFetcher implements Fetcher over plain HTTP with a bounded timeout.
type HTTPFetcher struct {
	gatewayURL string
	client     *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher. gatewayURL is the IPFS gateway base
// the content-addressed references are resolved against.
func NewHTTPFetcher(gatewayURL string, timeout time.Duration) *HTTPFetcher {
	if !strings.HasSuffix(gatewayURL, "/") {
		gatewayURL += "/"
	}
	return &HTTPFetcher{
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: timeout},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) string {
	switch {
	case isIPFSRef(ref):
		return f.get(ctx, f.gatewayURL+ref)
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		return f.get(ctx, ref)
	default:
		// literal inline content, no network call
		return ref
	}
}

func (f *HTTPFetcher) get(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Warn("content fetch failed", "url", url, "error", err)
		return ""
	}

	resp, err := f.client.Do(req)
	if err != nil {
		slog.Warn("content fetch failed", "url", url, "error", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("content fetch returned non-200", "url", url, "status", resp.StatusCode)
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		slog.Warn("content fetch read failed", "url", url, "error", err)
		return ""
	}
	return string(body)
}

// isIPFSRef matches CIDv0 (Qm...) and CIDv1 (bafy...) style hashes.
func isIPFSRef(ref string) bool {
	return strings.HasPrefix(ref, "Qm") || strings.HasPrefix(ref, "bafy")
}

var _ Fetcher = (*HTTPFetcher)(nil)
