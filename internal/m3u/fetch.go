package m3u

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FetchTimeout bounds playlist downloads. Network collaborators get explicit
// timeouts; database-bound core operations do not.
const FetchTimeout = 10 * time.Second

// maxPlaylistBytes caps how much of a remote playlist is read (8 MiB).
const maxPlaylistBytes = 8 << 20

// Fetch downloads the playlist at url and parses it. The request is aborted
// after FetchTimeout.
func Fetch(ctx context.Context, client *http.Client, url string) ([]Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("m3u: build request: %w", err)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("m3u: fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("m3u: playlist fetch returned %d", resp.StatusCode)
	}

	return Parse(io.LimitReader(resp.Body, maxPlaylistBytes))
}
