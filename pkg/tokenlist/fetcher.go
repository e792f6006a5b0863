package tokenlist

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ipfs/go-cid"
	"github.com/ipfs/kubo/client/rpc"
	"go.uber.org/zap"
)

// IpfsPrefix is the URI scheme prefix recognized for IPFS-hosted token lists.
const IpfsPrefix = "ipfs://"

// Fetcher retrieves a raw token-list document addressed by a URL or URI.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// httpFetcher retrieves documents over plain HTTP(S).
type httpFetcher struct {
	client *http.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build token list request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token list fetch failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			zap.L().Error("failed to close token list response", zap.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token list fetch returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ipfsFetcher retrieves documents by CID through a Kubo HTTP API.
type ipfsFetcher struct {
	api *rpc.HttpApi
}

func (f *ipfsFetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if f.api == nil {
		return nil, fmt.Errorf("ipfs client not configured")
	}

	hash := strings.TrimPrefix(uri, IpfsPrefix)
	cID, err := cid.Parse(hash)
	if err != nil {
		return nil, fmt.Errorf("invalid ipfs hash %q: %w", hash, err)
	}

	resp, err := f.api.Request("cat", cID.String()).Send(ctx)
	if err != nil {
		zap.L().Error("error executing the cat command in ipfs", zap.String("hash", hash), zap.Error(err))
		return nil, err
	}
	defer func() {
		if err := resp.Close(); err != nil {
			zap.L().Error("error closing response in ipfs", zap.String("hash", hash), zap.Error(err))
		}
	}()
	if resp.Error != nil {
		return nil, resp.Error
	}
	return io.ReadAll(resp.Output)
}

// schemeFetcher routes ipfs:// URIs to the IPFS backend and everything else
// to plain HTTP.
type schemeFetcher struct {
	http Fetcher
	ipfs Fetcher
}

func (f *schemeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, IpfsPrefix) {
		return f.ipfs.Fetch(ctx, url)
	}
	return f.http.Fetch(ctx, url)
}

// NewFetcher builds the production fetcher: HTTPS for web-hosted lists and a
// Kubo HTTP API client for ipfs:// URIs. ipfsURL may be empty, in which case
// ipfs:// lookups fail with a configuration error.
func NewFetcher(ipfsURL string, timeout time.Duration) Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	f := &schemeFetcher{
		http: &httpFetcher{client: httpClient},
		ipfs: &ipfsFetcher{},
	}
	if ipfsURL != "" {
		api, err := rpc.NewURLApiWithClient(ipfsURL, httpClient)
		if err != nil {
			zap.L().Error("Connection failed to IPFS", zap.String("url", ipfsURL), zap.Error(err))
		} else {
			f.ipfs = &ipfsFetcher{api: api}
		}
	}
	return f
}
