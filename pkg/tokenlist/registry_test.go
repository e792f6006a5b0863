package tokenlist

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jonboulle/clockwork"
	"github.com/zkpay/zkpay-sdk-go/pkg/blockchain"
)

const sampleList = `{
  "name": "zkpay default",
  "tokens": [
    {"chainId": 1, "address": "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", "symbol": "USDC", "name": "USD Coin", "decimals": 6},
    {"chainId": 1, "address": "0xdAC17F958D2ee523a2206206994597C13D831ec7", "symbol": "USDT", "name": "Tether USD", "decimals": 6}
  ]
}`

type listServer struct {
	srv  *httptest.Server
	hits atomic.Int64
	fail atomic.Bool
}

func newListServer(t *testing.T) *listServer {
	t.Helper()
	s := &listServer{}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)
		if s.fail.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, sampleList)
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func TestRegistry_ListCachedUntilInterval(t *testing.T) {
	srv := newListServer(t)
	clock := clockwork.NewFakeClock()
	r := NewRegistry(NewFetcher("", time.Second), srv.srv.URL, WithRegistryClock(clock))

	for i := 0; i < 4; i++ {
		list, err := r.List(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if len(list.Tokens) != 2 {
			t.Fatalf("token count = %d", len(list.Tokens))
		}
	}
	if n := srv.hits.Load(); n != 1 {
		t.Errorf("fetch count = %d, want 1", n)
	}

	clock.Advance(DefaultRefreshInterval + time.Second)
	if _, err := r.List(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := srv.hits.Load(); n != 2 {
		t.Errorf("fetch count after interval = %d, want 2", n)
	}
}

func TestRegistry_ServesStaleOnRefetchFailure(t *testing.T) {
	srv := newListServer(t)
	clock := clockwork.NewFakeClock()
	r := NewRegistry(NewFetcher("", time.Second), srv.srv.URL, WithRegistryClock(clock))

	if _, err := r.List(context.Background()); err != nil {
		t.Fatal(err)
	}

	srv.fail.Store(true)
	clock.Advance(DefaultRefreshInterval + time.Second)

	list, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("stale copy not served: %v", err)
	}
	if len(list.Tokens) != 2 {
		t.Errorf("stale token count = %d", len(list.Tokens))
	}
}

func TestRegistry_FirstFetchFailureIsFatal(t *testing.T) {
	srv := newListServer(t)
	srv.fail.Store(true)

	r := NewRegistry(NewFetcher("", time.Second), srv.srv.URL)
	if _, err := r.List(context.Background()); err == nil {
		t.Error("expected error when no list was ever fetched")
	}
}

func TestRegistry_ResolveFromList(t *testing.T) {
	srv := newListServer(t)
	r := NewRegistry(NewFetcher("", time.Second), srv.srv.URL)

	// Address casing does not matter.
	info, err := r.Resolve(context.Background(), 1, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	if err != nil {
		t.Fatal(err)
	}
	if info.Symbol != "USDC" || info.Decimals != 6 {
		t.Errorf("resolved %+v", info)
	}
}

type stubChainReader struct {
	meta  *blockchain.ERC20Metadata
	err   error
	calls int
}

func (s *stubChainReader) TokenMetadata(_ context.Context, _ common.Address) (*blockchain.ERC20Metadata, error) {
	s.calls++
	return s.meta, s.err
}

func TestRegistry_ResolveFallsBackToChain(t *testing.T) {
	srv := newListServer(t)
	chain := &stubChainReader{meta: &blockchain.ERC20Metadata{Name: "Dai Stablecoin", Symbol: "DAI", Decimals: 18}}
	r := NewRegistry(NewFetcher("", time.Second), srv.srv.URL, WithChainReader(chain))

	info, err := r.Resolve(context.Background(), 1, "0x6B175474E89094C44Da98b954EedeAC495271d0F")
	if err != nil {
		t.Fatal(err)
	}
	if info.Symbol != "DAI" || info.Decimals != 18 || info.ChainID != 1 {
		t.Errorf("resolved %+v", info)
	}
	if chain.calls != 1 {
		t.Errorf("chain reads = %d, want 1", chain.calls)
	}
}

func TestRegistry_ResolveUnlistedWithoutChainReader(t *testing.T) {
	srv := newListServer(t)
	r := NewRegistry(NewFetcher("", time.Second), srv.srv.URL)

	if _, err := r.Resolve(context.Background(), 1, "0x6B175474E89094C44Da98b954EedeAC495271d0F"); err == nil {
		t.Error("expected error for unlisted token without a chain reader")
	}
}

type recordingFetcher struct{ urls []string }

func (f *recordingFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.urls = append(f.urls, url)
	return []byte(`{"tokens":[]}`), nil
}

func TestSchemeFetcher_RoutesByPrefix(t *testing.T) {
	httpF := &recordingFetcher{}
	ipfsF := &recordingFetcher{}
	f := &schemeFetcher{http: httpF, ipfs: ipfsF}

	if _, err := f.Fetch(context.Background(), "https://tokens.zkpay.io/tokenlist.json"); err != nil {
		t.Fatal(err)
	}
	if _, err := f.Fetch(context.Background(), "ipfs://QmbWqxBEKC3P8tqsKc98xmWNzrzDtRLMiMPL8wBuTGsMnR"); err != nil {
		t.Fatal(err)
	}

	if len(httpF.urls) != 1 || len(ipfsF.urls) != 1 {
		t.Fatalf("routing: http=%v ipfs=%v", httpF.urls, ipfsF.urls)
	}
}
