package webhook

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jonboulle/clockwork"
	"github.com/zkpay/zkpay-sdk-go/pkg/blockchain"
	"github.com/zkpay/zkpay-sdk-go/pkg/rest"
)

const (
	operatorKeyHex = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	intruderKeyHex = "289c2857d4598e37fb9647507e47a309d6133539bf21a8b9cb6df88fd5232032"
)

func signedPayload(t *testing.T, keyHex string, payload []byte) string {
	t.Helper()
	_, key, err := blockchain.ParsePrivateKeyECDSA(keyHex)
	if err != nil {
		t.Fatal(err)
	}
	sig, err := blockchain.PersonalSign(payload, key)
	if err != nil {
		t.Fatal(err)
	}
	return hexutil.Encode(sig)
}

func operatorServer(t *testing.T, keyHex string) (*rest.Client, *atomic.Int64) {
	t.Helper()
	addr, _, err := blockchain.ParsePrivateKeyECDSA(keyHex)
	if err != nil {
		t.Fatal(err)
	}
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/operator" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		fmt.Fprintf(w, `{"address":%q}`, addr.Hex())
	}))
	t.Cleanup(srv.Close)
	return rest.NewClient(srv.URL, 5*time.Second), &hits
}

func TestVerifier_AcceptsOperatorSignature(t *testing.T) {
	api, _ := operatorServer(t, operatorKeyHex)
	v := NewVerifier(api)

	payload := []byte(`{"id":"pay_1","status":"confirmed"}`)
	sig := signedPayload(t, operatorKeyHex, payload)

	if err := v.Verify(context.Background(), payload, sig); err != nil {
		t.Fatalf("authentic notification rejected: %v", err)
	}
}

func TestVerifier_RejectsForeignSignature(t *testing.T) {
	api, _ := operatorServer(t, operatorKeyHex)
	v := NewVerifier(api)

	payload := []byte(`{"id":"pay_1","status":"confirmed"}`)
	sig := signedPayload(t, intruderKeyHex, payload)

	if err := v.Verify(context.Background(), payload, sig); err == nil {
		t.Fatal("notification signed by a non-operator key accepted")
	}
}

func TestVerifier_RejectsTamperedPayload(t *testing.T) {
	api, _ := operatorServer(t, operatorKeyHex)
	v := NewVerifier(api)

	sig := signedPayload(t, operatorKeyHex, []byte(`{"id":"pay_1","status":"confirmed"}`))
	tampered := []byte(`{"id":"pay_1","status":"failed"}`)

	if err := v.Verify(context.Background(), tampered, sig); err == nil {
		t.Fatal("tampered payload accepted")
	}
}

func TestVerifier_RejectsMalformedSignature(t *testing.T) {
	api, _ := operatorServer(t, operatorKeyHex)
	v := NewVerifier(api)

	if err := v.Verify(context.Background(), []byte("x"), "not-hex"); err == nil {
		t.Error("malformed signature accepted")
	}
	if err := v.Verify(context.Background(), []byte("x"), "0xdead"); err == nil {
		t.Error("truncated signature accepted")
	}
}

func TestVerifier_OperatorAddressCached(t *testing.T) {
	api, hits := operatorServer(t, operatorKeyHex)
	clock := clockwork.NewFakeClock()
	v := NewVerifier(api, WithClock(clock))

	payload := []byte("n")
	sig := signedPayload(t, operatorKeyHex, payload)
	for i := 0; i < 3; i++ {
		if err := v.Verify(context.Background(), payload, sig); err != nil {
			t.Fatal(err)
		}
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("operator fetches = %d, want 1", n)
	}

	clock.Advance(DefaultRefreshInterval + time.Second)
	if err := v.Verify(context.Background(), payload, sig); err != nil {
		t.Fatal(err)
	}
	if n := hits.Load(); n != 2 {
		t.Errorf("operator fetches after interval = %d, want 2", n)
	}
}

func TestVerifier_FirstFetchFailureSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	v := NewVerifier(rest.NewClient(srv.URL, time.Second))
	if err := v.Verify(context.Background(), []byte("x"), "0x00"); err == nil {
		t.Error("expected error when operator address is unavailable")
	}
}
