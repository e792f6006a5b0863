package auth

import (
	"strings"
	"testing"

	"github.com/zkpay/zkpay-sdk-go/pkg/blockchain"
)

func TestNewPrivateKeyIdentity(t *testing.T) {
	id := testIdentity(t)
	if got := id.Address().Hex(); !strings.EqualFold(got, "0x96216849c49358B10257cb55b28eA603c874b05E") {
		t.Errorf("Address = %s", got)
	}
}

func TestNewPrivateKeyIdentity_RejectsGarbage(t *testing.T) {
	if _, err := NewPrivateKeyIdentity("not-a-key"); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestPrivateKeyIdentity_SignatureRecoversToAddress(t *testing.T) {
	id := testIdentity(t)
	msg := []byte("app.zkpay.io wants you to sign in with your Ethereum account:")

	sig, err := id.SignMessage(msg)
	if err != nil {
		t.Fatalf("SignMessage failed: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("signature length = %d", len(sig))
	}
	if v := sig[64]; v != 27 && v != 28 {
		t.Errorf("recovery byte = %d, want 27 or 28", v)
	}

	recovered, err := blockchain.RecoverPersonalSigner(msg, sig)
	if err != nil {
		t.Fatalf("recover failed: %v", err)
	}
	if recovered != id.Address() {
		t.Errorf("recovered %s, want %s", recovered.Hex(), id.Address().Hex())
	}
}
