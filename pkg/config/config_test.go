package config

import (
	"testing"
	"time"
)

func TestValidate_FillsDefaults(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.APIURL != "https://api.zkpay.io" {
		t.Errorf("unexpected APIURL: %s", cfg.APIURL)
	}
	if cfg.Origin != "https://app.zkpay.io" {
		t.Errorf("unexpected Origin: %s", cfg.Origin)
	}
	if cfg.Network.ChainID != Main.ChainID {
		t.Errorf("expected mainnet default, got %+v", cfg.Network)
	}
	if cfg.TokenListURL == "" || cfg.IpfsURL == "" {
		t.Error("token list defaults not applied")
	}
}

func TestValidate_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		APIURL:  "https://api.example.test",
		Origin:  "https://pay.example.test",
		Network: Sepolia,
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.APIURL != "https://api.example.test" {
		t.Errorf("APIURL overwritten: %s", cfg.APIURL)
	}
	if cfg.Network.ChainID != "11155111" {
		t.Errorf("network overwritten: %+v", cfg.Network)
	}
}

func TestValidate_RejectsRelativeOrigin(t *testing.T) {
	cfg := &Config{Origin: "not a url"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative origin")
	}
}

func TestOriginHost(t *testing.T) {
	cfg := &Config{Origin: "https://pay.example.test/checkout"}
	if got := cfg.OriginHost(); got != "pay.example.test" {
		t.Errorf("OriginHost = %q, want pay.example.test", got)
	}
}

func TestGetPrivateKey(t *testing.T) {
	cfg := &Config{}
	if cfg.GetPrivateKey() != nil {
		t.Error("expected nil key for empty config")
	}

	cfg.PrivateKey = "not-hex"
	if cfg.GetPrivateKey() != nil {
		t.Error("expected nil key for invalid hex")
	}

	// 32-byte test vector, never used on a real network.
	cfg.PrivateKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	if cfg.GetPrivateKey() == nil {
		t.Error("expected parsed key")
	}
}

func TestTimeouts_WithDefaults(t *testing.T) {
	tt := Timeouts{}.WithDefaults()
	if tt.HTTPRequest != 10*time.Second {
		t.Errorf("HTTPRequest = %v", tt.HTTPRequest)
	}
	if tt.AuthExchange != 10*time.Second {
		t.Errorf("AuthExchange = %v", tt.AuthExchange)
	}
	if tt.TokenListRefresh != 5*time.Minute {
		t.Errorf("TokenListRefresh = %v", tt.TokenListRefresh)
	}

	custom := Timeouts{AuthExchange: time.Second}.WithDefaults()
	if custom.AuthExchange != time.Second {
		t.Errorf("explicit AuthExchange overwritten: %v", custom.AuthExchange)
	}
}
