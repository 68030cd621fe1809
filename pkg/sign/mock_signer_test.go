package sign

import (
	"bytes"
	"testing"
)

func TestMockSigner(t *testing.T) {
	signer := NewMockSigner("test-id")
	payload := []byte("test payload")

	sig, err := signer.Sign(payload)
	if err != nil {
		t.Fatalf("Sign failed: %v", err)
	}

	expectedSig := []byte("test payload-signed-by-test-id")
	if !bytes.Equal(sig, expectedSig) {
		t.Errorf("got signature %q, want %q", sig, expectedSig)
	}

	pk := signer.PublicKey()
	if pk.Address().String() != "test-id" {
		t.Errorf("got address %q, want %q", pk.Address().String(), "test-id")
	}
}

func TestMockPublicKey(t *testing.T) {
	pk := NewMockPublicKey("key-id")

	if pk.Address().String() != "key-id" {
		t.Errorf("got address %q, want %q", pk.Address().String(), "key-id")
	}

	if !bytes.Equal(pk.Bytes(), []byte("key-id")) {
		t.Errorf("got bytes %q, want %q", pk.Bytes(), []byte("key-id"))
	}
}

func TestMockAddress(t *testing.T) {
	addr1 := NewMockAddress("addr1")
	addr2 := NewMockAddress("addr1")
	addr3 := NewMockAddress("addr2")

	if addr1.String() != "addr1" {
		t.Errorf("got string %q, want %q", addr1.String(), "addr1")
	}

	if !addr1.Equals(addr2) {
		t.Error("addr1 should equal addr2")
	}

	if addr1.Equals(addr3) {
		t.Error("addr1 should not equal addr3")
	}
}
