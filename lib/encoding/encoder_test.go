package encoding

import (
	"errors"
	"strings"
	"testing"
)

type testToken struct {
	Page     string `msgpack:"p"`
	Callback string `msgpack:"c"`
}

func TestNewEncoder(t *testing.T) {
	// Should work with any key length (derives 32-byte key)
	_, err := NewEncoder([]byte("short"))
	if err != nil {
		t.Fatalf("NewEncoder with short key failed: %v", err)
	}

	_, err = NewEncoder([]byte("this-is-a-32-byte-key-for-aes!!!"))
	if err != nil {
		t.Fatalf("NewEncoder with 32-byte key failed: %v", err)
	}

	_, err = NewEncoder([]byte("this-key-is-longer-than-thirty-two-bytes"))
	if err != nil {
		t.Fatalf("NewEncoder with long key failed: %v", err)
	}
}

func TestSignedRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	original := testToken{Page: "5f0c", Callback: "c3"}

	token, err := enc.Encode(original, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if !strings.Contains(token, ".") {
		t.Fatalf("signed token %q has no signature separator", token)
	}
	if strings.ContainsAny(token, "&=?+/") {
		t.Fatalf("token %q is not query-safe", token)
	}

	var decoded testToken
	if err := enc.Decode(token, false, &decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded != original {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestEncryptedRoundTrip(t *testing.T) {
	enc, err := NewEncoder([]byte("test-key"))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}

	original := testToken{Page: "secret-page", Callback: "c1"}

	token, err := enc.Encode(original, true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if strings.Contains(token, "secret") {
		t.Fatalf("encrypted token leaks plaintext: %q", token)
	}

	var decoded testToken
	if err := enc.Decode(token, true, &decoded); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded != original {
		t.Errorf("decoded = %+v, want %+v", decoded, original)
	}
}

func TestSignatureVerificationFailure(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	token, err := enc.Encode(testToken{Page: "p", Callback: "c1"}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	data, _, _ := strings.Cut(token, ".")
	tampered := data + ".AAAAAAAAAAAAAAAAAAAAAA"

	var decoded testToken
	err = enc.Decode(tampered, false, &decoded)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid, got: %v", err)
	}
}

func TestDecryptionFailure(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	token, err := enc.Encode(testToken{Page: "p", Callback: "c1"}, true)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	tampered := token[:len(token)-2] + "AA"
	if tampered == token {
		tampered = token[:len(token)-2] + "BB"
	}

	var decoded testToken
	err = enc.Decode(tampered, true, &decoded)
	if err == nil {
		t.Error("expected error for tampered ciphertext, got nil")
	}
}

func TestInvalidFormat(t *testing.T) {
	enc, _ := NewEncoder([]byte("test-key"))

	var decoded testToken
	err := enc.Decode("invalidbase64withoutseparator", false, &decoded)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got: %v", err)
	}

	err = enc.Decode("!!!", true, &decoded)
	if !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat for bad ciphertext, got: %v", err)
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	enc1, _ := NewEncoder([]byte("key-one"))
	enc2, _ := NewEncoder([]byte("key-two"))

	token, err := enc1.Encode(testToken{Page: "p", Callback: "c1"}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	var decoded testToken
	if err := enc2.Decode(token, false, &decoded); err == nil {
		t.Error("expected error when decoding with different key")
	}
}
