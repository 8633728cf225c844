package crypto

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

var schemes = []Scheme{Secp256k1, Ed25519}

func mustGenerate(t *testing.T, scheme Scheme) *PrivateKey {
	t.Helper()
	key, err := GenerateKey(scheme)
	if err != nil {
		t.Fatalf("GenerateKey(%s) error: %v", scheme, err)
	}
	return key
}

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		scheme     Scheme
		wantScheme Scheme
		pubLen     int
		uncompLen  int
	}{
		{SchemeAuto, Secp256k1, 33, 64},
		{Secp256k1, Secp256k1, 33, 64},
		{Ed25519, Ed25519, 32, 32},
	}

	for _, tt := range tests {
		t.Run(tt.scheme.String(), func(t *testing.T) {
			key := mustGenerate(t, tt.scheme)
			if key.Scheme() != tt.wantScheme {
				t.Errorf("Scheme() = %s, want %s", key.Scheme(), tt.wantScheme)
			}
			pub := key.PublicKey()
			if len(pub.Bytes()) != tt.pubLen {
				t.Errorf("PublicKey().Bytes() length = %d, want %d", len(pub.Bytes()), tt.pubLen)
			}
			if len(pub.Uncompressed()) != tt.uncompLen {
				t.Errorf("PublicKey().Uncompressed() length = %d, want %d", len(pub.Uncompressed()), tt.uncompLen)
			}
			if len(key.Bytes()) != PrivateKeySize {
				t.Errorf("Bytes() length = %d, want %d", len(key.Bytes()), PrivateKeySize)
			}
		})
	}
}

func TestGenerateKey_Unique(t *testing.T) {
	for _, scheme := range schemes {
		k1 := mustGenerate(t, scheme)
		k2 := mustGenerate(t, scheme)
		if bytes.Equal(k1.Bytes(), k2.Bytes()) {
			t.Errorf("%s: two generated keys should not be identical", scheme)
		}
	}
}

func TestGenerateKey_UnknownScheme(t *testing.T) {
	_, err := GenerateKey(Scheme(99))
	if !errors.Is(err, ErrUnsupportedKeyScheme) {
		t.Errorf("GenerateKey(99) error = %v, want ErrUnsupportedKeyScheme", err)
	}
}

func TestPrivateKeyFromBytes_Roundtrip(t *testing.T) {
	for _, scheme := range schemes {
		t.Run(scheme.String(), func(t *testing.T) {
			original := mustGenerate(t, scheme)
			restored, err := PrivateKeyFromBytes(scheme, original.Bytes())
			if err != nil {
				t.Fatalf("PrivateKeyFromBytes() error: %v", err)
			}
			if !original.PublicKey().Equal(restored.PublicKey()) {
				t.Error("restored key should have same public key")
			}
		})
	}
}

func TestPrivateKeyFromBytes_AutoPrefersSecp256k1(t *testing.T) {
	ed := mustGenerate(t, Ed25519)

	// A 32-byte seed is almost always a valid secp256k1 scalar too.
	key, err := PrivateKeyFromBytes(SchemeAuto, ed.Bytes())
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}
	if key.Scheme() != Secp256k1 {
		t.Errorf("Scheme() = %s, want secp256k1", key.Scheme())
	}
}

func TestPrivateKeyFromBytes_AutoFallsBackToEd25519(t *testing.T) {
	// The zero scalar is not a valid secp256k1 key but is a valid ed25519 seed.
	key, err := PrivateKeyFromBytes(SchemeAuto, make([]byte, 32))
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}
	if key.Scheme() != Ed25519 {
		t.Errorf("Scheme() = %s, want ed25519", key.Scheme())
	}

	// Scalars >= the curve order overflow.
	overflow := bytes.Repeat([]byte{0xff}, 32)
	key, err = PrivateKeyFromBytes(SchemeAuto, overflow)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}
	if key.Scheme() != Ed25519 {
		t.Errorf("Scheme() = %s, want ed25519", key.Scheme())
	}
}

func TestPrivateKeyFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		scheme Scheme
		data   []byte
	}{
		{"empty", SchemeAuto, []byte{}},
		{"too short", SchemeAuto, make([]byte, 16)},
		{"too long", SchemeAuto, make([]byte, 64)},
		{"zero scalar secp256k1", Secp256k1, make([]byte, 32)},
		{"short ed25519 seed", Ed25519, make([]byte, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrivateKeyFromBytes(tt.scheme, tt.data)
			if !errors.Is(err, ErrInvalidKeyMaterial) {
				t.Errorf("PrivateKeyFromBytes() error = %v, want ErrInvalidKeyMaterial", err)
			}
		})
	}
}

func TestSign_Verify(t *testing.T) {
	for _, scheme := range schemes {
		t.Run(scheme.String(), func(t *testing.T) {
			key := mustGenerate(t, scheme)
			msg := []byte("record content")

			sig, err := key.Sign(msg)
			if err != nil {
				t.Fatalf("Sign() error: %v", err)
			}
			if len(sig) != SignatureSize {
				t.Errorf("signature length = %d, want %d", len(sig), SignatureSize)
			}
			if !key.PublicKey().Verify(msg, sig) {
				t.Error("signature should verify against the correct key and message")
			}
		})
	}
}

func TestSign_Deterministic(t *testing.T) {
	for _, scheme := range schemes {
		key := mustGenerate(t, scheme)
		msg := []byte("deterministic test")
		sig1, err := key.Sign(msg)
		if err != nil {
			t.Fatalf("Sign() error: %v", err)
		}
		sig2, err := key.Sign(msg)
		if err != nil {
			t.Fatalf("Sign() error: %v", err)
		}
		if !bytes.Equal(sig1, sig2) {
			t.Errorf("%s signatures should be deterministic", scheme)
		}
	}
}

func TestSign_KnownVector(t *testing.T) {
	// Content of the example record in EIP-778, signed by its published key.
	keyBytes, _ := hex.DecodeString("b71c71a67e1177ad4e901695e1b4b9ee17ae16c6668d313eac2f96dbcda3f291")
	content, _ := hex.DecodeString("f84201826964827634826970847f00000189736563703235366b31a103ca634cae0d49acb401d8a4c6b6fe8c55b70d115bf400769cc1400f3258cd31388375647082765f")
	want := "7098ad865b00a582051940cb9cf36836572411a47278783077011599ed5cd16b76f2635f4e234738f30813a89eb9137e3e3df5266e3a1f11df72ecf1145ccb9c"

	key, err := PrivateKeyFromBytes(Secp256k1, keyBytes)
	if err != nil {
		t.Fatalf("PrivateKeyFromBytes() error: %v", err)
	}
	sig, err := key.Sign(content)
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if got := hex.EncodeToString(sig); got != want {
		t.Errorf("Sign() = %s, want %s", got, want)
	}
}

func TestVerify_WrongMessage(t *testing.T) {
	for _, scheme := range schemes {
		key := mustGenerate(t, scheme)
		sig, err := key.Sign([]byte("message"))
		if err != nil {
			t.Fatalf("Sign() error: %v", err)
		}
		if key.PublicKey().Verify([]byte("different message"), sig) {
			t.Errorf("%s: signature should not verify with wrong message", scheme)
		}
	}
}

func TestVerify_WrongKey(t *testing.T) {
	for _, scheme := range schemes {
		key1 := mustGenerate(t, scheme)
		key2 := mustGenerate(t, scheme)
		sig, err := key1.Sign([]byte("message"))
		if err != nil {
			t.Fatalf("Sign() error: %v", err)
		}
		if key2.PublicKey().Verify([]byte("message"), sig) {
			t.Errorf("%s: signature should not verify with wrong public key", scheme)
		}
	}
}

func TestVerify_CorruptedSignature(t *testing.T) {
	for _, scheme := range schemes {
		key := mustGenerate(t, scheme)
		sig, err := key.Sign([]byte("message"))
		if err != nil {
			t.Fatalf("Sign() error: %v", err)
		}

		// Flip a bit
		corrupted := make([]byte, len(sig))
		copy(corrupted, sig)
		corrupted[0] ^= 0x01

		if key.PublicKey().Verify([]byte("message"), corrupted) {
			t.Errorf("%s: corrupted signature should not verify", scheme)
		}
	}
}

// highS returns sig with s replaced by N-s, the malleated twin of a valid signature.
func highS(sig []byte) []byte {
	var s secp256k1.ModNScalar
	s.SetByteSlice(sig[32:])
	s.Negate()
	out := append([]byte(nil), sig...)
	s.PutBytesUnchecked(out[32:])
	return out
}

func TestVerify_InvalidInputs(t *testing.T) {
	key := mustGenerate(t, Secp256k1)
	pub := key.PublicKey()
	sig, err := key.Sign([]byte("message"))
	if err != nil {
		t.Fatalf("Sign() error: %v", err)
	}
	if !pub.Verify([]byte("message"), sig) {
		t.Fatal("low-S signature should verify")
	}

	tests := []struct {
		name      string
		signature []byte
	}{
		{"nil signature", nil},
		{"short signature", make([]byte, 10)},
		{"zero signature", make([]byte, 64)},
		{"overflowing r", bytes.Repeat([]byte{0xff}, 64)},
		{"high s", highS(sig)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Should not panic, just return false
			if pub.Verify([]byte("message"), tt.signature) {
				t.Error("should return false for invalid inputs")
			}
		})
	}
}

func TestParsePublicKey(t *testing.T) {
	for _, scheme := range schemes {
		key := mustGenerate(t, scheme)
		parsed, err := ParsePublicKey(scheme, key.PublicKey().Bytes())
		if err != nil {
			t.Fatalf("ParsePublicKey(%s) error: %v", scheme, err)
		}
		if !parsed.Equal(key.PublicKey()) {
			t.Errorf("%s: parsed key differs from original", scheme)
		}
	}

	if _, err := ParsePublicKey(Secp256k1, []byte("bad")); !errors.Is(err, ErrInvalidKeyMaterial) {
		t.Errorf("ParsePublicKey(garbage) error = %v, want ErrInvalidKeyMaterial", err)
	}
	if _, err := ParsePublicKey(Ed25519, make([]byte, 33)); !errors.Is(err, ErrInvalidKeyMaterial) {
		t.Errorf("ParsePublicKey(33-byte ed25519) error = %v, want ErrInvalidKeyMaterial", err)
	}
}

func TestPrivateKey_Zero(t *testing.T) {
	key := mustGenerate(t, Secp256k1)
	key.Zero()

	// After zeroing, the serialized key should be all zeros
	for _, b := range key.Bytes() {
		if b != 0 {
			t.Fatal("Bytes() should return zeros after Zero()")
		}
	}
}

func TestParseScheme(t *testing.T) {
	tests := []struct {
		in      string
		want    Scheme
		wantErr bool
	}{
		{"", SchemeAuto, false},
		{"secp256k1", Secp256k1, false},
		{"ED25519", Ed25519, false},
		{"rsa", SchemeAuto, true},
	}
	for _, tt := range tests {
		got, err := ParseScheme(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseScheme(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseScheme(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
