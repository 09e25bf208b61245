package keys

import (
	"encoding/hex"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func mustHex32(t *testing.T, s string) [32]byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != 32 {
		t.Fatalf("bad 32-byte hex fixture %q", s)
	}
	var out [32]byte
	copy(out[:], b)
	return out
}

func TestKeypairFromSecretKnownVector(t *testing.T) {
	// The address for private key 1 is a well-known constant.
	secret := mustHex32(t, "0000000000000000000000000000000000000000000000000000000000000001")
	kp, err := KeypairFromSecret(secret)
	if err != nil {
		t.Fatalf("KeypairFromSecret: %v", err)
	}
	want := "7e5f4552091a69125d5dfcb7b8c2659029395bdf"
	if got := kp.Address().Hex(); got != want {
		t.Errorf("address = %s, want %s", got, want)
	}
	if kp.SecretHex() != "0000000000000000000000000000000000000000000000000000000000000001" {
		t.Errorf("secret round-trip mismatch: %s", kp.SecretHex())
	}
}

func TestKeypairFromSecretRejectsZero(t *testing.T) {
	var zero [32]byte
	if _, err := KeypairFromSecret(zero); err == nil {
		t.Error("zero scalar should be rejected")
	}
}

func TestGenerateKeypair(t *testing.T) {
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	if kp.SecretBytes() == [32]byte{} {
		t.Error("generated secret is zero")
	}

	// Re-deriving from the generated secret must give the same address.
	kp2, err := KeypairFromSecret(kp.SecretBytes())
	if err != nil {
		t.Fatalf("re-derive: %v", err)
	}
	if kp.Address() != kp2.Address() {
		t.Errorf("re-derived address %s != %s", kp2.Address().Hex(), kp.Address().Hex())
	}
}

func TestChecksumVectors(t *testing.T) {
	// EIP-55 test vectors.
	vectors := []string{
		"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
		"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
		"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
		"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
	}
	for _, want := range vectors {
		var a Address
		b, err := hex.DecodeString(strings.ToLower(want[2:]))
		if err != nil {
			t.Fatalf("bad vector %q", want)
		}
		copy(a[:], b)
		if got := a.Checksum(); got != want {
			t.Errorf("Checksum = %s, want %s", got, want)
		}
	}
}

func TestChecksumRoundTrip(t *testing.T) {
	// Lowercasing a checksummed address recovers the plain hex form, and
	// digits are never case-altered.
	kp, err := GenerateKeypair()
	if err != nil {
		t.Fatalf("GenerateKeypair: %v", err)
	}
	a := kp.Address()

	sum := a.Checksum()
	if !strings.HasPrefix(sum, "0x") || len(sum) != 42 {
		t.Fatalf("malformed checksum output %q", sum)
	}
	if strings.ToLower(sum) != a.HexPrefixed() {
		t.Errorf("lowercased checksum %s != %s", strings.ToLower(sum), a.HexPrefixed())
	}
	for i := 2; i < len(sum); i++ {
		if sum[i] >= '0' && sum[i] <= '9' && a.HexPrefixed()[i] != sum[i] {
			t.Errorf("digit at position %d was altered", i)
		}
	}
}

func TestAddressFromBytes(t *testing.T) {
	if _, err := AddressFromBytes(make([]byte, 19)); err == nil {
		t.Error("19-byte input should be rejected")
	}
	a, err := AddressFromBytes(make([]byte, 20))
	if err != nil {
		t.Fatalf("AddressFromBytes: %v", err)
	}
	if a.HexPrefixed() != "0x0000000000000000000000000000000000000000" {
		t.Errorf("zero address rendered as %s", a.HexPrefixed())
	}
}

func TestSafeAddressMatchesCreate2(t *testing.T) {
	// Cross-check the full derivation against go-ethereum's CREATE2.
	var factory [20]byte
	copy(factory[:], common.HexToAddress("0x4e1DCf7AD4e460CfD30791CCC4F9c8a4f820ec67").Bytes())
	initCodeHash := mustHex32(t, "76733d705f71b79841c0ee960a0ca880f779cde7ef446c989e6d23efc0a4adfb")
	initializerHash := mustHex32(t, "1111111111111111111111111111111111111111111111111111111111111111")
	saltNonce := mustHex32(t, "00000000000000000000000000000000000000000000000000000000000004d2")

	salt := SafeSalt(initializerHash, saltNonce)
	got := SafeAddress(factory, initCodeHash, salt)

	want := crypto.CreateAddress2(common.BytesToAddress(factory[:]), salt, initCodeHash[:])
	if got.Hex() != strings.ToLower(want.Hex()[2:]) {
		t.Errorf("SafeAddress = %s, want %s", got.Hex(), want.Hex())
	}
}

func TestSafeSaltSensitivity(t *testing.T) {
	initializerHash := mustHex32(t, "2222222222222222222222222222222222222222222222222222222222222222")
	nonceA := mustHex32(t, "0000000000000000000000000000000000000000000000000000000000000001")
	nonceB := mustHex32(t, "0000000000000000000000000000000000000000000000000000000000000002")

	if SafeSalt(initializerHash, nonceA) == SafeSalt(initializerHash, nonceB) {
		t.Error("different nonces produced the same salt")
	}
	if SafeSalt(initializerHash, nonceA) != SafeSalt(initializerHash, nonceA) {
		t.Error("salt derivation is not deterministic")
	}
}

func TestBytesToDecimal(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{nil, "0"},
		{[]byte{0}, "0"},
		{[]byte{0, 0, 0}, "0"},
		{[]byte{1}, "1"},
		{[]byte{255}, "255"},
		{[]byte{1, 0}, "256"},
		{[]byte{0x04, 0xd2}, "1234"},
		{[]byte{0, 0, 0x04, 0xd2}, "1234"},
	}
	for _, tt := range tests {
		if got := BytesToDecimal(tt.in); got != tt.want {
			t.Errorf("BytesToDecimal(%x) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestBytesToDecimalBigOracle(t *testing.T) {
	// 32-byte values cross-checked against math/big.
	cases := []string{
		"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		"8000000000000000000000000000000000000000000000000000000000000000",
	}
	for _, c := range cases {
		b, _ := hex.DecodeString(c)
		want := new(big.Int).SetBytes(b).String()
		if got := BytesToDecimal(b); got != want {
			t.Errorf("BytesToDecimal(%s) = %s, want %s", c, got, want)
		}
	}
}
