// Package keys implements address derivation for the two supported schemes:
// externally-owned accounts (secp256k1 keypair) and Safe-style CREATE2
// proxies (salt nonce). All derivations are deterministic; the randomness
// lives in the workers that pick candidate secrets.
package keys

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Address is a 20-byte Ethereum address.
type Address [20]byte

// AddressFromBytes builds an Address from a 20-byte slice.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != len(a) {
		return a, fmt.Errorf("address must be 20 bytes, got %d", len(b))
	}
	copy(a[:], b)
	return a, nil
}

// Bytes returns the raw address bytes.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the lowercase hex representation without 0x prefix.
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// HexPrefixed returns the lowercase hex representation with 0x prefix.
func (a Address) HexPrefixed() string {
	return "0x" + a.Hex()
}

// Checksum returns the EIP-55 checksummed representation (0x-prefixed).
// A hex letter is uppercased iff the corresponding nibble of
// keccak256(lowercase_hex) is >= 8; digits are never altered.
func (a Address) Checksum() string {
	hexAddr := a.Hex()

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(hexAddr))
	hash := h.Sum(nil)

	buf := make([]byte, 2, 42)
	buf[0], buf[1] = '0', 'x'
	for i := 0; i < len(hexAddr); i++ {
		c := hexAddr[i]
		nibble := hash[i/2] >> 4
		if i%2 == 1 {
			nibble = hash[i/2] & 0x0f
		}
		if c >= 'a' && c <= 'f' && nibble >= 8 {
			c -= 'a' - 'A'
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func (a Address) String() string {
	return a.Checksum()
}

func keccak256(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var out [32]byte
	h.Sum(out[:0])
	return out
}
