package keys

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// Keypair holds a secp256k1 private key and its derived EOA address.
//
// Derivation: the public key is serialized uncompressed (64 bytes, format
// byte stripped), hashed with Keccak-256, and the last 20 bytes of the hash
// become the address.
type Keypair struct {
	secret  [32]byte
	address Address
}

// GenerateKeypair creates a keypair from a fresh cryptographically random
// private key.
func GenerateKeypair() (*Keypair, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	kp := &Keypair{}
	copy(kp.secret[:], crypto.FromECDSA(key))
	copy(kp.address[:], crypto.PubkeyToAddress(key.PublicKey).Bytes())
	return kp, nil
}

// KeypairFromSecret derives the keypair for an existing 32-byte private
// scalar. Returns an error if the scalar is zero or not below the curve
// order.
func KeypairFromSecret(secret [32]byte) (*Keypair, error) {
	key, err := crypto.ToECDSA(secret[:])
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}
	kp := &Keypair{secret: secret}
	copy(kp.address[:], crypto.PubkeyToAddress(key.PublicKey).Bytes())
	return kp, nil
}

// Address returns the derived EOA address.
func (k *Keypair) Address() Address {
	return k.address
}

// SecretBytes returns the 32-byte private key.
func (k *Keypair) SecretBytes() [32]byte {
	return k.secret
}

// SecretHex returns the private key as lowercase hex without 0x prefix.
func (k *Keypair) SecretHex() string {
	return fmt.Sprintf("%x", k.secret)
}
