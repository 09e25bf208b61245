// Package worker implements the concurrent search engine: CPU workers, the
// optional OpenCL worker, and the pool that coordinates them.
package worker

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync/atomic"

	"ethvanity/pkg/keys"
)

// FoundRecord is a successful match. It is created by the worker that found
// it, sent once through the pool's result channel, and immutable afterwards.
type FoundRecord struct {
	// Secret is the raw secret material: the private key for EOA search,
	// the salt nonce for CREATE2 search.
	Secret [32]byte
	// Address is the derived address.
	Address keys.Address
	// WorkerID identifies the worker that found the match. The GPU worker,
	// if any, gets the id after the last CPU worker.
	WorkerID int
	// NonceSecret is true when Secret is a CREATE2 salt nonce rather than
	// a private key; such secrets also render as decimal.
	NonceSecret bool
}

// SecretHex returns the secret as lowercase hex without 0x prefix.
func (r FoundRecord) SecretHex() string {
	return hex.EncodeToString(r.Secret[:])
}

// SecretDecimal returns the secret as a decimal string. Only meaningful for
// nonce secrets (the Safe SDK takes the salt nonce in decimal).
func (r FoundRecord) SecretDecimal() string {
	return keys.BytesToDecimal(r.Secret[:])
}

// Stats holds the pool-wide counters. Both are monotonically non-decreasing
// and updated with lock-free atomics; workers add to Tested once per batch to
// bound contention, so snapshots may lag true progress by up to one in-flight
// batch per worker.
type Stats struct {
	Tested  atomic.Uint64
	Matches atomic.Uint64
}

// TotalTested returns the number of candidates tested so far.
func (s *Stats) TotalTested() uint64 { return s.Tested.Load() }

// TotalMatches returns the number of matches found so far.
func (s *Stats) TotalMatches() uint64 { return s.Matches.Load() }

// Deriver turns 32-byte secrets into addresses and owns the policy for
// walking the secret space. Implementations must be deterministic in Derive
// and safe for concurrent use; each worker drives its own secret value.
type Deriver interface {
	// Name identifies the derivation scheme for logs and output.
	Name() string
	// SeedSecret initializes a worker-local secret before the first batch.
	SeedSecret(secret *[32]byte) error
	// NextSecret advances secret to the next candidate.
	NextSecret(secret *[32]byte) error
	// Derive computes the address for the secret.
	Derive(secret *[32]byte) (keys.Address, error)
	// NonceSecret reports whether secrets are salt nonces (CREATE2) rather
	// than private keys.
	NonceSecret() bool
}

// EOADeriver derives externally-owned-account addresses. Every candidate is
// a fresh cryptographically random private scalar.
type EOADeriver struct{}

func (EOADeriver) Name() string      { return "eoa" }
func (EOADeriver) NonceSecret() bool { return false }

func (EOADeriver) SeedSecret(secret *[32]byte) error {
	return randomScalar(secret)
}

func (EOADeriver) NextSecret(secret *[32]byte) error {
	return randomScalar(secret)
}

func (EOADeriver) Derive(secret *[32]byte) (keys.Address, error) {
	kp, err := keys.KeypairFromSecret(*secret)
	if err != nil {
		return keys.Address{}, err
	}
	return kp.Address(), nil
}

func randomScalar(secret *[32]byte) error {
	for {
		if _, err := rand.Read(secret[:]); err != nil {
			return fmt.Errorf("read random scalar: %w", err)
		}
		if validScalar(secret) {
			return nil
		}
	}
}

// SafeDeriver derives Safe proxy CREATE2 addresses. Each worker seeds a
// random 256-bit nonce once and walks it sequentially, wrapping on overflow;
// this avoids per-candidate RNG cost while keeping workers in disjoint
// regions of the nonce space with overwhelming probability.
type SafeDeriver struct {
	Factory         [20]byte
	InitCodeHash    [32]byte
	InitializerHash [32]byte
}

func (*SafeDeriver) Name() string      { return "safe-create2" }
func (*SafeDeriver) NonceSecret() bool { return true }

func (*SafeDeriver) SeedSecret(secret *[32]byte) error {
	if _, err := rand.Read(secret[:]); err != nil {
		return fmt.Errorf("seed salt nonce: %w", err)
	}
	return nil
}

func (*SafeDeriver) NextSecret(secret *[32]byte) error {
	incrementNonce(secret)
	return nil
}

func (d *SafeDeriver) Derive(secret *[32]byte) (keys.Address, error) {
	salt := keys.SafeSalt(d.InitializerHash, *secret)
	return keys.SafeAddress(d.Factory, d.InitCodeHash, salt), nil
}
