package worker

import (
	"encoding/binary"
	"math/bits"
)

// secp256k1 group order n, as little-endian 64-bit limbs.
var curveOrder = [4]uint64{
	0xBFD25E8CD0364141,
	0xBAAEDCE6AF48A03B,
	0xFFFFFFFFFFFFFFFE,
	0xFFFFFFFFFFFFFFFF,
}

// addScalarModN computes (base + offset) mod n over big-endian 32-byte
// scalars. Used to reconstruct the private key for a GPU-reported lane
// offset: fixed-width addition with carry, then one conditional subtraction
// of n if the sum is >= n.
func addScalarModN(base *[32]byte, offset uint32) [32]byte {
	var k [4]uint64
	for i := 0; i < 4; i++ {
		k[i] = binary.BigEndian.Uint64(base[(3-i)*8:])
	}

	carry := uint64(0)
	k[0], carry = bits.Add64(k[0], uint64(offset), 0)
	for i := 1; i < 4 && carry != 0; i++ {
		k[i], carry = bits.Add64(k[i], 0, carry)
	}

	if carry != 0 || scalarGTE(&k, &curveOrder) {
		borrow := uint64(0)
		for i := 0; i < 4; i++ {
			k[i], borrow = bits.Sub64(k[i], curveOrder[i], borrow)
		}
	}

	var out [32]byte
	for i := 0; i < 4; i++ {
		binary.BigEndian.PutUint64(out[(3-i)*8:], k[i])
	}
	return out
}

func scalarGTE(a, b *[4]uint64) bool {
	for i := 3; i >= 0; i-- {
		if a[i] > b[i] {
			return true
		}
		if a[i] < b[i] {
			return false
		}
	}
	return true
}

// validScalar reports whether a big-endian 32-byte value is a usable private
// scalar: nonzero and strictly below the curve order.
func validScalar(b *[32]byte) bool {
	var k [4]uint64
	zero := true
	for i := 0; i < 4; i++ {
		k[i] = binary.BigEndian.Uint64(b[(3-i)*8:])
		if k[i] != 0 {
			zero = false
		}
	}
	return !zero && !scalarGTE(&k, &curveOrder)
}

// incrementNonce increments a 256-bit big-endian counter in place, wrapping
// from all-0xFF to zero.
func incrementNonce(n *[32]byte) {
	for i := 31; i >= 0; i-- {
		n[i]++
		if n[i] != 0 {
			return
		}
	}
}
