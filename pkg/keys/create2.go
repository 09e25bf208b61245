package keys

// Safe-style CREATE2 derivation, matching SafeProxyFactory.createProxyWithNonce:
//
//	salt    = keccak256(initializerHash || saltNonce)            (64-byte preimage)
//	address = keccak256(0xff || factory || salt || initCodeHash)[12:32]  (85 bytes)
//
// All concatenations are fixed-width big-endian with no delimiters.

// SafeSalt computes the CREATE2 salt from the initializer hash and a 32-byte
// salt nonce.
func SafeSalt(initializerHash, saltNonce [32]byte) [32]byte {
	var preimage [64]byte
	copy(preimage[0:32], initializerHash[:])
	copy(preimage[32:64], saltNonce[:])
	return keccak256(preimage[:])
}

// SafeAddress computes the CREATE2 proxy address for a factory, init code
// hash, and salt.
func SafeAddress(factory [20]byte, initCodeHash, salt [32]byte) Address {
	var preimage [85]byte
	preimage[0] = 0xff
	copy(preimage[1:21], factory[:])
	copy(preimage[21:53], salt[:])
	copy(preimage[53:85], initCodeHash[:])

	hash := keccak256(preimage[:])
	var addr Address
	copy(addr[:], hash[12:32])
	return addr
}
