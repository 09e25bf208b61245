package keys

// BytesToDecimal converts a big-endian byte array to its decimal string.
// The Safe SDK takes the salt nonce as a decimal string, so results must
// render the nonce in both bases. Implemented by repeated base-256 digit
// accumulation; math/big would work too but this keeps the conversion
// allocation-light and dependency-free.
func BytesToDecimal(b []byte) string {
	start := -1
	for i, v := range b {
		if v != 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return "0"
	}

	// Decimal digits, least significant first.
	digits := []byte{0}
	for _, v := range b[start:] {
		carry := uint32(v)
		for i := range digits {
			val := uint32(digits[i])*256 + carry
			digits[i] = byte(val % 10)
			carry = val / 10
		}
		for carry > 0 {
			digits = append(digits, byte(carry%10))
			carry /= 10
		}
	}

	out := make([]byte, len(digits))
	for i, d := range digits {
		out[len(digits)-1-i] = '0' + d
	}
	return string(out)
}
