package worker

import (
	"github.com/btcsuite/btcd/btcec/v2"
)

const (
	gTableEntries   = 32
	gTableEntrySize = 64 // x (32 bytes BE) || y (32 bytes BE)
	gTableSize      = gTableEntries * gTableEntrySize
)

// computeGTable precomputes 2^k*G for k = 0..31 as 64-byte uncompressed
// affine points. The GPU kernel adds the entries selected by the binary
// decomposition of each lane index to reach Q + i*G. Built once per worker
// construction and reused read-only across every batch.
func computeGTable() []byte {
	table := make([]byte, gTableSize)

	var scalar [32]byte
	for k := 0; k < gTableEntries; k++ {
		for i := range scalar {
			scalar[i] = 0
		}
		scalar[31-k/8] = 1 << (k % 8)

		priv, _ := btcec.PrivKeyFromBytes(scalar[:])
		ser := priv.PubKey().SerializeUncompressed()
		// ser[0] is the 0x04 format byte.
		copy(table[k*gTableEntrySize:], ser[1:65])
	}

	return table
}
