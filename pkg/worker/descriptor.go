package worker

import (
	"encoding/binary"

	"ethvanity/pkg/keys"
	"ethvanity/pkg/matcher"
)

// Buffer contract with the OpenCL kernel. These layouts are byte-exact and
// must match the kernel's pattern_config_t / result_t:
//
//	pattern descriptor (packed, 96 bytes):
//	  u32 pattern_type   0=prefix 1=suffix 2=contains 3=prefix+suffix
//	  u32 pattern_len    prefix length in nibbles
//	  u32 suffix_len     suffix length in nibbles
//	  u32 pad
//	  u8  pattern_nibbles[40]
//	  u8  suffix_nibbles[40]
//
//	result entry (natural alignment, 28 bytes):
//	  u32 found
//	  u32 offset
//	  u8  addr[20]
const (
	patternDescriptorSize = 16 + 40 + 40
	resultEntrySize       = 4 + 4 + 20

	// maxResultsPerBatch bounds the device-side result buffer; lanes stop
	// appending once it is full.
	maxResultsPerBatch = 256

	// defaultGPUWorkSize is the lanes-per-dispatch default (2^20).
	defaultGPUWorkSize = 1 << 20
)

// packPatternDescriptor serializes a compiled pattern into the kernel's
// packed descriptor layout. For Suffix mode the pattern occupies the suffix
// slot and the prefix slot is empty.
func packPatternDescriptor(p *matcher.Pattern) [patternDescriptorSize]byte {
	var buf [patternDescriptorSize]byte

	prefix, prefixLen := p.PrefixNibbles()
	suffix, suffixLen := p.SuffixNibbles()

	binary.LittleEndian.PutUint32(buf[0:], uint32(p.PatternType()))
	binary.LittleEndian.PutUint32(buf[4:], uint32(prefixLen))
	binary.LittleEndian.PutUint32(buf[8:], uint32(suffixLen))
	// buf[12:16] is the explicit pad word.
	copy(buf[16:56], prefix[:])
	copy(buf[56:96], suffix[:])
	return buf
}

// deviceResult is one parsed kernel result entry.
type deviceResult struct {
	found  bool
	offset uint32
	addr   keys.Address
}

// parseResultEntries decodes up to count entries from the raw result buffer.
// The device gives no ordering guarantee among offsets.
func parseResultEntries(raw []byte, count int) []deviceResult {
	if max := len(raw) / resultEntrySize; count > max {
		count = max
	}
	out := make([]deviceResult, 0, count)
	for i := 0; i < count; i++ {
		e := raw[i*resultEntrySize:]
		r := deviceResult{
			found:  binary.LittleEndian.Uint32(e[0:]) != 0,
			offset: binary.LittleEndian.Uint32(e[4:]),
		}
		copy(r.addr[:], e[8:28])
		out = append(out, r)
	}
	return out
}
