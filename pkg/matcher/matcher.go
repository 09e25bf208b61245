// Package matcher compiles hex patterns into fast predicates over 20-byte
// addresses. Matching happens at nibble (hex character) granularity on a
// stack buffer, so the hot path performs no allocations.
package matcher

import (
	"fmt"
	"strings"

	"ethvanity/pkg/keys"
)

// Type selects where in the address the pattern must appear.
type Type int

const (
	// Prefix matches at the beginning of the address.
	Prefix Type = iota
	// Suffix matches at the end of the address.
	Suffix
	// Contains matches anywhere in the address.
	Contains
	// PrefixAndSuffix matches a prefix pattern and a suffix pattern
	// independently.
	PrefixAndSuffix
)

// ParseType parses a pattern type name. Accepts the same aliases as the CLI
// surface: prefix/start/begin, suffix/end, contains/anywhere/any,
// prefixandsuffix/both.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(s) {
	case "prefix", "start", "begin":
		return Prefix, nil
	case "suffix", "end":
		return Suffix, nil
	case "contains", "anywhere", "any":
		return Contains, nil
	case "prefixandsuffix", "both":
		return PrefixAndSuffix, nil
	default:
		return 0, fmt.Errorf("unknown pattern type: %q", s)
	}
}

func (t Type) String() string {
	switch t {
	case Prefix:
		return "prefix"
	case Suffix:
		return "suffix"
	case Contains:
		return "contains"
	case PrefixAndSuffix:
		return "prefix+suffix"
	default:
		return "unknown"
	}
}

// Pattern is a compiled, immutable pattern. It is cheap to share read-only
// across workers. Construction assumes pre-validated hex input (the
// configuration layer owns validation); case folding happens once here.
type Pattern struct {
	pattern string
	suffix  string
	typ     Type

	prefixNibbles [40]byte
	prefixLen     int
	suffixNibbles [40]byte
	suffixLen     int

	caseSensitive bool
}

// New compiles a single-pattern matcher for the given type.
func New(pattern string, typ Type, caseSensitive bool) *Pattern {
	if !caseSensitive {
		pattern = strings.ToLower(pattern)
	}
	p := &Pattern{pattern: pattern, typ: typ, caseSensitive: caseSensitive}
	switch typ {
	case Suffix:
		p.suffixLen = toNibbles(&p.suffixNibbles, pattern)
	default:
		p.prefixLen = toNibbles(&p.prefixNibbles, pattern)
	}
	return p
}

// NewPrefixAndSuffix compiles a matcher requiring both a prefix and a suffix.
func NewPrefixAndSuffix(prefix, suffix string, caseSensitive bool) *Pattern {
	if !caseSensitive {
		prefix = strings.ToLower(prefix)
		suffix = strings.ToLower(suffix)
	}
	p := &Pattern{pattern: prefix, suffix: suffix, typ: PrefixAndSuffix, caseSensitive: caseSensitive}
	p.prefixLen = toNibbles(&p.prefixNibbles, prefix)
	p.suffixLen = toNibbles(&p.suffixNibbles, suffix)
	return p
}

// Pattern returns the normalized primary pattern string.
func (p *Pattern) Pattern() string { return p.pattern }

// SuffixPattern returns the normalized suffix pattern ("" unless
// PrefixAndSuffix).
func (p *Pattern) SuffixPattern() string { return p.suffix }

// PatternType returns the match mode.
func (p *Pattern) PatternType() Type { return p.typ }

// PrefixNibbles returns the compiled prefix nibble values and their count.
// For Suffix mode the count is zero; the pattern lives in SuffixNibbles.
func (p *Pattern) PrefixNibbles() ([40]byte, int) { return p.prefixNibbles, p.prefixLen }

// SuffixNibbles returns the compiled suffix nibble values and their count.
func (p *Pattern) SuffixNibbles() ([40]byte, int) { return p.suffixNibbles, p.suffixLen }

// Matches reports whether the address satisfies the pattern.
func (p *Pattern) Matches(addr keys.Address) bool {
	// Two nibbles per byte, high nibble first.
	var nib [40]byte
	for i, b := range addr {
		nib[i*2] = b >> 4
		nib[i*2+1] = b & 0x0f
	}

	switch p.typ {
	case Prefix:
		return hasPrefix(&nib, &p.prefixNibbles, p.prefixLen)
	case Suffix:
		return hasSuffix(&nib, &p.suffixNibbles, p.suffixLen)
	case Contains:
		return contains(&nib, &p.prefixNibbles, p.prefixLen)
	case PrefixAndSuffix:
		return hasPrefix(&nib, &p.prefixNibbles, p.prefixLen) &&
			hasSuffix(&nib, &p.suffixNibbles, p.suffixLen)
	default:
		return false
	}
}

// EstimatedDifficulty returns the expected number of attempts per match:
// 16^n for n combined pattern characters, saturating at MaxUint64.
func (p *Pattern) EstimatedDifficulty() uint64 {
	n := len(p.pattern) + len(p.suffix)
	if n >= 16 {
		return ^uint64(0)
	}
	d := uint64(1)
	for i := 0; i < n; i++ {
		d *= 16
	}
	return d
}

// DifficultyDescription returns a human-readable difficulty bucket. Purely
// informational; matching never consults it.
func (p *Pattern) DifficultyDescription() string {
	switch d := p.EstimatedDifficulty(); {
	case d <= 1_000:
		return "Very Easy (< 1 second)"
	case d <= 100_000:
		return "Easy (seconds)"
	case d <= 10_000_000:
		return "Medium (minutes)"
	case d <= 1_000_000_000:
		return "Hard (hours)"
	default:
		return "Very Hard (days or more)"
	}
}

func toNibbles(dst *[40]byte, pattern string) int {
	n := len(pattern)
	if n > 40 {
		n = 40
	}
	for i := 0; i < n; i++ {
		dst[i] = hexNibble(pattern[i])
	}
	return n
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

func hasPrefix(addr *[40]byte, pat *[40]byte, n int) bool {
	for i := 0; i < n; i++ {
		if addr[i] != pat[i] {
			return false
		}
	}
	return true
}

func hasSuffix(addr *[40]byte, pat *[40]byte, n int) bool {
	off := 40 - n
	for i := 0; i < n; i++ {
		if addr[off+i] != pat[i] {
			return false
		}
	}
	return true
}

func contains(addr *[40]byte, pat *[40]byte, n int) bool {
	// Empty pattern always matches.
	for start := 0; start+n <= 40; start++ {
		ok := true
		for i := 0; i < n; i++ {
			if addr[start+i] != pat[i] {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}
