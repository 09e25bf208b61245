package matcher

import (
	"strings"
	"testing"

	"ethvanity/pkg/keys"
)

func addrFromHex(t *testing.T, s string) keys.Address {
	t.Helper()
	if len(s) != 40 {
		t.Fatalf("test address must be 40 hex chars, got %d", len(s))
	}
	var a keys.Address
	for i := 0; i < 20; i++ {
		hi := nibbleVal(s[i*2])
		lo := nibbleVal(s[i*2+1])
		a[i] = hi<<4 | lo
	}
	return a
}

func nibbleVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return 0
}

const testAddr = "deadbeef1234567890abcdef1234567890cafe00"

func TestMatchesPrefix(t *testing.T) {
	addr := addrFromHex(t, testAddr)

	tests := []struct {
		pattern string
		want    bool
	}{
		{"dead", true},
		{"deadbeef", true},
		{"d", true},
		{"", true},
		{"beef", false},
		{"dead0", false},
		{testAddr, true},
	}
	for _, tt := range tests {
		p := New(tt.pattern, Prefix, false)
		if got := p.Matches(addr); got != tt.want {
			t.Errorf("prefix %q: got %v, want %v", tt.pattern, got, tt.want)
		}
		// Cross-check against plain string comparison.
		if got := strings.HasPrefix(testAddr, tt.pattern); got != tt.want {
			t.Errorf("prefix %q: string oracle disagrees", tt.pattern)
		}
	}
}

func TestMatchesSuffix(t *testing.T) {
	addr := addrFromHex(t, testAddr)

	tests := []struct {
		pattern string
		want    bool
	}{
		{"fe00", true},
		{"cafe00", true},
		{"0", true},
		{"", true},
		{"dead", false},
		{testAddr, true},
	}
	for _, tt := range tests {
		p := New(tt.pattern, Suffix, false)
		if got := p.Matches(addr); got != tt.want {
			t.Errorf("suffix %q: got %v, want %v", tt.pattern, got, tt.want)
		}
		if got := strings.HasSuffix(testAddr, tt.pattern); got != tt.want {
			t.Errorf("suffix %q: string oracle disagrees", tt.pattern)
		}
	}
}

func TestMatchesContains(t *testing.T) {
	addr := addrFromHex(t, testAddr)

	tests := []struct {
		pattern string
		want    bool
	}{
		{"1234", true},
		{"90ab", true},
		{"dead", true},
		{"fe00", true},
		{"", true}, // empty pattern matches everything
		{"ffff", false},
	}
	for _, tt := range tests {
		p := New(tt.pattern, Contains, false)
		if got := p.Matches(addr); got != tt.want {
			t.Errorf("contains %q: got %v, want %v", tt.pattern, got, tt.want)
		}
		if got := strings.Contains(testAddr, tt.pattern); got != tt.want {
			t.Errorf("contains %q: string oracle disagrees", tt.pattern)
		}
	}
}

func TestMatchesPrefixAndSuffix(t *testing.T) {
	addr := addrFromHex(t, testAddr)

	tests := []struct {
		prefix, suffix string
		want           bool
	}{
		{"dead", "fe00", true},
		{"dead", "dead", false},
		{"beef", "fe00", false},
		{"", "fe00", true},
		{"dead", "", true},
	}
	for _, tt := range tests {
		p := NewPrefixAndSuffix(tt.prefix, tt.suffix, false)
		if got := p.Matches(addr); got != tt.want {
			t.Errorf("prefix %q suffix %q: got %v, want %v", tt.prefix, tt.suffix, got, tt.want)
		}
	}
}

func TestMatchesCombinedFullLength(t *testing.T) {
	// Prefix and suffix that together cover all 40 nibbles: only the exact
	// address can match.
	addr := addrFromHex(t, testAddr)
	p := NewPrefixAndSuffix(testAddr[:20], testAddr[20:], false)
	if !p.Matches(addr) {
		t.Error("exact-cover pattern should match its own address")
	}

	other := addrFromHex(t, "deadbeef1234567890abcdef1234567890cafe01")
	if p.Matches(other) {
		t.Error("exact-cover pattern matched a different address")
	}
}

func TestCaseInsensitiveCompilation(t *testing.T) {
	addr := addrFromHex(t, testAddr)
	p := New("DEAD", Prefix, false)
	if !p.Matches(addr) {
		t.Error("uppercase pattern should fold to lowercase when case-insensitive")
	}
	if p.Pattern() != "dead" {
		t.Errorf("normalized pattern = %q, want %q", p.Pattern(), "dead")
	}
}

func TestEstimatedDifficulty(t *testing.T) {
	tests := []struct {
		pattern string
		want    uint64
	}{
		{"", 1},
		{"a", 16},
		{"dead", 65536},
		{"deadbe", 16777216},
	}
	for _, tt := range tests {
		p := New(tt.pattern, Prefix, false)
		if got := p.EstimatedDifficulty(); got != tt.want {
			t.Errorf("difficulty(%q) = %d, want %d", tt.pattern, got, tt.want)
		}
	}
}

func TestEstimatedDifficultySaturates(t *testing.T) {
	p := New(strings.Repeat("a", 16), Prefix, false)
	if got := p.EstimatedDifficulty(); got != ^uint64(0) {
		t.Errorf("difficulty should saturate at MaxUint64, got %d", got)
	}

	// Combined length counts both halves.
	p = NewPrefixAndSuffix(strings.Repeat("a", 8), strings.Repeat("b", 8), false)
	if got := p.EstimatedDifficulty(); got != ^uint64(0) {
		t.Errorf("combined difficulty should saturate, got %d", got)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want Type
	}{
		{"prefix", Prefix},
		{"start", Prefix},
		{"begin", Prefix},
		{"suffix", Suffix},
		{"end", Suffix},
		{"contains", Contains},
		{"anywhere", Contains},
		{"any", Contains},
		{"prefixandsuffix", PrefixAndSuffix},
		{"both", PrefixAndSuffix},
		{"PREFIX", Prefix},
	}
	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if err != nil {
			t.Errorf("ParseType(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseType("regex"); err == nil {
		t.Error("ParseType should reject unknown types")
	}
}

func TestSuffixNibbleSlot(t *testing.T) {
	// Suffix-mode patterns compile into the suffix slot; the prefix slot
	// stays empty. The device descriptor packing relies on this.
	p := New("cafe", Suffix, false)
	if _, n := p.PrefixNibbles(); n != 0 {
		t.Errorf("suffix pattern put %d nibbles in the prefix slot", n)
	}
	nib, n := p.SuffixNibbles()
	if n != 4 {
		t.Fatalf("suffix nibble count = %d, want 4", n)
	}
	want := [4]byte{0xc, 0xa, 0xf, 0xe}
	for i, v := range want {
		if nib[i] != v {
			t.Errorf("suffix nibble %d = %#x, want %#x", i, nib[i], v)
		}
	}
}
