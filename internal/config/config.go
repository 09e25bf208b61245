package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"ethvanity/pkg/matcher"
)

// Errors
var (
	ErrNoPattern          = errors.New("must specify a pattern with --pattern or --suffix")
	ErrPatternNotHex      = errors.New("pattern must contain only hex characters (0-9, a-f)")
	ErrPatternTooLong     = errors.New("pattern must be at most 40 hex characters")
	ErrCombinedTooLong    = errors.New("combined prefix and suffix must be at most 40 hex characters")
	ErrBadFactory         = errors.New("factory must be a 20-byte hex address")
	ErrBadInitCodeHash    = errors.New("init code hash must be a 32-byte hex value")
	ErrBadInitializerHash = errors.New("initializer hash must be a 32-byte hex value")
)

// Config holds the search configuration shared by the eoa and safe commands.
type Config struct {
	Pattern string // prefix, contains or exact fragment depending on Type
	Suffix  string // suffix fragment; forces a combined search when Pattern is also set
	Type    string // prefix, suffix or contains

	Threads        int
	Count          int
	ReportInterval int // seconds between progress lines
	CaseSensitive  bool

	GPU         bool
	GPUDevice   int
	GPUWorkSize int

	// Safe (CREATE2) parameters.
	Factory         string
	InitCodeHash    string
	InitializerHash string
}

// New returns a configuration with default values.
func New() *Config {
	return &Config{
		Type:           "prefix",
		Threads:        runtime.NumCPU(),
		Count:          1,
		ReportInterval: 1,
	}
}

// Validate checks the pattern parameters common to both commands.
func (c *Config) Validate() error {
	pattern := c.NormalizedPattern()
	suffix := c.NormalizedSuffix()

	if pattern == "" && suffix == "" {
		return ErrNoPattern
	}
	if !isHex(pattern) || !isHex(suffix) {
		return ErrPatternNotHex
	}
	if len(pattern) > 40 || len(suffix) > 40 {
		return ErrPatternTooLong
	}
	if c.EffectiveType() == matcher.PrefixAndSuffix && len(pattern)+len(suffix) > 40 {
		return ErrCombinedTooLong
	}
	if _, err := matcher.ParseType(c.Type); err != nil {
		return err
	}
	return nil
}

// ValidateSafe additionally checks the CREATE2 parameters.
func (c *Config) ValidateSafe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := decodeHexExact(c.Factory, 20); err != nil {
		return ErrBadFactory
	}
	if _, err := decodeHexExact(c.InitCodeHash, 32); err != nil {
		return ErrBadInitCodeHash
	}
	if _, err := decodeHexExact(c.InitializerHash, 32); err != nil {
		return ErrBadInitializerHash
	}
	return nil
}

// NormalizedPattern returns the pattern lowercased with any 0x prefix
// stripped. Case folding is skipped when the search is case sensitive.
func (c *Config) NormalizedPattern() string {
	return c.normalize(c.Pattern)
}

// NormalizedSuffix returns the suffix lowercased with any 0x prefix stripped.
func (c *Config) NormalizedSuffix() string {
	return c.normalize(c.Suffix)
}

func (c *Config) normalize(s string) string {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if !c.CaseSensitive {
		s = strings.ToLower(s)
	}
	return s
}

// EffectiveType resolves the match type actually used. Setting --suffix
// together with a pattern forces a combined prefix-and-suffix search;
// --suffix alone forces a plain suffix search.
func (c *Config) EffectiveType() matcher.Type {
	if c.NormalizedSuffix() != "" {
		if c.NormalizedPattern() != "" {
			return matcher.PrefixAndSuffix
		}
		return matcher.Suffix
	}
	t, err := matcher.ParseType(c.Type)
	if err != nil {
		return matcher.Prefix
	}
	return t
}

// BuildPattern compiles the configured pattern. Validate must have passed.
func (c *Config) BuildPattern() *matcher.Pattern {
	switch c.EffectiveType() {
	case matcher.PrefixAndSuffix:
		return matcher.NewPrefixAndSuffix(c.NormalizedPattern(), c.NormalizedSuffix(), c.CaseSensitive)
	case matcher.Suffix:
		return matcher.New(c.NormalizedSuffix(), matcher.Suffix, c.CaseSensitive)
	default:
		return matcher.New(c.NormalizedPattern(), c.EffectiveType(), c.CaseSensitive)
	}
}

// FactoryBytes returns the CREATE2 factory address.
func (c *Config) FactoryBytes() ([20]byte, error) {
	var out [20]byte
	b, err := decodeHexExact(c.Factory, 20)
	if err != nil {
		return out, ErrBadFactory
	}
	copy(out[:], b)
	return out, nil
}

// InitCodeHashBytes returns the proxy creation code hash.
func (c *Config) InitCodeHashBytes() ([32]byte, error) {
	var out [32]byte
	b, err := decodeHexExact(c.InitCodeHash, 32)
	if err != nil {
		return out, ErrBadInitCodeHash
	}
	copy(out[:], b)
	return out, nil
}

// InitializerHashBytes returns the setup calldata hash.
func (c *Config) InitializerHashBytes() ([32]byte, error) {
	var out [32]byte
	b, err := decodeHexExact(c.InitializerHash, 32)
	if err != nil {
		return out, ErrBadInitializerHash
	}
	copy(out[:], b)
	return out, nil
}

// WorkerCount returns the CPU worker count, defaulting to NumCPU.
func (c *Config) WorkerCount() int {
	if c.Threads <= 0 {
		return runtime.NumCPU()
	}
	return c.Threads
}

// ReportEvery returns the progress reporting period, clamped to at least one
// second.
func (c *Config) ReportEvery() time.Duration {
	if c.ReportInterval < 1 {
		return time.Second
	}
	return time.Duration(c.ReportInterval) * time.Second
}

// TargetDescription returns a human-readable description of the search.
func (c *Config) TargetDescription() string {
	switch c.EffectiveType() {
	case matcher.Suffix:
		return "suffix: " + c.NormalizedSuffix()
	case matcher.Contains:
		return "contains: " + c.NormalizedPattern()
	case matcher.PrefixAndSuffix:
		return fmt.Sprintf("prefix: %s, suffix: %s", c.NormalizedPattern(), c.NormalizedSuffix())
	default:
		return "prefix: " + c.NormalizedPattern()
	}
}

func isHex(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

func decodeHexExact(s string, n int) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(b) != n {
		return nil, fmt.Errorf("expected %d bytes, got %d", n, len(b))
	}
	return b, nil
}
