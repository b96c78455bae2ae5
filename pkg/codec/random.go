package codec

import (
	"crypto/rand"
	"io"
)

// Names of the random sources a host may expose.
const (
	SourceCrypto       = "crypto"
	SourceLegacyCrypto = "msCrypto"
)

// MaxRandomLength is the largest draw Bytes will serve.
const MaxRandomLength = 1 << 24

// DefaultRandomSources is the probe order used when no candidates are configured.
var DefaultRandomSources = []string{SourceCrypto, SourceLegacyCrypto}

// Filler fills a buffer with cryptographically secure random bytes.
type Filler interface {
	Fill(p []byte) error
}

// FillerFunc adapts a function to Filler.
type FillerFunc func(p []byte) error

// Fill calls f(p).
func (f FillerFunc) Fill(p []byte) error {
	return f(p)
}

// ReaderFiller fills buffers completely from an io.Reader.
type ReaderFiller struct {
	Reader io.Reader
}

// Fill reads exactly len(p) bytes.
func (r ReaderFiller) Fill(p []byte) error {
	_, err := io.ReadFull(r.Reader, p)
	return err
}

// Provider exposes named random sources. Source returns nil when the named
// capability is absent.
type Provider interface {
	Source(name string) Filler
}

// MapProvider is a Provider backed by a fixed set of sources.
type MapProvider map[string]Filler

// Source returns the filler registered under name.
func (m MapProvider) Source(name string) Filler {
	return m[name]
}

// SystemProvider exposes crypto/rand under SourceCrypto. It has no legacy source.
type SystemProvider struct{}

// Source returns a crypto/rand filler for SourceCrypto and nil otherwise.
func (SystemProvider) Source(name string) Filler {
	if name == SourceCrypto {
		return ReaderFiller{Reader: rand.Reader}
	}
	return nil
}

// Random draws random byte sequences from a Provider.
type Random struct {
	provider   Provider
	mode       Mode
	candidates []string
}

// NewRandom creates a generator over provider. Candidates are tried in
// order; when none are given DefaultRandomSources is used.
func NewRandom(provider Provider, mode Mode, candidates ...string) *Random {
	if len(candidates) == 0 {
		candidates = DefaultRandomSources
	}
	names := make([]string, len(candidates))
	copy(names, candidates)
	return &Random{provider: provider, mode: mode, candidates: names}
}

// Bytes returns length random bytes, or nil when no source is available, the
// source fails, or length is outside [0, MaxRandomLength].
func (r *Random) Bytes(length int) []byte {
	if r == nil || r.provider == nil || length < 0 || length > MaxRandomLength {
		return nil
	}
	filler := r.source()
	if filler == nil {
		return nil
	}
	buf := make([]byte, length)
	if length == 0 {
		return buf
	}
	if err := filler.Fill(buf); err != nil {
		return nil
	}
	return buf
}

// Available reports whether Bytes can currently produce randomness.
func (r *Random) Available() bool {
	return r != nil && r.provider != nil && r.source() != nil
}

// Mode returns the mode the generator probes with.
func (r *Random) Mode() Mode {
	return r.mode
}

func (r *Random) source() Filler {
	// Modern hosts always expose the primary source.
	if r.mode == ModeModern {
		return r.provider.Source(r.candidates[0])
	}
	for _, name := range r.candidates {
		if f := r.provider.Source(name); f != nil {
			return f
		}
	}
	return nil
}

// CryptoRandomBytesArray returns length random bytes from provider using the
// process-wide mode, or nil when no random source is available.
func CryptoRandomBytesArray(provider Provider, length int) []byte {
	return NewRandom(provider, CurrentMode()).Bytes(length)
}
