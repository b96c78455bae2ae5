package codec

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// UTF8Codec is one strategy for converting between strings and UTF-8 bytes.
// Implementations must agree on every input.
type UTF8Codec interface {
	// Name identifies the strategy in logs and configuration.
	Name() string

	// Encode returns the UTF-8 bytes of s. Ill-formed sequences in s are
	// replaced with U+FFFD.
	Encode(s string) []byte

	// Decode interprets b as UTF-8. Malformed input fails with a *DecodeError.
	Decode(b []byte) (string, error)
}

// BufferSource is anything exposing an underlying byte buffer, such as *bytes.Buffer.
type BufferSource interface {
	Bytes() []byte
}

// Strategy names accepted by SelectUTF8Codec.
const (
	StrategyAuto    = "auto"
	StrategyNative  = "native"
	StrategyPercent = "percent"
)

var (
	// NativeUTF8 converts through the golang.org/x/text UTF-8 validator.
	NativeUTF8 UTF8Codec = nativeUTF8{}

	// PercentUTF8 converts through Latin-1 reinterpretation and percent-encoding.
	PercentUTF8 UTF8Codec = percentUTF8{}
)

type nativeUTF8 struct{}

func (nativeUTF8) Name() string { return StrategyNative }

func (nativeUTF8) Encode(s string) []byte {
	return []byte(strings.ToValidUTF8(s, string(utf8.RuneError)))
}

func (nativeUTF8) Decode(b []byte) (string, error) {
	out, _, err := transform.Bytes(encoding.UTF8Validator, b)
	if err != nil {
		return "", &DecodeError{Offset: invalidOffset(b), Codec: StrategyNative, Err: err}
	}
	return string(out), nil
}

type percentUTF8 struct{}

func (percentUTF8) Name() string { return StrategyPercent }

func (percentUTF8) Encode(s string) []byte {
	valid := strings.ToValidUTF8(s, string(utf8.RuneError))
	return unescapeLatin1(url.PathEscape(valid))
}

func (percentUTF8) Decode(b []byte) (string, error) {
	raw, err := url.PathUnescape(escapeLatin1(BytesToString(b)))
	if err != nil {
		return "", &DecodeError{Offset: 0, Codec: StrategyPercent, Err: err}
	}
	if !utf8.ValidString(raw) {
		return "", &DecodeError{Offset: invalidOffset([]byte(raw)), Codec: StrategyPercent}
	}
	return raw, nil
}

// escapeLatin1 writes every character of an 8-bit string as %XX.
func escapeLatin1(s string) string {
	const hexDigits = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(3 * len(s))
	for _, r := range s {
		sb.WriteByte('%')
		sb.WriteByte(hexDigits[byte(r)>>4])
		sb.WriteByte(hexDigits[byte(r)&0x0f])
	}
	return sb.String()
}

// unescapeLatin1 reads an ASCII percent-encoded string as Latin-1 code units:
// each %XX becomes the byte 0xXX and anything else is copied unchanged,
// including malformed escapes.
func unescapeLatin1(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			out = append(out, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
			continue
		}
		out = append(out, s[i])
	}
	return out
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case c >= 'a':
		return c - 'a' + 10
	case c >= 'A':
		return c - 'A' + 10
	default:
		return c - '0'
	}
}

// invalidOffset returns the byte offset of the first invalid UTF-8 sequence in b,
// or len(b) if there is none.
func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}

type codecHolder struct {
	codec UTF8Codec
}

var defaultUTF8 atomic.Value

func init() {
	defaultUTF8.Store(codecHolder{codec: NativeUTF8})
}

// DefaultUTF8Codec returns the process-wide UTF-8 strategy.
func DefaultUTF8Codec() UTF8Codec {
	return defaultUTF8.Load().(codecHolder).codec
}

// SetDefaultUTF8Codec replaces the process-wide UTF-8 strategy. A nil codec
// restores NativeUTF8.
func SetDefaultUTF8Codec(c UTF8Codec) {
	if c == nil {
		c = NativeUTF8
	}
	defaultUTF8.Store(codecHolder{codec: c})
}

// SelectUTF8Codec resolves a strategy name. "auto" (or empty) picks NativeUTF8
// straight away in ModeModern; in ModeLegacy the native facility is probed
// first and PercentUTF8 is used if the probe fails.
func SelectUTF8Codec(strategy string, mode Mode) (UTF8Codec, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case StrategyNative:
		return NativeUTF8, nil
	case StrategyPercent, "fallback":
		return PercentUTF8, nil
	case "", StrategyAuto:
		if mode == ModeModern || probeUTF8(NativeUTF8) {
			return NativeUTF8, nil
		}
		return PercentUTF8, nil
	default:
		return nil, fmt.Errorf("unknown utf8 strategy %q", strategy)
	}
}

const utf8ProbeSample = "probe: A é € \U0001F600"

// probeUTF8 reports whether c round-trips a mixed-width sample correctly.
func probeUTF8(c UTF8Codec) bool {
	encoded := c.Encode(utf8ProbeSample)
	if !bytes.Equal(encoded, []byte(utf8ProbeSample)) {
		return false
	}
	decoded, err := c.Decode(encoded)
	return err == nil && decoded == utf8ProbeSample
}

// UTF8Decode interprets b as UTF-8 text using the process-wide strategy.
func UTF8Decode(b []byte) (string, error) {
	return DefaultUTF8Codec().Decode(b)
}

// UTF8DecodeBuffer decodes the bytes held by src. A nil source decodes to "".
func UTF8DecodeBuffer(src BufferSource) (string, error) {
	if src == nil {
		return "", nil
	}
	return UTF8Decode(src.Bytes())
}

// UTF8Encode returns the UTF-8 bytes of s using the process-wide strategy.
func UTF8Encode(s string) []byte {
	return DefaultUTF8Codec().Encode(s)
}
