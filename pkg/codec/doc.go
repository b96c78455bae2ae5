// Package codec converts between text strings and raw byte sequences.
//
// It covers three families of conversion:
//
//   - UTF-8: UTF8Encode and UTF8Decode translate between Go strings and
//     their UTF-8 byte representation.
//   - Latin-1 (8-bit): StringToBytes and BytesToString map each character
//     with code point 0-255 to the byte of the same value, and back.
//   - Fixed-width integers: BytesToUint32 reads a big-endian 4-byte sequence,
//     Uint32ToBytes writes one.
//
// It also draws cryptographically secure random bytes from a host-provided
// entropy source (CryptoRandomBytesArray) and defines the SeedRecord binary
// format used to persist those draws.
//
// # UTF-8 strategies
//
// UTF-8 conversion is performed by a UTF8Codec. Two interchangeable
// implementations exist behind the same contract:
//
//   - NativeUTF8 validates and converts through golang.org/x/text.
//   - PercentUTF8 reinterprets the bytes as Latin-1, escapes every character
//     as %XX and percent-decodes the result. It produces the same output as
//     NativeUTF8 and exists for hosts whose native facility is unavailable or
//     misbehaves.
//
// The package-level UTF8Encode and UTF8Decode dispatch to a process-wide
// codec chosen once at startup with SelectUTF8Codec and SetDefaultUTF8Codec.
// NativeUTF8 is the default.
//
// # Latin-1 strings
//
// For the 8-bit paths a string is a sequence of characters whose code points
// must not exceed 255. These strings are still stored as UTF-8 by Go, so
// their length is measured in runes:
//
//	s := codec.BytesToString([]byte{0x41, 0xe9})  // "Aé", 2 runes, 3 bytes
//	b, err := codec.StringToBytes(s)             // []byte{0x41, 0xe9}
//
// # Random bytes
//
// CryptoRandomBytesArray looks up a Filler on a Provider. In ModeModern the
// first candidate source is used without probing; in ModeLegacy every
// candidate in DefaultRandomSources (or the configured list) is probed in
// order. When no source is available the result is nil, never an error.
//
// # Errors
//
// Contract violations are returned as typed errors that match the package
// sentinels through errors.Is:
//
//   - *ByteRangeError matches ErrInvalidByteRange
//   - *LengthError matches ErrInvalidLength
//   - *DecodeError matches ErrDecode
//
// # Thread Safety
//
// All conversions are pure functions and safe for concurrent use. The
// process-wide mode and UTF-8 codec are stored atomically.
package codec
