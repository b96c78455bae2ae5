package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidByteRange is returned when a character above 255 reaches an 8-bit conversion.
	ErrInvalidByteRange = errors.New("characters must be in range [0,255]")

	// ErrInvalidLength is returned when a fixed-width decoder receives the wrong number of bytes.
	ErrInvalidLength = errors.New("invalid byte sequence length")

	// ErrDecode is returned when a byte sequence is not valid UTF-8.
	ErrDecode = errors.New("invalid UTF-8 byte sequence")
)

// ByteRangeError reports the first character that does not fit in a byte.
type ByteRangeError struct {
	Index int  // Character index within the string
	Rune  rune // Offending character
}

func (e *ByteRangeError) Error() string {
	return fmt.Sprintf("character %U at index %d: %v", e.Rune, e.Index, ErrInvalidByteRange)
}

func (e *ByteRangeError) Unwrap() error {
	return ErrInvalidByteRange
}

// LengthError reports a byte sequence of the wrong size.
type LengthError struct {
	Got  int
	Want int
}

func (e *LengthError) Error() string {
	return fmt.Sprintf("received byte array with length %d != %d", e.Got, e.Want)
}

func (e *LengthError) Unwrap() error {
	return ErrInvalidLength
}

// DecodeError reports malformed UTF-8 input.
type DecodeError struct {
	Offset int    // Byte offset of the first invalid sequence
	Codec  string // Name of the strategy that rejected the input
	Err    error  // Underlying cause, may be nil
}

func (e *DecodeError) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrDecode) {
		return fmt.Sprintf("%s: %v at offset %d: %v", e.Codec, ErrDecode, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: %v at offset %d", e.Codec, ErrDecode, e.Offset)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is makes every DecodeError match ErrDecode regardless of its cause.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
