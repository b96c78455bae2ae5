package codec

import (
	"golang.org/x/text/encoding/charmap"
)

// StringToBytes converts a string of 8-bit characters, such as the output of
// BytesToString, into the corresponding bytes. Every character must be in
// [0,255]; text that may hold other code points belongs in UTF8Encode.
func StringToBytes(s string) ([]byte, error) {
	bytes := make([]byte, 0, len(s))
	index := 0
	for _, r := range s {
		if r < 0 || r > 0xff {
			return nil, &ByteRangeError{Index: index, Rune: r}
		}
		bytes = append(bytes, byte(r))
		index++
	}
	return bytes, nil
}

// BytesToString converts bytes into a string holding one character per byte,
// each with the byte's value as its code point.
func BytesToString(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	// ISO 8859-1 maps every byte to the code point of the same value, so the
	// decoder cannot fail. The transform works in chunks and the output grows
	// as it goes, whatever the input size.
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return bytesToStringSlow(b)
	}
	return string(s)
}

func bytesToStringSlow(b []byte) string {
	runes := make([]rune, len(b))
	for i, c := range b {
		runes[i] = rune(c)
	}
	return string(runes)
}
