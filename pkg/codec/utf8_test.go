package codec

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

var utf8Codecs = []UTF8Codec{NativeUTF8, PercentUTF8}

var utf8Samples = []struct {
	name string
	text string
}{
	{name: "empty", text: ""},
	{name: "ascii", text: "hello world"},
	{name: "reserved uri characters", text: "a+b=c&d/e?f#g%20 h"},
	{name: "latin-1 range", text: "héllo ÿ"},
	{name: "three byte", text: "日本語 €"},
	{name: "four byte", text: "🎯 unicode value with émojis 😀"},
	{name: "nul", text: "\x00nul\x00"},
	{name: "max code point", text: "\U0010FFFF"},
}

func TestUTF8Codec_RoundTrip(t *testing.T) {
	for _, c := range utf8Codecs {
		for _, tc := range utf8Samples {
			t.Run(c.Name()+"/"+tc.name, func(t *testing.T) {
				encoded := c.Encode(tc.text)
				if !bytes.Equal(encoded, []byte(tc.text)) {
					t.Fatalf("Encode(%q) = %x, want %x", tc.text, encoded, []byte(tc.text))
				}

				decoded, err := c.Decode(encoded)
				if err != nil {
					t.Fatalf("Decode(%x) error = %v", encoded, err)
				}
				if decoded != tc.text {
					t.Errorf("Decode = %q, want %q", decoded, tc.text)
				}
			})
		}
	}
}

func TestUTF8Codec_DecodeMalformed(t *testing.T) {
	testCases := []struct {
		name       string
		input      []byte
		wantOffset int
	}{
		{name: "lone continuation byte", input: []byte{0x80}, wantOffset: 0},
		{name: "invalid lead byte", input: []byte{0x41, 0xff, 0x42}, wantOffset: 1},
		{name: "truncated sequence", input: []byte{0x41, 0xe2, 0x82}, wantOffset: 1},
		{name: "overlong encoding", input: []byte{0xc0, 0xaf}, wantOffset: 0},
		{name: "encoded surrogate", input: []byte{0xed, 0xa0, 0x80}, wantOffset: 0},
		{name: "beyond max code point", input: []byte{0xf4, 0x90, 0x80, 0x80}, wantOffset: 0},
	}

	for _, c := range utf8Codecs {
		for _, tc := range testCases {
			t.Run(c.Name()+"/"+tc.name, func(t *testing.T) {
				got, err := c.Decode(tc.input)
				if err == nil {
					t.Fatalf("Decode(%x) = %q, want error", tc.input, got)
				}
				if !errors.Is(err, ErrDecode) {
					t.Errorf("error %v does not match ErrDecode", err)
				}
				var decodeErr *DecodeError
				if !errors.As(err, &decodeErr) {
					t.Fatalf("error %T is not *DecodeError", err)
				}
				if decodeErr.Offset != tc.wantOffset {
					t.Errorf("Offset = %d, want %d", decodeErr.Offset, tc.wantOffset)
				}
				if decodeErr.Codec != c.Name() {
					t.Errorf("Codec = %q, want %q", decodeErr.Codec, c.Name())
				}
			})
		}
	}
}

func TestUTF8Codec_EncodeReplacesIllFormed(t *testing.T) {
	want := []byte("a�b")
	for _, c := range utf8Codecs {
		if got := c.Encode("a\xffb"); !bytes.Equal(got, want) {
			t.Errorf("%s.Encode = %x, want %x", c.Name(), got, want)
		}
	}
}

func TestUTF8Codecs_Agree(t *testing.T) {
	input := []byte(strings.Repeat("mixed é € 😀 ", 500))
	native, err := NativeUTF8.Decode(input)
	if err != nil {
		t.Fatalf("native Decode error = %v", err)
	}
	percent, err := PercentUTF8.Decode(input)
	if err != nil {
		t.Fatalf("percent Decode error = %v", err)
	}
	if native != percent {
		t.Error("native and percent strategies disagree")
	}
}

func TestUnescapeLatin1(t *testing.T) {
	tests := []struct {
		in   string
		want []byte
	}{
		{"", []byte{}},
		{"abc", []byte("abc")},
		{"%41%e9%FF", []byte{0x41, 0xe9, 0xff}},
		{"%E2%82%AC", []byte("€")},
		{"100%", []byte("100%")},
		{"%4", []byte("%4")},
		{"%zz%41", []byte("%zzA")},
	}

	for _, tt := range tests {
		if got := unescapeLatin1(tt.in); !bytes.Equal(got, tt.want) {
			t.Errorf("unescapeLatin1(%q) = %x, want %x", tt.in, got, tt.want)
		}
	}
}

func TestPercentUTF8_EncodeMatchesNative(t *testing.T) {
	for _, s := range []string{"", "plain ascii", "100% / a+b?c=d&e", "é € 😀", "\x00\x7f\u0080\u00ff"} {
		if got, want := PercentUTF8.Encode(s), NativeUTF8.Encode(s); !bytes.Equal(got, want) {
			t.Errorf("PercentUTF8.Encode(%q) = %x, want %x", s, got, want)
		}
	}
}

func TestSelectUTF8Codec(t *testing.T) {
	testCases := []struct {
		strategy string
		mode     Mode
		want     UTF8Codec
		wantErr  bool
	}{
		{strategy: "native", mode: ModeModern, want: NativeUTF8},
		{strategy: "NATIVE", mode: ModeLegacy, want: NativeUTF8},
		{strategy: "percent", mode: ModeModern, want: PercentUTF8},
		{strategy: "fallback", mode: ModeLegacy, want: PercentUTF8},
		{strategy: "", mode: ModeModern, want: NativeUTF8},
		{strategy: "auto", mode: ModeModern, want: NativeUTF8},
		{strategy: "auto", mode: ModeLegacy, want: NativeUTF8},
		{strategy: "utf16", mode: ModeModern, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.strategy+"/"+tc.mode.String(), func(t *testing.T) {
			got, err := SelectUTF8Codec(tc.strategy, tc.mode)
			if tc.wantErr {
				if err == nil {
					t.Errorf("SelectUTF8Codec(%q) = %v, want error", tc.strategy, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectUTF8Codec(%q) error = %v", tc.strategy, err)
			}
			if got != tc.want {
				t.Errorf("SelectUTF8Codec(%q) = %s, want %s", tc.strategy, got.Name(), tc.want.Name())
			}
		})
	}
}

type brokenUTF8 struct{}

func (brokenUTF8) Name() string                    { return "broken" }
func (brokenUTF8) Encode(s string) []byte          { return []byte(strings.ToUpper(s)) }
func (brokenUTF8) Decode(b []byte) (string, error) { return string(b), nil }

func TestProbeUTF8(t *testing.T) {
	if !probeUTF8(NativeUTF8) {
		t.Error("native codec failed its probe")
	}
	if !probeUTF8(PercentUTF8) {
		t.Error("percent codec failed its probe")
	}
	if probeUTF8(brokenUTF8{}) {
		t.Error("broken codec passed its probe")
	}
}

func TestDefaultUTF8Codec(t *testing.T) {
	t.Cleanup(func() { SetDefaultUTF8Codec(nil) })

	if DefaultUTF8Codec() != NativeUTF8 {
		t.Fatalf("default codec = %s, want native", DefaultUTF8Codec().Name())
	}

	SetDefaultUTF8Codec(PercentUTF8)
	if DefaultUTF8Codec() != PercentUTF8 {
		t.Fatalf("default codec = %s, want percent", DefaultUTF8Codec().Name())
	}

	_, err := UTF8Decode([]byte{0xff})
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) || decodeErr.Codec != StrategyPercent {
		t.Errorf("UTF8Decode did not dispatch to percent codec: %v", err)
	}

	SetDefaultUTF8Codec(nil)
	if DefaultUTF8Codec() != NativeUTF8 {
		t.Errorf("SetDefaultUTF8Codec(nil) did not restore native")
	}
}

func TestUTF8EncodeDecode(t *testing.T) {
	text := "Grüße, 世界"
	decoded, err := UTF8Decode(UTF8Encode(text))
	if err != nil {
		t.Fatalf("UTF8Decode error = %v", err)
	}
	if decoded != text {
		t.Errorf("round trip = %q, want %q", decoded, text)
	}
}

func TestUTF8DecodeBuffer(t *testing.T) {
	got, err := UTF8DecodeBuffer(bytes.NewBufferString("héllo"))
	if err != nil {
		t.Fatalf("UTF8DecodeBuffer error = %v", err)
	}
	if got != "héllo" {
		t.Errorf("UTF8DecodeBuffer = %q, want %q", got, "héllo")
	}

	got, err = UTF8DecodeBuffer(nil)
	if err != nil || got != "" {
		t.Errorf("UTF8DecodeBuffer(nil) = %q, %v", got, err)
	}

	if _, err := UTF8DecodeBuffer(bytes.NewBuffer([]byte{0xc3})); !errors.Is(err, ErrDecode) {
		t.Errorf("UTF8DecodeBuffer(invalid) error = %v, want ErrDecode", err)
	}
}

func TestParseMode(t *testing.T) {
	for input, want := range map[string]Mode{"": ModeModern, "modern": ModeModern, "esm": ModeModern, "Legacy": ModeLegacy} {
		got, err := ParseMode(input)
		if err != nil {
			t.Fatalf("ParseMode(%q) error = %v", input, err)
		}
		if got != want {
			t.Errorf("ParseMode(%q) = %v, want %v", input, got, want)
		}
	}
	if _, err := ParseMode("ie11"); err == nil {
		t.Error("ParseMode(ie11) should fail")
	}
}
