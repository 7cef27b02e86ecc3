package codec

import "unicode/utf16"

// encodeUTF16Unit returns the UTF-16 code unit(s) for rune r.
func encodeUTF16Unit(r rune) []uint16 {
	return utf16.Encode([]rune{r})
}

// decodeUTF16 decodes UTF-16 code units to a string. unicode/utf16 already
// substitutes the replacement character for unpaired surrogates rather than
// failing, matching the original's decode-with-replacement behavior.
func decodeUTF16(units []uint16) string {
	return string(utf16.Decode(units))
}
