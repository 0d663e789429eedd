package beautify

import "strings"

// NormalizeHex rewrites the digits of a 3- or 6-digit hex color. Lowercasing
// happens before shortening, so #AABBCC becomes #abc with both enabled and
// #ABC with only ShortenHex.
func NormalizeHex(digits string, s Settings) string {
	if s.LowercaseHex {
		digits = strings.ToLower(digits)
	}
	if s.ShortenHex && len(digits) == 6 &&
		digits[0] == digits[1] && digits[2] == digits[3] && digits[4] == digits[5] {
		digits = string([]byte{digits[0], digits[2], digits[4]})
	}
	return digits
}

// NormalizeNumber reassembles a numeric token from its integer part, its
// fraction (with the leading ".") and its unit. keepUnit is set inside
// functions, where calc() and friends require one, and when the unit runs
// into other text.
func NormalizeNumber(intPart, frac, unit string, keepUnit bool, s Settings) string {
	if s.RemoveLeadingZero && intPart == "0" && frac != "" {
		intPart = ""
	}
	if s.RemoveZeroUnits && !keepUnit && intPart == "0" && frac == "" && IsZeroUnit(unit) {
		unit = ""
	}
	return intPart + frac + unit
}
