package gemtext

import (
	"strconv"
	"strings"
)

// EnumType is the enumeration style of an enumerated list.
type EnumType uint8

// The five supported enumeration styles.
const (
	EnumArabic EnumType = iota
	EnumLowerAlpha
	EnumUpperAlpha
	EnumLowerRoman
	EnumUpperRoman
)

// EnumTypeFromName maps a source enumtype attribute to its style. Unknown
// names fall back to arabic.
func EnumTypeFromName(name string) EnumType {
	switch name {
	case "loweralpha":
		return EnumLowerAlpha
	case "upperalpha":
		return EnumUpperAlpha
	case "lowerroman":
		return EnumLowerRoman
	case "upperroman":
		return EnumUpperRoman
	default:
		return EnumArabic
	}
}

// String returns the source enumtype attribute name of the style.
func (t EnumType) String() string {
	switch t {
	case EnumLowerAlpha:
		return "loweralpha"
	case EnumUpperAlpha:
		return "upperalpha"
	case EnumLowerRoman:
		return "lowerroman"
	case EnumUpperRoman:
		return "upperroman"
	default:
		return "arabic"
	}
}

// Format renders a 1-based counter value in the style.
func (t EnumType) Format(n int) string {
	switch t {
	case EnumLowerAlpha:
		return lowerAlpha(n)
	case EnumUpperAlpha:
		return strings.ToUpper(lowerAlpha(n))
	case EnumLowerRoman:
		return strings.ToLower(roman(n))
	case EnumUpperRoman:
		return roman(n)
	default:
		return strconv.Itoa(n)
	}
}

// lowerAlpha encodes n in bijective base-26: 1 → "a", 26 → "z", 27 → "aa".
func lowerAlpha(n int) string {
	if n < 1 {
		return ""
	}
	var digits []byte
	for n > 0 {
		n--
		digits = append(digits, byte('a'+n%26))
		n /= 26
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// romanValues pairs numeral values with their symbols, largest first.
var romanValues = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// roman encodes n as an uppercase Roman numeral.
func roman(n int) string {
	if n < 1 {
		return ""
	}
	var b strings.Builder
	for _, rv := range romanValues {
		for n >= rv.value {
			b.WriteString(rv.symbol)
			n -= rv.value
		}
	}
	return b.String()
}
