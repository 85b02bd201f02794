package domain

import "strings"

// NormalizeISBN strips hyphens and spaces and reports whether the remainder
// is syntactically an ISBN: 13 digits, or 9 digits followed by a digit or X.
// Check digits are not verified.
func NormalizeISBN(raw string) (string, bool) {
	s := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(strings.TrimSpace(raw)))
	switch len(s) {
	case 13:
		return s, allDigits(s)
	case 10:
		last := s[9]
		return s, allDigits(s[:9]) && (last == 'X' || (last >= '0' && last <= '9'))
	}
	return s, false
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
