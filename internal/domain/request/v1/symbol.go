package v1

import "regexp"

var symbolPattern = regexp.MustCompile(`^[A-Z0-9.\-/$]{1,20}$`)

// IsValidSymbol reports whether an upper-cased, trimmed symbol uses only
// alphanumerics and . - / $ within 20 characters.
func IsValidSymbol(symbol string) bool {
	return symbolPattern.MatchString(symbol)
}
