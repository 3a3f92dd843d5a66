package validation

import (
	"strings"
	"unicode"
)

// IsPalindrome reports whether s reads the same in both directions, ignoring case.
// Only letters and digits are allowed: a string containing spaces, punctuation or
// symbols is never a palindrome, even when its alphanumeric runes would be.
// The empty string is a palindrome.
func IsPalindrome(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}

	// Compare runes from both ends, working towards the middle
	runes := []rune(strings.ToLower(s))
	length := len(runes)
	for i := 0; i < length/2; i++ {
		if runes[i] != runes[length-1-i] {
			return false
		}
	}
	return true
}

// IsPalindromeValue is IsPalindrome for values of unknown type.
// Anything that is not a string (including a nil *string) is not a palindrome.
func IsPalindromeValue(v any) bool {
	switch s := v.(type) {
	case string:
		return IsPalindrome(s)
	case *string:
		if s == nil {
			return false
		}
		return IsPalindrome(*s)
	default:
		return false
	}
}
