package validation

import (
	"testing"
)

// Test IsPalindrome with various inputs
func TestIsPalindrome(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		// Latin characters - odd length
		{"odd length palindrome", "racecar", true},
		{"odd length palindrome uppercase", "RACECAR", true},
		{"odd length single char", "a", true},
		{"odd length three chars", "aba", true},

		// Latin characters - even length
		{"even length palindrome", "noon", true},
		{"even length two chars", "bb", true},
		{"even length four chars", "abba", true},

		// Case folding
		{"mixed case two chars", "Bb", true},
		{"mixed case word", "RaceCar", true},

		// Non-palindromes
		{"not a palindrome", "hello", false},
		{"almost palindrome", "bba", false},
		{"reversed not same", "abcd", false},

		// Non-Latin letters and digits
		{"unicode palindrome odd", "αβα", true},
		{"unicode mixed case", "Αβα", true},
		{"japanese palindrome", "たけやぶやけた", true},
		{"unicode not palindrome", "αβγ", false},
		{"number palindrome", "12321", true},
		{"alphanumeric palindrome", "a1b1a", true},

		// Anything that is not a letter or digit disqualifies the string
		{"leading space", " aba", false},
		{"trailing space", "aba ", false},
		{"parentheses only", "()", false},
		{"wrapped in parentheses", "(aba)", false},
		{"with dots", "a.b.a", false},
		{"with dashes", "a-b-a", false},
		{"whitespace only", " ", false},
		{"emoji", "🎉🎈🎉", false},
		{"sentence palindrome with spaces", "never odd or even", false},

		// Edge cases
		{"empty string", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsPalindrome(tt.input)
			if result != tt.expected {
				t.Errorf("IsPalindrome(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsPalindromeValue(t *testing.T) {
	aba := "aba"
	bba := "bba"
	var nilString *string

	tests := []struct {
		name     string
		input    any
		expected bool
	}{
		{"nil", nil, false},
		{"nil string pointer", nilString, false},
		{"empty map", map[string]any{}, false},
		{"integer", 121, false},
		{"byte slice", []byte("aba"), false},
		{"string", "aba", true},
		{"empty string", "", true},
		{"string pointer palindrome", &aba, true},
		{"string pointer not palindrome", &bba, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsPalindromeValue(tt.input)
			if result != tt.expected {
				t.Errorf("IsPalindromeValue(%#v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}
