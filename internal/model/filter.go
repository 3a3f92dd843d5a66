package model

import "strings"

// MessageFilter contains criteria for filtering messages.
// All criteria are optional; zero values are ignored.
// Criteria are combined with AND logic (all must match).
type MessageFilter struct {
	// Palindrome keeps only palindromes (true) or only non-palindromes (false)
	Palindrome *bool
	// MinLength and MaxLength bound the content length in characters
	MinLength int
	MaxLength int
	// Contains filters by substring (case-insensitive)
	Contains string
}

// IsEmpty reports whether the filter matches everything
func (f MessageFilter) IsEmpty() bool {
	return f.Palindrome == nil && f.MinLength == 0 && f.MaxLength == 0 && f.Contains == ""
}

// FilterMessages returns a new slice containing only messages that match the filter.
func FilterMessages(msgs []*Message, filter MessageFilter) []*Message {
	if filter.IsEmpty() {
		return msgs
	}

	needle := strings.ToLower(filter.Contains)

	var filtered []*Message
	for _, msg := range msgs {
		if filter.Palindrome != nil && msg.Properties.Palindrome != *filter.Palindrome {
			continue
		}
		if filter.MinLength > 0 && msg.Properties.Length < filter.MinLength {
			continue
		}
		if filter.MaxLength > 0 && msg.Properties.Length > filter.MaxLength {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(msg.Content), needle) {
			continue
		}
		filtered = append(filtered, msg)
	}

	return filtered
}
