package model

import (
	"testing"
	"time"
)

func filterFixture() []*Message {
	now := time.Now()
	return []*Message{
		NewMessage("1", "level", now),
		NewMessage("2", "hello world", now),
		NewMessage("3", "Racecar", now),
		NewMessage("4", "x", now),
		NewMessage("5", "Hello again", now),
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func TestFilterMessages_EmptyFilter(t *testing.T) {
	msgs := filterFixture()

	result := FilterMessages(msgs, MessageFilter{})

	if len(result) != len(msgs) {
		t.Errorf("Expected %d messages with empty filter, got %d", len(msgs), len(result))
	}
}

func TestFilterMessages_PalindromesOnly(t *testing.T) {
	result := FilterMessages(filterFixture(), MessageFilter{Palindrome: boolPtr(true)})

	if len(result) != 3 {
		t.Errorf("Expected 3 palindromes, got %d", len(result))
	}
	for _, msg := range result {
		if !msg.Properties.Palindrome {
			t.Errorf("Expected only palindromes, got %q", msg.Content)
		}
	}
}

func TestFilterMessages_NonPalindromes(t *testing.T) {
	result := FilterMessages(filterFixture(), MessageFilter{Palindrome: boolPtr(false)})

	if len(result) != 2 {
		t.Errorf("Expected 2 non-palindromes, got %d", len(result))
	}
}

func TestFilterMessages_LengthBounds(t *testing.T) {
	result := FilterMessages(filterFixture(), MessageFilter{MinLength: 2, MaxLength: 7})

	if len(result) != 2 {
		t.Fatalf("Expected 2 messages between 2 and 7 characters, got %d", len(result))
	}
	if result[0].ID != "1" || result[1].ID != "3" {
		t.Errorf("Got wrong messages: %s, %s", result[0].ID, result[1].ID)
	}
}

func TestFilterMessages_ContainsCaseInsensitive(t *testing.T) {
	result := FilterMessages(filterFixture(), MessageFilter{Contains: "HELLO"})

	if len(result) != 2 {
		t.Errorf("Expected 2 messages containing hello, got %d", len(result))
	}
}

func TestFilterMessages_CombinedFilters(t *testing.T) {
	result := FilterMessages(filterFixture(), MessageFilter{Palindrome: boolPtr(true), Contains: "car"})

	if len(result) != 1 {
		t.Fatalf("Expected 1 message matching both filters, got %d", len(result))
	}
	if result[0].Content != "Racecar" {
		t.Errorf("Got wrong message: %v", result[0])
	}
}

func TestFilterMessages_NoMatches(t *testing.T) {
	result := FilterMessages(filterFixture(), MessageFilter{Contains: "goodbye"})

	if len(result) != 0 {
		t.Errorf("Expected 0 messages with no matches, got %d", len(result))
	}
}
