package model

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/mrled/suns/msgsvc/internal/validation"
)

var (
	ErrNotFound      = errors.New("message not found")
	ErrAlreadyExists = errors.New("message already exists")
)

// Properties are derived from a message's content and never set directly
type Properties struct {
	Palindrome bool `json:"palindrome" dynamodbav:"palindrome"`
	Length     int  `json:"length" dynamodbav:"length"`
}

// ComputeProperties derives the properties of content
func ComputeProperties(content string) Properties {
	return Properties{
		Palindrome: validation.IsPalindrome(content),
		Length:     utf8.RuneCountInString(content),
	}
}

// Message is a stored text message together with its derived properties
type Message struct {
	ID           string     `json:"id"`
	Content      string     `json:"content"`
	DateCreated  time.Time  `json:"date_created"`
	DateModified time.Time  `json:"date_modified"`
	Properties   Properties `json:"properties"`
}

// NewMessage creates a message with both timestamps set to now
func NewMessage(id, content string, now time.Time) *Message {
	now = now.UTC()
	return &Message{
		ID:           id,
		Content:      content,
		DateCreated:  now,
		DateModified: now,
		Properties:   ComputeProperties(content),
	}
}

// Revise replaces the content, recomputes the properties and refreshes DateModified.
// DateModified never moves before DateCreated, even if the clock does.
func (m *Message) Revise(content string, now time.Time) {
	now = now.UTC()
	if now.Before(m.DateCreated) {
		now = m.DateCreated
	}
	m.Content = content
	m.Properties = ComputeProperties(content)
	m.DateModified = now
}

// Clone returns a copy that shares no state with m
func (m *Message) Clone() *Message {
	c := *m
	return &c
}

// CreatedBefore reports whether m sorts before other in creation order.
// Messages created at the same instant are ordered by ID.
func (m *Message) CreatedBefore(other *Message) bool {
	if !m.DateCreated.Equal(other.DateCreated) {
		return m.DateCreated.Before(other.DateCreated)
	}
	return m.ID < other.ID
}
