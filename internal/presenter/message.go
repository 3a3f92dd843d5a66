// Package presenter shapes messages for API responses and terminal output
package presenter

import (
	"time"

	"github.com/samber/lo"

	"github.com/mrled/suns/msgsvc/internal/model"
)

// PropertiesView is the serialized form of model.Properties
type PropertiesView struct {
	Palindrome bool `json:"palindrome"`
	Length     int  `json:"length"`
}

// MessageView is the serialized form of a message, shared by every endpoint
type MessageView struct {
	ID           string         `json:"id"`
	Content      string         `json:"content"`
	DateCreated  string         `json:"date_created"`
	DateModified string         `json:"date_modified"`
	Properties   PropertiesView `json:"properties"`
}

// MessageResponse wraps a single message
type MessageResponse struct {
	Message MessageView `json:"message"`
}

// ListResponse is one page of messages with links to its neighbours
type ListResponse struct {
	Messages []MessageView `json:"messages"`
	NextURL  string        `json:"next_url,omitempty"`
	PrevURL  string        `json:"prev_url,omitempty"`
}

// ErrorResponse is the single-message error envelope
type ErrorResponse struct {
	Error string `json:"error"`
}

// FieldErrorsResponse is the validation error envelope
type FieldErrorsResponse struct {
	Errors map[string][]string `json:"errors"`
}

// FormatTimestamp renders t as RFC 3339 in UTC with nanoseconds
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// Message converts a domain message to its view
func Message(msg *model.Message) MessageView {
	return MessageView{
		ID:           msg.ID,
		Content:      msg.Content,
		DateCreated:  FormatTimestamp(msg.DateCreated),
		DateModified: FormatTimestamp(msg.DateModified),
		Properties: PropertiesView{
			Palindrome: msg.Properties.Palindrome,
			Length:     msg.Properties.Length,
		},
	}
}

// Messages converts a slice of domain messages, never returning nil
func Messages(msgs []*model.Message) []MessageView {
	return lo.Map(msgs, func(msg *model.Message, _ int) MessageView {
		return Message(msg)
	})
}

// List builds the response for a page. pageURL renders the link for a page number.
func List(page *model.Page, pageURL func(number int) string) ListResponse {
	resp := ListResponse{Messages: Messages(page.Items)}
	if page.HasNext {
		resp.NextURL = pageURL(page.NextNum)
	}
	if page.HasPrev {
		resp.PrevURL = pageURL(page.PrevNum)
	}
	return resp
}
