package model

import "sort"

// SortBy specifies the field and order for sorting messages
type SortBy string

const (
	SortByCreated  SortBy = "created"
	SortByModified SortBy = "modified"
	SortByLength   SortBy = "length"
	SortByContent  SortBy = "content"
	SortByDefault  SortBy = "" // Default sort: creation order
)

// SortMessages sorts a slice of messages in place based on the specified field.
// The sortBy parameter should be one of: "created", "modified", "length", "content".
// If sortBy is empty or unrecognized, messages are sorted in creation order,
// which is the order every repository pages through.
func SortMessages(msgs []*Message, sortBy string) {
	switch SortBy(sortBy) {
	case SortByModified:
		// Most recently modified first
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].DateModified.After(msgs[j].DateModified)
		})
	case SortByLength:
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].Properties.Length < msgs[j].Properties.Length
		})
	case SortByContent:
		sort.SliceStable(msgs, func(i, j int) bool {
			return msgs[i].Content < msgs[j].Content
		})
	default:
		sort.Slice(msgs, func(i, j int) bool {
			return msgs[i].CreatedBefore(msgs[j])
		})
	}
}
