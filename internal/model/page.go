package model

import "math"

// Page is a 1-based window over messages in creation order
type Page struct {
	Items   []*Message
	Number  int
	Size    int
	Total   int
	HasNext bool
	HasPrev bool
	NextNum int
	PrevNum int
}

// NewPage describes the window number of the given size over total messages.
// Pages past the end are valid and simply hold no items.
func NewPage(items []*Message, number, size, total int) *Page {
	if items == nil {
		items = []*Message{}
	}
	p := &Page{
		Items:   items,
		Number:  number,
		Size:    size,
		Total:   total,
		HasNext: number < PageCount(total, size),
		HasPrev: number > 1,
	}
	if p.HasNext {
		p.NextNum = number + 1
	}
	if p.HasPrev {
		p.PrevNum = number - 1
	}
	return p
}

// PageCount is the number of non-empty pages of size over total messages
func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total-1)/size + 1
}

// Offset returns the number of messages preceding page number.
// It saturates at math.MaxInt instead of overflowing.
func Offset(number, size int) int {
	if number <= 1 || size <= 0 {
		return 0
	}
	if number-1 > math.MaxInt/size {
		return math.MaxInt
	}
	return (number - 1) * size
}

// Paginate windows an already ordered slice
func Paginate(all []*Message, number, size int) *Page {
	start := Offset(number, size)
	if start > len(all) {
		start = len(all)
	}
	n := min(len(all)-start, max(size, 0))
	items := make([]*Message, n)
	copy(items, all[start:start+n])
	return NewPage(items, number, size, len(all))
}
