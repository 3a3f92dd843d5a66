package model

import (
	"fmt"
	"math"
	"testing"
	"time"
)

func makeMessages(n int) []*Message {
	start := time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)
	msgs := make([]*Message, n)
	for i := range msgs {
		msgs[i] = NewMessage(fmt.Sprintf("id-%02d", i), fmt.Sprintf("message %d", i), start.Add(time.Duration(i)*time.Second))
	}
	return msgs
}

func TestPaginate(t *testing.T) {
	all := makeMessages(20)

	tests := []struct {
		name      string
		number    int
		size      int
		wantLen   int
		wantFirst string
		hasNext   bool
		hasPrev   bool
		nextNum   int
		prevNum   int
	}{
		{"first page", 1, 10, 10, "id-00", true, false, 2, 0},
		{"second page", 2, 10, 10, "id-10", false, true, 0, 1},
		{"past the end", 3, 10, 0, "", false, true, 0, 2},
		{"far past the end", 9, 10, 0, "", false, true, 0, 8},
		{"partial last page", 3, 7, 6, "id-14", false, true, 0, 2},
		{"single page holds everything", 1, 50, 20, "id-00", false, false, 0, 0},
		{"just past the end of a partial page", 4, 7, 0, "", false, true, 0, 3},
		{"page times size exceeds MaxInt", math.MaxInt/10 + 1, 10, 0, "", false, true, 0, math.MaxInt / 10},
		{"largest page number", math.MaxInt, 10, 0, "", false, true, 0, math.MaxInt - 1},
		{"largest page number and size", math.MaxInt, math.MaxInt, 0, "", false, true, 0, math.MaxInt - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(all, tt.number, tt.size)

			if len(page.Items) != tt.wantLen {
				t.Fatalf("Expected %d items, got %d", tt.wantLen, len(page.Items))
			}
			if tt.wantLen > 0 && page.Items[0].ID != tt.wantFirst {
				t.Errorf("Expected first item %s, got %s", tt.wantFirst, page.Items[0].ID)
			}
			if page.HasNext != tt.hasNext {
				t.Errorf("Expected HasNext=%v, got %v", tt.hasNext, page.HasNext)
			}
			if page.HasPrev != tt.hasPrev {
				t.Errorf("Expected HasPrev=%v, got %v", tt.hasPrev, page.HasPrev)
			}
			if page.NextNum != tt.nextNum {
				t.Errorf("Expected NextNum=%d, got %d", tt.nextNum, page.NextNum)
			}
			if page.PrevNum != tt.prevNum {
				t.Errorf("Expected PrevNum=%d, got %d", tt.prevNum, page.PrevNum)
			}
			if page.Total != len(all) {
				t.Errorf("Expected Total=%d, got %d", len(all), page.Total)
			}
		})
	}
}

func TestPaginate_Empty(t *testing.T) {
	page := Paginate(nil, 1, 10)

	if page.Items == nil {
		t.Errorf("Expected a non-nil empty item slice")
	}
	if len(page.Items) != 0 || page.HasNext || page.HasPrev {
		t.Errorf("Expected an empty first page, got %+v", page)
	}
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	all := makeMessages(3)
	page := Paginate(all, 1, 2)
	page.Items[0] = nil

	if all[0] == nil {
		t.Errorf("Expected the input slice to be untouched")
	}
}

func TestNewPage_LargeNumbers(t *testing.T) {
	tests := []struct {
		name    string
		number  int
		size    int
		total   int
		hasNext bool
	}{
		{"product would wrap negative", math.MaxInt/10 + 1, 10, 3, false},
		{"largest page number", math.MaxInt, 100, 3, false},
		{"last page of a huge total", math.MaxInt / 100, 100, math.MaxInt, true},
		{"past a huge total", math.MaxInt/100 + 1, 100, math.MaxInt, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := NewPage(nil, tt.number, tt.size, tt.total)
			if page.HasNext != tt.hasNext {
				t.Errorf("Expected HasNext=%v, got %v", tt.hasNext, page.HasNext)
			}
			if !page.HasNext && page.NextNum != 0 {
				t.Errorf("Expected no NextNum, got %d", page.NextNum)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name   string
		number int
		size   int
		want   int
	}{
		{"first page", 1, 10, 0},
		{"below first page", -4, 10, 0},
		{"third page", 3, 10, 20},
		{"largest exact offset", math.MaxInt/10 + 1, 10, math.MaxInt / 10 * 10},
		{"saturates", math.MaxInt/10 + 2, 10, math.MaxInt},
		{"largest page number", math.MaxInt, 2, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Offset(tt.number, tt.size); got != tt.want {
				t.Errorf("Offset(%d, %d) = %d, want %d", tt.number, tt.size, got, tt.want)
			}
		})
	}
}
