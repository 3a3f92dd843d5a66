// Package repotest holds the behaviour every MessageRepository implementation must share.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/mrled/suns/msgsvc/internal/model"
	"github.com/mrled/suns/msgsvc/internal/repository"
)

// Factory returns a fresh, empty repository for one subtest
type Factory func(t *testing.T) repository.MessageRepository

var baseTime = time.Date(2025, 10, 17, 12, 0, 0, 0, time.UTC)

// newMessage returns message i of a sequence, each created one second after the previous
func newMessage(i int) *model.Message {
	return model.NewMessage(
		fmt.Sprintf("msg-%03d", i),
		fmt.Sprintf("message number %d", i),
		baseTime.Add(time.Duration(i)*time.Second),
	)
}

// Run exercises the repository contract against repositories produced by newRepo
func Run(t *testing.T, newRepo Factory) {
	t.Run("StoreAndGet", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		msg := model.NewMessage("abc", "Kayak", baseTime)
		if err := repo.Store(ctx, msg); err != nil {
			t.Fatalf("Failed to store message: %v", err)
		}

		got, err := repo.Get(ctx, "abc")
		if err != nil {
			t.Fatalf("Failed to get message: %v", err)
		}
		assertSameMessage(t, msg, got)
	})

	t.Run("StoreDuplicate", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		msg := newMessage(1)
		if err := repo.Store(ctx, msg); err != nil {
			t.Fatalf("Failed to store message: %v", err)
		}
		if err := repo.Store(ctx, msg); !errors.Is(err, model.ErrAlreadyExists) {
			t.Errorf("Expected ErrAlreadyExists, got %v", err)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		repo := newRepo(t)

		if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, model.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		msg := newMessage(1)
		if err := repo.Store(ctx, msg); err != nil {
			t.Fatalf("Failed to store message: %v", err)
		}

		msg.Revise("racecar", baseTime.Add(time.Hour))
		if err := repo.Update(ctx, msg); err != nil {
			t.Fatalf("Failed to update message: %v", err)
		}

		got, err := repo.Get(ctx, msg.ID)
		if err != nil {
			t.Fatalf("Failed to get message: %v", err)
		}
		assertSameMessage(t, msg, got)
		if !got.Properties.Palindrome {
			t.Errorf("Expected updated properties to be stored")
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		repo := newRepo(t)

		err := repo.Update(context.Background(), newMessage(1))
		if !errors.Is(err, model.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		msg := newMessage(1)
		if err := repo.Store(ctx, msg); err != nil {
			t.Fatalf("Failed to store message: %v", err)
		}
		if err := repo.Delete(ctx, msg.ID); err != nil {
			t.Fatalf("Failed to delete message: %v", err)
		}
		if _, err := repo.Get(ctx, msg.ID); !errors.Is(err, model.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.Delete(ctx, msg.ID); !errors.Is(err, model.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("ListInCreationOrder", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		// Store out of order
		for _, i := range []int{3, 1, 2} {
			if err := repo.Store(ctx, newMessage(i)); err != nil {
				t.Fatalf("Failed to store message: %v", err)
			}
		}

		msgs, err := repo.List(ctx)
		if err != nil {
			t.Fatalf("Failed to list messages: %v", err)
		}
		if len(msgs) != 3 {
			t.Fatalf("Expected 3 messages, got %d", len(msgs))
		}
		for i, msg := range msgs {
			if want := newMessage(i + 1).ID; msg.ID != want {
				t.Errorf("Position %d: expected %s, got %s", i, want, msg.ID)
			}
		}
	})

	t.Run("Page", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		for i := 0; i < 20; i++ {
			if err := repo.Store(ctx, newMessage(i)); err != nil {
				t.Fatalf("Failed to store message: %v", err)
			}
		}

		first, err := repo.Page(ctx, 1, 10)
		if err != nil {
			t.Fatalf("Failed to get page 1: %v", err)
		}
		if len(first.Items) != 10 || !first.HasNext || first.HasPrev {
			t.Errorf("Page 1: expected 10 items with a next page, got %d items (next=%v prev=%v)",
				len(first.Items), first.HasNext, first.HasPrev)
		}
		if len(first.Items) > 0 && first.Items[0].ID != newMessage(0).ID {
			t.Errorf("Page 1: expected first item %s, got %s", newMessage(0).ID, first.Items[0].ID)
		}

		second, err := repo.Page(ctx, 2, 10)
		if err != nil {
			t.Fatalf("Failed to get page 2: %v", err)
		}
		if len(second.Items) != 10 || second.HasNext || !second.HasPrev {
			t.Errorf("Page 2: expected 10 items and no next page, got %d items (next=%v prev=%v)",
				len(second.Items), second.HasNext, second.HasPrev)
		}
		if len(second.Items) > 0 && second.Items[0].ID != newMessage(10).ID {
			t.Errorf("Page 2: expected first item %s, got %s", newMessage(10).ID, second.Items[0].ID)
		}

		third, err := repo.Page(ctx, 3, 10)
		if err != nil {
			t.Fatalf("Failed to get page 3: %v", err)
		}
		if len(third.Items) != 0 || third.HasNext {
			t.Errorf("Page 3: expected no items and no next page, got %d items (next=%v)",
				len(third.Items), third.HasNext)
		}
		if third.Total != 20 {
			t.Errorf("Expected total of 20, got %d", third.Total)
		}
	})

	t.Run("PageFarPastTheEnd", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		for i := 0; i < 3; i++ {
			if err := repo.Store(ctx, newMessage(i)); err != nil {
				t.Fatalf("Failed to store message: %v", err)
			}
		}

		for _, number := range []int{math.MaxInt, math.MaxInt/10 + 1} {
			page, err := repo.Page(ctx, number, 10)
			if err != nil {
				t.Fatalf("Failed to get page %d: %v", number, err)
			}
			if len(page.Items) != 0 || page.HasNext || !page.HasPrev {
				t.Errorf("Page %d: expected no items and only a previous page, got %d items (next=%v prev=%v)",
					number, len(page.Items), page.HasNext, page.HasPrev)
			}
			if page.Total != 3 {
				t.Errorf("Page %d: expected total of 3, got %d", number, page.Total)
			}
		}
	})

	t.Run("PageEmpty", func(t *testing.T) {
		repo := newRepo(t)

		page, err := repo.Page(context.Background(), 1, 10)
		if err != nil {
			t.Fatalf("Failed to get page: %v", err)
		}
		if len(page.Items) != 0 || page.HasNext || page.HasPrev {
			t.Errorf("Expected an empty page, got %+v", page)
		}
	})

	t.Run("ReturnedMessagesAreCopies", func(t *testing.T) {
		ctx := context.Background()
		repo := newRepo(t)

		msg := newMessage(1)
		if err := repo.Store(ctx, msg); err != nil {
			t.Fatalf("Failed to store message: %v", err)
		}
		msg.Content = "changed after store"

		got, err := repo.Get(ctx, msg.ID)
		if err != nil {
			t.Fatalf("Failed to get message: %v", err)
		}
		got.Content = "changed after get"

		again, err := repo.Get(ctx, msg.ID)
		if err != nil {
			t.Fatalf("Failed to get message: %v", err)
		}
		if again.Content != newMessage(1).Content {
			t.Errorf("Expected stored content to be unaffected, got %q", again.Content)
		}
	})
}

// assertSameMessage compares every field, allowing for timestamp location differences
func assertSameMessage(t *testing.T, want, got *model.Message) {
	t.Helper()

	if got.ID != want.ID {
		t.Errorf("Expected ID %s, got %s", want.ID, got.ID)
	}
	if got.Content != want.Content {
		t.Errorf("Expected content %q, got %q", want.Content, got.Content)
	}
	if !got.DateCreated.Equal(want.DateCreated) {
		t.Errorf("Expected DateCreated %v, got %v", want.DateCreated, got.DateCreated)
	}
	if !got.DateModified.Equal(want.DateModified) {
		t.Errorf("Expected DateModified %v, got %v", want.DateModified, got.DateModified)
	}
	if got.Properties != want.Properties {
		t.Errorf("Expected properties %+v, got %+v", want.Properties, got.Properties)
	}
}
