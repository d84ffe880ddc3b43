package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/opencampus/portal/internal/domain"
	"github.com/opencampus/portal/internal/logger"
)

func testChatLogs(store TableStore) *ChatLogs {
	r := NewChatLogs(store, logger.Nop())
	r.now = func() time.Time { return testNow }
	return r
}

func TestRecentReturnsTrailingSliceNewestFirst(t *testing.T) {
	f := newFakeStore()
	r := testChatLogs(f)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		entry := domain.ChatLogEntry{
			Timestamp: testNow.Add(time.Duration(i) * time.Minute),
			Question:  fmt.Sprintf("question %d", i),
			ModelUsed: "gemini",
			Status:    domain.ChatStatusSuccess,
		}
		if err := r.Append(ctx, entry); err != nil {
			t.Fatalf("Append() error: %v", err)
		}
	}

	got, err := r.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Recent(3) returned %d entries, want 3", len(got))
	}
	for i, want := range []string{"question 5", "question 4", "question 3"} {
		if got[i].Question != want {
			t.Errorf("Recent()[%d].Question = %q, want %q", i, got[i].Question, want)
		}
	}
}

func TestRecentSmallerThanWindow(t *testing.T) {
	f := newFakeStore()
	r := testChatLogs(f)
	ctx := context.Background()

	if err := r.Append(ctx, domain.ChatLogEntry{Question: "only one", Status: domain.ChatStatusError}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got, err := r.Recent(ctx, 50)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 1 || got[0].Question != "only one" {
		t.Errorf("Recent() = %v, want just the single entry", got)
	}
	if got[0].Timestamp.IsZero() {
		t.Errorf("Append() should stamp entries with no timestamp")
	}
}

func TestSourceLinksRoundTrip(t *testing.T) {
	f := newFakeStore()
	r := testChatLogs(f)
	ctx := context.Background()

	links := []string{"https://campus.edu/library", "https://campus.edu/hours"}
	entry := domain.ChatLogEntry{
		Question:        "library hours?",
		ModelUsed:       "groq",
		Status:          domain.ChatStatusSuccess,
		FinalAnswerHTML: "<p>Open 8-22.</p>",
		SourceLinks:     links,
	}
	if err := r.Append(ctx, entry); err != nil {
		t.Fatalf("Append() error: %v", err)
	}

	got, err := r.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Recent() returned %d entries, want 1", len(got))
	}
	if len(got[0].SourceLinks) != 2 || got[0].SourceLinks[0] != links[0] || got[0].SourceLinks[1] != links[1] {
		t.Errorf("SourceLinks = %v, want %v", got[0].SourceLinks, links)
	}
}
