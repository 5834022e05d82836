package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ccontapub/accounts-api/internal/core/ports"
)

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []ports.Notification
	resets        []ports.Notification
	done          chan struct{}
}

func newRecordingNotifier(expected int) *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, expected)}
}

func (n *recordingNotifier) SendConfirmation(_ context.Context, p ports.Notification) error {
	n.mu.Lock()
	n.confirmations = append(n.confirmations, p)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, p ports.Notification) error {
	n.mu.Lock()
	n.resets = append(n.resets, p)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func waitFor(t *testing.T, done <-chan struct{}, count int) {
	t.Helper()
	for i := 0; i < count; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for delivery %d of %d", i+1, count)
		}
	}
}

func TestDispatcher_DeliversBothKinds(t *testing.T) {
	rec := newRecordingNotifier(2)
	d := NewDispatcher(2, rec, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	if err := d.SendConfirmation(context.Background(), ports.Notification{Email: "a@x.com", Name: "A", Token: "111111"}); err != nil {
		t.Fatalf("enqueue confirmation: %v", err)
	}
	if err := d.SendPasswordReset(context.Background(), ports.Notification{Email: "b@x.com", Name: "B", Token: "222222"}); err != nil {
		t.Fatalf("enqueue reset: %v", err)
	}

	waitFor(t, rec.done, 2)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.confirmations) != 1 || rec.confirmations[0].Token != "111111" {
		t.Fatalf("unexpected confirmations: %+v", rec.confirmations)
	}
	if len(rec.resets) != 1 || rec.resets[0].Token != "222222" {
		t.Fatalf("unexpected resets: %+v", rec.resets)
	}
}

func TestDispatcher_SameRecipientKeepsOrder(t *testing.T) {
	const n = 20
	rec := newRecordingNotifier(n)
	d := NewDispatcher(4, rec, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	for i := 0; i < n; i++ {
		_ = d.SendConfirmation(context.Background(), ports.Notification{
			Email: "same@x.com",
			Token: string(rune('a' + i)),
		})
	}

	waitFor(t, rec.done, n)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for i := 0; i < n; i++ {
		if rec.confirmations[i].Token != string(rune('a'+i)) {
			t.Fatalf("order broken at %d: %q", i, rec.confirmations[i].Token)
		}
	}
}
