package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
)

type recordingNotifier struct {
	mu    sync.Mutex
	got   []domain.Notification
	block chan struct{}
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notification) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) messages() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.got...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_DeliversInOrderPerPhone(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(4, notifier, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for _, msg := range []string{"one", "two", "three"} {
		d.Enqueue(domain.Notification{To: "0712345678", Message: msg})
	}
	waitFor(t, func() bool { return len(notifier.messages()) == 3 })

	cancel()
	d.Wait()

	got := notifier.messages()
	for i, want := range []string{"one", "two", "three"} {
		if got[i].Message != want {
			t.Fatalf("message %d: got %q, want %q", i, got[i].Message, want)
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, &recordingNotifier{}, zerolog.Nop())

	first := d.shardIndex("0712345678")
	for i := 0; i < 10; i++ {
		if d.shardIndex("0712345678") != first {
			t.Fatal("shard index must be deterministic")
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard index out of range: %d", first)
	}
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	notifier := &recordingNotifier{block: make(chan struct{})}
	d := NewDispatcher(1, notifier, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(domain.Notification{To: "0700", Message: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}

	close(notifier.block)
	cancel()
	d.Wait()
}

func TestNewDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingNotifier{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
