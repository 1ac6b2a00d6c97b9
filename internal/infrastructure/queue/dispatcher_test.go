package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

type recorder struct {
	mu        sync.Mutex
	notified  []domain.Notice
	broadcast []domain.Notice
	block     chan struct{}
}

func (r *recorder) Notify(_ context.Context, n domain.Notice) {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notified = append(r.notified, n)
}

func (r *recorder) Broadcast(_ context.Context, n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcast = append(r.broadcast, n)
}

func (r *recorder) snapshot() ([]domain.Notice, []domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notice(nil), r.notified...), append([]domain.Notice(nil), r.broadcast...)
}

func TestDispatcher_PreservesPerRecipientOrder(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(4, rec, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 0; i < 50; i++ {
		d.Notify(context.Background(), domain.Notice{
			Kind:        domain.NotifyComment,
			RecipientID: "u1",
			Message:     string(rune('A' + i%26)),
		})
	}
	d.Broadcast(context.Background(), domain.Notice{Kind: domain.NotifyEvent, SenderID: "u2"})

	require.Eventually(t, func() bool {
		n, b := rec.snapshot()
		return len(n) == 50 && len(b) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	d.Wait()

	notified, _ := rec.snapshot()
	for i, n := range notified {
		assert.Equal(t, string(rune('A'+i%26)), n.Message, "notice %d out of order", i)
	}
}

func TestDispatcher_SkipsSelfNotices(t *testing.T) {
	rec := &recorder{}
	d := NewDispatcher(1, rec, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Notify(context.Background(), domain.Notice{RecipientID: "u1", SenderID: "u1"})
	cancel()
	d.Wait()

	notified, _ := rec.snapshot()
	assert.Empty(t, notified)
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	rec := &recorder{block: make(chan struct{})}
	d := NewDispatcher(1, rec, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	// One notice is held by the blocked worker, channelBuffer more fill the
	// queue, and the rest must be dropped without blocking the caller.
	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Notify(context.Background(), domain.Notice{RecipientID: "u1"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full queue")
	}

	close(rec.block)
	cancel()
	d.Wait()

	notified, _ := rec.snapshot()
	assert.Less(t, len(notified), channelBuffer+10)
	assert.GreaterOrEqual(t, len(notified), channelBuffer)
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recorder{}, zerolog.Nop())
	first := d.shardIndex("user-42")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, d.shardIndex("user-42"))
	}
	assert.GreaterOrEqual(t, first, 0)
	assert.Less(t, first, 8)
}
