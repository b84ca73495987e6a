package consumer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/md-rashed-zaman/storefront/libs/kafkax"
	"github.com/segmentio/kafka-go"
)

type memInbox struct {
	seen      map[string]bool
	forgotten []string
}

func (m *memInbox) Record(_ context.Context, id, _ string) (bool, error) {
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

func (m *memInbox) Forget(_ context.Context, id string) error {
	delete(m.seen, id)
	m.forgotten = append(m.forgotten, id)
	return nil
}

type sliceReader struct {
	msgs      []kafka.Message
	cancel    context.CancelFunc
	closed    bool
	committed []string
}

func (r *sliceReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, kafkax.ExtractEventMeta(m).EventID)
	}
	return nil
}

func (r *sliceReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.msgs) == 0 {
		r.cancel()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	msg := r.msgs[0]
	r.msgs = r.msgs[1:]
	return msg, nil
}

func (r *sliceReader) Close() error {
	r.closed = true
	return nil
}

func event(id string) kafka.Message {
	return kafka.Message{
		Topic:   "merchant.delivery_settings.updated.v1",
		Headers: []kafka.Header{{Key: kafkax.HeaderEventID, Value: []byte(id)}},
	}
}

func TestConsumer_DedupesAndRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &sliceReader{msgs: []kafka.Message{event("a"), event("a"), event("b"), event("b")}, cancel: cancel}
	inbox := &memInbox{seen: map[string]bool{}}

	var handled []string
	failB := true
	handler := func(_ context.Context, msg kafka.Message) error {
		id := kafkax.ExtractEventMeta(msg).EventID
		handled = append(handled, id)
		if id == "b" && failB {
			failB = false
			return errors.New("redis unavailable")
		}
		return nil
	}

	c := newConsumer(reader, slog.New(slog.NewTextHandler(io.Discard, nil)), inbox, handler)
	c.backoff = 0
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"a", "b", "b"}
	if len(handled) != len(want) {
		t.Fatalf("handled %v, want %v", handled, want)
	}
	for i := range want {
		if handled[i] != want[i] {
			t.Fatalf("handled %v, want %v", handled, want)
		}
	}
	if len(inbox.forgotten) != 0 {
		t.Fatalf("nothing should be forgotten after a successful retry, got %v", inbox.forgotten)
	}
	if len(reader.committed) != 4 {
		t.Fatalf("expected every processed event to be committed, got %v", reader.committed)
	}
	if !reader.closed {
		t.Fatalf("reader not closed")
	}
}

func TestConsumer_ForgetsEventAfterExhaustedRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &sliceReader{msgs: []kafka.Message{event("c")}, cancel: cancel}
	inbox := &memInbox{seen: map[string]bool{}}
	calls := 0
	handler := func(context.Context, kafka.Message) error {
		calls++
		return errors.New("still failing")
	}

	c := newConsumer(reader, slog.New(slog.NewTextHandler(io.Discard, nil)), inbox, handler)
	c.backoff = 0
	_ = c.Run(ctx)

	if calls != maxAttempts {
		t.Fatalf("expected %d attempts, got %d", maxAttempts, calls)
	}
	if len(inbox.forgotten) != 1 || inbox.seen["c"] {
		t.Fatalf("expected event c to be forgotten, got %v", inbox.forgotten)
	}
}

func TestConsumer_ShutdownLeavesEventUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &sliceReader{msgs: []kafka.Message{event("d")}, cancel: cancel}
	inbox := &memInbox{seen: map[string]bool{}}
	handler := func(context.Context, kafka.Message) error {
		cancel()
		return context.Canceled
	}

	c := newConsumer(reader, slog.New(slog.NewTextHandler(io.Discard, nil)), inbox, handler)
	if err := c.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(reader.committed) != 0 {
		t.Fatalf("interrupted event must not be committed, got %v", reader.committed)
	}
	if len(inbox.forgotten) != 1 || inbox.seen["d"] {
		t.Fatalf("expected event d to be forgotten for redelivery, got %v", inbox.forgotten)
	}
}
