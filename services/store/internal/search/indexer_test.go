package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Skotchmaster/bookstore/services/store/internal/messages"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memIndex struct {
	docs    map[uint]models.Book
	deleted []uint
	failOn  uint
}

func (m *memIndex) Upsert(_ context.Context, b models.Book) error {
	if b.ID == m.failOn {
		return errors.New("index unavailable")
	}
	m.docs[b.ID] = b
	return nil
}

func (m *memIndex) Delete(_ context.Context, id uint) error {
	delete(m.docs, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// scriptedReader replays messages, then blocks until the context ends.
type scriptedReader struct {
	mu        sync.Mutex
	msgs      []kafka.Message
	committed []int64
}

func (r *scriptedReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.msgs) == 0 {
		r.mu.Unlock()
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := r.msgs[0]
	r.msgs = r.msgs[1:]
	r.mu.Unlock()
	return m, nil
}

func (r *scriptedReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *scriptedReader) commits() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.committed)
}

func (r *scriptedReader) Close() error { return nil }

func message(t *testing.T, offset int64, ev messages.BookEvent) kafka.Message {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{Offset: offset, Key: []byte(messages.Key(ev.BookID)), Value: data}
}

func TestIndexer_RunAppliesEventsAndCommits(t *testing.T) {
	idx := &memIndex{docs: map[uint]models.Book{}, failOn: 99}
	reader := &scriptedReader{msgs: []kafka.Message{
		message(t, 0, messages.BookEvent{Type: messages.BookCreated, BookID: 1, Book: &models.Book{ID: 1, Title: "One"}}),
		message(t, 1, messages.BookEvent{Type: messages.BookCreated, BookID: 2, Book: &models.Book{ID: 2, Title: "Two"}}),
		message(t, 2, messages.BookEvent{Type: messages.BookRatingChanged, BookID: 1, Book: &models.Book{ID: 1, Title: "One", Rating: 3}}),
		message(t, 3, messages.BookEvent{Type: messages.BookDeleted, BookID: 2}),
		message(t, 4, messages.BookEvent{Type: messages.BookUpdated, BookID: 99, Book: &models.Book{ID: 99}}),
		{Offset: 5, Value: []byte("not json")},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	ix := &Indexer{Reader: reader, Index: idx, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	done := make(chan error, 1)
	go func() { done <- ix.Run(ctx) }()

	require.Eventually(t, func() bool { return reader.commits() == 6 }, time.Second, 5*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, []int64{0, 1, 2, 3, 4, 5}, reader.committed)
	require.Contains(t, idx.docs, uint(1))
	assert.Equal(t, 3.0, idx.docs[1].Rating)
	assert.NotContains(t, idx.docs, uint(2))
	assert.Equal(t, []uint{2}, idx.deleted)
}

func TestIndexer_HandleRejectsBookEventWithoutBook(t *testing.T) {
	ix := &Indexer{Index: &memIndex{docs: map[uint]models.Book{}}, Log: slog.New(slog.NewTextHandler(io.Discard, nil))}
	data, _ := json.Marshal(messages.BookEvent{Type: messages.BookUpdated, BookID: 5})
	require.Error(t, ix.Handle(context.Background(), data))

	data, _ = json.Marshal(messages.BookEvent{Type: "book_unknown", BookID: 5})
	require.NoError(t, ix.Handle(context.Background(), data))
}
