package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Skotchmaster/bookstore/pkg/events"
	"github.com/Skotchmaster/bookstore/services/store/internal/messages"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/segmentio/kafka-go"
)

type BookIndex interface {
	Upsert(ctx context.Context, b models.Book) error
	Delete(ctx context.Context, id uint) error
}

// MessageReader is the subset of *kafka.Reader the indexer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

func NewBookReader(brokers []string, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  groupID,
		Topic:    events.TopicBooks,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  time.Second,
	})
}

// Indexer applies book events to the search index.
type Indexer struct {
	Reader MessageReader
	Index  BookIndex
	Log    *slog.Logger
}

// Run consumes until ctx is cancelled. Messages that cannot be applied are
// logged and committed so one bad event cannot stall the partition.
func (ix *Indexer) Run(ctx context.Context) error {
	for {
		m, err := ix.Reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch: %w", err)
		}

		if err := ix.Handle(ctx, m.Value); err != nil {
			ix.Log.Error("index_event_error", "offset", m.Offset, "key", string(m.Key), "error", err)
		}

		if err := ix.Reader.CommitMessages(ctx, m); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit: %w", err)
		}
	}
}

func (ix *Indexer) Handle(ctx context.Context, payload []byte) error {
	var ev messages.BookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	switch ev.Type {
	case messages.BookCreated, messages.BookUpdated, messages.BookRatingChanged:
		if ev.Book == nil {
			return errors.New("book event without book")
		}
		return ix.Index.Upsert(ctx, *ev.Book)
	case messages.BookDeleted:
		return ix.Index.Delete(ctx, ev.BookID)
	default:
		ix.Log.Debug("index_event_skipped", "type", ev.Type)
		return nil
	}
}
