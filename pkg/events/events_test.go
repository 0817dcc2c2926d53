package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublish(t *testing.T) {
	t.Parallel()

	var m Memory
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, TopicOrders, "1", map[string]any{"type": "order_created", "order_id": 1}))
	require.NoError(t, m.Publish(ctx, TopicBooks, "7", map[string]any{"type": "book_deleted"}))

	orders := m.Messages(TopicOrders)
	require.Len(t, orders, 1)
	assert.Equal(t, "1", orders[0].Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(orders[0].Value, &got))
	assert.Equal(t, "order_created", got["type"])

	assert.Len(t, m.Messages(""), 2)
}

func TestMemoryPublishRejectsUnencodable(t *testing.T) {
	t.Parallel()

	var m Memory
	err := m.Publish(context.Background(), TopicBooks, "1", make(chan int))
	assert.Error(t, err)
	assert.Empty(t, m.Messages(""))
}

func TestNop(t *testing.T) {
	t.Parallel()

	var p Publisher = Nop{}
	assert.NoError(t, p.Publish(context.Background(), TopicBooks, "1", struct{}{}))
	assert.NoError(t, p.Close())
}
