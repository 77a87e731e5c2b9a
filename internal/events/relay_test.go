package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"storefront/internal/repository/outbox"
)

type stubStore struct {
	pending  []outbox.Record
	fetchErr error
	marked   []int64
}

func (s *stubStore) FetchPending(_ context.Context, limit int) ([]outbox.Record, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	return s.pending, nil
}

func (s *stubStore) MarkSent(_ context.Context, ids ...int64) error {
	s.marked = append(s.marked, ids...)
	return nil
}

type stubWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *stubWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func TestFlushPublishesAndMarks(t *testing.T) {
	store := &stubStore{pending: []outbox.Record{
		{ID: 1, EventID: "e-1", Topic: "storefront.orders", Key: "o-1", Payload: json.RawMessage(`{"orderId":"o-1"}`)},
		{ID: 2, EventID: "e-2", Topic: "storefront.orders", Key: "o-2", Payload: json.RawMessage(`{"orderId":"o-2"}`)},
	}}
	writer := &stubWriter{}
	relay := NewRelay(store, writer, nil)
	relay.now = func() time.Time { return time.Unix(100, 0) }

	n, err := relay.Flush(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []int64{1, 2}, store.marked)
	require.Len(t, writer.msgs, 2)
	assert.Equal(t, "storefront.orders", writer.msgs[0].Topic)
	assert.Equal(t, "o-1", string(writer.msgs[0].Key))
	assert.JSONEq(t, `{"orderId":"o-1"}`, string(writer.msgs[0].Value))
	assert.Equal(t, "e-1", string(writer.msgs[0].Headers[0].Value))
}

func TestFlushLeavesRecordsPendingOnPublishFailure(t *testing.T) {
	store := &stubStore{pending: []outbox.Record{{ID: 7, Topic: "storefront.orders"}}}
	relay := NewRelay(store, &stubWriter{err: errors.New("broker down")}, nil)

	n, err := relay.Flush(context.Background())
	require.Error(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.marked)
}

func TestFlushNothingPending(t *testing.T) {
	writer := &stubWriter{}
	n, err := NewRelay(&stubStore{}, writer, nil).Flush(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, writer.msgs)
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewRelay(&stubStore{}, &stubWriter{}, nil).Run(ctx, time.Millisecond)
	assert.NoError(t, err)
}
