package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := NewProducerWithWriter(w, "document-scored")

	err := p.Publish(context.Background(), Event{Key: "doc1", Value: map[string]int{"n": 2}})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "doc1", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"n":2}`, string(w.msgs[0].Value))

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestPublishWrapsWriterError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	p := NewProducerWithWriter(w, "t")
	err := p.Publish(context.Background(), Event{Key: "k", Value: "v"})
	require.Error(t, err)
	assert.ErrorIs(t, err, w.err)
}

func TestPublishUnmarshalableValue(t *testing.T) {
	p := NewProducerWithWriter(&fakeWriter{}, "t")
	err := p.Publish(context.Background(), Event{Key: "k", Value: make(chan int)})
	assert.Error(t, err)
}
