package capture

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frames(n int) []*Frame {
	out := make([]*Frame, n)
	for i := range out {
		out[i] = &Frame{Bytes: []byte{byte(i)}, Width: 640, Height: 480}
	}
	return out
}

func TestStaticSource_DeliversInOrder(t *testing.T) {
	s := NewStaticSource(frames(3))
	defer func() {
		require.NoError(t, s.Close())
	}()

	for i := 0; i < 3; i++ {
		frame, err := s.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i)}, frame.Bytes)
		assert.False(t, frame.Timestamp.IsZero())
	}

	_, err := s.Next(context.Background())
	assert.ErrorIs(t, err, ErrSourceExhausted)
}

func TestStaticSource_Loops(t *testing.T) {
	s := NewLoopingSource(frames(2))

	for i := 0; i < 5; i++ {
		frame, err := s.Next(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []byte{byte(i % 2)}, frame.Bytes)
	}
}

func TestStaticSource_Closed(t *testing.T) {
	s := NewStaticSource(frames(3))
	require.NoError(t, s.Close())

	_, err := s.Next(context.Background())
	assert.ErrorIs(t, err, ErrSourceClosed)
}

func TestStaticSource_ContextCancelled(t *testing.T) {
	s := NewStaticSource(frames(3))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStaticSource_StampsCurrentTime(t *testing.T) {
	s := NewStaticSource(frames(1))
	fixed := time.Date(2026, 8, 29, 8, 15, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	frame, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixed, frame.Timestamp)
}
