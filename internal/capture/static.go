package capture

import (
	"context"
	"sync"
	"time"
)

// StaticSource replays a fixed slice of frames in order. Used for
// development with the mock provider and in tests where a real camera
// is not available.
type StaticSource struct {
	mu     sync.Mutex
	frames []*Frame
	idx    int
	loop   bool
	closed bool
	now    func() time.Time
}

// NewStaticSource creates a source that delivers the given frames once,
// then returns ErrSourceExhausted
func NewStaticSource(frames []*Frame) *StaticSource {
	return &StaticSource{frames: frames, now: time.Now}
}

// NewLoopingSource creates a source that replays the given frames forever
func NewLoopingSource(frames []*Frame) *StaticSource {
	return &StaticSource{frames: frames, loop: true, now: time.Now}
}

// Next returns the next frame, stamping it with the current time
func (s *StaticSource) Next(ctx context.Context) (*Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSourceClosed
	}
	if s.idx >= len(s.frames) {
		if !s.loop || len(s.frames) == 0 {
			return nil, ErrSourceExhausted
		}
		s.idx = 0
	}

	src := s.frames[s.idx]
	s.idx++

	return &Frame{
		Bytes:     src.Bytes,
		Width:     src.Width,
		Height:    src.Height,
		Timestamp: s.now(),
	}, nil
}

// Close marks the source as closed
func (s *StaticSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
