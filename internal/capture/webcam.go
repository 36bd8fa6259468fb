package capture

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// WebcamSource captures frames from a local video device via OpenCV
type WebcamSource struct {
	device   *gocv.VideoCapture
	mat      gocv.Mat
	interval time.Duration
	lastRead time.Time

	mu     sync.Mutex
	closed bool
}

// NewWebcamSource opens the video device with the given id.
// interval is the minimum time between delivered frames; Next waits it out
// so the pipeline does not process the same classroom scene back to back.
func NewWebcamSource(deviceID int, interval time.Duration) (*WebcamSource, error) {
	device, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("open video device %d: %w", deviceID, err)
	}

	return &WebcamSource{
		device:   device,
		mat:      gocv.NewMat(),
		interval: interval,
	}, nil
}

// Next reads, paces and JPEG-encodes the next frame
func (s *WebcamSource) Next(ctx context.Context) (*Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSourceClosed
	}

	if wait := s.interval - time.Since(s.lastRead); wait > 0 {
		s.mu.Unlock()
		select {
		case <-ctx.Done():
			s.mu.Lock()
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		s.mu.Lock()
		if s.closed {
			return nil, ErrSourceClosed
		}
	}

	if ok := s.device.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, ErrFrameRead
	}
	s.lastRead = time.Now()

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, s.mat)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	encoded := make([]byte, len(buf.GetBytes()))
	copy(encoded, buf.GetBytes())

	return &Frame{
		Bytes:     encoded,
		Width:     s.mat.Cols(),
		Height:    s.mat.Rows(),
		Timestamp: time.Now(),
	}, nil
}

// Close releases the video device
func (s *WebcamSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	if err := s.mat.Close(); err != nil {
		return fmt.Errorf("close mat: %w", err)
	}
	return s.device.Close()
}
