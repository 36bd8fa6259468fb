// Package capture fornece a aquisição de frames da câmera da sala.
package capture

import (
	"context"
	"errors"
	"time"
)

// Frame is a single acquired camera frame, JPEG encoded
type Frame struct {
	Bytes     []byte
	Width     int
	Height    int
	Timestamp time.Time
}

// FrameSource produz frames para o pipeline de reconhecimento.
// Next bloqueia até um frame estar disponível ou o contexto ser cancelado.
type FrameSource interface {
	Next(ctx context.Context) (*Frame, error)
	Close() error
}

var (
	// ErrSourceClosed is returned by Next after Close has been called
	ErrSourceClosed = errors.New("frame source closed")

	// ErrFrameRead indicates the device failed to deliver a frame
	ErrFrameRead = errors.New("failed to read frame from device")

	// ErrSourceExhausted is returned by finite sources when all frames were consumed
	ErrSourceExhausted = errors.New("frame source exhausted")
)
