package utils

import (
	"io"
	"sync"
)

type flusher interface {
	Flush() error
}

// FlushingWriter serializes writes to an underlying writer and flushes buffered writers after every write,
// so progress lines appear while a long run is still in flight.
type FlushingWriter struct {
	mutex       sync.Mutex
	destination io.Writer
}

// NewFlushingWriter wraps destination. A nil destination yields io.Discard; an existing FlushingWriter is returned unchanged.
func NewFlushingWriter(destination io.Writer) io.Writer {
	switch typedDestination := destination.(type) {
	case nil:
		return io.Discard
	case *FlushingWriter:
		return typedDestination
	default:
		return &FlushingWriter{destination: destination}
	}
}

// Write forwards data and flushes the destination when it supports Flush.
func (writer *FlushingWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	bytesWritten, writeError := writer.destination.Write(data)
	if writeError != nil {
		return bytesWritten, writeError
	}
	if flushableDestination, canFlush := writer.destination.(flusher); canFlush {
		if flushError := flushableDestination.Flush(); flushError != nil {
			return bytesWritten, flushError
		}
	}
	return bytesWritten, nil
}
