package util

import "io"

// flusher is the subset of bufio.Writer (and friends) the flush
// adapter cares about.
type flusher interface {
	Flush() error
}

// FlushWriter forwards writes to an underlying writer and flushes it
// after every successful write, so a consumer reading through a pipe
// observes output without delay.  It is applied once, in the one-shot
// and batch modes; interactive output is left to the terminal driver.
type FlushWriter struct {
	w io.Writer
	f flusher
}

// NewFlushWriter wraps w with write-through flushing.  Writers without
// a Flush method are already unbuffered from this package's point of
// view and are returned unchanged.
func NewFlushWriter(w io.Writer) io.Writer {
	if f, ok := w.(flusher); ok {
		return &FlushWriter{w: w, f: f}
	}
	return w
}

// Write writes p and flushes the underlying buffers.
func (fw *FlushWriter) Write(p []byte) (int, error) {
	n, err := fw.w.Write(p)
	if err != nil {
		return n, err
	}
	if err := fw.f.Flush(); err != nil {
		return n, err
	}
	return n, nil
}
