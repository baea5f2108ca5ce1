package stream

import (
	"bufio"
	"io"
)

// Writer is a buffered sink that counts the bytes accepted from the caller.
type Writer struct {
	bw *bufio.Writer
	n  int64
}

// NewWriter wraps w with a buffer of size bytes (DefaultBufferSize when size <= 0).
func NewWriter(w io.Writer, size int) *Writer {
	if size <= 0 {
		size = DefaultBufferSize
	}

	return &Writer{bw: bufio.NewWriterSize(w, size)}
}

// Write implements io.Writer. Writes larger than the buffer go straight to the sink.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.bw.Write(p)
	w.n += int64(n)

	return n, err
}

// WriteString implements io.StringWriter.
func (w *Writer) WriteString(s string) (int, error) {
	n, err := w.bw.WriteString(s)
	w.n += int64(n)

	return n, err
}

// Flush writes any buffered bytes to the sink.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Written returns the number of bytes accepted so far, flushed or not.
func (w *Writer) Written() int64 {
	return w.n
}

// Buffered returns the number of bytes not yet flushed.
func (w *Writer) Buffered() int {
	return w.bw.Buffered()
}
