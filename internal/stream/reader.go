// Package stream holds the buffered cursors a session drives over a file handle.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/arloliu/recfile/errs"
)

// DefaultBufferSize is the read and write buffer size of a session.
const DefaultBufferSize = 64 * 1024

// Reader is a forward cursor over a record file.
//
// It counts consumed bytes from the origin and, for delimited files, tracks
// whether the cursor sits at the start of a row: nothing consumed yet, or the
// last consumed byte was a newline. Skips seek when the source can seek and
// discard otherwise.
type Reader struct {
	src    io.Reader
	seeker io.Seeker
	br     *bufio.Reader
	origin int64
	off    int64

	// last and prevLast are the last consumed byte and the one before it
	last     byte
	prevLast byte
}

// NewReader wraps r. When seeker is non-nil and reports its current position,
// that position becomes the origin Rewind returns to; otherwise the reader is
// forward only.
func NewReader(r io.Reader, seeker io.Seeker, size int) *Reader {
	if size <= 0 {
		size = DefaultBufferSize
	}

	rd := &Reader{src: r, br: bufio.NewReaderSize(r, size), last: '\n', prevLast: '\n'}
	if seeker != nil {
		if pos, err := seeker.Seek(0, io.SeekCurrent); err == nil {
			rd.seeker = seeker
			rd.origin = pos
		}
	}

	return rd
}

// Seekable reports whether Skip seeks and Rewind is available.
func (r *Reader) Seekable() bool {
	return r.seeker != nil
}

// Offset returns the number of bytes consumed since the origin.
func (r *Reader) Offset() int64 {
	return r.off
}

// AtRowStart reports whether the last consumed byte ended a line.
func (r *Reader) AtRowStart() bool {
	return r.last == '\n'
}

func (r *Reader) track(c byte) {
	r.prevLast = r.last
	r.last = c
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.br.Read(p)
	r.consumed(p[:n])

	return n, err
}

func (r *Reader) consumed(p []byte) {
	if len(p) == 0 {
		return
	}
	r.off += int64(len(p))
	if len(p) > 1 {
		r.last = p[len(p)-2]
	}
	r.track(p[len(p)-1])
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	c, err := r.br.ReadByte()
	if err != nil {
		return 0, err
	}
	r.off++
	r.track(c)

	return c, nil
}

// UnreadByte implements io.ByteScanner. Only the byte of the last ReadByte can be unread.
func (r *Reader) UnreadByte() error {
	if err := r.br.UnreadByte(); err != nil {
		return err
	}
	r.off--
	r.last = r.prevLast

	return nil
}

// ReadFull fills p. It returns io.ErrUnexpectedEOF or io.EOF when the source
// ends first, like io.ReadFull, along with the byte count.
func (r *Reader) ReadFull(p []byte) (int, error) {
	return io.ReadFull(r, p)
}

// Skip advances the cursor by n bytes.
//
// A seekable source seeks past whatever is not already buffered. A forward-only
// source reads and discards. Running out of input while discarding returns
// io.ErrUnexpectedEOF; a seekable source reports the shortfall on the next read.
func (r *Reader) Skip(n int64) error {
	if n <= 0 {
		return nil
	}

	buffered := int64(r.br.Buffered())
	if n <= buffered || r.seeker == nil {
		copied, err := io.CopyN(io.Discard, r.br, n)
		r.off += copied
		if copied > 0 {
			r.track(0)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return io.ErrUnexpectedEOF
			}

			return err
		}

		return nil
	}

	// the source position is ahead of the cursor by the buffered bytes
	if _, err := r.seeker.Seek(n-buffered, io.SeekCurrent); err != nil {
		return fmt.Errorf("%w: skip %d bytes: %w", errs.ErrSeekFailure, n, err)
	}
	r.br.Reset(r.src)
	r.off += n
	r.track(0)

	return nil
}

// SkipLines consumes n newline-terminated lines. Ending the input before the
// n-th newline is errs.ErrUnexpectedEOF.
func (r *Reader) SkipLines(n int64) error {
	for seen := int64(0); seen < n; {
		line, err := r.br.ReadSlice('\n')
		r.consumed(line)
		switch {
		case err == nil:
			seen++
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			return fmt.Errorf("%w: skipped %d of %d rows", errs.ErrUnexpectedEOF, seen, n)
		default:
			return err
		}
	}

	return nil
}

// FinishLine consumes the rest of the current row through its newline. It is a
// no-op right after a newline; the end of input also ends the row.
func (r *Reader) FinishLine() error {
	if r.AtRowStart() {
		return nil
	}

	for {
		line, err := r.br.ReadSlice('\n')
		r.consumed(line)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			r.track('\n')
			return nil
		default:
			return err
		}
	}
}

// Rewind moves the cursor back to the origin.
func (r *Reader) Rewind() error {
	if r.seeker == nil {
		return fmt.Errorf("%w: source cannot seek", errs.ErrSeekFailure)
	}
	if _, err := r.seeker.Seek(r.origin, io.SeekStart); err != nil {
		return fmt.Errorf("%w: rewind to %d: %w", errs.ErrSeekFailure, r.origin, err)
	}
	r.br.Reset(r.src)
	r.off = 0
	r.last, r.prevLast = '\n', '\n'

	return nil
}
