package rowio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
)

// ==============================================================================
// Open
// ==============================================================================

func TestOpen_Errors(t *testing.T) {
	sch := abcSchema()

	tests := []struct {
		name   string
		handle any
		mode   format.Mode
		opts   []Option
		want   error
	}{
		{"read without schema", strings.NewReader(""), format.ModeRead, []Option{WithRowCount(1)}, errs.ErrMissingSchema},
		{"read without row count", strings.NewReader(""), format.ModeRead, []Option{WithSchema(sch)}, errs.ErrInvalidRowCount},
		{"negative row count", strings.NewReader(""), format.ModeRead, []Option{WithSchema(sch), WithRowCount(-2)}, errs.ErrInvalidRowCount},
		{"row count overflows buffer size", strings.NewReader(""), format.ModeRead, []Option{WithSchema(sch), WithRowCount(1 << 61)}, errs.ErrInvalidRowCount},
		{"read from writer only", &limitedWriter{}, format.ModeRead, []Option{WithSchema(sch), WithRowCount(1)}, errs.ErrOpen},
		{"write to reader only", strings.NewReader(""), format.ModeWrite, nil, errs.ErrOpen},
		{"invalid mode", &bytes.Buffer{}, format.Mode(0), nil, errs.ErrOpen},
		{"invalid compression", &bytes.Buffer{}, format.ModeWrite, []Option{WithCompression(format.CompressionType(9))}, errs.ErrOpen},
		{"nil byte order", &bytes.Buffer{}, format.ModeWrite, []Option{WithByteOrder(nil)}, errs.ErrOpen},
		{"tiny buffer", &bytes.Buffer{}, format.ModeWrite, []Option{WithBufferSize(4)}, errs.ErrOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.handle, tt.mode, "", tt.opts...)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, errs.ErrOpen)
		})
	}
}

func TestOpen_WriteNeedsNoSchema(t *testing.T) {
	s, err := Open(&bytes.Buffer{}, format.ModeAppend, ",")
	require.NoError(t, err)
	require.Nil(t, s.Schema())
	require.Equal(t, format.ModeAppend, s.Mode())
	require.True(t, s.Kind().IsDelimited())
	require.NoError(t, s.Close())
}

func TestOpen_Logging(t *testing.T) {
	require := require.New(t)

	core, logs := observer.New(zapcore.DebugLevel)
	sch := abcSchema()
	file := writeFile(t, ",", encodeABC(abcRows(3)), sch)

	s := openRead(t, file, ",", sch, 3, WithLogger(zap.New(core)))
	_, err := s.Read([]int64{1}, nil)
	require.NoError(err)

	opened := logs.FilterMessage("session opened").All()
	require.Len(opened, 1)
	require.Equal("Read", opened[0].ContextMap()["mode"])
	require.Equal(int64(3), opened[0].ContextMap()["rows"])

	strategy := logs.FilterMessage("read strategy").All()
	require.Len(strategy, 1)
	require.Equal("PerField", strategy[0].ContextMap()["strategy"])
	require.Equal(1, logs.FilterMessage("format table built").Len())
}

// ==============================================================================
// Mode and lifecycle
// ==============================================================================

func TestSession_WrongMode(t *testing.T) {
	sch := abcSchema()

	w, err := Open(&bytes.Buffer{}, format.ModeWrite, "")
	require.NoError(t, err)
	defer w.Close()
	_, err = w.Read(nil, nil)
	require.ErrorIs(t, err, errs.ErrWrongMode)

	r := openRead(t, encodeABC(abcRows(1)), "", sch, 1)
	require.ErrorIs(t, r.Write(encodeABC(abcRows(1)), sch), errs.ErrWrongMode)
}

func TestSession_NotOpenAfterClose(t *testing.T) {
	sch := abcSchema()
	r := openRead(t, encodeABC(abcRows(1)), "", sch, 1)
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	_, err := r.Read(nil, nil)
	require.ErrorIs(t, err, errs.ErrNotOpen)

	w, err := Open(&bytes.Buffer{}, format.ModeWrite, "")
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.ErrorIs(t, w.Write(encodeABC(abcRows(1)), sch), errs.ErrNotOpen)
}

func TestSession_CallerHandleIsNotClosed(t *testing.T) {
	h := &closeTracker{}
	s, err := Open(h, format.ModeWrite, "")
	require.NoError(t, err)
	require.NoError(t, s.Write(encodeABC(abcRows(2)), abcSchema()))
	require.NoError(t, s.Close())
	require.Zero(t, h.closed)
	require.Equal(t, 50, h.Len())
}

func TestSession_OwnedHandleIsClosedOnce(t *testing.T) {
	h := &closeTracker{}
	s, err := open(h, h, format.ModeWrite, "", nil)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	require.Equal(t, 1, h.closed)
}

func TestSession_RereadSeekable(t *testing.T) {
	require := require.New(t)

	sch := abcSchema()
	data := encodeABC(abcRows(4))
	file := append([]byte("HEADER"), writeFile(t, ",", data, sch)...)

	src := bytes.NewReader(file)
	_, err := src.Seek(6, 0)
	require.NoError(err)

	s, err := Open(src, format.ModeRead, ",", WithSchema(sch), WithRowCount(4), WithByteOrder(le))
	require.NoError(err)
	defer s.Close()

	for range 3 {
		res, err := s.Read(nil, nil)
		require.NoError(err)
		require.Equal(data, res.Data)
	}
}

func TestSession_RereadForwardOnly(t *testing.T) {
	sch := abcSchema()
	data := encodeABC(abcRows(2))

	s, err := Open(forwardOnly{bytes.NewReader(data)}, format.ModeRead, "",
		WithSchema(sch), WithRowCount(2))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Read(nil, nil)
	require.NoError(t, err)
	_, err = s.Read(nil, nil)
	require.ErrorIs(t, err, errs.ErrSeekFailure)
}

func TestSession_ForwardOnlyRowSkip(t *testing.T) {
	sch := abcSchema()
	data := encodeABC(abcRows(6))

	s, err := Open(forwardOnly{bytes.NewReader(data)}, format.ModeRead, "",
		WithSchema(sch), WithRowCount(6), WithBufferSize(16))
	require.NoError(t, err)
	defer s.Close()

	res, err := s.Read([]int64{0, 3, 5}, []string{"a", "c"})
	require.NoError(t, err)
	require.Equal(t, project(pickRows(data, 25, 0, 3, 5), 25, [2]int{0, 4}, [2]int{20, 5}), res.Data)
}

// ==============================================================================
// Compression
// ==============================================================================

func TestSession_Compressed(t *testing.T) {
	sch := abcSchema()
	rows := abcRows(50)
	data := encodeABC(rows)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		for _, delim := range []string{"", ","} {
			t.Run(ct.String()+" "+format.KindOf(delim).String(), func(t *testing.T) {
				require := require.New(t)

				file := writeFile(t, delim, data, sch, WithCompression(ct))
				require.NotEmpty(file)

				s := openRead(t, file, delim, sch, 50, WithCompression(ct))
				res, err := s.Read([]int64{3, 10, 49}, nil)
				require.NoError(err)
				require.Equal(pickRows(data, 25, 3, 10, 49), res.Data)

				_, err = s.Read(nil, nil)
				require.ErrorIs(err, errs.ErrSeekFailure, "compressed streams are read once")
				require.NoError(s.Close())
			})
		}
	}
}

// ==============================================================================
// Files
// ==============================================================================

func TestOpenFile_WriteAppendRead(t *testing.T) {
	require := require.New(t)

	sch := abcSchema()
	rows := abcRows(5)
	path := filepath.Join(t.TempDir(), "rows.csv")

	w, err := OpenFile(path, format.ModeWrite, ",", WithByteOrder(le))
	require.NoError(err)
	require.NoError(w.Write(encodeABC(rows[:2]), sch))
	require.NoError(w.Close())

	a, err := OpenFile(path, format.ModeAppend, ",", WithByteOrder(le))
	require.NoError(err)
	require.NoError(a.Write(encodeABC(rows[2:]), sch))
	require.NoError(a.Close())

	r, err := OpenFile(path, format.ModeRead, ",", WithByteOrder(le), WithSchema(sch), WithRowCount(5))
	require.NoError(err)
	res, err := r.Read(nil, nil)
	require.NoError(err)
	require.Equal(rows, decodeABC(t, res.Data))
	require.NoError(r.Close())

	// the session closed its file, so it can be removed
	require.NoError(os.Remove(path))
}

func TestOpenFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := OpenFile(filepath.Join(dir, "missing"), format.ModeRead, "", WithSchema(abcSchema()), WithRowCount(1))
	require.ErrorIs(t, err, errs.ErrOpen)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenFile(filepath.Join(dir, "x"), format.Mode(7), "")
	require.ErrorIs(t, err, errs.ErrOpen)

	path := filepath.Join(dir, "exists")
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o600))
	_, err = OpenFile(path, format.ModeRead, ",")
	require.ErrorIs(t, err, errs.ErrMissingSchema)
}
